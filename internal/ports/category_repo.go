package ports

import (
	"context"

	"github.com/Vovarama1992/newsroom/internal/models"
)

type CategoryRepository interface {
	List(ctx context.Context, active *bool) ([]models.Category, error)
	GetByID(ctx context.Context, id string) (*models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	Create(ctx context.Context, c *models.Category) error
	Update(ctx context.Context, c *models.Category) error
	Delete(ctx context.Context, id string) error
}
