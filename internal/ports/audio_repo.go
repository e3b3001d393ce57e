package ports

import (
	"context"

	"github.com/Vovarama1992/newsroom/internal/models"
)

type AudioNewsletterRepository interface {
	Create(ctx context.Context, n *models.AudioNewsletter) error
	GetByID(ctx context.Context, id string) (*models.AudioNewsletter, error)
	List(ctx context.Context, publishedOnly bool, limit, offset int) ([]models.AudioNewsletter, error)
	Delete(ctx context.Context, id string) error
	SetPublished(ctx context.Context, id string, published bool) error

	// SetFeatured clears the flag on every other newsletter atomically.
	SetFeatured(ctx context.Context, id string) error
	IncrementPlays(ctx context.Context, id string) (int64, error)
}
