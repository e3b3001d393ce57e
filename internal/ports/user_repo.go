package ports

import (
	"context"

	"github.com/Vovarama1992/newsroom/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ActiveIDs(ctx context.Context) ([]string, error)
	ListRoles(ctx context.Context) ([]models.RoleDefinition, error)
}
