package ports

import (
	"context"

	"github.com/Vovarama1992/newsroom/internal/models"
)

type Claims struct {
	UserID string      `json:"user_id"`
	Role   models.Role `json:"role"`
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	Register(ctx context.Context, email, name, password string) (*models.User, error)
	ValidateToken(ctx context.Context, token string) (*Claims, error)
}
