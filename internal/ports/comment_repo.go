package ports

import (
	"context"

	"github.com/Vovarama1992/newsroom/internal/models"
)

type CommentRepository interface {
	Create(ctx context.Context, c *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	ListByArticle(ctx context.Context, articleID string, status models.CommentStatus) ([]models.Comment, error)
	ListByStatus(ctx context.Context, status models.CommentStatus, limit, offset int) ([]models.Comment, error)

	// SetStatus keeps articles.comments_count equal to the number of
	// approved comments.
	SetStatus(ctx context.Context, id string, status models.CommentStatus) (*models.Comment, error)
	Delete(ctx context.Context, id string) error
}
