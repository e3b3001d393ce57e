package ports

import (
	"context"
	"time"

	"github.com/Vovarama1992/newsroom/internal/models"
)

type InteractionRepository interface {
	// Toggle inserts or removes a like/save row and moves the matching
	// article counter by one in the same transaction.
	Toggle(ctx context.Context, userID, articleID string, t models.InteractionType) (active bool, count int64, err error)

	// Record appends a non-unique interaction (share, view, comment).
	// Shares also bump the article counter; the new counter is returned.
	Record(ctx context.Context, userID, articleID string, t models.InteractionType) (int64, error)

	ListSince(ctx context.Context, userID string, since time.Time) ([]models.Interaction, error)
	SavedArticles(ctx context.Context, userID string, limit, offset int) ([]models.Article, error)
	ActiveUsersInCategory(ctx context.Context, categoryID string, since time.Time) ([]string, error)
}
