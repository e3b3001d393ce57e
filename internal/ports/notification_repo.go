package ports

import (
	"context"

	"github.com/Vovarama1992/newsroom/internal/models"
)

type NotificationRepository interface {
	// InsertBatch skips rows that duplicate (user_id, article_id, type) and
	// returns only the rows actually stored.
	InsertBatch(ctx context.Context, items []models.SmartNotification) ([]models.SmartNotification, error)
	ListForUser(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]models.SmartNotification, int, error)
	MarkRead(ctx context.Context, userID string, ids []string) (int64, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
}
