package ports

import (
	"context"
	"time"

	"github.com/Vovarama1992/newsroom/internal/models"
)

// Cache stores opaque payloads with a TTL. Get reports a miss with ok=false.
type Cache interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeletePattern(ctx context.Context, pattern string) error
}

type EventPublisher interface {
	ArticlePublished(ctx context.Context, a models.Article) error
	NotificationsCreated(ctx context.Context, items []models.SmartNotification) error
}

// NotificationPusher delivers payloads to connected clients of a user.
type NotificationPusher interface {
	PushToUser(userID string, payload []byte)
}
