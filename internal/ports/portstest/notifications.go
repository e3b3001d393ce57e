package portstest

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/Vovarama1992/newsroom/internal/models"
	"github.com/Vovarama1992/newsroom/internal/ports"
)

type NotificationRepo struct {
	mu    sync.Mutex
	items []models.SmartNotification

	InsertErr     error
	InsertBatches [][]models.SmartNotification
	UnreadQueries int
}

func NewNotificationRepo() *NotificationRepo {
	return &NotificationRepo{}
}

var _ ports.NotificationRepository = (*NotificationRepo)(nil)

func deduped(t models.NotificationType) bool {
	return t == models.NotificationNewArticle || t == models.NotificationBreaking
}

func (r *NotificationRepo) InsertBatch(_ context.Context, items []models.SmartNotification) ([]models.SmartNotification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.InsertBatches = append(r.InsertBatches, slices.Clone(items))
	if r.InsertErr != nil {
		return nil, r.InsertErr
	}

	var out []models.SmartNotification
	for _, n := range items {
		if n.ArticleID != nil && deduped(n.Type) && r.exists(n) {
			continue
		}
		n.CreatedAt = time.Now()
		r.items = append(r.items, n)
		out = append(out, n)
	}
	return out, nil
}

func (r *NotificationRepo) exists(n models.SmartNotification) bool {
	for _, o := range r.items {
		if o.UserID == n.UserID && o.Type == n.Type && o.ArticleID != nil && *o.ArticleID == *n.ArticleID {
			return true
		}
	}
	return false
}

func (r *NotificationRepo) All() []models.SmartNotification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.items)
}

func (r *NotificationRepo) ListForUser(_ context.Context, userID string, unreadOnly bool, limit, offset int) ([]models.SmartNotification, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.SmartNotification
	for _, n := range r.items {
		if n.UserID == userID && (!unreadOnly || n.ReadAt == nil) {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	total := len(out)
	if offset >= len(out) {
		return nil, total, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (r *NotificationRepo) MarkRead(_ context.Context, userID string, ids []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	var n int64
	for i := range r.items {
		it := &r.items[i]
		if it.UserID == userID && it.ReadAt == nil && slices.Contains(ids, it.ID) {
			it.ReadAt = &now
			n++
		}
	}
	return n, nil
}

func (r *NotificationRepo) MarkAllRead(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	var n int64
	for i := range r.items {
		it := &r.items[i]
		if it.UserID == userID && it.ReadAt == nil {
			it.ReadAt = &now
			n++
		}
	}
	return n, nil
}

func (r *NotificationRepo) UnreadCount(_ context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.UnreadQueries++
	n := 0
	for _, it := range r.items {
		if it.UserID == userID && it.ReadAt == nil {
			n++
		}
	}
	return n, nil
}

// Publisher records events instead of sending them.
type Publisher struct {
	mu            sync.Mutex
	Published     []models.Article
	Notifications []models.SmartNotification
	Err           error
}

var _ ports.EventPublisher = (*Publisher)(nil)

func (p *Publisher) ArticlePublished(_ context.Context, a models.Article) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Published = append(p.Published, a)
	return p.Err
}

func (p *Publisher) NotificationsCreated(_ context.Context, items []models.SmartNotification) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Notifications = append(p.Notifications, items...)
	return p.Err
}

func (p *Publisher) PublishedIDs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	ids := make([]string, 0, len(p.Published))
	for _, a := range p.Published {
		ids = append(ids, a.ID)
	}
	return ids
}

// Pusher records websocket pushes per user.
type Pusher struct {
	mu     sync.Mutex
	Pushed map[string][][]byte
}

var _ ports.NotificationPusher = (*Pusher)(nil)

func NewPusher() *Pusher {
	return &Pusher{Pushed: map[string][][]byte{}}
}

func (p *Pusher) PushToUser(userID string, payload []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Pushed[userID] = append(p.Pushed[userID], payload)
}

func (p *Pusher) Count(userID string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Pushed[userID])
}
