package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/newsroom/internal/metrics"
	"github.com/Vovarama1992/newsroom/internal/models"
	"github.com/Vovarama1992/newsroom/internal/ports"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	notificationChunk = 500
	audienceWindow    = 30 * 24 * time.Hour
	insertWorkers     = 4
)

type NotificationPage struct {
	Items []models.SmartNotification `json:"items"`
	Total int                        `json:"total"`
	Page  int                        `json:"page"`
	Limit int                        `json:"limit"`
}

// PushMessage is what websocket clients receive.
type PushMessage struct {
	Type         string                   `json:"type"`
	Notification models.SmartNotification `json:"notification"`
}

type NotificationService struct {
	repo         ports.NotificationRepository
	users        ports.UserRepository
	interactions ports.InteractionRepository
	pusher       ports.NotificationPusher
	events       ports.EventPublisher
	log          *logger.ZapLogger

	unread *unreadCache
	now    func() time.Time
}

func NewNotificationService(
	repo ports.NotificationRepository,
	users ports.UserRepository,
	interactions ports.InteractionRepository,
	pusher ports.NotificationPusher,
	events ports.EventPublisher,
	unreadTTL time.Duration,
	log *logger.ZapLogger,
) *NotificationService {
	s := &NotificationService{
		repo:         repo,
		users:        users,
		interactions: interactions,
		pusher:       pusher,
		events:       events,
		log:          log,
		now:          time.Now,
	}
	s.unread = newUnreadCache(unreadTTL, func() time.Time { return s.now() })
	return s
}

// NotifyArticlePublished targets readers active in the article's category
// during the last 30 days, plus every active user for breaking news. The
// author is never notified and duplicates are skipped by the store.
func (s *NotificationService) NotifyArticlePublished(ctx context.Context, a models.Article) (int, error) {
	audience, err := s.interactions.ActiveUsersInCategory(ctx, a.CategoryID, s.now().Add(-audienceWindow))
	if err != nil {
		return 0, fmt.Errorf("category audience: %w", err)
	}

	typ, priority, title := models.NotificationNewArticle, "normal", "مقال جديد"
	if a.Breaking {
		all, err := s.users.ActiveIDs(ctx)
		if err != nil {
			return 0, fmt.Errorf("active users: %w", err)
		}
		audience = append(audience, all...)
		typ, priority, title = models.NotificationBreaking, "high", "عاجل"
	}

	targets := uniqueTargets(audience, a.AuthorID)
	if len(targets) == 0 {
		return 0, nil
	}

	articleID := a.ID
	items := make([]models.SmartNotification, 0, len(targets))
	for _, userID := range targets {
		items = append(items, models.SmartNotification{
			ID:        uuid.NewString(),
			UserID:    userID,
			ArticleID: &articleID,
			Type:      typ,
			Title:     title + ": " + a.Title,
			Message:   a.Excerpt,
			Priority:  priority,
		})
	}

	inserted, err := s.insertChunked(ctx, items)
	if err != nil {
		return 0, err
	}
	s.delivered(ctx, inserted)
	return len(inserted), nil
}

// NotifyCommentReply tells the parent comment's author about an approved reply.
func (s *NotificationService) NotifyCommentReply(ctx context.Context, parent, reply models.Comment) error {
	if parent.UserID == reply.UserID {
		return nil
	}
	articleID := reply.ArticleID
	inserted, err := s.repo.InsertBatch(ctx, []models.SmartNotification{{
		ID:        uuid.NewString(),
		UserID:    parent.UserID,
		ArticleID: &articleID,
		Type:      models.NotificationCommentReply,
		Title:     "رد جديد على تعليقك",
		Message:   reply.Content,
		Priority:  "normal",
	}})
	if err != nil {
		return err
	}
	s.delivered(ctx, inserted)
	return nil
}

func (s *NotificationService) insertChunked(ctx context.Context, items []models.SmartNotification) ([]models.SmartNotification, error) {
	var (
		mu       sync.Mutex
		inserted []models.SmartNotification
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(insertWorkers)
	for start := 0; start < len(items); start += notificationChunk {
		chunk := items[start:min(start+notificationChunk, len(items))]
		g.Go(func() error {
			rows, err := s.repo.InsertBatch(gctx, chunk)
			if err != nil {
				return err
			}
			mu.Lock()
			inserted = append(inserted, rows...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		// chunks already stored stay stored; deliver them anyway
		s.delivered(ctx, inserted)
		return nil, fmt.Errorf("insert notifications: %w", err)
	}
	return inserted, nil
}

func (s *NotificationService) delivered(ctx context.Context, items []models.SmartNotification) {
	if len(items) == 0 {
		return
	}

	counts := map[models.NotificationType]int{}
	for _, n := range items {
		counts[n.Type]++
		s.unread.drop(n.UserID)
		if s.pusher == nil {
			continue
		}
		payload, err := json.Marshal(PushMessage{Type: "notification", Notification: n})
		if err != nil {
			continue
		}
		s.pusher.PushToUser(n.UserID, payload)
	}
	for typ, n := range counts {
		metrics.NotificationsCreated.WithLabelValues(string(typ)).Add(float64(n))
	}

	if err := s.events.NotificationsCreated(ctx, items); err != nil {
		s.log.Log(logger.LogEntry{
			Level:   "warn",
			Message: "notifications.created event failed",
			Fields:  map[string]any{"count": len(items)},
			Error:   err,
		})
	}
}

func (s *NotificationService) List(ctx context.Context, userID string, unreadOnly bool, page Page) (*NotificationPage, error) {
	page = NewPage(page.Page, page.Limit)
	items, total, err := s.repo.ListForUser(ctx, userID, unreadOnly, page.Limit, page.Offset())
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.SmartNotification{}
	}
	return &NotificationPage{Items: items, Total: total, Page: page.Page, Limit: page.Limit}, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: ids are required", ErrInvalidInput)
	}
	n, err := s.repo.MarkRead(ctx, userID, ids)
	if err != nil {
		return 0, err
	}
	s.unread.drop(userID)
	return n, nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	n, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, err
	}
	s.unread.drop(userID)
	return n, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	if n, ok := s.unread.get(userID); ok {
		metrics.CacheLookups.WithLabelValues("unread", "hit").Inc()
		return n, nil
	}
	metrics.CacheLookups.WithLabelValues("unread", "miss").Inc()

	n, err := s.repo.UnreadCount(ctx, userID)
	if err != nil {
		return 0, err
	}
	s.unread.put(userID, n)
	return n, nil
}

func uniqueTargets(ids []string, exclude string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || id == exclude {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

type unreadEntry struct {
	count   int
	expires time.Time
}

type unreadCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]unreadEntry
}

func newUnreadCache(ttl time.Duration, now func() time.Time) *unreadCache {
	return &unreadCache{ttl: ttl, now: now, entries: make(map[string]unreadEntry)}
}

func (c *unreadCache) get(userID string) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[userID]
	if !ok {
		return 0, false
	}
	if !c.now().Before(e.expires) {
		delete(c.entries, userID)
		return 0, false
	}
	return e.count, true
}

func (c *unreadCache) put(userID string, n int) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[userID] = unreadEntry{count: n, expires: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

func (c *unreadCache) drop(userID string) {
	c.mu.Lock()
	delete(c.entries, userID)
	c.mu.Unlock()
}
