package portstest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Vovarama1992/newsroom/internal/models"
	"github.com/Vovarama1992/newsroom/internal/ports"
	"github.com/google/uuid"
)

type InteractionRepo struct {
	mu       sync.Mutex
	articles *ArticleRepo
	items    []models.Interaction
	// userID -> active
	Inactive map[string]bool
	now      func() time.Time
}

func NewInteractionRepo(articles *ArticleRepo) *InteractionRepo {
	return &InteractionRepo{articles: articles, Inactive: map[string]bool{}, now: time.Now}
}

var _ ports.InteractionRepository = (*InteractionRepo)(nil)

// Add appends a historical interaction.
func (r *InteractionRepo) Add(it models.Interaction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	r.items = append(r.items, it)
}

func (r *InteractionRepo) Toggle(_ context.Context, userID, articleID string, t models.InteractionType) (bool, int64, error) {
	if !t.Toggleable() {
		return false, 0, fmt.Errorf("toggle %s: not toggleable", t)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.articles.GetByID(context.Background(), articleID); err != nil {
		return false, 0, err
	}

	active := true
	for i, it := range r.items {
		if it.UserID == userID && it.ArticleID == articleID && it.Type == t {
			r.items = append(r.items[:i], r.items[i+1:]...)
			active = false
			break
		}
	}
	if active {
		r.items = append(r.items, models.Interaction{
			ID: uuid.NewString(), UserID: userID, ArticleID: articleID, Type: t, CreatedAt: r.now(),
		})
	}

	delta := int64(-1)
	if active {
		delta = 1
	}
	var count int64
	r.articles.adjust(articleID, func(a *models.Article) {
		ptr := &a.Likes
		if t == models.InteractionSave {
			ptr = &a.Saves
		}
		*ptr = max(*ptr+delta, 0)
		count = *ptr
	})
	return active, count, nil
}

func (r *InteractionRepo) Record(_ context.Context, userID, articleID string, t models.InteractionType) (int64, error) {
	if _, err := r.articles.GetByID(context.Background(), articleID); err != nil {
		return 0, err
	}
	r.mu.Lock()
	r.items = append(r.items, models.Interaction{
		ID: uuid.NewString(), UserID: userID, ArticleID: articleID, Type: t, CreatedAt: r.now(),
	})
	r.mu.Unlock()

	var count int64
	if t == models.InteractionShare {
		r.articles.adjust(articleID, func(a *models.Article) {
			a.Shares++
			count = a.Shares
		})
	}
	return count, nil
}

func (r *InteractionRepo) Count(userID string, t models.InteractionType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, it := range r.items {
		if it.UserID == userID && it.Type == t {
			n++
		}
	}
	return n
}

func (r *InteractionRepo) ListSince(_ context.Context, userID string, since time.Time) ([]models.Interaction, error) {
	r.mu.Lock()
	items := append([]models.Interaction(nil), r.items...)
	r.mu.Unlock()

	var out []models.Interaction
	for _, it := range items {
		if it.UserID != userID || it.CreatedAt.Before(since) {
			continue
		}
		if it.CategoryID == "" {
			it.CategoryID = r.articles.Snapshot(it.ArticleID).CategoryID
		}
		out = append(out, it)
	}
	return out, nil
}

func (r *InteractionRepo) SavedArticles(_ context.Context, userID string, limit, offset int) ([]models.Article, error) {
	r.mu.Lock()
	items := append([]models.Interaction(nil), r.items...)
	r.mu.Unlock()

	var out []models.Article
	for i := len(items) - 1; i >= 0; i-- {
		it := items[i]
		if it.UserID != userID || it.Type != models.InteractionSave {
			continue
		}
		a := r.articles.Snapshot(it.ArticleID)
		if a.Status == models.StatusPublished {
			out = append(out, a)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *InteractionRepo) ActiveUsersInCategory(_ context.Context, categoryID string, since time.Time) ([]string, error) {
	r.mu.Lock()
	items := append([]models.Interaction(nil), r.items...)
	r.mu.Unlock()

	seen := map[string]bool{}
	var out []string
	for _, it := range items {
		if it.CreatedAt.Before(since) || seen[it.UserID] || r.Inactive[it.UserID] {
			continue
		}
		cat := it.CategoryID
		if cat == "" {
			cat = r.articles.Snapshot(it.ArticleID).CategoryID
		}
		if cat == categoryID {
			seen[it.UserID] = true
			out = append(out, it.UserID)
		}
	}
	return out, nil
}
