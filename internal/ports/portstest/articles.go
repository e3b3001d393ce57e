// Package portstest holds in-memory implementations of the ports
// interfaces for service and handler tests.
package portstest

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Vovarama1992/newsroom/internal/models"
	"github.com/Vovarama1992/newsroom/internal/ports"
	"github.com/Vovarama1992/newsroom/internal/textutil"
)

type ArticleRepo struct {
	mu    sync.Mutex
	items map[string]*models.Article
	now   func() time.Time

	AddViewsErr   error
	AddViewsCalls []map[string]int64
}

func NewArticleRepo() *ArticleRepo {
	return &ArticleRepo{items: map[string]*models.Article{}, now: time.Now}
}

var _ ports.ArticleRepository = (*ArticleRepo)(nil)

// Put stores a copy of a as-is, bypassing validation.
func (r *ArticleRepo) Put(a models.Article) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = r.now()
	}
	r.items[a.ID] = &a
}

func (r *ArticleRepo) Snapshot(id string) models.Article {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.items[id]; ok {
		return *a
	}
	return models.Article{}
}

func (r *ArticleRepo) Create(_ context.Context, a *models.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, other := range r.items {
		if other.Slug == a.Slug {
			return fmt.Errorf("insert article: %w", ports.ErrConflict)
		}
	}
	a.CreatedAt, a.UpdatedAt = r.now(), r.now()
	cp := *a
	r.items[a.ID] = &cp
	return nil
}

func (r *ArticleRepo) Update(_ context.Context, a *models.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.items[a.ID]
	if !ok {
		return ports.ErrNotFound
	}
	a.UpdatedAt = r.now()
	cp := *a
	// counters belong to the store
	cp.Views, cp.Likes, cp.Saves, cp.Shares, cp.CommentsCount = cur.Views, cur.Likes, cur.Saves, cur.Shares, cur.CommentsCount
	r.items[a.ID] = &cp
	return nil
}

func (r *ArticleRepo) GetByID(_ context.Context, id string) (*models.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("get article: %w", ports.ErrNotFound)
	}
	cp := *a
	return &cp, nil
}

func (r *ArticleRepo) GetBySlug(_ context.Context, slug string) (*models.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.items {
		if a.Slug == slug {
			cp := *a
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("get article by slug: %w", ports.ErrNotFound)
}

func (r *ArticleRepo) SlugExists(_ context.Context, slug, excludeID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.items {
		if a.Slug == slug && a.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *ArticleRepo) matches(a *models.Article, f ports.ArticleFilter) bool {
	switch {
	case f.Status != "" && a.Status != f.Status,
		f.CategoryID != "" && a.CategoryID != f.CategoryID,
		len(f.CategoryIDs) > 0 && !slices.Contains(f.CategoryIDs, a.CategoryID),
		f.AuthorID != "" && a.AuthorID != f.AuthorID,
		f.Featured != nil && a.Featured != *f.Featured,
		f.Breaking != nil && a.Breaking != *f.Breaking,
		f.PublishedAfter != nil && (a.PublishedAt == nil || a.PublishedAt.Before(*f.PublishedAfter)),
		slices.Contains(f.ExcludeIDs, a.ID):
		return false
	}
	if f.Search != "" {
		hay := textutil.NormalizeArabic(a.Title + " " + a.Excerpt)
		return strings.Contains(strings.ToLower(hay), strings.ToLower(textutil.NormalizeArabic(f.Search)))
	}
	return true
}

func (r *ArticleRepo) List(_ context.Context, f ports.ArticleFilter) ([]models.Article, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Article
	for _, a := range r.items {
		if r.matches(a, f) {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		switch f.Sort {
		case ports.SortViews:
			if out[i].Views != out[j].Views {
				return out[i].Views > out[j].Views
			}
		case ports.SortCreatedAt:
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return published(out[i]).After(published(out[j]))
	})

	total := len(out)
	if f.Offset >= len(out) {
		return nil, total, nil
	}
	out = out[f.Offset:]
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, total, nil
}

func published(a models.Article) time.Time {
	if a.PublishedAt != nil {
		return *a.PublishedAt
	}
	return time.Time{}
}

func (r *ArticleRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *ArticleRepo) CountInCategory(_ context.Context, categoryID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, a := range r.items {
		if a.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

func (r *ArticleRepo) SetStatus(_ context.Context, id string, status models.ArticleStatus, publishedAt *time.Time) (*models.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("set status: %w", ports.ErrNotFound)
	}
	a.Status = status
	if a.PublishedAt == nil && publishedAt != nil {
		t := *publishedAt
		a.PublishedAt = &t
	}
	if status != models.StatusScheduled {
		a.ScheduledFor = nil
	}
	a.UpdatedAt = r.now()
	cp := *a
	return &cp, nil
}

func (r *ArticleRepo) PublishDue(_ context.Context, now time.Time) ([]models.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Article
	for _, a := range r.items {
		if a.Status != models.StatusScheduled || a.ScheduledFor == nil || a.ScheduledFor.After(now) {
			continue
		}
		at := *a.ScheduledFor
		a.Status = models.StatusPublished
		a.PublishedAt = &at
		a.ScheduledFor = nil
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *ArticleRepo) AddViews(_ context.Context, deltas map[string]int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := make(map[string]int64, len(deltas))
	for k, v := range deltas {
		cp[k] = v
	}
	r.AddViewsCalls = append(r.AddViewsCalls, cp)
	if r.AddViewsErr != nil {
		return r.AddViewsErr
	}
	for id, n := range deltas {
		if a, ok := r.items[id]; ok {
			a.Views += n
		}
	}
	return nil
}

func (r *ArticleRepo) ViewsCalls() []map[string]int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.AddViewsCalls)
}

func (r *ArticleRepo) SetAddViewsErr(err error) {
	r.mu.Lock()
	r.AddViewsErr = err
	r.mu.Unlock()
}

// adjust moves a counter under the repo lock; used by the interaction and
// comment fakes.
func (r *ArticleRepo) adjust(id string, fn func(a *models.Article)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if ok {
		fn(a)
	}
	return ok
}
