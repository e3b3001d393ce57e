package ports

import (
	"context"
	"time"

	"github.com/Vovarama1992/newsroom/internal/models"
)

type ArticleSort string

const (
	SortPublishedAt ArticleSort = "published_at"
	SortViews       ArticleSort = "views"
	SortCreatedAt   ArticleSort = "created_at"
)

type ArticleFilter struct {
	Status         models.ArticleStatus
	CategoryID     string
	CategoryIDs    []string
	AuthorID       string
	Featured       *bool
	Breaking       *bool
	Search         string
	PublishedAfter *time.Time
	ExcludeIDs     []string
	Sort           ArticleSort
	Limit          int
	Offset         int
}

type ArticleRepository interface {
	Create(ctx context.Context, a *models.Article) error
	Update(ctx context.Context, a *models.Article) error
	GetByID(ctx context.Context, id string) (*models.Article, error)
	GetBySlug(ctx context.Context, slug string) (*models.Article, error)
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
	List(ctx context.Context, f ArticleFilter) ([]models.Article, int, error)
	Delete(ctx context.Context, id string) error
	CountInCategory(ctx context.Context, categoryID string) (int, error)

	// SetStatus stores the status and, when non-nil, published_at.
	SetStatus(ctx context.Context, id string, status models.ArticleStatus, publishedAt *time.Time) (*models.Article, error)

	// PublishDue flips every scheduled article with scheduled_for <= now to
	// published and returns the flipped rows.
	PublishDue(ctx context.Context, now time.Time) ([]models.Article, error)

	// AddViews applies view deltas keyed by article id.
	AddViews(ctx context.Context, deltas map[string]int64) error
}
