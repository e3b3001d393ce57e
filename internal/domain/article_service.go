package domain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/newsroom/internal/metrics"
	"github.com/Vovarama1992/newsroom/internal/models"
	"github.com/Vovarama1992/newsroom/internal/ports"
	"github.com/Vovarama1992/newsroom/internal/textutil"
	"github.com/google/uuid"
)

const (
	excerptRunes    = 160
	articleCacheKey = "articles:"
)

// ArticleNotifier fans out notifications for a freshly published article.
type ArticleNotifier interface {
	NotifyArticlePublished(ctx context.Context, a models.Article) (int, error)
}

type ArticleInput struct {
	Title         string               `json:"title"`
	Content       string               `json:"content"`
	Excerpt       string               `json:"excerpt"`
	FeaturedImage *string              `json:"featured_image"`
	CategoryID    string               `json:"category_id"`
	Tags          []string             `json:"tags"`
	Featured      bool                 `json:"featured"`
	Breaking      bool                 `json:"breaking"`
	Status        models.ArticleStatus `json:"status"`
	ScheduledFor  *time.Time           `json:"scheduled_for"`
}

// ArticlePatch carries only the fields being changed.
type ArticlePatch struct {
	Title         *string    `json:"title"`
	Content       *string    `json:"content"`
	Excerpt       *string    `json:"excerpt"`
	FeaturedImage *string    `json:"featured_image"`
	CategoryID    *string    `json:"category_id"`
	Tags          []string   `json:"tags"`
	Featured      *bool      `json:"featured"`
	Breaking      *bool      `json:"breaking"`
	ScheduledFor  *time.Time `json:"scheduled_for"`
}

type ArticleQuery struct {
	Status     models.ArticleStatus
	CategoryID string
	AuthorID   string
	Featured   *bool
	Breaking   *bool
	Search     string
	Sort       ports.ArticleSort
	Page       Page
}

type ArticlePage struct {
	Items []models.Article `json:"items"`
	Total int              `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

type ArticleService struct {
	repo       ports.ArticleRepository
	categories ports.CategoryRepository
	cache      ports.Cache
	events     ports.EventPublisher
	notifier   ArticleNotifier
	log        *logger.ZapLogger

	cacheTTL time.Duration
	now      func() time.Time
}

func NewArticleService(
	repo ports.ArticleRepository,
	categories ports.CategoryRepository,
	cache ports.Cache,
	events ports.EventPublisher,
	notifier ArticleNotifier,
	cacheTTL time.Duration,
	log *logger.ZapLogger,
) *ArticleService {
	return &ArticleService{
		repo:       repo,
		categories: categories,
		cache:      cache,
		events:     events,
		notifier:   notifier,
		log:        log,
		cacheTTL:   cacheTTL,
		now:        time.Now,
	}
}

// Create stores a new article authored by the caller. Reporters may only
// create drafts; publishing and scheduling belong to editors.
func (s *ArticleService) Create(ctx context.Context, author ports.Claims, in ArticleInput) (*models.Article, error) {
	if !author.Role.IsStaff() {
		return nil, fmt.Errorf("%w: only staff can write articles", ErrForbidden)
	}
	if author.Role == models.RoleReporter && (in.ScheduledFor != nil || in.Status == models.StatusPublished || in.Status == models.StatusScheduled) {
		return nil, fmt.Errorf("%w: reporters cannot publish or schedule", ErrForbidden)
	}
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" || strings.TrimSpace(in.Content) == "" || in.CategoryID == "" {
		return nil, fmt.Errorf("%w: title, content and category_id are required", ErrInvalidInput)
	}
	if err := s.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	now := s.now()
	a := &models.Article{
		ID:            uuid.NewString(),
		Title:         in.Title,
		Content:       in.Content,
		FeaturedImage: in.FeaturedImage,
		CategoryID:    in.CategoryID,
		AuthorID:      author.UserID,
		Featured:      in.Featured,
		Breaking:      in.Breaking,
		Tags:          in.Tags,
		Status:        models.StatusDraft,
	}
	s.derive(a, in.Excerpt)

	switch {
	case in.ScheduledFor != nil:
		if !in.ScheduledFor.After(now) {
			return nil, fmt.Errorf("%w: scheduled_for must be in the future", ErrInvalidInput)
		}
		a.Status = models.StatusScheduled
		a.ScheduledFor = in.ScheduledFor
	case in.Status == models.StatusPublished:
		a.Status = models.StatusPublished
		a.PublishedAt = &now
	case in.Status == "" || in.Status == models.StatusDraft:
	default:
		return nil, fmt.Errorf("%w: cannot create an article as %q", ErrInvalidInput, in.Status)
	}

	slug, err := s.uniqueSlug(ctx, in.Title, a.ID)
	if err != nil {
		return nil, err
	}
	a.Slug = slug

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	if a.IsPublished() {
		s.afterPublish(ctx, *a, "manual")
	}
	return a, nil
}

func (s *ArticleService) Update(ctx context.Context, actor ports.Claims, id string, p ArticlePatch) (*models.Article, error) {
	a, err := s.editable(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title is empty", ErrInvalidInput)
		}
		if title != a.Title {
			a.Title = title
			if a.Slug, err = s.uniqueSlug(ctx, title, a.ID); err != nil {
				return nil, err
			}
		}
	}
	if p.Content != nil {
		if strings.TrimSpace(*p.Content) == "" {
			return nil, fmt.Errorf("%w: content is empty", ErrInvalidInput)
		}
		a.Content = *p.Content
	}
	if p.CategoryID != nil && *p.CategoryID != a.CategoryID {
		if err := s.checkCategory(ctx, *p.CategoryID); err != nil {
			return nil, err
		}
		a.CategoryID = *p.CategoryID
	}
	if p.FeaturedImage != nil {
		a.FeaturedImage = p.FeaturedImage
	}
	if p.Tags != nil {
		a.Tags = p.Tags
	}
	if p.Featured != nil {
		a.Featured = *p.Featured
	}
	if p.Breaking != nil {
		a.Breaking = *p.Breaking
	}
	if p.ScheduledFor != nil {
		if actor.Role == models.RoleReporter {
			return nil, fmt.Errorf("%w: reporters cannot schedule", ErrForbidden)
		}
		if a.Status != models.StatusScheduled {
			return nil, fmt.Errorf("%w: only scheduled articles take scheduled_for", ErrInvalidInput)
		}
		if !p.ScheduledFor.After(s.now()) {
			return nil, fmt.Errorf("%w: scheduled_for must be in the future", ErrInvalidInput)
		}
		a.ScheduledFor = p.ScheduledFor
	}

	excerpt := ""
	if p.Excerpt != nil {
		excerpt = *p.Excerpt
	}
	s.derive(a, excerpt)

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return a, nil
}

// Delete archives published articles and removes everything else.
func (s *ArticleService) Delete(ctx context.Context, actor ports.Claims, id string) error {
	a, err := s.editable(ctx, actor, id)
	if err != nil {
		return err
	}
	if a.IsPublished() {
		_, err = s.repo.SetStatus(ctx, id, models.StatusArchived, nil)
	} else {
		err = s.repo.Delete(ctx, id)
	}
	if err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// ChangeStatus applies a status transition. scheduledFor is required when
// moving to scheduled unless the article already carries a future date.
func (s *ArticleService) ChangeStatus(
	ctx context.Context,
	actor ports.Claims,
	id string,
	to models.ArticleStatus,
	scheduledFor *time.Time,
) (*models.Article, error) {
	if !to.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, to)
	}
	a, err := s.editable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if a.Status == to {
		return a, nil
	}
	if !CanTransition(a.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.Status, to)
	}
	if actor.Role == models.RoleReporter && (to == models.StatusPublished || to == models.StatusScheduled) {
		return nil, fmt.Errorf("%w: reporters cannot publish or schedule", ErrForbidden)
	}

	now := s.now()
	if to == models.StatusScheduled {
		when := scheduledFor
		if when == nil {
			when = a.ScheduledFor
		}
		if when == nil || !when.After(now) {
			return nil, fmt.Errorf("%w: scheduled_for must be in the future", ErrInvalidInput)
		}
		a.Status = to
		a.ScheduledFor = when
		if err := s.repo.Update(ctx, a); err != nil {
			return nil, err
		}
		s.invalidate(ctx)
		return a, nil
	}

	var publishedAt *time.Time
	if to == models.StatusPublished {
		publishedAt = &now
	}
	updated, err := s.repo.SetStatus(ctx, id, to, publishedAt)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	if updated.IsPublished() {
		s.afterPublish(ctx, *updated, "manual")
	}
	return updated, nil
}

// PublishDue publishes every scheduled article whose time has come.
// A second call with the same now publishes nothing.
func (s *ArticleService) PublishDue(ctx context.Context, now time.Time) ([]models.Article, error) {
	published, err := s.repo.PublishDue(ctx, now)
	if err != nil {
		return nil, err
	}
	if len(published) == 0 {
		return published, nil
	}
	s.invalidate(ctx)
	for _, a := range published {
		s.afterPublish(ctx, a, "scheduler")
	}
	return published, nil
}

// Get hides unpublished articles from everyone but staff.
func (s *ArticleService) Get(ctx context.Context, id string, viewer *ports.Claims) (*models.Article, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return visible(a, viewer)
}

func (s *ArticleService) GetBySlug(ctx context.Context, slug string, viewer *ports.Claims) (*models.Article, error) {
	a, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return visible(a, viewer)
}

func visible(a *models.Article, viewer *ports.Claims) (*models.Article, error) {
	if a.IsPublished() || (viewer != nil && viewer.Role.IsStaff()) {
		return a, nil
	}
	return nil, fmt.Errorf("article %s: %w", a.ID, ErrNotFound)
}

// List serves published articles to the public; staff may filter by any status.
// Public listings go through the cache.
func (s *ArticleService) List(ctx context.Context, q ArticleQuery, viewer *ports.Claims) (*ArticlePage, error) {
	if q.Status != "" && !q.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, q.Status)
	}
	if viewer == nil || !viewer.Role.IsStaff() {
		q.Status = models.StatusPublished
	}
	q.Page = NewPage(q.Page.Page, q.Page.Limit)

	f := ports.ArticleFilter{
		Status:     q.Status,
		CategoryID: q.CategoryID,
		AuthorID:   q.AuthorID,
		Featured:   q.Featured,
		Breaking:   q.Breaking,
		Search:     strings.TrimSpace(q.Search),
		Sort:       q.Sort,
		Limit:      q.Page.Limit,
		Offset:     q.Page.Offset(),
	}

	cacheable := f.Status == models.StatusPublished && s.cache != nil
	key := ""
	if cacheable {
		key = listCacheKey(f)
		if raw, ok, err := s.cache.Get(ctx, key); err == nil && ok {
			var page ArticlePage
			if err := json.Unmarshal(raw, &page); err == nil {
				return &page, nil
			}
		}
	}

	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Article{}
	}
	page := &ArticlePage{Items: items, Total: total, Page: q.Page.Page, Limit: q.Page.Limit}

	if cacheable {
		if raw, err := json.Marshal(page); err == nil {
			if err := s.cache.Set(ctx, key, raw, s.cacheTTL); err != nil {
				s.logWarn("article list cache set failed", err, nil)
			}
		}
	}
	return page, nil
}

// ListScheduled returns articles waiting for the scheduler, soonest first.
func (s *ArticleService) ListScheduled(ctx context.Context, page Page) (*ArticlePage, error) {
	page = NewPage(page.Page, page.Limit)
	items, total, err := s.repo.List(ctx, ports.ArticleFilter{
		Status: models.StatusScheduled,
		Sort:   ports.SortCreatedAt,
		Limit:  page.Limit,
		Offset: page.Offset(),
	})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Article{}
	}
	return &ArticlePage{Items: items, Total: total, Page: page.Page, Limit: page.Limit}, nil
}

func listCacheKey(f ports.ArticleFilter) string {
	raw, _ := json.Marshal(f)
	sum := sha256.Sum256(raw)
	return articleCacheKey + "list:" + hex.EncodeToString(sum[:8])
}

func (s *ArticleService) editable(ctx context.Context, actor ports.Claims, id string) (*models.Article, error) {
	if !actor.Role.IsStaff() {
		return nil, ErrForbidden
	}
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == models.RoleReporter && a.AuthorID != actor.UserID {
		return nil, fmt.Errorf("%w: article belongs to another author", ErrForbidden)
	}
	return a, nil
}

func (s *ArticleService) checkCategory(ctx context.Context, id string) error {
	if _, err := s.categories.GetByID(ctx, id); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return fmt.Errorf("%w: unknown category %s", ErrInvalidInput, id)
		}
		return err
	}
	return nil
}

// derive recomputes excerpt and reading time from the HTML content.
// A non-empty manual excerpt wins over the generated one.
func (s *ArticleService) derive(a *models.Article, excerpt string) {
	text := textutil.PlainText(a.Content)
	if excerpt = strings.TrimSpace(excerpt); excerpt != "" {
		a.Excerpt = excerpt
	} else {
		a.Excerpt = textutil.Excerpt(text, excerptRunes)
	}
	a.ReadingTime = textutil.ReadingTime(text)
}

func (s *ArticleService) uniqueSlug(ctx context.Context, title, id string) (string, error) {
	base := textutil.Slugify(title)
	if base == "" {
		base = "article-" + id[:8]
	}
	slug := base
	for n := 2; ; n++ {
		taken, err := s.repo.SlugExists(ctx, slug, id)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
		slug = base + "-" + strconv.Itoa(n)
	}
}

func (s *ArticleService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, articleCacheKey+"*"); err != nil {
		s.logWarn("article cache invalidation failed", err, nil)
	}
}

// afterPublish runs side effects that must not fail the publish itself.
func (s *ArticleService) afterPublish(ctx context.Context, a models.Article, trigger string) {
	metrics.ArticlesPublished.WithLabelValues(trigger).Inc()

	if err := s.events.ArticlePublished(ctx, a); err != nil {
		s.logWarn("article.published event failed", err, map[string]any{"article_id": a.ID})
	}
	if s.notifier == nil {
		return
	}
	n, err := s.notifier.NotifyArticlePublished(ctx, a)
	if err != nil {
		s.logWarn("article notifications failed", err, map[string]any{"article_id": a.ID})
		return
	}
	s.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "article published",
		Fields: map[string]any{
			"article_id":    a.ID,
			"trigger":       trigger,
			"notifications": n,
		},
	})
}

func (s *ArticleService) logWarn(msg string, err error, fields map[string]any) {
	s.log.Log(logger.LogEntry{Level: "warn", Message: msg, Fields: fields, Error: err})
}
