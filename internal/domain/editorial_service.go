package domain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Vovarama1992/newsroom/internal/models"
	"github.com/Vovarama1992/newsroom/internal/ports"
	"github.com/Vovarama1992/newsroom/internal/textutil"
	"github.com/google/uuid"
)

type ReporterService struct {
	repo ports.ReporterRepository
}

func NewReporterService(repo ports.ReporterRepository) *ReporterService {
	return &ReporterService{repo: repo}
}

func (s *ReporterService) ListActive(ctx context.Context) ([]models.Reporter, error) {
	items, err := s.repo.List(ctx, true)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Reporter{}
	}
	return items, nil
}

func (s *ReporterService) GetBySlug(ctx context.Context, slug string) (*models.Reporter, error) {
	r, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !r.IsActive {
		return nil, fmt.Errorf("reporter %s: %w", slug, ErrNotFound)
	}
	return r, nil
}

type MuqtarabArticleInput struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	Excerpt    string `json:"excerpt"`
	AuthorName string `json:"author_name"`
	Publish    bool   `json:"publish"`
}

type MuqtarabService struct {
	repo ports.MuqtarabRepository
	now  func() time.Time
}

func NewMuqtarabService(repo ports.MuqtarabRepository) *MuqtarabService {
	return &MuqtarabService{repo: repo, now: time.Now}
}

func (s *MuqtarabService) ListCorners(ctx context.Context) ([]models.MuqtarabCorner, error) {
	items, err := s.repo.ListCorners(ctx, true)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.MuqtarabCorner{}
	}
	return items, nil
}

func (s *MuqtarabService) GetCorner(ctx context.Context, slug string) (*models.MuqtarabCorner, error) {
	c, err := s.repo.GetCornerBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !c.IsActive {
		return nil, fmt.Errorf("corner %s: %w", slug, ErrNotFound)
	}
	return c, nil
}

func (s *MuqtarabService) ListArticles(ctx context.Context, cornerSlug string, page Page) ([]models.MuqtarabArticle, error) {
	c, err := s.GetCorner(ctx, cornerSlug)
	if err != nil {
		return nil, err
	}
	page = NewPage(page.Page, page.Limit)
	items, err := s.repo.ListArticles(ctx, c.ID, page.Limit, page.Offset())
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.MuqtarabArticle{}
	}
	return items, nil
}

// CreateArticle adds an article to a corner. The slug carries a short id
// suffix since corner titles repeat across columns.
func (s *MuqtarabService) CreateArticle(ctx context.Context, cornerSlug string, in MuqtarabArticleInput) (*models.MuqtarabArticle, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" || strings.TrimSpace(in.Content) == "" {
		return nil, fmt.Errorf("%w: title and content are required", ErrInvalidInput)
	}
	c, err := s.repo.GetCornerBySlug(ctx, cornerSlug)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	text := textutil.PlainText(in.Content)
	excerpt := strings.TrimSpace(in.Excerpt)
	if excerpt == "" {
		excerpt = textutil.Excerpt(text, excerptRunes)
	}
	author := in.AuthorName
	if author == "" {
		author = c.AuthorName
	}

	a := &models.MuqtarabArticle{
		ID:          id,
		CornerID:    c.ID,
		Title:       title,
		Slug:        strings.Trim(textutil.Slugify(title)+"-"+id[:8], "-"),
		Content:     in.Content,
		Excerpt:     excerpt,
		AuthorName:  author,
		Status:      models.StatusDraft,
		ReadingTime: textutil.ReadingTime(text),
	}
	if in.Publish {
		now := s.now()
		a.Status = models.StatusPublished
		a.PublishedAt = &now
	}
	if err := s.repo.CreateArticle(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}
