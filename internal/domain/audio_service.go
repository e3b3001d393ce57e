package domain

import (
	"context"
	"fmt"
	"strings"

	"github.com/Vovarama1992/newsroom/internal/models"
	"github.com/Vovarama1992/newsroom/internal/ports"
	"github.com/google/uuid"
)

type AudioNewsletterInput struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	AudioURL    string `json:"audio_url"`
	Duration    int    `json:"duration"`
	Voice       string `json:"voice"`
	IsPublished bool   `json:"is_published"`
}

type AudioNewsletterService struct {
	repo ports.AudioNewsletterRepository
}

func NewAudioNewsletterService(repo ports.AudioNewsletterRepository) *AudioNewsletterService {
	return &AudioNewsletterService{repo: repo}
}

func (s *AudioNewsletterService) Create(ctx context.Context, in AudioNewsletterInput) (*models.AudioNewsletter, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.AudioURL) == "" {
		return nil, fmt.Errorf("%w: title and audio_url are required", ErrInvalidInput)
	}
	if in.Duration < 0 {
		return nil, fmt.Errorf("%w: duration is negative", ErrInvalidInput)
	}
	n := &models.AudioNewsletter{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(in.Title),
		Content:     in.Content,
		AudioURL:    strings.TrimSpace(in.AudioURL),
		Duration:    in.Duration,
		Voice:       in.Voice,
		IsPublished: in.IsPublished,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// List shows unpublished newsletters to staff only. The featured one comes first.
func (s *AudioNewsletterService) List(ctx context.Context, includeDrafts bool, page Page) ([]models.AudioNewsletter, error) {
	page = NewPage(page.Page, page.Limit)
	items, err := s.repo.List(ctx, !includeDrafts, page.Limit, page.Offset())
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.AudioNewsletter{}
	}
	return items, nil
}

func (s *AudioNewsletterService) Get(ctx context.Context, id string, includeDrafts bool) (*models.AudioNewsletter, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !n.IsPublished && !includeDrafts {
		return nil, fmt.Errorf("audio newsletter %s: %w", id, ErrNotFound)
	}
	return n, nil
}

func (s *AudioNewsletterService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *AudioNewsletterService) SetPublished(ctx context.Context, id string, published bool) (*models.AudioNewsletter, error) {
	if err := s.repo.SetPublished(ctx, id, published); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Feature makes id the only featured newsletter. Drafts cannot be featured.
func (s *AudioNewsletterService) Feature(ctx context.Context, id string) (*models.AudioNewsletter, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !n.IsPublished {
		return nil, fmt.Errorf("%w: publish the newsletter before featuring it", ErrInvalidInput)
	}
	if err := s.repo.SetFeatured(ctx, id); err != nil {
		return nil, err
	}
	n.IsFeatured = true
	return n, nil
}

func (s *AudioNewsletterService) Play(ctx context.Context, id string) (int64, error) {
	if _, err := s.Get(ctx, id, false); err != nil {
		return 0, err
	}
	return s.repo.IncrementPlays(ctx, id)
}
