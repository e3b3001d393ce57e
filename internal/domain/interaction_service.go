package domain

import (
	"context"
	"fmt"

	"github.com/Vovarama1992/newsroom/internal/models"
	"github.com/Vovarama1992/newsroom/internal/ports"
)

type ToggleResult struct {
	Active bool  `json:"active"`
	Count  int64 `json:"count"`
}

type InteractionService struct {
	repo ports.InteractionRepository
}

func NewInteractionService(repo ports.InteractionRepository) *InteractionService {
	return &InteractionService{repo: repo}
}

func (s *InteractionService) ToggleSave(ctx context.Context, userID, articleID string) (ToggleResult, error) {
	return s.toggle(ctx, userID, articleID, models.InteractionSave)
}

func (s *InteractionService) ToggleLike(ctx context.Context, userID, articleID string) (ToggleResult, error) {
	return s.toggle(ctx, userID, articleID, models.InteractionLike)
}

func (s *InteractionService) toggle(ctx context.Context, userID, articleID string, t models.InteractionType) (ToggleResult, error) {
	if userID == "" || articleID == "" {
		return ToggleResult{}, fmt.Errorf("%w: user and article are required", ErrInvalidInput)
	}
	active, count, err := s.repo.Toggle(ctx, userID, articleID, t)
	if err != nil {
		return ToggleResult{}, err
	}
	return ToggleResult{Active: active, Count: count}, nil
}

// Share records a share and returns the new share counter.
func (s *InteractionService) Share(ctx context.Context, userID, articleID string) (int64, error) {
	if userID == "" || articleID == "" {
		return 0, fmt.Errorf("%w: user and article are required", ErrInvalidInput)
	}
	return s.repo.Record(ctx, userID, articleID, models.InteractionShare)
}

// RecordView keeps the per-user trail used by recommendations. Counters are
// handled by the ViewBatcher.
func (s *InteractionService) RecordView(ctx context.Context, userID, articleID string) error {
	_, err := s.repo.Record(ctx, userID, articleID, models.InteractionView)
	return err
}

func (s *InteractionService) Saved(ctx context.Context, userID string, page Page) ([]models.Article, error) {
	page = NewPage(page.Page, page.Limit)
	items, err := s.repo.SavedArticles(ctx, userID, page.Limit, page.Offset())
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Article{}
	}
	return items, nil
}
