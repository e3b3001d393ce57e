package domain

import (
	"context"
	"time"

	"github.com/Vovarama1992/newsroom/internal/models"
	"github.com/Vovarama1992/newsroom/internal/ports"
)

const (
	topArticlesLimit  = 5
	topArticlesWindow = 7 * 24 * time.Hour
)

type DashboardService struct {
	repo ports.StatsRepository
	now  func() time.Time
}

func NewDashboardService(repo ports.StatsRepository) *DashboardService {
	return &DashboardService{repo: repo, now: time.Now}
}

func (s *DashboardService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	stats, err := s.repo.Dashboard(ctx, s.now().Add(-topArticlesWindow), topArticlesLimit)
	if err != nil {
		return nil, err
	}
	if stats.ArticlesByStatus == nil {
		stats.ArticlesByStatus = map[models.ArticleStatus]int64{}
	}
	for _, st := range []models.ArticleStatus{
		models.StatusDraft, models.StatusPublished, models.StatusScheduled, models.StatusArchived,
	} {
		if _, ok := stats.ArticlesByStatus[st]; !ok {
			stats.ArticlesByStatus[st] = 0
		}
	}
	return stats, nil
}
