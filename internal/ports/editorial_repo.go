package ports

import (
	"context"
	"time"

	"github.com/Vovarama1992/newsroom/internal/models"
)

type ReporterRepository interface {
	List(ctx context.Context, activeOnly bool) ([]models.Reporter, error)
	GetBySlug(ctx context.Context, slug string) (*models.Reporter, error)
}

type MuqtarabRepository interface {
	ListCorners(ctx context.Context, activeOnly bool) ([]models.MuqtarabCorner, error)
	GetCornerBySlug(ctx context.Context, slug string) (*models.MuqtarabCorner, error)
	ListArticles(ctx context.Context, cornerID string, limit, offset int) ([]models.MuqtarabArticle, error)
	CreateArticle(ctx context.Context, a *models.MuqtarabArticle) error
}

type StatsRepository interface {
	Dashboard(ctx context.Context, topSince time.Time, topLimit int) (*models.DashboardStats, error)
}
