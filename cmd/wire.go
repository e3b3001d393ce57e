package main

import (
	"context"
	"errors"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/newsroom/internal/delivery/ws"
	"github.com/Vovarama1992/newsroom/internal/domain"
	"github.com/Vovarama1992/newsroom/internal/infra"
	"github.com/Vovarama1992/newsroom/internal/models"
	"github.com/Vovarama1992/newsroom/internal/ports"
)

const cachePrefix = "newsroom:"

// deps is the wired object graph shared by serve and publish-scheduled.
type deps struct {
	localCache ports.Cache
	events     ports.EventPublisher
	hub        *ws.Hub

	users         *infra.PostgresUserRepo
	articleRepo   *infra.PostgresArticleRepo
	auth          ports.AuthService
	articles      *domain.ArticleService
	interactions  *domain.InteractionService
	notifications *domain.NotificationService
	recommend     *domain.RecommendationService
	comments      *domain.CommentService
	categories    *domain.CategoryService
	media         *domain.MediaService
	audio         *domain.AudioNewsletterService
	reporters     *domain.ReporterService
	muqtarab      *domain.MuqtarabService
	dashboard     *domain.DashboardService

	closers []func() error
}

func wire(ctx context.Context, a *app) (*deps, error) {
	d := &deps{hub: ws.NewHub(a.log)}

	if a.cfg.RedisURL != "" {
		rc, err := infra.NewRedisCache(ctx, a.cfg.RedisURL, cachePrefix)
		if err != nil {
			return nil, err
		}
		d.localCache = rc
		d.closers = append(d.closers, rc.Close)
	} else {
		d.localCache = infra.NewMemoryCache()
		a.log.Log(logger.LogEntry{Level: "info", Message: "REDIS_URL not set, using in-process cache"})
	}
	// writes fan out to other instances through pg_notify
	cache := infra.NewInvalidator(a.pool, d.localCache)

	if a.cfg.NatsURL != "" {
		np, err := infra.NewNATSPublisher(a.cfg.NatsURL)
		if err != nil {
			d.Close()
			return nil, err
		}
		d.events = np
		d.closers = append(d.closers, func() error { np.Close(); return nil })
	} else {
		d.events = infra.NopPublisher{}
	}

	d.users = infra.NewPostgresUserRepo(a.pool)
	d.articleRepo = infra.NewPostgresArticleRepo(a.pool)
	categoryRepo := infra.NewPostgresCategoryRepo(a.pool)
	interactionRepo := infra.NewPostgresInteractionRepo(a.pool)

	d.auth = domain.NewAuthService(d.users, a.cfg.JWTSecret, a.cfg.Auth.TokenTTL)
	d.notifications = domain.NewNotificationService(
		infra.NewPostgresNotificationRepo(a.pool),
		d.users,
		interactionRepo,
		d.hub,
		d.events,
		a.cfg.Cache.UnreadTTL,
		a.log,
	)
	d.articles = domain.NewArticleService(d.articleRepo, categoryRepo, cache, d.events, d.notifications, a.cfg.Cache.ArticlesTTL, a.log)
	d.interactions = domain.NewInteractionService(interactionRepo)
	d.recommend = domain.NewRecommendationService(interactionRepo, d.articleRepo, recommendationConfig(a))
	d.comments = domain.NewCommentService(infra.NewPostgresCommentRepo(a.pool), d.articleRepo, interactionRepo, d.notifications, a.log)
	d.categories = domain.NewCategoryService(categoryRepo, d.articleRepo, cache)
	d.media = domain.NewMediaService(infra.NewPostgresMediaRepo(a.pool))
	d.audio = domain.NewAudioNewsletterService(infra.NewPostgresAudioRepo(a.pool))
	d.reporters = domain.NewReporterService(infra.NewPostgresReporterRepo(a.pool))
	d.muqtarab = domain.NewMuqtarabService(infra.NewPostgresMuqtarabRepo(a.pool))
	d.dashboard = domain.NewDashboardService(infra.NewPostgresStatsRepo(a.pool))
	return d, nil
}

func recommendationConfig(a *app) domain.RecommendationConfig {
	rc := a.cfg.Recommendations
	weights := make(map[models.InteractionType]float64, len(rc.Weights))
	for k, v := range rc.Weights {
		weights[models.InteractionType(k)] = v
	}
	return domain.RecommendationConfig{
		HalfLifeDays:  rc.HalfLifeDays,
		WindowDays:    rc.WindowDays,
		TopCategories: rc.TopCategories,
		Weights:       weights,
	}
}

func (d *deps) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		errs = append(errs, d.closers[i]())
	}
	return errors.Join(errs...)
}
