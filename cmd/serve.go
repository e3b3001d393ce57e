package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/newsroom/internal/delivery"
	"github.com/Vovarama1992/newsroom/internal/delivery/ws"
	"github.com/Vovarama1992/newsroom/internal/domain"
	"github.com/Vovarama1992/newsroom/internal/infra"
	"github.com/Vovarama1992/newsroom/internal/migrations"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

func serveCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, websocket hub and scheduler",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending migrations before serving")
	return cmd
}

func serve(ctx context.Context, migrate bool) error {
	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if migrate {
		if _, err := migrations.Up(ctx, a.pool, a.log); err != nil {
			return err
		}
	}

	d, err := wire(ctx, a)
	if err != nil {
		return err
	}
	defer d.Close()

	views := domain.NewViewBatcher(d.articleRepo, a.cfg.Views.BatchSize, a.cfg.Views.FlushInterval, a.log)
	// flush pending views after the server stops taking requests
	defer views.Close()

	scheduler := domain.NewScheduler(d.articles, a.cfg.Scheduler.Interval, a.log)
	listener := infra.NewInvalidationListener(a.cfg.DatabaseURL, d.localCache, a.log)

	router := delivery.NewRouter(delivery.Handlers{
		Auth:          delivery.NewAuthHandler(d.auth, d.users, a.log),
		Articles:      delivery.NewArticleHandler(d.articles, d.interactions, views, scheduler, a.log),
		Comments:      delivery.NewCommentHandler(d.comments, a.log),
		Categories:    delivery.NewCategoryHandler(d.categories, a.log),
		Notifications: delivery.NewNotificationHandler(d.notifications, d.recommend, a.log),
		Media:         delivery.NewMediaHandler(d.media, a.log),
		Audio:         delivery.NewAudioHandler(d.audio, a.log),
		Editorial:     delivery.NewEditorialHandler(d.reporters, d.muqtarab, d.dashboard, a.log),
		WS:            ws.WSHandler(d.hub, d.auth, a.log),
	}, delivery.RouterConfig{
		Auth:        d.auth,
		CronSecret:  a.cfg.CronSecret,
		CORSOrigins: a.cfg.CORSOrigins,
		Log:         a.log,
	})

	srv := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.log.Log(logger.LogEntry{
			Level:   "info",
			Message: "server started",
			Fields:  map[string]any{"port": a.cfg.Port},
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.log.Log(logger.LogEntry{Level: "info", Message: "shutting down"})
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error { return scheduler.Run(gctx) })
	g.Go(func() error { return listener.Run(gctx) })

	return g.Wait()
}
