package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/newsroom/internal/config"
	"github.com/Vovarama1992/newsroom/internal/infra"
	"github.com/Vovarama1992/newsroom/internal/logging"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	root := &cobra.Command{
		Use:           "newsroom",
		Short:         "Arabic news CMS backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd(), migrateCmd(), publishCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// app is what every subcommand needs before it can do work.
type app struct {
	cfg   config.Config
	log   *logger.ZapLogger
	zcore *zap.Logger
	pool  *pgxpool.Pool
}

func bootstrap(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	zl, zcore, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	pool, err := infra.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		_ = zcore.Sync()
		return nil, err
	}
	return &app{cfg: cfg, log: zl, zcore: zcore, pool: pool}, nil
}

func (a *app) Close() {
	a.pool.Close()
	_ = a.zcore.Sync()
}
