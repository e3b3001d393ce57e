package main

import (
	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/newsroom/internal/migrations"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := migrations.Up(cmd.Context(), a.pool, a.log)
			if err != nil {
				return err
			}
			a.log.Log(logger.LogEntry{
				Level:   "info",
				Message: "migrations done",
				Fields:  map[string]any{"applied": n},
			})
			return nil
		},
	}
}
