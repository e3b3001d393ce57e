package main

import (
	"fmt"
	"time"

	"github.com/Vovarama1992/newsroom/internal/domain"
	"github.com/spf13/cobra"
)

// publishCmd runs one scheduler pass, for hosts that prefer an external cron.
func publishCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "publish-scheduled",
		Short: "Publish scheduled articles that are due and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			d, err := wire(ctx, a)
			if err != nil {
				return err
			}
			defer d.Close()

			published, err := domain.NewScheduler(d.articles, time.Minute, a.log).RunOnce(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "published %d article(s)\n", len(published))
			return nil
		},
	}
}
