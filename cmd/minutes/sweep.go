package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/minutes-flow/internal/app"
	"github.com/nguyentantai21042004/minutes-flow/internal/config"
	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
)

func newSweepCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Delete expired audio objects once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			cfg, err := config.Load(*configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

			a, err := app.New(ctx, cfg, log)
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			defer a.Close()

			n, err := a.Store.SweepExpired(ctx)
			if err != nil {
				return fmt.Errorf("sweep: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d expired audio objects\n", n)
			return nil
		},
	}
}
