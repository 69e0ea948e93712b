package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/minutes-flow/internal/config"
	"github.com/nguyentantai21042004/minutes-flow/internal/infra/database"
	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
)

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

			db, err := database.NewPostgres(cfg.Database.PostgresDSN, log)
			if err != nil {
				return fmt.Errorf("connect postgres: %w", err)
			}
			if err := database.MigratePostgres(db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}

			log.Info(context.Background(), "Database migrated")
			return nil
		},
	}
}
