package cmd

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"github.com/vibeshare/vibeshare/internal/config"
	"github.com/vibeshare/vibeshare/internal/db"
	"github.com/vibeshare/vibeshare/internal/logger"
)

func MigrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd.Context(), func(ctx context.Context, database *sqlx.DB, driver string) error {
				return db.RunMigrations(ctx, database.DB, driver)
			})
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd.Context(), func(ctx context.Context, database *sqlx.DB, driver string) error {
				return db.MigrateDown(ctx, database.DB, driver)
			})
		},
	})

	return migrateCmd
}

func withDatabase(ctx context.Context, fn func(context.Context, *sqlx.DB, string) error) error {
	cfg := config.Load()

	flush := logger.Init(logger.Options{
		Development: cfg.IsDevelopment(),
		SentryDSN:   cfg.SentryDSN,
		Environment: cfg.AppEnv,
	})
	defer flush()

	database, err := db.Init(ctx, cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() { _ = database.Close() }()

	return fn(ctx, database, cfg.DBDriver)
}
