package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/plata/internal/config"
	"github.com/Veraticus/plata/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Create or update the tables that store confirmed financial actions.

The backend is chosen by database.driver (sqlite or postgres).`,
		RunE: runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg := config.LoadStorageConfig(viper.GetViper())

	slog.Info("Starting database migration",
		"driver", cfg.Driver,
		"path", cfg.Path)

	store, err := storage.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("Database migrations completed", "version", storage.ExpectedSchemaVersion)
	return nil
}
