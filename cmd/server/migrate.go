package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mmynk/groupledger/internal/config"
	"github.com/mmynk/groupledger/internal/storage/sqlite"
)

// migrateCommand applies every pending migration to the configured database.
func migrateCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Migrates the database to the latest version",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
				return fmt.Errorf("failed to create database directory: %w", err)
			}
			if err := sqlite.RunMigrations(cfg.DBPath); err != nil {
				return err
			}
			slog.Info("Database migrated", "database", cfg.DBPath)
			return nil
		},
	}
}
