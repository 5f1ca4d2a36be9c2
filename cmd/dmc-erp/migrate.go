package main

import (
	"fmt"

	"github.com/Unload-CM/dmc-erp/internal/config"
	"github.com/Unload-CM/dmc-erp/internal/database"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "데이터베이스 스키마 관리",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(*cobra.Command, []string) error {
			return withMigrator(func(m *database.Migrator, logger *zap.Logger) error {
				if err := m.Up(); err != nil {
					return err
				}
				return logVersion(m, logger)
			})
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(*cobra.Command, []string) error {
			return withMigrator(func(m *database.Migrator, logger *zap.Logger) error {
				if err := m.Down(steps); err != nil {
					return err
				}
				return logVersion(m, logger)
			})
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	version := &cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		RunE: func(*cobra.Command, []string) error {
			return withMigrator(logVersion)
		},
	}

	cmd.AddCommand(up, down, version)
	return cmd
}

func withMigrator(fn func(*database.Migrator, *zap.Logger) error) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()

	m, err := database.NewMigrator(cfg.Database.URL())
	if err != nil {
		return err
	}
	defer m.Close()
	return fn(m, logger)
}

// migrateUp is the serve --auto-migrate path.
func migrateUp(cfg config.DatabaseConfig, logger *zap.Logger) error {
	m, err := database.NewMigrator(cfg.URL())
	if err != nil {
		return err
	}
	defer m.Close()
	if err := m.Up(); err != nil {
		return err
	}
	return logVersion(m, logger)
}

func logVersion(m *database.Migrator, logger *zap.Logger) error {
	v, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	logger.Info("Schema version", zap.Uint("version", v), zap.Bool("dirty", dirty))
	return nil
}
