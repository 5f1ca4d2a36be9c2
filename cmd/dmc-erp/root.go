package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/Unload-CM/dmc-erp/internal/config"
	"github.com/Unload-CM/dmc-erp/internal/erp/storage"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "dmc-erp",
		Short:        "DMC ERP 대시보드 서버",
		SilenceUsage: true,
	}
	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newBackupCmd(),
		newVersionCmd(),
	)
	return root
}

// bootstrap loads .env and the config file, then builds the logger.
func bootstrap() (*config.Config, *zap.Logger, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := initLogger(cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, logger, nil
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	zapCfg := zap.NewDevelopmentConfig()
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	}
	if cfg.Level != "" {
		level, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("log.level: %w", err)
		}
		zapCfg.Level = level
	}
	return zapCfg.Build()
}

// openObjects falls back to the disabled store when MinIO is off or down.
func openObjects(ctx context.Context, cfg config.MinIOConfig, logger *zap.Logger) storage.ObjectStore {
	if !cfg.Enabled {
		logger.Info("MinIO disabled, backups are recorded without files")
		return storage.Disabled{}
	}
	store, err := storage.NewMinIOStore(ctx, cfg)
	if err != nil {
		logger.Warn("Failed to connect to MinIO, continuing without backup files", zap.Error(err))
		return storage.Disabled{}
	}
	logger.Info("MinIO connected", zap.String("bucket", cfg.Bucket))
	return store
}

// allowedOrigins reads CORS_ALLOWED_ORIGINS (comma separated). Empty allows all.
func allowedOrigins() []string {
	raw := config.GetEnvOrDefault("CORS_ALLOWED_ORIGINS", "")
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
