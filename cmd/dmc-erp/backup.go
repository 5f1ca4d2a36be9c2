package main

import (
	"context"

	"github.com/Unload-CM/dmc-erp/internal/database"
	"github.com/Unload-CM/dmc-erp/internal/erp/entity"
	"github.com/Unload-CM/dmc-erp/internal/erp/repository"
	"github.com/Unload-CM/dmc-erp/internal/erp/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newBackupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "데이터 백업",
	}

	var notes string
	create := &cobra.Command{
		Use:   "create",
		Short: "Take a manual backup now",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withBackupService(cmd.Context(), func(ctx context.Context, b *service.BackupService, logger *zap.Logger) error {
				backup, err := b.Create(ctx, "", entity.BackupTypeManual, notes)
				if err != nil {
					return err
				}
				logger.Info("Backup created",
					zap.String("name", backup.BackupName),
					zap.Int64("size", backup.FileSize),
					zap.String("path", backup.FilePath),
				)
				return nil
			})
		},
	}
	create.Flags().StringVar(&notes, "notes", "", "note stored with the backup")

	due := &cobra.Command{
		Use:   "run-due",
		Short: "Take the scheduled backup if it is due",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withBackupService(cmd.Context(), func(ctx context.Context, b *service.BackupService, logger *zap.Logger) error {
				ran, err := b.RunDue(ctx)
				if err != nil {
					return err
				}
				logger.Info("Scheduled backup check", zap.Bool("taken", ran))
				return nil
			})
		},
	}

	cmd.AddCommand(create, due)
	return cmd
}

func withBackupService(ctx context.Context, fn func(context.Context, *service.BackupService, *zap.Logger) error) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()

	db, err := database.Open(cfg.Database)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	deps := service.Deps{Objects: openObjects(ctx, cfg.MinIO, logger)}
	svc := service.NewServices(repository.NewRepositories(db), deps, cfg, logger)
	return fn(ctx, svc.Backup, logger)
}
