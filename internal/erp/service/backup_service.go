package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Unload-CM/dmc-erp/internal/config"
	"github.com/Unload-CM/dmc-erp/internal/erp/entity"
	"github.com/Unload-CM/dmc-erp/internal/erp/repository"
	"github.com/Unload-CM/dmc-erp/internal/erp/storage"
	"go.uber.org/zap"
)

// BackupService 데이터 백업
type BackupService struct {
	repos   *repository.Repositories
	objects storage.ObjectStore
	tables  []string
	notify  *notifier
	logger  *zap.Logger
	now     func() time.Time
}

func NewBackupService(repos *repository.Repositories, objects storage.ObjectStore, cfg config.BackupConfig, n *notifier, logger *zap.Logger) *BackupService {
	tables := cfg.Tables
	if len(tables) == 0 {
		tables = config.DefaultBackupTables
	}
	return &BackupService{
		repos:   repos,
		objects: objects,
		tables:  tables,
		notify:  n,
		logger:  logger.Named("backup"),
		now:     time.Now,
	}
}

// BackupRequest 수동 백업 요청
type BackupRequest struct {
	Notes string `json:"notes" binding:"max=1000"`
}

// backupDocument is the archive layout.
type backupDocument struct {
	BackupName string                              `json:"backup_name"`
	CreatedAt  time.Time                           `json:"created_at"`
	Tables     map[string][]map[string]interface{} `json:"tables"`
}

func (s *BackupService) List(ctx context.Context, q ListQuery) ([]entity.DBBackup, int64, error) {
	return s.repos.Backup.List(ctx, q.params())
}

func (s *BackupService) Get(ctx context.Context, id string) (*entity.DBBackup, error) {
	return s.repos.Backup.FindByID(ctx, id)
}

// Create snapshots the configured tables into one JSON archive, stores it and
// records the backup. Tables that do not exist are left out.
func (s *BackupService) Create(ctx context.Context, userID, backupType, notes string) (*entity.DBBackup, error) {
	now := s.now()
	name := fmt.Sprintf("%s_backup_%s", backupType, now.Format("2006-01-02_15-04-05"))

	doc := backupDocument{
		BackupName: name,
		CreatedAt:  now,
		Tables:     make(map[string][]map[string]interface{}, len(s.tables)),
	}
	included := make([]string, 0, len(s.tables))
	for _, table := range s.tables {
		rows, err := s.repos.Backup.Snapshot(ctx, table)
		if errors.Is(err, repository.ErrCollectionMissing) {
			s.logger.Warn("skip missing table", zap.String("table", table))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("snapshot %s: %w", table, err)
		}
		if rows == nil {
			rows = []map[string]interface{}{}
		}
		doc.Tables[table] = rows
		included = append(included, table)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode backup: %w", err)
	}
	path, err := s.objects.Put(ctx, "backups/"+name+".json", bytes.NewReader(data), int64(len(data)), "application/json")
	if err != nil {
		return nil, err
	}

	b := &entity.DBBackup{
		ID:             entity.NewID(),
		BackupName:     name,
		BackupType:     backupType,
		FilePath:       path,
		FileSize:       int64(len(data)),
		TablesIncluded: strings.Join(included, ","),
		CreatedBy:      userID,
		Notes:          notes,
	}
	if err := s.repos.Backup.Create(ctx, b); err != nil {
		if rmErr := s.objects.Remove(ctx, path); rmErr != nil {
			s.logger.Warn("remove orphaned archive", zap.String("path", path), zap.Error(rmErr))
		}
		return nil, err
	}

	s.logger.Info("backup created",
		zap.String("name", name),
		zap.Int64("size", b.FileSize),
		zap.Strings("tables", included))
	s.notify.created(ctx, entity.CollectionBackups, b.ID)
	return b, nil
}

// Download opens the archive of a backup. It fails with
// storage.ErrUnavailable when the backup was taken without object storage.
func (s *BackupService) Download(ctx context.Context, id string) (*entity.DBBackup, io.ReadCloser, error) {
	b, err := s.repos.Backup.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	r, err := s.objects.Get(ctx, b.FilePath)
	if err != nil {
		return nil, nil, err
	}
	return b, r, nil
}

// Delete removes the record and its archive.
func (s *BackupService) Delete(ctx context.Context, id string) error {
	b, err := s.repos.Backup.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repos.Backup.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.objects.Remove(ctx, b.FilePath); err != nil {
		s.logger.Warn("remove archive", zap.String("path", b.FilePath), zap.Error(err))
	}
	s.notify.deleted(ctx, entity.CollectionBackups, id)
	return nil
}

// === 자동 백업 설정 ===

// BackupSettingsRequest 자동 백업 설정 저장 요청
type BackupSettingsRequest struct {
	AutoBackupEnabled *bool  `json:"auto_backup_enabled" binding:"required"`
	BackupFrequency   string `json:"backup_frequency" binding:"required,oneof=daily weekly monthly"`
}

func (s *BackupService) Settings(ctx context.Context) (*entity.BackupSettings, error) {
	return s.repos.Setting.GetBackup(ctx)
}

// SaveSettings stores the schedule. Enabling it schedules the next run one
// period from now.
func (s *BackupService) SaveSettings(ctx context.Context, req *BackupSettingsRequest) (*entity.BackupSettings, error) {
	settings, err := s.repos.Setting.GetBackup(ctx)
	if err != nil {
		return nil, err
	}
	settings.AutoBackupEnabled = *req.AutoBackupEnabled
	settings.BackupFrequency = req.BackupFrequency
	if settings.AutoBackupEnabled {
		next := entity.NextRun(settings.BackupFrequency, s.now())
		settings.NextScheduledBackup = &next
	} else {
		settings.NextScheduledBackup = nil
	}
	if err := s.repos.Setting.SaveBackup(ctx, settings); err != nil {
		return nil, err
	}
	s.notify.updated(ctx, entity.CollectionBackupSettings, settings.ID)
	return settings, nil
}

// RunDue takes an automatic backup when one is due and moves the schedule
// forward. It reports whether a backup was taken.
func (s *BackupService) RunDue(ctx context.Context) (bool, error) {
	settings, err := s.repos.Setting.GetBackup(ctx)
	if err != nil {
		return false, err
	}
	now := s.now()
	if !settings.AutoBackupEnabled || settings.NextScheduledBackup == nil || now.Before(*settings.NextScheduledBackup) {
		return false, nil
	}

	if _, err := s.Create(ctx, "", entity.BackupTypeAuto, "자동 백업"); err != nil {
		return false, err
	}

	next := entity.NextRun(settings.BackupFrequency, now)
	settings.LastBackupAt = &now
	settings.NextScheduledBackup = &next
	if err := s.repos.Setting.SaveBackup(ctx, settings); err != nil {
		return true, err
	}
	return true, nil
}
