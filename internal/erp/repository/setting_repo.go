package repository

import (
	"context"
	"errors"

	"github.com/Unload-CM/dmc-erp/internal/erp/entity"
	"gorm.io/gorm"
)

// SettingRepository holds the single-row settings collections.
type SettingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

// GetSite returns the site settings row, or ErrNotFound before the first save.
func (r *SettingRepository) GetSite(ctx context.Context) (*entity.SiteSetting, error) {
	var s entity.SiteSetting
	if err := r.db.WithContext(ctx).Order("created_at ASC").First(&s).Error; err != nil {
		return nil, translate(err, entity.CollectionSiteSettings)
	}
	return &s, nil
}

func (r *SettingRepository) SaveSite(ctx context.Context, s *entity.SiteSetting) error {
	return translate(r.db.WithContext(ctx).Save(s).Error, entity.CollectionSiteSettings)
}

// GetBackup returns the backup settings row, creating the default one on first use.
func (r *SettingRepository) GetBackup(ctx context.Context) (*entity.BackupSettings, error) {
	var s entity.BackupSettings
	err := r.db.WithContext(ctx).Order("created_at ASC").First(&s).Error
	if err == nil {
		return &s, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, translate(err, entity.CollectionBackupSettings)
	}
	s = entity.BackupSettings{
		ID:              entity.NewID(),
		BackupFrequency: entity.BackupDaily,
	}
	if err := r.db.WithContext(ctx).Create(&s).Error; err != nil {
		return nil, translate(err, entity.CollectionBackupSettings)
	}
	return &s, nil
}

func (r *SettingRepository) SaveBackup(ctx context.Context, s *entity.BackupSettings) error {
	return translate(r.db.WithContext(ctx).Save(s).Error, entity.CollectionBackupSettings)
}
