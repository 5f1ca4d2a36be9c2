package repository

import (
	"context"
	"fmt"

	"github.com/Unload-CM/dmc-erp/internal/erp/entity"
	"gorm.io/gorm"
)

type BackupRepository struct {
	db *gorm.DB
}

func NewBackupRepository(db *gorm.DB) *BackupRepository {
	return &BackupRepository{db: db}
}

func (r *BackupRepository) List(ctx context.Context, params ListParams) ([]entity.DBBackup, int64, error) {
	params.normalize()
	query := r.db.WithContext(ctx).Model(&entity.DBBackup{})
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err, entity.CollectionBackups)
	}
	var items []entity.DBBackup
	err := query.Order("created_at DESC").Offset(params.offset()).Limit(params.PageSize).Find(&items).Error
	return items, total, translate(err, entity.CollectionBackups)
}

func (r *BackupRepository) FindByID(ctx context.Context, id string) (*entity.DBBackup, error) {
	var b entity.DBBackup
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&b).Error; err != nil {
		return nil, translate(err, entity.CollectionBackups)
	}
	return &b, nil
}

func (r *BackupRepository) Create(ctx context.Context, b *entity.DBBackup) error {
	return translate(r.db.WithContext(ctx).Create(b).Error, entity.CollectionBackups)
}

func (r *BackupRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.DBBackup{})
	if result.Error != nil {
		return translate(result.Error, entity.CollectionBackups)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Snapshot reads every row of table as generic maps.
func (r *BackupRepository) Snapshot(ctx context.Context, table string) ([]map[string]interface{}, error) {
	if !r.db.WithContext(ctx).Migrator().HasTable(table) {
		return nil, &CollectionMissingError{Collection: table, Err: fmt.Errorf("table %s not found", table)}
	}
	var rows []map[string]interface{}
	err := r.db.WithContext(ctx).Table(table).Find(&rows).Error
	return rows, translate(err, table)
}
