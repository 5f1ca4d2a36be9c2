package entity

import (
	"time"
)

// BackupType 백업 유형
const (
	BackupTypeManual = "manual"
	BackupTypeAuto   = "auto"
)

// BackupFrequency 자동 백업 주기
const (
	BackupDaily   = "daily"
	BackupWeekly  = "weekly"
	BackupMonthly = "monthly"
)

// DBBackup 백업 이력
type DBBackup struct {
	ID             string    `json:"id" gorm:"primaryKey;size:36"`
	BackupName     string    `json:"backup_name" gorm:"size:200;not null;uniqueIndex"`
	BackupType     string    `json:"backup_type" gorm:"size:20;not null"`
	FilePath       string    `json:"file_path" gorm:"size:500;not null"`
	FileSize       int64     `json:"file_size" gorm:"not null;default:0"`
	TablesIncluded string    `json:"tables_included" gorm:"type:text"` // comma separated
	CreatedBy      string    `json:"created_by" gorm:"size:36"`
	Notes          string    `json:"notes" gorm:"type:text"`
	CreatedAt      time.Time `json:"created_at"`
}

func (DBBackup) TableName() string {
	return CollectionBackups
}

// BackupSettings 자동 백업 설정 (단일 행)
type BackupSettings struct {
	ID                  string     `json:"id" gorm:"primaryKey;size:36"`
	AutoBackupEnabled   bool       `json:"auto_backup_enabled" gorm:"not null;default:false"`
	BackupFrequency     string     `json:"backup_frequency" gorm:"size:20;not null;default:daily"`
	NextScheduledBackup *time.Time `json:"next_scheduled_backup"`
	LastBackupAt        *time.Time `json:"last_backup_at"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

func (BackupSettings) TableName() string {
	return CollectionBackupSettings
}

// NextRun advances from by one backup period.
func NextRun(frequency string, from time.Time) time.Time {
	switch frequency {
	case BackupWeekly:
		return from.AddDate(0, 0, 7)
	case BackupMonthly:
		return from.AddDate(0, 1, 0)
	default:
		return from.AddDate(0, 0, 1)
	}
}
