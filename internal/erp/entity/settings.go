package entity

import (
	"time"
)

// EmployeeStatus 직원 상태
const (
	EmployeeStatusActive     = "active"
	EmployeeStatusLeave      = "leave"
	EmployeeStatusTerminated = "terminated"
)

// Unit 단위
type Unit struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	Name        string    `json:"name" gorm:"size:50;not null;uniqueIndex"`
	Description string    `json:"description" gorm:"size:200"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Unit) TableName() string {
	return CollectionUnits
}

// Priority 우선순위
type Priority struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	Name        string    `json:"name" gorm:"size:50;not null;uniqueIndex"`
	Description string    `json:"description" gorm:"size:200"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Priority) TableName() string {
	return CollectionPriorities
}

// TaskStatus 작업 상태
type TaskStatus struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	Name        string    `json:"name" gorm:"size:50;not null;uniqueIndex"`
	Description string    `json:"description" gorm:"size:200"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (TaskStatus) TableName() string {
	return CollectionTaskStatuses
}

// Employee 직원
type Employee struct {
	ID         string     `json:"id" gorm:"primaryKey;size:36"`
	Name       string     `json:"name" gorm:"size:100;not null"`
	Department string     `json:"department" gorm:"size:100"`
	Position   string     `json:"position" gorm:"size:100"`
	Email      string     `json:"email" gorm:"size:200"`
	Phone      string     `json:"phone" gorm:"size:50"`
	HireDate   *time.Time `json:"hire_date" gorm:"type:date"`
	Status     string     `json:"status" gorm:"size:20;not null;default:active"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (Employee) TableName() string {
	return CollectionEmployees
}

// SiteSetting 사이트 설정 (단일 행)
type SiteSetting struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	SiteName     string    `json:"site_name" gorm:"size:200"`
	LogoURL      string    `json:"logo_url" gorm:"size:500"`
	ContactEmail string    `json:"contact_email" gorm:"size:200"`
	Theme        string    `json:"theme" gorm:"size:20;default:light"`
	UpdatedBy    string    `json:"updated_by" gorm:"size:36"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (SiteSetting) TableName() string {
	return CollectionSiteSettings
}
