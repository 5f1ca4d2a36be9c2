package entity

import (
	"time"
)

// UserRole 사용자 역할
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User 사용자
type User struct {
	ID           string     `json:"id" gorm:"primaryKey;size:36"`
	Email        string     `json:"email" gorm:"size:200;not null;uniqueIndex"`
	PasswordHash string     `json:"-" gorm:"size:100;not null"`
	FullName     string     `json:"full_name" gorm:"size:100"`
	Role         string     `json:"role" gorm:"size:20;not null;default:user"`
	LastLoginAt  *time.Time `json:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return CollectionUsers
}
