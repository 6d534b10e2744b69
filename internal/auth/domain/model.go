// Package domain contains core types for the auth service.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents a directory account.
type User struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Username      string     `gorm:"type:text;not null;uniqueIndex"`
	Email         *string    `gorm:"type:text;uniqueIndex"`
	FullName      string     `gorm:"type:text"`
	Provider      string     `gorm:"type:text;not null;default:local"`
	PasswordHash  *string    `gorm:"type:text"`
	EmailVerified bool       `gorm:"not null;default:false"`
	LastLoginAt   *time.Time `gorm:"column:last_login_at"`
	CreatedAt     time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }
