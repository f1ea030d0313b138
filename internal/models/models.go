package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// User is the account row. PasswordHash and RefreshTokenHash never
// leave the process: both are excluded from JSON. RefreshTokenHash
// holds the digest of the single currently valid refresh token, or ""
// when the account has no active session.
type User struct {
	ID               string    `gorm:"primaryKey"           json:"id"`
	Email            string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash     string    `gorm:"not null"             json:"-"`
	Role             string    `gorm:"not null;default:USER" json:"role"`
	RefreshTokenHash string    `json:"-"`
	CreatedAt        time.Time `json:"createdAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
