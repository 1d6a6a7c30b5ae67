package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a platform account. Ban and verification state live in their own
// tables and are resolved through the access gate.
type User struct {
	ID             string    `gorm:"primaryKey" json:"id"`
	Username       string    `gorm:"uniqueIndex;not null" json:"username"`
	FullName       string    `json:"full_name"`
	TelegramChatID *int64    `json:"-"` // optional target for offline notifications
	CreatedAt      time.Time `json:"created_at"`
}

// BeforeCreate is a GORM hook that assigns a UUID when ID is empty.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}

// AccountAgeDays returns the number of whole days since the account was created.
func (u *User) AccountAgeDays(now time.Time) int {
	days := int(now.Sub(u.CreatedAt) / (24 * time.Hour))
	if days < 0 {
		return 0
	}
	return days
}
