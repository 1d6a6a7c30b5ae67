package models

import "time"

// Ban records a moderation ban. A user is banned while any Active row exists.
type Ban struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"type:text;not null;index" json:"user_id"`
	BannedBy  string    `gorm:"type:text" json:"banned_by"`
	Reason    string    `gorm:"type:text;not null" json:"reason"`
	Active    bool      `gorm:"not null;default:true;index" json:"active"`
	CreatedAt time.Time `json:"created_at"`
}
