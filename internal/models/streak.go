package models

import "time"

// Streak holds a user's consecutive-day activity counters.
// LastVisitDate is a calendar date stored as UTC midnight; nil means no activity yet.
type Streak struct {
	UserID        string     `gorm:"primaryKey" json:"user_id"`
	CurrentStreak int        `gorm:"not null;default:0" json:"current_streak"`
	LongestStreak int        `gorm:"not null;default:0" json:"longest_streak"`
	LastVisitDate *time.Time `json:"last_visit_date"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
