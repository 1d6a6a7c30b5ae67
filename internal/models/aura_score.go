package models

import "time"

// AuraScore is the cached aura snapshot of a user. It is always recomputable
// from ratings, streak, verification and reports.
type AuraScore struct {
	UserID           string    `gorm:"primaryKey" json:"user_id"`
	RatingComponent  int       `json:"rating_component"`
	StreakComponent  int       `json:"streak_component"`
	VerifiedBonus    int       `json:"verified_bonus"`
	ReportPenalty    int       `json:"report_penalty"`
	Total            int       `gorm:"index" json:"total"`
	LastRecalculated time.Time `json:"last_recalculated"`
}

// AuraFacts are the ledger facts an aura snapshot is computed from.
type AuraFacts struct {
	// StarCounts maps a star value to how many ratings with that value the user received.
	StarCounts    map[int]int64
	CurrentStreak int
	Verified      bool
	ReportCount   int64
}
