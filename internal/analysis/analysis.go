// Package analysis derives reputation figures from raw ledger numbers.
// It includes the rating weights behind the aura score and the peer statistics
// shown next to a chat partner.
package analysis

import (
	"math"

	"aurachat/backend/internal/config"
)

// RatingWeight returns the aura points contributed by one rating with the given stars.
// It returns 0 for star values outside the scale.
func RatingWeight(stars int) int {
	return config.RatingWeights[stars]
}

// PeerStats is the summary of a user shown to their chat partner.
type PeerStats struct {
	Aura           int     `json:"aura"`
	AvgRating      float64 `json:"avg_rating"`
	TotalRatings   int64   `json:"total_ratings"`
	IsNewUser      bool    `json:"is_new_user"`
	AccountAgeDays int     `json:"account_age_days"`
}

// NewPeerStats builds PeerStats. A user is new while their account is younger
// than config.NewUserMaxAccountAgeDays and they have fewer than
// config.NewUserMaxRatings ratings. The average is rounded to one decimal.
func NewPeerStats(aura int, avgRating float64, totalRatings int64, accountAgeDays int) PeerStats {
	return PeerStats{
		Aura:           aura,
		AvgRating:      math.Round(avgRating*10) / 10,
		TotalRatings:   totalRatings,
		IsNewUser:      accountAgeDays < config.NewUserMaxAccountAgeDays && totalRatings < config.NewUserMaxRatings,
		AccountAgeDays: accountAgeDays,
	}
}
