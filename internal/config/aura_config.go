package config

const (
	// Aura
	StreakPointsPerDay = 5
	VerifiedBonus      = 50
	ReportPenalty      = 50

	// Rating
	MinStars = 1
	MaxStars = 5

	// Peer stats
	NewUserMaxAccountAgeDays = 4
	NewUserMaxRatings        = 3
)

// RatingWeights maps a star value to the aura points it contributes.
var RatingWeights = map[int]int{
	5: 50,
	4: 30,
	3: 15,
	2: 5,
	1: -5,
}
