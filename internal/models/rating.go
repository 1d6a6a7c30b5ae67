package models

import "time"

// Rating is an immutable star rating one user gave another.
type Rating struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RaterID   string    `gorm:"type:text;not null;index:idx_rating_pair" json:"rater_id"`
	RateeID   string    `gorm:"type:text;not null;index:idx_rating_pair" json:"ratee_id"`
	Stars     int       `gorm:"not null" json:"stars"`
	CreatedAt time.Time `gorm:"index:idx_rating_pair" json:"created_at"`
}
