package models

import "time"

// Connection is a directed interest edge From -> To.
type Connection struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FromUserID string    `gorm:"type:text;not null;uniqueIndex:idx_connection_edge" json:"from_user_id"`
	ToUserID   string    `gorm:"type:text;not null;uniqueIndex:idx_connection_edge;index" json:"to_user_id"`
	CreatedAt  time.Time `json:"created_at"`
}
