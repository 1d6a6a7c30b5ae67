package models

import "time"

// Message is a persisted chat message between two users.
// Body never changes; IsRead/ReadAt flip exactly once.
type Message struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	SenderID   string     `gorm:"type:text;not null;index:idx_message_pair" json:"sender_id"`
	ReceiverID string     `gorm:"type:text;not null;index:idx_message_pair" json:"receiver_id"`
	Body       string     `gorm:"type:text;not null" json:"message"`
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
	IsRead     bool       `gorm:"not null;default:false" json:"is_read"`
	ReadAt     *time.Time `json:"read_at,omitempty"`
}
