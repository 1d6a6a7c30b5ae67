package models

import "time"

type ReportStatus string

const (
	ReportOpen        ReportStatus = "OPEN"
	ReportUnderReview ReportStatus = "UNDER_REVIEW"
	ReportClosed      ReportStatus = "CLOSED"
	ReportRejected    ReportStatus = "REJECTED"
)

// Valid reports whether s is a known status.
func (s ReportStatus) Valid() bool {
	switch s {
	case ReportOpen, ReportUnderReview, ReportClosed, ReportRejected:
		return true
	}
	return false
}

// Report is an abuse report filed against a user. Status is moved by moderation.
type Report struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	ReporterID  string       `gorm:"type:text;not null;index" json:"reporter_id"`
	ReportedID  string       `gorm:"type:text;not null;index" json:"reported_id"`
	Reason      string       `gorm:"type:text;not null" json:"reason"`
	Description string       `gorm:"type:text" json:"description"`
	RoomKey     string       `gorm:"type:text" json:"room_context,omitempty"`
	Status      ReportStatus `gorm:"type:text;not null;default:OPEN" json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
}
