package models

import "time"

type VerificationStatus string

const (
	// Unverified is reported when a user has no verification record at all.
	Unverified           VerificationStatus = "UNVERIFIED"
	VerificationPending  VerificationStatus = "PENDING"
	VerificationVerified VerificationStatus = "VERIFIED"
	VerificationRejected VerificationStatus = "REJECTED"
)

type DocumentType string

const (
	DocumentNationalID     DocumentType = "NATIONAL_ID"
	DocumentPassport       DocumentType = "PASSPORT"
	DocumentDriversLicense DocumentType = "DRIVERS_LICENSE"
	DocumentOther          DocumentType = "OTHER"
)

// Valid reports whether d is a known document type.
func (d DocumentType) Valid() bool {
	switch d {
	case DocumentNationalID, DocumentPassport, DocumentDriversLicense, DocumentOther:
		return true
	}
	return false
}

// Verification is the identity verification record of a user (at most one).
type Verification struct {
	UserID       string             `gorm:"primaryKey" json:"user_id"`
	DocumentType DocumentType       `gorm:"type:text;not null" json:"document_type"`
	DocumentRef  string             `gorm:"type:text" json:"document_ref"`
	Status       VerificationStatus `gorm:"type:text;not null;default:PENDING" json:"status"`
	CreatedAt    time.Time          `json:"created_at"`
	ReviewedAt   *time.Time         `json:"reviewed_at,omitempty"`
}
