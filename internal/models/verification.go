package models

import "time"

// ParentVerification is the one-time-code record proving parental awareness
// of an outing. Created in the same transaction as its gate pass; the code is
// immutable afterwards and the record is never deleted on its own.
type ParentVerification struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	GatePassID   uint       `gorm:"uniqueIndex;not null" json:"gatepass_id"`
	ParentMobile string     `gorm:"size:10;not null" json:"parent_mobile"`
	Code         string     `gorm:"size:6;not null" json:"-"`
	Verified     bool       `gorm:"not null;default:false" json:"verified"`
	VerifiedAt   *time.Time `json:"verified_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}
