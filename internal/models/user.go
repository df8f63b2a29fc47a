package models

import "time"

// Role identifies the closed set of actor roles known to the system.
type Role string

const (
	RoleStudent    Role = "student"
	RoleWarden     Role = "warden"
	RoleSecurity   Role = "security"
	RoleSuperAdmin Role = "superadmin"
)

// Valid reports whether the role is one of the known role tags.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleWarden, RoleSecurity, RoleSuperAdmin:
		return true
	}
	return false
}

// Gender is the single-letter gender tag used for warden routing.
type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

// User represents an authenticated principal with a fixed role tag.
// Registration and credential handling live in the identity collaborator;
// this service only reads users.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email        *string   `gorm:"size:255;uniqueIndex" json:"email,omitempty"`
	MobileNumber *string   `gorm:"size:10;uniqueIndex" json:"mobile_number,omitempty"`
	Role         Role      `gorm:"size:20;not null;index" json:"role"`
	Gender       Gender    `gorm:"size:1" json:"gender,omitempty"`
	IsApproved   bool      `gorm:"not null;default:false" json:"is_approved"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
