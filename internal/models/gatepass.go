package models

import "time"

// GatePassStatus enumerates the approval states a gate pass moves through.
type GatePassStatus string

const (
	// GatePassStatusPending is the initial state after a student submits a request.
	GatePassStatusPending GatePassStatus = "pending"
	// GatePassStatusWardenApproved means a warden (or superadmin) has cleared the request.
	GatePassStatusWardenApproved GatePassStatus = "warden_approved"
	// GatePassStatusWardenRejected is the terminal rejection state, reachable from pending only.
	GatePassStatusWardenRejected GatePassStatus = "warden_rejected"
	// GatePassStatusSecurityApproved means security has confirmed the student left campus.
	GatePassStatusSecurityApproved GatePassStatus = "security_approved"
	// GatePassStatusReturned is the terminal state after security records the return.
	GatePassStatusReturned GatePassStatus = "returned"
)

// Terminal reports whether no further transition can leave this state.
func (s GatePassStatus) Terminal() bool {
	return s == GatePassStatusWardenRejected || s == GatePassStatusReturned
}

// GatePass is a single leave-request record carrying its outing window and
// approval status. Approver references survive user deletion as nulls; the
// student reference owns the pass.
type GatePass struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	StudentID          uint           `gorm:"not null;index" json:"student_id"`
	OutingAt           time.Time      `gorm:"not null" json:"outing_at"`
	ExpectedReturnAt   time.Time      `gorm:"not null" json:"expected_return_at"`
	Purpose            string         `gorm:"size:500" json:"purpose"`
	Status             GatePassStatus `gorm:"size:20;not null;default:pending;index" json:"status"`
	WardenApprovalID   *uint          `json:"warden_approval_id,omitempty"`
	SecurityApprovalID *uint          `json:"security_approval_id,omitempty"`
	RejectionReason    string         `gorm:"size:500" json:"rejection_reason,omitempty"`
	ParentVerified     bool           `gorm:"not null;default:false" json:"parent_verified"`
	ActualReturnAt     *time.Time     `json:"actual_return_at,omitempty"`
	ReturnVerifiedByID *uint          `json:"return_verified_by_id,omitempty"`
	ReturnNotes        string         `gorm:"size:500" json:"return_notes,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`

	Student          Student             `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"student"`
	WardenApproval   *User               `gorm:"constraint:OnDelete:SET NULL" json:"warden_approval,omitempty"`
	SecurityApproval *User               `gorm:"constraint:OnDelete:SET NULL" json:"security_approval,omitempty"`
	ReturnVerifiedBy *User               `gorm:"constraint:OnDelete:SET NULL" json:"return_verified_by,omitempty"`
	Verification     *ParentVerification `gorm:"constraint:OnDelete:CASCADE" json:"verification,omitempty"`
}
