package dto

import (
	"time"

	"github.com/yuvaraj-dudukuru/gate-pass/internal/models"
)

// GatePassCreateRequest carries a student's leave request.
type GatePassCreateRequest struct {
	OutingAt         time.Time `json:"outing_at" validate:"required"`
	ExpectedReturnAt time.Time `json:"expected_return_at" validate:"required"`
	Purpose          string    `json:"purpose" validate:"max=500"`
}

// WardenDecisionRequest carries a warden's approve/reject decision.
type WardenDecisionRequest struct {
	Action          string `json:"action" validate:"required,oneof=approve reject"`
	ParentVerified  bool   `json:"parent_verified"`
	RejectionReason string `json:"rejection_reason" validate:"max=500"`
}

// AdminDecisionRequest carries a superadmin override decision.
type AdminDecisionRequest struct {
	Action          string `json:"action" validate:"required,oneof=approve reject"`
	RejectionReason string `json:"rejection_reason" validate:"max=500"`
}

// RecordReturnRequest carries the actual return details recorded by security.
type RecordReturnRequest struct {
	ActualReturnAt time.Time `json:"actual_return_at" validate:"required"`
	Notes          string    `json:"notes" validate:"max=500"`
}

// GatePassFilter narrows gate pass listings.
type GatePassFilter struct {
	Status   string
	FromDate *time.Time
	ToDate   *time.Time
}

// GatePassResponse is the API shape of a gate pass.
type GatePassResponse struct {
	ID                 uint                  `json:"id"`
	StudentID          uint                  `json:"student_id"`
	StudentName        string                `json:"student_name"`
	HallTicketNo       string                `json:"hall_ticket_no"`
	RoomNo             string                `json:"room_no"`
	OutingAt           time.Time             `json:"outing_at"`
	ExpectedReturnAt   time.Time             `json:"expected_return_at"`
	Purpose            string                `json:"purpose"`
	Status             models.GatePassStatus `json:"status"`
	WardenApprovalID   *uint                 `json:"warden_approval_id,omitempty"`
	SecurityApprovalID *uint                 `json:"security_approval_id,omitempty"`
	RejectionReason    string                `json:"rejection_reason,omitempty"`
	ParentVerified     bool                  `json:"parent_verified"`
	ActualReturnAt     *time.Time            `json:"actual_return_at,omitempty"`
	ReturnNotes        string                `json:"return_notes,omitempty"`
	CreatedAt          time.Time             `json:"created_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
}

// NewGatePassResponse maps a gate pass model to its API shape.
func NewGatePassResponse(pass models.GatePass) GatePassResponse {
	return GatePassResponse{
		ID:                 pass.ID,
		StudentID:          pass.StudentID,
		StudentName:        pass.Student.StudentName,
		HallTicketNo:       pass.Student.HallTicketNo,
		RoomNo:             pass.Student.RoomNo,
		OutingAt:           pass.OutingAt,
		ExpectedReturnAt:   pass.ExpectedReturnAt,
		Purpose:            pass.Purpose,
		Status:             pass.Status,
		WardenApprovalID:   pass.WardenApprovalID,
		SecurityApprovalID: pass.SecurityApprovalID,
		RejectionReason:    pass.RejectionReason,
		ParentVerified:     pass.ParentVerified,
		ActualReturnAt:     pass.ActualReturnAt,
		ReturnNotes:        pass.ReturnNotes,
		CreatedAt:          pass.CreatedAt,
		UpdatedAt:          pass.UpdatedAt,
	}
}

// NewGatePassResponseSlice maps a slice of gate passes.
func NewGatePassResponseSlice(passes []models.GatePass) []GatePassResponse {
	responses := make([]GatePassResponse, 0, len(passes))
	for _, pass := range passes {
		responses = append(responses, NewGatePassResponse(pass))
	}
	return responses
}
