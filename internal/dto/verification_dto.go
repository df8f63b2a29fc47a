package dto

import "time"

// VerifyParentRequest carries the code a parent submits for a gate pass.
type VerifyParentRequest struct {
	Code string `json:"code" validate:"required"`
}

// VerificationResult reports the outcome of a parent verification attempt.
// A wrong code is a non-fatal result, not an error.
type VerificationResult struct {
	GatePassID uint       `json:"gatepass_id"`
	Verified   bool       `json:"verified"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
	Message    string     `json:"message"`
}
