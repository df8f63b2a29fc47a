package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/yuvaraj-dudukuru/gate-pass/internal/dto"
	"github.com/yuvaraj-dudukuru/gate-pass/internal/models"
	"github.com/yuvaraj-dudukuru/gate-pass/internal/repository"
)

// ErrInvalidCodeFormat indicates the submitted code is not a 6-digit numeric string.
var ErrInvalidCodeFormat = errors.New("verification code must be exactly 6 digits")

// ErrVerificationNotFound indicates no verification record exists for the gate pass.
var ErrVerificationNotFound = errors.New("verification record not found")

const verificationCodeLength = 6

// VerificationService issues and checks the one-time parent verification code
// tied to a gate pass.
type VerificationService interface {
	// Issue builds a fresh verification record for a new gate pass. It does
	// not persist: the record is committed in the same transaction as the
	// pass itself, so both succeed or both fail.
	Issue(student models.Student) (models.ParentVerification, error)
	Verify(ctx context.Context, gatepassID uint, code string) (dto.VerificationResult, error)
}

type verificationService struct {
	repo   repository.VerificationRepository
	logger zerolog.Logger
	now    func() time.Time
}

// NewVerificationService constructs a verification service.
func NewVerificationService(repo repository.VerificationRepository, logger zerolog.Logger) VerificationService {
	return &verificationService{
		repo:   repo,
		logger: logger.With().Str("component", "verification_service").Logger(),
		now:    time.Now,
	}
}

func (s *verificationService) Issue(student models.Student) (models.ParentVerification, error) {
	code, err := generateCode()
	if err != nil {
		return models.ParentVerification{}, fmt.Errorf("failed to generate verification code: %w", err)
	}

	return models.ParentVerification{
		ParentMobile: student.ParentMobile,
		Code:         code,
	}, nil
}

func (s *verificationService) Verify(ctx context.Context, gatepassID uint, code string) (dto.VerificationResult, error) {
	if !isSixDigits(code) {
		return dto.VerificationResult{}, ErrInvalidCodeFormat
	}

	verification, err := s.repo.FindByGatePassID(ctx, gatepassID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.VerificationResult{}, ErrVerificationNotFound
		}
		return dto.VerificationResult{}, err
	}

	if code != verification.Code {
		return dto.VerificationResult{
			GatePassID: gatepassID,
			Verified:   false,
			Message:    "invalid verification code",
		}, nil
	}

	// Re-verifying an already-verified record simply re-confirms.
	if !verification.Verified {
		now := s.now()
		verification.Verified = true
		verification.VerifiedAt = &now
		if err := s.repo.Update(ctx, &verification); err != nil {
			return dto.VerificationResult{}, err
		}
		s.logger.Info().Uint("gatepass_id", gatepassID).Msg("parent verification completed")
	}

	return dto.VerificationResult{
		GatePassID: gatepassID,
		Verified:   true,
		VerifiedAt: verification.VerifiedAt,
		Message:    "parent verification completed",
	}, nil
}

// generateCode returns a uniformly random 6-digit numeric string, leading
// zeros allowed.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func isSixDigits(code string) bool {
	if len(code) != verificationCodeLength {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
