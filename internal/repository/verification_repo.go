package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/yuvaraj-dudukuru/gate-pass/internal/models"
)

// VerificationRepository handles persistence for parent verification records.
// Creation happens inside the gate pass creation transaction; this repository
// only reads and flips the verified flag.
type VerificationRepository interface {
	FindByGatePassID(ctx context.Context, gatepassID uint) (models.ParentVerification, error)
	Update(ctx context.Context, verification *models.ParentVerification) error
}

type verificationRepository struct {
	db *gorm.DB
}

// NewVerificationRepository constructs a repository backed by GORM.
func NewVerificationRepository(db *gorm.DB) VerificationRepository {
	return &verificationRepository{db: db}
}

func (r *verificationRepository) FindByGatePassID(ctx context.Context, gatepassID uint) (models.ParentVerification, error) {
	var verification models.ParentVerification
	if err := r.db.WithContext(ctx).Where("gate_pass_id = ?", gatepassID).First(&verification).Error; err != nil {
		return models.ParentVerification{}, err
	}
	return verification, nil
}

func (r *verificationRepository) Update(ctx context.Context, verification *models.ParentVerification) error {
	return r.db.WithContext(ctx).Save(verification).Error
}
