package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yuvaraj-dudukuru/gate-pass/internal/models"
)

// GatePassFilter narrows gate pass queries.
type GatePassFilter struct {
	StudentID *uint
	Statuses  []models.GatePassStatus
	FromDate  *time.Time
	ToDate    *time.Time
	Limit     int
}

// GatePassRepository handles persistence for gate passes. The multi-row write
// paths commit pass, verification, notifications and audit entry as a single
// transaction so a partially applied transition is never observable.
type GatePassRepository interface {
	FindByID(ctx context.Context, id uint) (models.GatePass, error)
	List(ctx context.Context, filter GatePassFilter) ([]models.GatePass, error)
	ListOverdue(ctx context.Context, before time.Time) ([]models.GatePass, error)
	StatusCounts(ctx context.Context, studentID *uint) (map[models.GatePassStatus]int64, error)
	Count(ctx context.Context) (int64, error)
	CreateWithVerification(ctx context.Context, pass *models.GatePass, verification *models.ParentVerification, notifications []models.Notification) error
	ApplyTransition(ctx context.Context, pass *models.GatePass, notifications []models.Notification, activity *models.ActivityLog) error
}

type gatePassRepository struct {
	db *gorm.DB
}

// NewGatePassRepository constructs a repository backed by GORM.
func NewGatePassRepository(db *gorm.DB) GatePassRepository {
	return &gatePassRepository{db: db}
}

func (r *gatePassRepository) FindByID(ctx context.Context, id uint) (models.GatePass, error) {
	var pass models.GatePass
	if err := r.db.WithContext(ctx).
		Preload("Student.User").
		Preload("Verification").
		First(&pass, id).Error; err != nil {
		return models.GatePass{}, err
	}
	return pass, nil
}

func (r *gatePassRepository) List(ctx context.Context, filter GatePassFilter) ([]models.GatePass, error) {
	query := r.db.WithContext(ctx).Preload("Student.User")

	if filter.StudentID != nil {
		query = query.Where("student_id = ?", *filter.StudentID)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if filter.FromDate != nil {
		query = query.Where("outing_at >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("outing_at <= ?", *filter.ToDate)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var passes []models.GatePass
	if err := query.Order("created_at DESC").Find(&passes).Error; err != nil {
		return nil, err
	}
	return passes, nil
}

func (r *gatePassRepository) ListOverdue(ctx context.Context, before time.Time) ([]models.GatePass, error) {
	var passes []models.GatePass
	if err := r.db.WithContext(ctx).
		Preload("Student.User").
		Where("status = ? AND expected_return_at < ?", models.GatePassStatusSecurityApproved, before).
		Order("expected_return_at").
		Find(&passes).Error; err != nil {
		return nil, err
	}
	return passes, nil
}

func (r *gatePassRepository) StatusCounts(ctx context.Context, studentID *uint) (map[models.GatePassStatus]int64, error) {
	type row struct {
		Status models.GatePassStatus
		Total  int64
	}

	query := r.db.WithContext(ctx).Model(&models.GatePass{}).
		Select("status, COUNT(*) AS total").
		Group("status")
	if studentID != nil {
		query = query.Where("student_id = ?", *studentID)
	}

	var rows []row
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[models.GatePassStatus]int64, len(rows))
	for _, item := range rows {
		counts[item.Status] = item.Total
	}
	return counts, nil
}

func (r *gatePassRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.GatePass{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *gatePassRepository) CreateWithVerification(ctx context.Context, pass *models.GatePass, verification *models.ParentVerification, notifications []models.Notification) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(pass).Error; err != nil {
			return err
		}

		verification.GatePassID = pass.ID
		if err := tx.Create(verification).Error; err != nil {
			return err
		}

		for i := range notifications {
			notifications[i].GatePassID = pass.ID
		}
		if len(notifications) > 0 {
			if err := tx.Create(&notifications).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *gatePassRepository) ApplyTransition(ctx context.Context, pass *models.GatePass, notifications []models.Notification, activity *models.ActivityLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(pass).Error; err != nil {
			return err
		}

		if len(notifications) > 0 {
			if err := tx.Create(&notifications).Error; err != nil {
				return err
			}
		}

		if activity != nil {
			if err := tx.Create(activity).Error; err != nil {
				return err
			}
		}

		return nil
	})
}
