package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/yuvaraj-dudukuru/gate-pass/internal/models"
)

// StudentRepository handles persistence for student profiles.
type StudentRepository interface {
	FindByID(ctx context.Context, id uint) (models.Student, error)
	FindByUserID(ctx context.Context, userID uint) (models.Student, error)
	Create(ctx context.Context, student *models.Student) error
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository constructs a repository backed by GORM.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) FindByID(ctx context.Context, id uint) (models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).Preload("User").First(&student, id).Error; err != nil {
		return models.Student{}, err
	}
	return student, nil
}

func (r *studentRepository) FindByUserID(ctx context.Context, userID uint) (models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).Preload("User").Where("user_id = ?", userID).First(&student).Error; err != nil {
		return models.Student{}, err
	}
	return student, nil
}

func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}
