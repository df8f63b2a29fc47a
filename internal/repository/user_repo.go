package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/yuvaraj-dudukuru/gate-pass/internal/models"
)

// UserRepository reads the identity collaborator's user records.
type UserRepository interface {
	FindByID(ctx context.Context, id uint) (models.User, error)
	ListByRole(ctx context.Context, role models.Role, approvedOnly bool) ([]models.User, error)
	FirstByRole(ctx context.Context, role models.Role) (models.User, error)
	CountByRole(ctx context.Context, role models.Role) (int64, error)
	Create(ctx context.Context, user *models.User) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository constructs a repository backed by GORM.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (r *userRepository) ListByRole(ctx context.Context, role models.Role, approvedOnly bool) ([]models.User, error) {
	query := r.db.WithContext(ctx).Where("role = ?", role)
	if approvedOnly {
		query = query.Where("is_approved = ?", true)
	}

	var users []models.User
	if err := query.Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) FirstByRole(ctx context.Context, role models.Role) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("role = ?", role).Order("id").First(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (r *userRepository) CountByRole(ctx context.Context, role models.Role) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("role = ?", role).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}
