package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yuvaraj-dudukuru/gate-pass/internal/models"
	"github.com/yuvaraj-dudukuru/gate-pass/internal/repository"
)

// ErrUserNotFound indicates the authenticated principal no longer exists.
var ErrUserNotFound = errors.New("user not found")

// Actor is the resolved principal performing an operation.
type Actor struct {
	ID       uint
	Role     models.Role
	Gender   models.Gender
	Approved bool
}

// IdentityService adapts the identity collaborator: it turns an authenticated
// user id into the (role, gender, approval) tuple the core operations need.
type IdentityService interface {
	Resolve(ctx context.Context, userID uint) (Actor, error)
}

type identityService struct {
	users repository.UserRepository
}

// NewIdentityService constructs an identity resolver over the user store.
func NewIdentityService(users repository.UserRepository) IdentityService {
	return &identityService{users: users}
}

func (s *identityService) Resolve(ctx context.Context, userID uint) (Actor, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Actor{}, ErrUserNotFound
		}
		return Actor{}, err
	}

	return Actor{
		ID:       user.ID,
		Role:     user.Role,
		Gender:   user.Gender,
		Approved: user.IsApproved,
	}, nil
}
