package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/yuvaraj-dudukuru/gate-pass/internal/models"
	"github.com/yuvaraj-dudukuru/gate-pass/internal/repository"
)

var (
	// ErrSeedDisabled indicates the seeding tools are disabled by configuration.
	ErrSeedDisabled = errors.New("seeding is disabled")
	// ErrSeedUnauthorized indicates the provided token is invalid.
	ErrSeedUnauthorized = errors.New("invalid seed token")
	// ErrDuplicateRecord is the user-facing conversion of a unique-constraint
	// violation (hall ticket, parent mobile, email or username already taken).
	ErrDuplicateRecord = errors.New("a record with the same unique details already exists")
)

// SeedResult summarises what a seeding run created.
type SeedResult struct {
	UsersCreated    int `json:"users_created"`
	StudentsCreated int `json:"students_created"`
}

// SeedService populates demo users and students in development environments.
type SeedService interface {
	Seed(ctx context.Context, token string) (SeedResult, error)
}

type seedService struct {
	users    repository.UserRepository
	students repository.StudentRepository
	enabled  bool
	token    string
	logger   zerolog.Logger
}

// NewSeedService constructs a seeding service.
func NewSeedService(users repository.UserRepository, students repository.StudentRepository, enabled bool, token string, logger zerolog.Logger) SeedService {
	return &seedService{
		users:    users,
		students: students,
		enabled:  enabled,
		token:    token,
		logger:   logger.With().Str("component", "seed_service").Logger(),
	}
}

func (s *seedService) Seed(ctx context.Context, token string) (SeedResult, error) {
	if !s.enabled {
		return SeedResult{}, ErrSeedDisabled
	}
	if !constantTimeEqual(s.token, token) {
		return SeedResult{}, ErrSeedUnauthorized
	}

	result := SeedResult{}

	staff := []models.User{
		{Username: "superadmin", Role: models.RoleSuperAdmin, IsApproved: true},
		{Username: "warden.m", Role: models.RoleWarden, Gender: models.GenderMale, IsApproved: true},
		{Username: "warden.f", Role: models.RoleWarden, Gender: models.GenderFemale, IsApproved: true},
		{Username: "security.gate1", Role: models.RoleSecurity, IsApproved: true},
	}
	for i := range staff {
		if err := s.createUser(ctx, &staff[i]); err != nil {
			return result, err
		}
		result.UsersCreated++
	}

	demoStudents := []struct {
		user    models.User
		profile models.Student
	}{
		{
			user: models.User{Username: "Ravi@4821", Role: models.RoleStudent, Gender: models.GenderMale, IsApproved: true},
			profile: models.Student{
				HallTicketNo: "21HT104821",
				StudentName:  "Ravi Kumar",
				RoomNo:       "A-101",
				ParentName:   "Suresh Kumar",
				ParentMobile: "9876543210",
			},
		},
		{
			user: models.User{Username: "Anita@3377", Role: models.RoleStudent, Gender: models.GenderFemale, IsApproved: true},
			profile: models.Student{
				HallTicketNo: "21HT103377",
				StudentName:  "Anita Sharma",
				RoomNo:       "B-204",
				ParentName:   "Rajesh Sharma",
				ParentMobile: "9876501234",
			},
		},
	}
	for i := range demoStudents {
		if err := s.createUser(ctx, &demoStudents[i].user); err != nil {
			return result, err
		}
		result.UsersCreated++

		demoStudents[i].profile.UserID = demoStudents[i].user.ID
		if err := s.students.Create(ctx, &demoStudents[i].profile); err != nil {
			return result, s.convertIntegrityError(err)
		}
		result.StudentsCreated++
	}

	s.logger.Info().
		Int("users", result.UsersCreated).
		Int("students", result.StudentsCreated).
		Msg("demo data seeded")

	return result, nil
}

func (s *seedService) createUser(ctx context.Context, user *models.User) error {
	if err := s.users.Create(ctx, user); err != nil {
		return s.convertIntegrityError(err)
	}
	return nil
}

// convertIntegrityError turns a unique-constraint race into a user-facing
// validation message instead of propagating the raw store failure.
func (s *seedService) convertIntegrityError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateRecord
	}
	return err
}

func constantTimeEqual(a, b string) bool {
	if len(a) != len(b) || a == "" {
		return false
	}
	mismatch := byte(0)
	for i := 0; i < len(a); i++ {
		mismatch |= a[i] ^ b[i]
	}
	return mismatch == 0
}
