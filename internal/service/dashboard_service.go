package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/yuvaraj-dudukuru/gate-pass/internal/dto"
	"github.com/yuvaraj-dudukuru/gate-pass/internal/models"
	"github.com/yuvaraj-dudukuru/gate-pass/internal/repository"
)

const recentItemsLimit = 10

// DashboardService produces role-scoped dashboard aggregates. Every dashboard
// read runs the overdue sweep first so stale returns surface without a timer.
type DashboardService interface {
	ForActor(ctx context.Context, actor Actor) (dto.DashboardResponse, error)
}

type dashboardService struct {
	passes        repository.GatePassRepository
	students      repository.StudentRepository
	users         repository.UserRepository
	notifications repository.NotificationRepository
	sweeper       OverdueService
	cache         *redis.Client
	cacheTTL      time.Duration
	logger        zerolog.Logger
	now           func() time.Time
}

// NewDashboardService builds the dashboard aggregator. The cache client may be nil.
func NewDashboardService(passes repository.GatePassRepository, students repository.StudentRepository, users repository.UserRepository, notifications repository.NotificationRepository, sweeper OverdueService, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) DashboardService {
	return &dashboardService{
		passes:        passes,
		students:      students,
		users:         users,
		notifications: notifications,
		sweeper:       sweeper,
		cache:         cache,
		cacheTTL:      ttl,
		logger:        logger.With().Str("component", "dashboard_service").Logger(),
		now:           time.Now,
	}
}

func (s *dashboardService) ForActor(ctx context.Context, actor Actor) (dto.DashboardResponse, error) {
	swept, err := s.sweeper.Sweep(ctx)
	if err != nil {
		// The dashboard is still useful when the sweep fails; keep rendering.
		s.logger.Warn().Err(err).Msg("overdue sweep failed before dashboard render")
	}

	cacheKey := fmt.Sprintf("dashboard:%s:%d", actor.Role, actor.ID)
	if swept == 0 && s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.DashboardResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Uint("user_id", actor.ID).Msg("dashboard cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read dashboard cache")
		}
	}

	response := dto.DashboardResponse{Role: string(actor.Role), AlertsSwept: swept}

	switch actor.Role {
	case models.RoleStudent:
		section, err := s.studentSection(ctx, actor)
		if err != nil {
			return dto.DashboardResponse{}, err
		}
		response.Student = section
	case models.RoleWarden:
		section, err := s.wardenSection(ctx, actor)
		if err != nil {
			return dto.DashboardResponse{}, err
		}
		response.Warden = section
	case models.RoleSecurity:
		section, err := s.securitySection(ctx, actor)
		if err != nil {
			return dto.DashboardResponse{}, err
		}
		response.Security = section
	case models.RoleSuperAdmin:
		section, err := s.superadminSection(ctx, actor)
		if err != nil {
			return dto.DashboardResponse{}, err
		}
		response.SuperAdmin = section
	default:
		return dto.DashboardResponse{}, ErrNotAuthorized
	}

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store dashboard cache")
			}
		}
	}

	return response, nil
}

func (s *dashboardService) studentSection(ctx context.Context, actor Actor) (*dto.StudentDashboard, error) {
	student, err := s.students.FindByUserID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}

	studentID := student.ID
	counts, err := s.passes.StatusCounts(ctx, &studentID)
	if err != nil {
		return nil, err
	}

	passes, err := s.passes.List(ctx, repository.GatePassFilter{StudentID: &studentID})
	if err != nil {
		return nil, err
	}

	notifications, err := s.recentNotifications(ctx, actor.ID, 5)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, count := range counts {
		total += count
	}

	return &dto.StudentDashboard{
		TotalRequests:    total,
		PendingRequests:  counts[models.GatePassStatusPending],
		ApprovedRequests: counts[models.GatePassStatusWardenApproved] + counts[models.GatePassStatusSecurityApproved],
		RejectedRequests: counts[models.GatePassStatusWardenRejected],
		GatePasses:       dto.NewGatePassResponseSlice(passes),
		Notifications:    notifications,
	}, nil
}

func (s *dashboardService) wardenSection(ctx context.Context, actor Actor) (*dto.WardenDashboard, error) {
	counts, err := s.passes.StatusCounts(ctx, nil)
	if err != nil {
		return nil, err
	}

	pending, err := s.passes.List(ctx, repository.GatePassFilter{
		Statuses: []models.GatePassStatus{models.GatePassStatusPending},
	})
	if err != nil {
		return nil, err
	}

	approved, err := s.passes.List(ctx, repository.GatePassFilter{
		Statuses: []models.GatePassStatus{models.GatePassStatusWardenApproved},
		Limit:    recentItemsLimit,
	})
	if err != nil {
		return nil, err
	}

	rejected, err := s.passes.List(ctx, repository.GatePassFilter{
		Statuses: []models.GatePassStatus{models.GatePassStatusWardenRejected},
		Limit:    recentItemsLimit,
	})
	if err != nil {
		return nil, err
	}

	notifications, err := s.recentNotifications(ctx, actor.ID, 5)
	if err != nil {
		return nil, err
	}

	return &dto.WardenDashboard{
		TotalPending:    counts[models.GatePassStatusPending],
		TotalApproved:   counts[models.GatePassStatusWardenApproved],
		TotalRejected:   counts[models.GatePassStatusWardenRejected],
		TotalReturned:   counts[models.GatePassStatusReturned],
		StudentsOut:     counts[models.GatePassStatusSecurityApproved],
		PendingRequests: dto.NewGatePassResponseSlice(pending),
		RecentApproved:  dto.NewGatePassResponseSlice(approved),
		RecentRejected:  dto.NewGatePassResponseSlice(rejected),
		Notifications:   notifications,
	}, nil
}

func (s *dashboardService) securitySection(ctx context.Context, actor Actor) (*dto.SecurityDashboard, error) {
	counts, err := s.passes.StatusCounts(ctx, nil)
	if err != nil {
		return nil, err
	}

	awaiting, err := s.passes.List(ctx, repository.GatePassFilter{
		Statuses: []models.GatePassStatus{models.GatePassStatusWardenApproved},
	})
	if err != nil {
		return nil, err
	}

	out, err := s.passes.List(ctx, repository.GatePassFilter{
		Statuses: []models.GatePassStatus{models.GatePassStatusSecurityApproved},
		Limit:    recentItemsLimit,
	})
	if err != nil {
		return nil, err
	}

	returned, err := s.passes.List(ctx, repository.GatePassFilter{
		Statuses: []models.GatePassStatus{models.GatePassStatusReturned},
		Limit:    recentItemsLimit,
	})
	if err != nil {
		return nil, err
	}

	notifications, err := s.recentNotifications(ctx, actor.ID, 5)
	if err != nil {
		return nil, err
	}

	return &dto.SecurityDashboard{
		AwaitingApproval: dto.NewGatePassResponseSlice(awaiting),
		StudentsOut:      dto.NewGatePassResponseSlice(out),
		RecentReturns:    dto.NewGatePassResponseSlice(returned),
		TotalPending:     counts[models.GatePassStatusWardenApproved],
		TotalApproved:    counts[models.GatePassStatusSecurityApproved],
		TotalReturned:    counts[models.GatePassStatusReturned],
		Notifications:    notifications,
	}, nil
}

func (s *dashboardService) superadminSection(ctx context.Context, actor Actor) (*dto.SuperAdminDashboard, error) {
	totalStudents, err := s.users.CountByRole(ctx, models.RoleStudent)
	if err != nil {
		return nil, err
	}
	totalWardens, err := s.users.CountByRole(ctx, models.RoleWarden)
	if err != nil {
		return nil, err
	}
	totalSecurity, err := s.users.CountByRole(ctx, models.RoleSecurity)
	if err != nil {
		return nil, err
	}
	totalPasses, err := s.passes.Count(ctx)
	if err != nil {
		return nil, err
	}

	pending, err := s.passes.List(ctx, repository.GatePassFilter{
		Statuses: []models.GatePassStatus{models.GatePassStatusPending},
	})
	if err != nil {
		return nil, err
	}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	overdue, err := s.passes.ListOverdue(ctx, today)
	if err != nil {
		return nil, err
	}

	recent, err := s.passes.List(ctx, repository.GatePassFilter{Limit: recentItemsLimit})
	if err != nil {
		return nil, err
	}

	notifications, err := s.recentNotifications(ctx, actor.ID, 10)
	if err != nil {
		return nil, err
	}

	return &dto.SuperAdminDashboard{
		TotalStudents:    totalStudents,
		TotalWardens:     totalWardens,
		TotalSecurity:    totalSecurity,
		TotalGatePasses:  totalPasses,
		PendingApprovals: dto.NewGatePassResponseSlice(pending),
		OverdueReturns:   dto.NewGatePassResponseSlice(overdue),
		RecentGatePasses: dto.NewGatePassResponseSlice(recent),
		Notifications:    notifications,
	}, nil
}

func (s *dashboardService) recentNotifications(ctx context.Context, userID uint, limit int) ([]dto.NotificationResponse, error) {
	notifications, err := s.notifications.ListByUser(ctx, userID, limit, 0)
	if err != nil {
		return nil, err
	}
	return dto.NewNotificationResponseSlice(notifications), nil
}
