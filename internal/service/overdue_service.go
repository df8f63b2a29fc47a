package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/yuvaraj-dudukuru/gate-pass/internal/models"
	"github.com/yuvaraj-dudukuru/gate-pass/internal/observability"
	"github.com/yuvaraj-dudukuru/gate-pass/internal/repository"
)

// OverdueService scans for passes whose expected return date has elapsed and
// emits at most one alert set per pass per calendar day. Safe to invoke
// redundantly: the existence check skips already-alerted passes, and the
// unique dedupe key on notifications absorbs concurrent double-sweeps.
type OverdueService interface {
	Sweep(ctx context.Context) (int, error)
}

type overdueService struct {
	passes        repository.GatePassRepository
	notifications repository.NotificationRepository
	users         repository.UserRepository
	announcer     NotificationAnnouncer
	logger        zerolog.Logger
	now           func() time.Time
}

// NewOverdueService constructs the overdue sweeper.
func NewOverdueService(passes repository.GatePassRepository, notifications repository.NotificationRepository, users repository.UserRepository, announcer NotificationAnnouncer, logger zerolog.Logger) OverdueService {
	return &overdueService{
		passes:        passes,
		notifications: notifications,
		users:         users,
		announcer:     announcer,
		logger:        logger.With().Str("component", "overdue_service").Logger(),
		now:           time.Now,
	}
}

func (s *overdueService) Sweep(ctx context.Context) (int, error) {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	// Overdue means the expected return date is strictly before today.
	passes, err := s.passes.ListOverdue(ctx, today)
	if err != nil {
		return 0, err
	}
	if len(passes) == 0 {
		return 0, nil
	}

	superadmin, err := s.users.FirstByRole(ctx, models.RoleSuperAdmin)
	hasSuperadmin := err == nil
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	emitted := 0
	for _, pass := range passes {
		exists, err := s.notifications.ExistsOverdueForDay(ctx, pass.ID, today)
		if err != nil {
			return emitted, err
		}
		if exists {
			continue
		}

		alerts := s.buildAlerts(pass, superadmin, hasSuperadmin, today)
		inserted, err := s.notifications.CreateIgnoreDuplicates(ctx, alerts)
		if err != nil {
			return emitted, err
		}
		if inserted == 0 {
			// A concurrent sweep won the race for this pass.
			continue
		}

		emitted += int(inserted)
		if s.announcer != nil {
			s.announcer.Announce(alerts)
		}
		observability.OverdueAlertsTotal().Add(float64(inserted))
		s.logger.Warn().
			Uint("gatepass_id", pass.ID).
			Str("student", pass.Student.StudentName).
			Time("expected_return", pass.ExpectedReturnAt).
			Msg("overdue return detected")
	}

	return emitted, nil
}

func (s *overdueService) buildAlerts(pass models.GatePass, superadmin models.User, hasSuperadmin bool, day time.Time) []models.Notification {
	expected := pass.ExpectedReturnAt.Format("2006-01-02")
	alerts := make([]models.Notification, 0, 3)

	if pass.WardenApprovalID != nil {
		key := models.OverdueDedupeKey(pass.ID, *pass.WardenApprovalID, day)
		alerts = append(alerts, models.Notification{
			UserID:     *pass.WardenApprovalID,
			GatePassID: pass.ID,
			Type:       models.NotificationOverdueReturn,
			DedupeKey:  &key,
			Message: fmt.Sprintf(
				"URGENT: Student %s has not returned after expected date %s. Parent contact: %s",
				pass.Student.StudentName, expected, pass.Student.ParentMobile),
		})
	}

	if hasSuperadmin {
		key := models.OverdueDedupeKey(pass.ID, superadmin.ID, day)
		alerts = append(alerts, models.Notification{
			UserID:     superadmin.ID,
			GatePassID: pass.ID,
			Type:       models.NotificationOverdueReturn,
			DedupeKey:  &key,
			Message: fmt.Sprintf(
				"URGENT: Student %s (Hall Ticket: %s) has not returned after expected date %s. Parent contact: %s",
				pass.Student.StudentName, pass.Student.HallTicketNo, expected, pass.Student.ParentMobile),
		})
	}

	studentKey := models.OverdueDedupeKey(pass.ID, pass.Student.UserID, day)
	alerts = append(alerts, models.Notification{
		UserID:     pass.Student.UserID,
		GatePassID: pass.ID,
		Type:       models.NotificationOverdueReturn,
		DedupeKey:  &studentKey,
		Message: fmt.Sprintf(
			"URGENT: You have not returned to the hostel after your expected return date %s. Please contact the hostel immediately.",
			expected),
	})

	return alerts
}
