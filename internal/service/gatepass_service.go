package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/yuvaraj-dudukuru/gate-pass/internal/dto"
	"github.com/yuvaraj-dudukuru/gate-pass/internal/models"
	"github.com/yuvaraj-dudukuru/gate-pass/internal/observability"
	"github.com/yuvaraj-dudukuru/gate-pass/internal/repository"
)

var (
	// ErrGatePassNotFound indicates the referenced gate pass does not exist.
	ErrGatePassNotFound = errors.New("gate pass not found")
	// ErrStudentNotFound indicates the actor has no student profile.
	ErrStudentNotFound = errors.New("student profile not found")
	// ErrNotAuthorized indicates the actor's role does not permit the operation.
	ErrNotAuthorized = errors.New("not authorized for this operation")
	// ErrAlreadyProcessed indicates the pass is not in the state the operation
	// requires. Callers should refresh and re-render, not retry.
	ErrAlreadyProcessed = errors.New("gate pass has already been processed")
	// ErrInvalidOutingWindow indicates the expected return precedes the outing.
	ErrInvalidOutingWindow = errors.New("expected return must not be before the outing time")
	// ErrParentVerificationRequired indicates a warden approval without parent verification.
	ErrParentVerificationRequired = errors.New("parent verification must be completed before approval")
	// ErrRejectionReasonRequired indicates a rejection without a reason.
	ErrRejectionReasonRequired = errors.New("rejection reason is required")
)

// NotificationAnnouncer pushes committed notification rows to live
// subscribers. Delivery is best-effort; the rows themselves are already
// persisted inside the transition transaction.
type NotificationAnnouncer interface {
	Announce(notifications []models.Notification)
}

// GatePassService owns the approval state machine: it validates role and
// current state, applies the transition and its notification fan-out as one
// atomic unit, and returns the updated pass.
type GatePassService interface {
	Submit(ctx context.Context, actor Actor, payload dto.GatePassCreateRequest) (dto.GatePassResponse, error)
	WardenDecide(ctx context.Context, actor Actor, gatepassID uint, payload dto.WardenDecisionRequest) (dto.GatePassResponse, error)
	SecurityApprove(ctx context.Context, actor Actor, gatepassID uint) (dto.GatePassResponse, error)
	RecordReturn(ctx context.Context, actor Actor, gatepassID uint, payload dto.RecordReturnRequest) (dto.GatePassResponse, error)
	SuperadminDecide(ctx context.Context, actor Actor, gatepassID uint, payload dto.AdminDecisionRequest) (dto.GatePassResponse, error)
	Get(ctx context.Context, actor Actor, gatepassID uint) (dto.GatePassResponse, error)
	List(ctx context.Context, actor Actor, filter dto.GatePassFilter) ([]dto.GatePassResponse, error)
}

type gatePassService struct {
	passes    repository.GatePassRepository
	students  repository.StudentRepository
	users     repository.UserRepository
	verifier  VerificationService
	announcer NotificationAnnouncer
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// NewGatePassService constructs the state machine service. The announcer may
// be nil when realtime delivery is not wired.
func NewGatePassService(passes repository.GatePassRepository, students repository.StudentRepository, users repository.UserRepository, verifier VerificationService, announcer NotificationAnnouncer, validate *validator.Validate, logger zerolog.Logger) GatePassService {
	return &gatePassService{
		passes:    passes,
		students:  students,
		users:     users,
		verifier:  verifier,
		announcer: announcer,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "gatepass_service").Logger(),
		tracer:    otel.Tracer("github.com/yuvaraj-dudukuru/gate-pass/internal/service/gatepass"),
		now:       time.Now,
	}
}

func (s *gatePassService) Submit(ctx context.Context, actor Actor, payload dto.GatePassCreateRequest) (dto.GatePassResponse, error) {
	// Role check precedes everything else so authorization failures never
	// reveal anything about the target.
	if actor.Role != models.RoleStudent {
		return dto.GatePassResponse{}, ErrNotAuthorized
	}

	ctx, span := s.tracer.Start(ctx, "gatepass.submit", trace.WithAttributes(
		attribute.Int64("gatepass.actor_id", int64(actor.ID)),
	))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.GatePassResponse{}, err
	}

	if payload.ExpectedReturnAt.Before(payload.OutingAt) {
		return dto.GatePassResponse{}, ErrInvalidOutingWindow
	}

	student, err := s.students.FindByUserID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.GatePassResponse{}, ErrStudentNotFound
		}
		return dto.GatePassResponse{}, err
	}

	verification, err := s.verifier.Issue(student)
	if err != nil {
		span.RecordError(err)
		return dto.GatePassResponse{}, err
	}

	wardens, err := s.users.ListByRole(ctx, models.RoleWarden, true)
	if err != nil {
		return dto.GatePassResponse{}, err
	}
	recipients, fallback := WardenRecipients(student.User.Gender, wardens)

	message := fmt.Sprintf("New gatepass request from %s", student.StudentName)
	if fallback {
		message = fmt.Sprintf("New gatepass request from %s (No gender-specific warden found)", student.StudentName)
	}

	notifications := make([]models.Notification, 0, len(recipients))
	for _, warden := range recipients {
		notifications = append(notifications, models.Notification{
			UserID:  warden.ID,
			Type:    models.NotificationGatePassRequest,
			Message: message,
		})
	}

	pass := models.GatePass{
		StudentID:        student.ID,
		OutingAt:         payload.OutingAt,
		ExpectedReturnAt: payload.ExpectedReturnAt,
		Purpose:          s.sanitize(payload.Purpose),
		Status:           models.GatePassStatusPending,
	}

	if err := s.passes.CreateWithVerification(ctx, &pass, &verification, notifications); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "gatepass_create_failed")
		return dto.GatePassResponse{}, err
	}

	pass.Student = student
	s.announce(notifications)
	observability.TransitionsTotal().WithLabelValues("submit").Inc()
	s.logger.Info().
		Uint("gatepass_id", pass.ID).
		Uint("student_id", student.ID).
		Int("wardens_notified", len(recipients)).
		Bool("gender_fallback", fallback).
		Msg("gatepass request submitted")

	return dto.NewGatePassResponse(pass), nil
}

func (s *gatePassService) WardenDecide(ctx context.Context, actor Actor, gatepassID uint, payload dto.WardenDecisionRequest) (dto.GatePassResponse, error) {
	if actor.Role != models.RoleWarden {
		return dto.GatePassResponse{}, ErrNotAuthorized
	}

	ctx, span := s.tracer.Start(ctx, "gatepass.warden_decide", trace.WithAttributes(
		attribute.Int64("gatepass.id", int64(gatepassID)),
		attribute.Int64("gatepass.actor_id", int64(actor.ID)),
		attribute.String("gatepass.action", payload.Action),
	))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		return dto.GatePassResponse{}, err
	}

	pass, err := s.loadPass(ctx, gatepassID)
	if err != nil {
		return dto.GatePassResponse{}, err
	}
	if pass.Status != models.GatePassStatusPending {
		return dto.GatePassResponse{}, ErrAlreadyProcessed
	}

	var notifications []models.Notification
	var action string

	switch payload.Action {
	case "approve":
		if !payload.ParentVerified {
			return dto.GatePassResponse{}, ErrParentVerificationRequired
		}

		actorID := actor.ID
		pass.Status = models.GatePassStatusWardenApproved
		pass.WardenApprovalID = &actorID
		pass.ParentVerified = true
		action = "gatepass.warden_approved"

		securityUsers, err := s.users.ListByRole(ctx, models.RoleSecurity, false)
		if err != nil {
			return dto.GatePassResponse{}, err
		}
		for _, security := range securityUsers {
			notifications = append(notifications, models.Notification{
				UserID:     security.ID,
				GatePassID: pass.ID,
				Type:       models.NotificationWardenApproval,
				Message:    fmt.Sprintf("Gatepass approved by warden for %s", pass.Student.StudentName),
			})
		}
		notifications = append(notifications, models.Notification{
			UserID:     pass.Student.UserID,
			GatePassID: pass.ID,
			Type:       models.NotificationWardenApproval,
			Message:    "Your gatepass request has been approved by the warden.",
		})
	case "reject":
		reason := s.sanitize(payload.RejectionReason)
		if reason == "" {
			return dto.GatePassResponse{}, ErrRejectionReasonRequired
		}

		actorID := actor.ID
		pass.Status = models.GatePassStatusWardenRejected
		pass.WardenApprovalID = &actorID
		pass.RejectionReason = reason
		action = "gatepass.warden_rejected"

		notifications = append(notifications, models.Notification{
			UserID:     pass.Student.UserID,
			GatePassID: pass.ID,
			Type:       models.NotificationWardenRejection,
			Message:    fmt.Sprintf("Your gatepass request has been rejected. Reason: %s", reason),
		})
	}

	if err := s.commit(ctx, actor, &pass, notifications, action); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transition_failed")
		return dto.GatePassResponse{}, err
	}

	return dto.NewGatePassResponse(pass), nil
}

func (s *gatePassService) SecurityApprove(ctx context.Context, actor Actor, gatepassID uint) (dto.GatePassResponse, error) {
	if actor.Role != models.RoleSecurity {
		return dto.GatePassResponse{}, ErrNotAuthorized
	}

	ctx, span := s.tracer.Start(ctx, "gatepass.security_approve", trace.WithAttributes(
		attribute.Int64("gatepass.id", int64(gatepassID)),
		attribute.Int64("gatepass.actor_id", int64(actor.ID)),
	))
	defer span.End()

	pass, err := s.loadPass(ctx, gatepassID)
	if err != nil {
		return dto.GatePassResponse{}, err
	}
	if pass.Status != models.GatePassStatusWardenApproved {
		return dto.GatePassResponse{}, ErrAlreadyProcessed
	}

	actorID := actor.ID
	pass.Status = models.GatePassStatusSecurityApproved
	pass.SecurityApprovalID = &actorID

	notifications := []models.Notification{{
		UserID:     pass.Student.UserID,
		GatePassID: pass.ID,
		Type:       models.NotificationSecurityApproval,
		Message:    "Your gatepass has been approved by security. You can now leave the campus.",
	}}

	if err := s.commit(ctx, actor, &pass, notifications, "gatepass.security_approved"); err != nil {
		span.RecordError(err)
		return dto.GatePassResponse{}, err
	}

	return dto.NewGatePassResponse(pass), nil
}

func (s *gatePassService) RecordReturn(ctx context.Context, actor Actor, gatepassID uint, payload dto.RecordReturnRequest) (dto.GatePassResponse, error) {
	if actor.Role != models.RoleSecurity {
		return dto.GatePassResponse{}, ErrNotAuthorized
	}

	ctx, span := s.tracer.Start(ctx, "gatepass.record_return", trace.WithAttributes(
		attribute.Int64("gatepass.id", int64(gatepassID)),
		attribute.Int64("gatepass.actor_id", int64(actor.ID)),
	))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		return dto.GatePassResponse{}, err
	}

	pass, err := s.loadPass(ctx, gatepassID)
	if err != nil {
		return dto.GatePassResponse{}, err
	}
	if pass.Status != models.GatePassStatusSecurityApproved {
		return dto.GatePassResponse{}, ErrAlreadyProcessed
	}

	actorID := actor.ID
	returnedAt := payload.ActualReturnAt
	pass.Status = models.GatePassStatusReturned
	pass.ActualReturnAt = &returnedAt
	pass.ReturnVerifiedByID = &actorID
	pass.ReturnNotes = s.sanitize(payload.Notes)

	notifications := []models.Notification{{
		UserID:     pass.Student.UserID,
		GatePassID: pass.ID,
		Type:       models.NotificationReturnRecorded,
		Message:    fmt.Sprintf("Your return has been recorded on %s", returnedAt.Format("2006-01-02 15:04")),
	}}

	if err := s.commit(ctx, actor, &pass, notifications, "gatepass.returned"); err != nil {
		span.RecordError(err)
		return dto.GatePassResponse{}, err
	}

	return dto.NewGatePassResponse(pass), nil
}

func (s *gatePassService) SuperadminDecide(ctx context.Context, actor Actor, gatepassID uint, payload dto.AdminDecisionRequest) (dto.GatePassResponse, error) {
	if actor.Role != models.RoleSuperAdmin {
		return dto.GatePassResponse{}, ErrNotAuthorized
	}

	ctx, span := s.tracer.Start(ctx, "gatepass.superadmin_decide", trace.WithAttributes(
		attribute.Int64("gatepass.id", int64(gatepassID)),
		attribute.Int64("gatepass.actor_id", int64(actor.ID)),
		attribute.String("gatepass.action", payload.Action),
	))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		return dto.GatePassResponse{}, err
	}

	pass, err := s.loadPass(ctx, gatepassID)
	if err != nil {
		return dto.GatePassResponse{}, err
	}
	if pass.Status != models.GatePassStatusPending {
		return dto.GatePassResponse{}, ErrAlreadyProcessed
	}

	var notifications []models.Notification
	var action string
	actorID := actor.ID

	switch payload.Action {
	case "approve":
		pass.Status = models.GatePassStatusWardenApproved
		pass.WardenApprovalID = &actorID
		action = "gatepass.admin_approved"

		securityUsers, err := s.users.ListByRole(ctx, models.RoleSecurity, true)
		if err != nil {
			return dto.GatePassResponse{}, err
		}
		for _, security := range securityUsers {
			notifications = append(notifications, models.Notification{
				UserID:     security.ID,
				GatePassID: pass.ID,
				Type:       models.NotificationAdminApproval,
				Message:    fmt.Sprintf("Gatepass approved by Super Admin for %s", pass.Student.StudentName),
			})
		}
	case "reject":
		reason := s.sanitize(payload.RejectionReason)
		if reason == "" {
			return dto.GatePassResponse{}, ErrRejectionReasonRequired
		}

		pass.Status = models.GatePassStatusWardenRejected
		pass.WardenApprovalID = &actorID
		pass.RejectionReason = reason
		action = "gatepass.admin_rejected"

		notifications = append(notifications, models.Notification{
			UserID:     pass.Student.UserID,
			GatePassID: pass.ID,
			Type:       models.NotificationAdminRejection,
			Message:    fmt.Sprintf("Your gatepass request has been rejected by Super Admin. Reason: %s", reason),
		})
	}

	if err := s.commit(ctx, actor, &pass, notifications, action); err != nil {
		span.RecordError(err)
		return dto.GatePassResponse{}, err
	}

	return dto.NewGatePassResponse(pass), nil
}

func (s *gatePassService) Get(ctx context.Context, actor Actor, gatepassID uint) (dto.GatePassResponse, error) {
	pass, err := s.loadPass(ctx, gatepassID)
	if err != nil {
		return dto.GatePassResponse{}, err
	}

	// Students may only see their own passes; report not-found rather than
	// confirming the pass exists.
	if actor.Role == models.RoleStudent && pass.Student.UserID != actor.ID {
		return dto.GatePassResponse{}, ErrGatePassNotFound
	}

	return dto.NewGatePassResponse(pass), nil
}

func (s *gatePassService) List(ctx context.Context, actor Actor, filter dto.GatePassFilter) ([]dto.GatePassResponse, error) {
	repoFilter := repository.GatePassFilter{
		FromDate: filter.FromDate,
		ToDate:   filter.ToDate,
	}
	if filter.Status != "" {
		repoFilter.Statuses = []models.GatePassStatus{models.GatePassStatus(filter.Status)}
	}

	switch actor.Role {
	case models.RoleStudent:
		student, err := s.students.FindByUserID(ctx, actor.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrStudentNotFound
			}
			return nil, err
		}
		studentID := student.ID
		repoFilter.StudentID = &studentID
	case models.RoleWarden, models.RoleSecurity, models.RoleSuperAdmin:
		// Staff roles see the full queue.
	default:
		return nil, ErrNotAuthorized
	}

	passes, err := s.passes.List(ctx, repoFilter)
	if err != nil {
		return nil, err
	}
	return dto.NewGatePassResponseSlice(passes), nil
}

func (s *gatePassService) loadPass(ctx context.Context, gatepassID uint) (models.GatePass, error) {
	pass, err := s.passes.FindByID(ctx, gatepassID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.GatePass{}, ErrGatePassNotFound
		}
		return models.GatePass{}, err
	}
	return pass, nil
}

func (s *gatePassService) commit(ctx context.Context, actor Actor, pass *models.GatePass, notifications []models.Notification, action string) error {
	entityID := pass.ID
	activity := &models.ActivityLog{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     action,
		EntityType: "gatepass",
		EntityID:   &entityID,
		Metadata: map[string]interface{}{
			"status":     string(pass.Status),
			"student_id": pass.StudentID,
		},
	}

	if err := s.passes.ApplyTransition(ctx, pass, notifications, activity); err != nil {
		return err
	}

	s.announce(notifications)
	observability.TransitionsTotal().WithLabelValues(action).Inc()
	s.logger.Info().
		Uint("gatepass_id", pass.ID).
		Str("status", string(pass.Status)).
		Str("action", action).
		Int("notifications", len(notifications)).
		Msg("gatepass transition committed")

	return nil
}

func (s *gatePassService) announce(notifications []models.Notification) {
	if s.announcer == nil {
		return
	}
	s.announcer.Announce(notifications)
}

func (s *gatePassService) sanitize(input string) string {
	return strings.TrimSpace(s.sanitizer.Sanitize(input))
}
