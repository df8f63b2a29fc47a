package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/yuvaraj-dudukuru/gate-pass/internal/dto"
	"github.com/yuvaraj-dudukuru/gate-pass/internal/repository"
)

// ActivityService exposes the gate-pass audit trail to superadmins.
type ActivityService interface {
	List(ctx context.Context, req dto.ActivityListRequest) ([]dto.ActivityResponse, int64, error)
}

type activityService struct {
	repo   repository.ActivityLogRepository
	logger zerolog.Logger
}

// NewActivityService constructs the audit log service.
func NewActivityService(repo repository.ActivityLogRepository, logger zerolog.Logger) ActivityService {
	return &activityService{
		repo:   repo,
		logger: logger.With().Str("component", "activity_service").Logger(),
	}
}

func (s *activityService) List(ctx context.Context, req dto.ActivityListRequest) ([]dto.ActivityResponse, int64, error) {
	filter := repository.ActivityLogFilter{
		Page:     req.Page,
		PageSize: req.PageSize,
		Action:   strings.TrimSpace(req.Action),
	}

	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]dto.ActivityResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, dto.NewActivityResponse(entry))
	}
	return responses, total, nil
}
