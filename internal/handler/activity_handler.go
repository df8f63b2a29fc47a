package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/yuvaraj-dudukuru/gate-pass/internal/dto"
	"github.com/yuvaraj-dudukuru/gate-pass/internal/service"
	"github.com/yuvaraj-dudukuru/gate-pass/internal/utils"
)

// ActivityHandler exposes the audit trail to superadmins.
type ActivityHandler struct {
	activities service.ActivityService
	logger     zerolog.Logger
}

// NewActivityHandler constructs a handler instance.
func NewActivityHandler(activities service.ActivityService, logger zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{
		activities: activities,
		logger:     logger.With().Str("component", "activity_handler").Logger(),
	}
}

// Register binds the activity log routes.
func (h *ActivityHandler) Register(router fiber.Router) {
	router.Get("/", h.list)
}

func (h *ActivityHandler) list(c *fiber.Ctx) error {
	logger := requestLogger(h.logger, c)

	var req dto.ActivityListRequest
	if err := c.QueryParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}

	entries, total, err := h.activities.List(requestContext(c), req)
	if err != nil {
		return sendServiceError(c, logger, err)
	}

	return utils.SendSuccess(c, "activity log", fiber.Map{
		"entries": entries,
		"total":   total,
	})
}
