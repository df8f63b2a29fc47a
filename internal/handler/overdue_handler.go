package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/yuvaraj-dudukuru/gate-pass/internal/service"
	"github.com/yuvaraj-dudukuru/gate-pass/internal/utils"
)

// OverdueHandler exposes a manual trigger for the overdue sweep. Dashboards
// already sweep on render; this endpoint lets superadmins force a pass.
type OverdueHandler struct {
	sweeper service.OverdueService
	logger  zerolog.Logger
}

// NewOverdueHandler constructs a handler instance.
func NewOverdueHandler(sweeper service.OverdueService, logger zerolog.Logger) *OverdueHandler {
	return &OverdueHandler{
		sweeper: sweeper,
		logger:  logger.With().Str("component", "overdue_handler").Logger(),
	}
}

// Register binds the sweep route.
func (h *OverdueHandler) Register(router fiber.Router) {
	router.Post("/sweep", h.sweep)
}

func (h *OverdueHandler) sweep(c *fiber.Ctx) error {
	logger := requestLogger(h.logger, c)

	emitted, err := h.sweeper.Sweep(requestContext(c))
	if err != nil {
		return sendServiceError(c, logger, err)
	}

	return utils.SendSuccess(c, "overdue sweep completed", fiber.Map{
		"alerts_emitted": emitted,
	})
}
