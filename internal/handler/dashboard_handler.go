package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/yuvaraj-dudukuru/gate-pass/internal/service"
	"github.com/yuvaraj-dudukuru/gate-pass/internal/utils"
)

// DashboardHandler serves the role-scoped dashboard aggregate.
type DashboardHandler struct {
	dashboards service.DashboardService
	identity   service.IdentityService
	logger     zerolog.Logger
}

// NewDashboardHandler constructs a handler instance.
func NewDashboardHandler(dashboards service.DashboardService, identity service.IdentityService, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboards: dashboards,
		identity:   identity,
		logger:     logger.With().Str("component", "dashboard_handler").Logger(),
	}
}

// Register binds the dashboard route.
func (h *DashboardHandler) Register(router fiber.Router) {
	router.Get("/", h.dashboard)
}

func (h *DashboardHandler) dashboard(c *fiber.Ctx) error {
	logger := requestLogger(h.logger, c)

	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	ctx := requestContext(c)
	actor, err := h.identity.Resolve(ctx, userID)
	if err != nil {
		return sendServiceError(c, logger, err)
	}

	dashboard, err := h.dashboards.ForActor(ctx, actor)
	if err != nil {
		return sendServiceError(c, logger, err)
	}

	return utils.SendSuccess(c, "dashboard", dashboard)
}
