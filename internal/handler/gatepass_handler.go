package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/yuvaraj-dudukuru/gate-pass/internal/dto"
	"github.com/yuvaraj-dudukuru/gate-pass/internal/service"
	"github.com/yuvaraj-dudukuru/gate-pass/internal/utils"
)

// GatePassHandler exposes the gate pass lifecycle endpoints.
type GatePassHandler struct {
	passes   service.GatePassService
	identity service.IdentityService
	logger   zerolog.Logger
}

// NewGatePassHandler constructs a handler instance.
func NewGatePassHandler(passes service.GatePassService, identity service.IdentityService, logger zerolog.Logger) *GatePassHandler {
	return &GatePassHandler{
		passes:   passes,
		identity: identity,
		logger:   logger.With().Str("component", "gatepass_handler").Logger(),
	}
}

// Register binds the gate pass routes.
func (h *GatePassHandler) Register(router fiber.Router) {
	router.Post("/", h.submit)
	router.Get("/", h.list)
	router.Get("/:id", h.get)
	router.Post("/:id/warden-decision", h.wardenDecide)
	router.Post("/:id/security-approve", h.securityApprove)
	router.Post("/:id/return", h.recordReturn)
	router.Post("/:id/admin-decision", h.adminDecide)
}

func (h *GatePassHandler) submit(c *fiber.Ctx) error {
	logger := requestLogger(h.logger, c)

	actor, err := h.resolveActor(c)
	if err != nil {
		return sendServiceError(c, logger, err)
	}

	var payload dto.GatePassCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	pass, err := h.passes.Submit(requestContext(c), actor, payload)
	if err != nil {
		return sendServiceError(c, logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "gatepass request submitted", pass)
}

func (h *GatePassHandler) list(c *fiber.Ctx) error {
	logger := requestLogger(h.logger, c)

	actor, err := h.resolveActor(c)
	if err != nil {
		return sendServiceError(c, logger, err)
	}

	filter := dto.GatePassFilter{Status: c.Query("status")}

	fromDate, err := parseQueryTime(c, "from_date")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid from_date")
	}
	filter.FromDate = fromDate

	toDate, err := parseQueryTime(c, "to_date")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid to_date")
	}
	filter.ToDate = toDate

	passes, err := h.passes.List(requestContext(c), actor, filter)
	if err != nil {
		return sendServiceError(c, logger, err)
	}

	return utils.SendSuccess(c, "gatepasses", passes)
}

func (h *GatePassHandler) get(c *fiber.Ctx) error {
	logger := requestLogger(h.logger, c)

	actor, err := h.resolveActor(c)
	if err != nil {
		return sendServiceError(c, logger, err)
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid gatepass id")
	}

	pass, err := h.passes.Get(requestContext(c), actor, id)
	if err != nil {
		return sendServiceError(c, logger, err)
	}

	return utils.SendSuccess(c, "gatepass", pass)
}

func (h *GatePassHandler) wardenDecide(c *fiber.Ctx) error {
	logger := requestLogger(h.logger, c)

	actor, err := h.resolveActor(c)
	if err != nil {
		return sendServiceError(c, logger, err)
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid gatepass id")
	}

	var payload dto.WardenDecisionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	pass, err := h.passes.WardenDecide(requestContext(c), actor, id, payload)
	if err != nil {
		return sendServiceError(c, logger, err)
	}

	return utils.SendSuccess(c, "warden decision recorded", pass)
}

func (h *GatePassHandler) securityApprove(c *fiber.Ctx) error {
	logger := requestLogger(h.logger, c)

	actor, err := h.resolveActor(c)
	if err != nil {
		return sendServiceError(c, logger, err)
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid gatepass id")
	}

	pass, err := h.passes.SecurityApprove(requestContext(c), actor, id)
	if err != nil {
		return sendServiceError(c, logger, err)
	}

	return utils.SendSuccess(c, "security approval recorded", pass)
}

func (h *GatePassHandler) recordReturn(c *fiber.Ctx) error {
	logger := requestLogger(h.logger, c)

	actor, err := h.resolveActor(c)
	if err != nil {
		return sendServiceError(c, logger, err)
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid gatepass id")
	}

	var payload dto.RecordReturnRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	pass, err := h.passes.RecordReturn(requestContext(c), actor, id, payload)
	if err != nil {
		return sendServiceError(c, logger, err)
	}

	return utils.SendSuccess(c, "return recorded", pass)
}

func (h *GatePassHandler) adminDecide(c *fiber.Ctx) error {
	logger := requestLogger(h.logger, c)

	actor, err := h.resolveActor(c)
	if err != nil {
		return sendServiceError(c, logger, err)
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid gatepass id")
	}

	var payload dto.AdminDecisionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	pass, err := h.passes.SuperadminDecide(requestContext(c), actor, id, payload)
	if err != nil {
		return sendServiceError(c, logger, err)
	}

	return utils.SendSuccess(c, "admin decision recorded", pass)
}

func (h *GatePassHandler) resolveActor(c *fiber.Ctx) (service.Actor, error) {
	userID := userIDFromContext(c)
	if userID == 0 {
		return service.Actor{}, service.ErrUserNotFound
	}
	return h.identity.Resolve(requestContext(c), userID)
}
