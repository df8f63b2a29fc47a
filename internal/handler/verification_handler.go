package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/yuvaraj-dudukuru/gate-pass/internal/dto"
	"github.com/yuvaraj-dudukuru/gate-pass/internal/service"
	"github.com/yuvaraj-dudukuru/gate-pass/internal/utils"
)

// VerificationHandler exposes the public parent verification endpoint. Parents
// follow a link out-of-band, so this route is not behind JWT auth.
type VerificationHandler struct {
	verifier service.VerificationService
	logger   zerolog.Logger
}

// NewVerificationHandler constructs a handler instance.
func NewVerificationHandler(verifier service.VerificationService, logger zerolog.Logger) *VerificationHandler {
	return &VerificationHandler{
		verifier: verifier,
		logger:   logger.With().Str("component", "verification_handler").Logger(),
	}
}

// Register binds the verification routes.
func (h *VerificationHandler) Register(router fiber.Router) {
	router.Post("/:id/verify-parent", h.verifyParent)
}

func (h *VerificationHandler) verifyParent(c *fiber.Ctx) error {
	logger := requestLogger(h.logger, c)

	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid gatepass id")
	}

	var payload dto.VerifyParentRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.verifier.Verify(requestContext(c), id, payload.Code)
	if err != nil {
		return sendServiceError(c, logger, err)
	}

	return utils.SendSuccess(c, result.Message, result)
}
