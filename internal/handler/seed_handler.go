package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/yuvaraj-dudukuru/gate-pass/internal/service"
	"github.com/yuvaraj-dudukuru/gate-pass/internal/utils"
)

// SeedHandler exposes the development-only demo data seeding endpoint.
type SeedHandler struct {
	seeder service.SeedService
	logger zerolog.Logger
}

// NewSeedHandler constructs a handler instance.
func NewSeedHandler(seeder service.SeedService, logger zerolog.Logger) *SeedHandler {
	return &SeedHandler{
		seeder: seeder,
		logger: logger.With().Str("component", "seed_handler").Logger(),
	}
}

// Register binds the seed route.
func (h *SeedHandler) Register(router fiber.Router) {
	router.Post("/", h.seed)
}

func (h *SeedHandler) seed(c *fiber.Ctx) error {
	logger := requestLogger(h.logger, c)

	token := c.Get("X-Seed-Token")
	result, err := h.seeder.Seed(requestContext(c), token)
	if err != nil {
		return sendServiceError(c, logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "demo data seeded", result)
}
