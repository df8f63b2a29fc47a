package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/yuvaraj-dudukuru/gate-pass/internal/config"
	"github.com/yuvaraj-dudukuru/gate-pass/internal/handler"
	"github.com/yuvaraj-dudukuru/gate-pass/internal/middleware"
	"github.com/yuvaraj-dudukuru/gate-pass/internal/models"
	"github.com/yuvaraj-dudukuru/gate-pass/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	GatePassHandler     *handler.GatePassHandler
	VerificationHandler *handler.VerificationHandler
	NotificationHandler *handler.NotificationHandler
	DashboardHandler    *handler.DashboardHandler
	ActivityHandler     *handler.ActivityHandler
	OverdueHandler      *handler.OverdueHandler
	SeedHandler         *handler.SeedHandler
	JWTMiddleware       fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	// Parent verification is public: the code itself is the credential, so
	// attempts are rate limited to keep the 6-digit space unbrowsable.
	if deps.VerificationHandler != nil {
		deps.VerificationHandler.Register(api.Group("/gatepasses",
			middleware.RateLimit("verify-parent", 10, time.Minute)))
	}

	if deps.GatePassHandler != nil {
		deps.GatePassHandler.Register(api.Group("/gatepasses", jwtMiddleware))
	}

	if deps.NotificationHandler != nil {
		deps.NotificationHandler.Register(api.Group("/notifications", jwtMiddleware))
	}

	if deps.DashboardHandler != nil {
		deps.DashboardHandler.Register(api.Group("/dashboard", jwtMiddleware))
	}

	if deps.ActivityHandler != nil {
		deps.ActivityHandler.Register(api.Group("/activity", jwtMiddleware,
			middleware.RequireRole(models.RoleSuperAdmin)))
	}

	if deps.OverdueHandler != nil {
		deps.OverdueHandler.Register(api.Group("/overdue", jwtMiddleware,
			middleware.RequireRole(models.RoleSuperAdmin)))
	}

	// Seeding is registered only in development builds; the service guards the
	// token either way.
	if deps.SeedHandler != nil && cfg.IsDevelopment() {
		deps.SeedHandler.Register(api.Group("/seed"))
	}
}
