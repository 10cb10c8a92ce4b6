package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campusworks/teacher-portal-api/internal/config"
	"github.com/campusworks/teacher-portal-api/internal/handler"
	"github.com/campusworks/teacher-portal-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler       *handler.AuthHandler
	PortalHandler     *handler.PortalHandler
	SessionMiddleware fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	if deps.AuthHandler != nil {
		auth := api.Group("/auth")
		deps.AuthHandler.Register(auth)
	}

	sessionMiddleware := deps.SessionMiddleware
	if sessionMiddleware == nil {
		sessionMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.PortalHandler != nil {
		portal := api.Group("/portal", sessionMiddleware)
		deps.PortalHandler.Register(portal)
	}
}
