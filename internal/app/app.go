// Package app assembles the HTTP application from its services.
package app

import (
	"time"

	"modernblog/internal/handlers"
	"modernblog/internal/middleware"
	"modernblog/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Deps are the services the routes are served from.
type Deps struct {
	Auth  *services.AuthService
	Posts *services.PostService

	// EventsEnabled is reported by the health check.
	EventsEnabled bool
	// RequestLog turns on the per-request access log.
	RequestLog bool
}

// New builds the Fiber app with all routes registered.
func New(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "modernblog",
	})

	app.Use(recover.New())
	if d.RequestLog {
		app.Use(logger.New())
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		events := "disabled"
		if d.EventsEnabled {
			events = "connected"
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
			"events": events,
		})
	})

	apiV1 := app.Group("/api/v1", middleware.Session(d.Auth))
	handlers.NewAuthHandler(d.Auth).RegisterRoutes(apiV1)
	handlers.NewPostHandler(d.Posts).RegisterRoutes(apiV1)

	app.Use(handlers.NotFound)
	return app
}
