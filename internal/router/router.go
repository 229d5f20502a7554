// Package router wires the HTTP surface: global middleware, the public
// health endpoint, and the authenticated v1 API.
package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/vitalixdb/vitalix/internal/config"
	"github.com/vitalixdb/vitalix/internal/handlers"
	"github.com/vitalixdb/vitalix/internal/logging"
	"github.com/vitalixdb/vitalix/internal/middleware"
	"github.com/vitalixdb/vitalix/internal/services"
	"github.com/vitalixdb/vitalix/internal/utils"
)

// Setup configures all routes and middlewares
func Setup(app *fiber.App, logger *logging.Logger, service *services.AnalyticsService, cfg config.Config) *handlers.Handler {
	h := handlers.New(logger, service)

	// Global middlewares
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-API-Key,X-Request-ID",
	}))
	app.Use(logging.FiberMiddleware(logger))

	// Health check (no auth required)
	app.Get("/health", h.Health)

	authMiddleware := middleware.APIKeyAuth(logger, cfg.Auth.APIKeys, cfg.Auth.Enabled)

	// API v1 routes (protected by API key)
	v1 := app.Group("/v1", authMiddleware)

	// Health data
	v1.Post("/users/:userId/health-data", h.IngestData)
	v1.Get("/users/:userId/health-data/:metric", h.GetData)

	// Anomaly detection
	v1.Post("/users/:userId/anomalies/detect", h.DetectAnomalies)

	// Forecasting
	v1.Get("/users/:userId/forecast", h.Forecast)

	// Personalized baselines
	v1.Get("/users/:userId/baselines/:metric", h.GetBaseline)
	v1.Post("/users/:userId/baselines/:metric", h.ObserveBaseline)

	// Circadian rhythm analysis
	v1.Get("/users/:userId/circadian", h.Circadian)

	// Insights report
	v1.Get("/users/:userId/insights", h.Insights)

	// Admin routes (protected by API key)
	admin := app.Group("/admin", authMiddleware)
	admin.Get("/stats", h.Stats)

	// 404 handler
	app.Use(h.NotFound)

	return h
}

// New creates a new Fiber app with configuration
func New(logger *logging.Logger, service *services.AnalyticsService, cfg config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Vitalix Analytics",
		DisableStartupMessage: true,
		ReadTimeout:           utils.DefaultRequestTimeout,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	Setup(app, logger, service, cfg)

	return app
}
