// Package handlers exposes the analytics operations over HTTP. Handlers
// validate and decode requests, delegate to the service layer, and let
// the error middleware translate service errors to status codes.
package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/vitalixdb/vitalix/internal/logging"
	"github.com/vitalixdb/vitalix/internal/models"
	"github.com/vitalixdb/vitalix/internal/services"
)

// Handler contains all HTTP handlers
type Handler struct {
	logger  *logging.Logger
	service *services.AnalyticsService
}

// New creates a new handler instance
func New(logger *logging.Logger, service *services.AnalyticsService) *Handler {
	return &Handler{
		logger:  logger,
		service: service,
	}
}

// respond wraps data in the success envelope. Processing time is measured
// from the request start recorded by fasthttp.
func respond(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(models.NewAPIResponse(data, time.Since(c.Context().Time())))
}

// badRequest renders a 400 validation error
func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "INVALID_REQUEST",
			Message: message,
		},
	})
}

// invalidJSON renders a 400 body parse error
func invalidJSON(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "INVALID_JSON",
			Message: "Failed to parse JSON body",
			Details: map[string]interface{}{"error": err.Error()},
		},
	})
}
