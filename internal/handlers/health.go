package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/vitalixdb/vitalix/internal/models"
)

// Health handles health check requests
func (h *Handler) Health(c *fiber.Ctx) error {
	return respond(c, fiber.StatusOK, models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
		Version:   "1.0.0",
	})
}

// Stats handles service statistics requests
func (h *Handler) Stats(c *fiber.Ctx) error {
	return respond(c, fiber.StatusOK, h.service.Stats())
}

// NotFound handles 404 errors
func (h *Handler) NotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "NOT_FOUND",
			Message: "Route not found",
			Path:    c.Path(),
		},
	})
}
