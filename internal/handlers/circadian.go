package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/vitalixdb/vitalix/internal/models"
)

// Circadian handles circadian rhythm analysis requests
// GET /v1/users/:userId/circadian
func (h *Handler) Circadian(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if userID == "" {
		return badRequest(c, "userId is required")
	}

	analysis, err := h.service.Circadian(c.Context(), userID)
	if err != nil {
		return err
	}

	return respond(c, fiber.StatusOK, models.CircadianResponse{
		UserID:   userID,
		Analysis: analysis,
	})
}
