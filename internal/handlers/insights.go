package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/vitalixdb/vitalix/internal/models"
)

// Insights handles health insights report requests
// GET /v1/users/:userId/insights
func (h *Handler) Insights(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if userID == "" {
		return badRequest(c, "userId is required")
	}

	report, err := h.service.Insights(c.Context(), userID)
	if err != nil {
		return err
	}

	return respond(c, fiber.StatusOK, models.InsightsResponse{
		UserID: userID,
		Report: report,
	})
}
