package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/vitalixdb/vitalix/internal/models"
)

// Forecast handles metric forecast requests
// GET /v1/users/:userId/forecast?metric=steps&horizon=7-days
func (h *Handler) Forecast(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if userID == "" {
		return badRequest(c, "userId is required")
	}

	metric := c.Query("metric")
	if metric == "" {
		return badRequest(c, "metric query parameter is required")
	}

	// Unrecognized horizons fall back to the 7 day default downstream
	horizon := c.Query("horizon", "7-days")

	result, cached, err := h.service.Forecast(c.Context(), userID, metric, horizon)
	if err != nil {
		return err
	}

	return respond(c, fiber.StatusOK, models.ForecastResponse{
		Forecast: result,
		Cached:   cached,
	})
}
