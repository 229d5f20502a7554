package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/vitalixdb/vitalix/internal/models"
)

// GetBaseline handles baseline read requests
// GET /v1/users/:userId/baselines/:metric
func (h *Handler) GetBaseline(c *fiber.Ctx) error {
	userID := c.Params("userId")
	metric := c.Params("metric")
	if userID == "" || metric == "" {
		return badRequest(c, "userId and metric are required")
	}

	b, err := h.service.Baseline(c.Context(), userID, metric)
	if err != nil {
		return err
	}

	return respond(c, fiber.StatusOK, models.BaselineResponse{Baseline: b})
}

// ObserveBaseline handles baseline observation requests
// POST /v1/users/:userId/baselines/:metric
func (h *Handler) ObserveBaseline(c *fiber.Ctx) error {
	userID := c.Params("userId")
	metric := c.Params("metric")
	if userID == "" || metric == "" {
		return badRequest(c, "userId and metric are required")
	}

	var body models.UpdateBaselineRequest
	if err := c.BodyParser(&body); err != nil {
		return invalidJSON(c, err)
	}

	b, err := h.service.ObserveBaseline(c.Context(), userID, metric, body.Value)
	if err != nil {
		return err
	}

	return respond(c, fiber.StatusOK, models.BaselineResponse{Baseline: b})
}
