package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/vitalixdb/vitalix/internal/models"
)

// IngestData handles batch health data writes
// POST /v1/users/:userId/health-data
func (h *Handler) IngestData(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if userID == "" {
		return badRequest(c, "userId is required")
	}

	var body models.IngestRequest
	if err := c.BodyParser(&body); err != nil {
		return invalidJSON(c, err)
	}

	if err := body.Validate(); err != nil {
		return badRequest(c, err.Error())
	}

	accepted, metrics, err := h.service.Ingest(c.Context(), body.ToDataPoints(userID))
	if err != nil {
		return err
	}

	return respond(c, fiber.StatusCreated, models.IngestResponse{
		Accepted:  accepted,
		Metrics:   metrics,
		RequestID: uuid.New().String(),
	})
}

// GetData handles reading queries for one metric
// GET /v1/users/:userId/health-data/:metric
func (h *Handler) GetData(c *fiber.Ctx) error {
	userID := c.Params("userId")
	metric := c.Params("metric")
	if userID == "" || metric == "" {
		return badRequest(c, "userId and metric are required")
	}

	points, err := h.service.Data(c.Context(), userID, metric)
	if err != nil {
		return err
	}

	return respond(c, fiber.StatusOK, models.DataResponse{
		UserID: userID,
		Metric: metric,
		Points: points,
		Count:  len(points),
	})
}
