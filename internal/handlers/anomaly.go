package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/vitalixdb/vitalix/internal/analytics/anomaly"
	"github.com/vitalixdb/vitalix/internal/models"
)

// DetectAnomalies handles anomaly detection requests
// POST /v1/users/:userId/anomalies/detect
func (h *Handler) DetectAnomalies(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if userID == "" {
		return badRequest(c, "userId is required")
	}

	var body models.DetectAnomaliesRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&body); err != nil {
			return invalidJSON(c, err)
		}
	}

	sensitivity := anomaly.Sensitivity(body.Sensitivity)
	if body.Sensitivity == "" {
		sensitivity = anomaly.SensitivityMedium
	} else if !sensitivity.Valid() {
		return badRequest(c, "sensitivity must be one of: low, medium, high")
	}

	for _, algo := range body.Algorithms {
		if _, err := anomaly.Get(algo); err != nil {
			return badRequest(c, err.Error())
		}
	}

	detections, cached, err := h.service.DetectAnomalies(c.Context(), userID, sensitivity, body.Algorithms)
	if err != nil {
		return err
	}

	// Detection runs over all metrics and is cached per user; the metrics
	// filter restricts the returned view only.
	if len(body.Metrics) > 0 {
		wanted := make(map[string]bool, len(body.Metrics))
		for _, m := range body.Metrics {
			wanted[m] = true
		}
		filtered := detections[:0:0]
		for _, d := range detections {
			if wanted[d.Metric] {
				filtered = append(filtered, d)
			}
		}
		detections = filtered
	}

	return respond(c, fiber.StatusOK, models.AnomalyResponse{
		UserID:      userID,
		Sensitivity: string(sensitivity),
		Anomalies:   detections,
		Count:       len(detections),
		Cached:      cached,
	})
}
