package models

import (
	"time"

	"github.com/vitalixdb/vitalix/internal/analytics"
	"github.com/vitalixdb/vitalix/internal/analytics/anomaly"
	"github.com/vitalixdb/vitalix/internal/analytics/baseline"
	"github.com/vitalixdb/vitalix/internal/analytics/circadian"
	"github.com/vitalixdb/vitalix/internal/analytics/forecast"
	"github.com/vitalixdb/vitalix/internal/analytics/insights"
)

// APIResponse is the envelope for successful responses.
type APIResponse struct {
	Success          bool        `json:"success"`
	Data             interface{} `json:"data"`
	Timestamp        time.Time   `json:"timestamp"`
	ProcessingTimeMs float64     `json:"processing_time_ms,omitempty"`
}

// NewAPIResponse wraps data in the success envelope.
func NewAPIResponse(data interface{}, elapsed time.Duration) APIResponse {
	return APIResponse{
		Success:          true,
		Data:             data,
		Timestamp:        time.Now().UTC(),
		ProcessingTimeMs: float64(elapsed.Microseconds()) / 1000.0,
	}
}

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// IngestResponse represents batch ingest response
type IngestResponse struct {
	Accepted  int      `json:"accepted"`
	Metrics   []string `json:"metrics"`
	RequestID string   `json:"request_id"`
}

// DataResponse represents a metric readings query response
type DataResponse struct {
	UserID string                      `json:"user_id"`
	Metric string                      `json:"metric"`
	Points []analytics.HealthDataPoint `json:"points"`
	Count  int                         `json:"count"`
}

// AnomalyResponse represents anomaly detection response
type AnomalyResponse struct {
	UserID      string              `json:"user_id"`
	Sensitivity string              `json:"sensitivity"`
	Anomalies   []anomaly.Detection `json:"anomalies"`
	Count       int                 `json:"count"`
	Cached      bool                `json:"cached"`
}

// ForecastResponse represents forecast response
type ForecastResponse struct {
	Forecast *forecast.Forecast `json:"forecast"`
	Cached   bool               `json:"cached"`
}

// BaselineResponse represents personalized baseline response
type BaselineResponse struct {
	Baseline *baseline.Baseline `json:"baseline"`
}

// CircadianResponse represents circadian rhythm analysis response
type CircadianResponse struct {
	UserID   string              `json:"user_id"`
	Analysis *circadian.Analysis `json:"analysis"`
}

// InsightsResponse represents health insights report response
type InsightsResponse struct {
	UserID string           `json:"user_id"`
	Report *insights.Report `json:"report"`
}

// ErrorResponse represents error response
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// ErrorDetail represents error details
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Path    string                 `json:"path,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}
