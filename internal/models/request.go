package models

import (
	"fmt"
	"time"

	"github.com/vitalixdb/vitalix/internal/analytics"
)

// DataPointInput represents a single health reading in an ingest request
type DataPointInput struct {
	Metric    string                 `json:"metric"`
	Value     float64                `json:"value"`
	Timestamp string                 `json:"timestamp"` // RFC3339; defaults to now when empty
	Unit      string                 `json:"unit,omitempty"`
	Source    string                 `json:"source,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// IngestRequest represents a batch health data ingest request
type IngestRequest struct {
	Points []DataPointInput `json:"points"`
}

// Validate validates the ingest request
func (r *IngestRequest) Validate() error {
	if len(r.Points) == 0 {
		return fmt.Errorf("points is required and must not be empty")
	}

	for i, p := range r.Points {
		if p.Metric == "" {
			return fmt.Errorf("points[%d]: metric is required", i)
		}
		if p.Timestamp != "" {
			if _, err := time.Parse(time.RFC3339, p.Timestamp); err != nil {
				return fmt.Errorf("points[%d]: invalid timestamp %q: must be RFC3339", i, p.Timestamp)
			}
		}
	}

	return nil
}

// ToDataPoints converts the request into domain data points for userID.
// Points without a timestamp are stamped with the current time.
func (r *IngestRequest) ToDataPoints(userID string) []analytics.HealthDataPoint {
	now := time.Now().UTC()

	points := make([]analytics.HealthDataPoint, len(r.Points))
	for i, p := range r.Points {
		ts := now
		if p.Timestamp != "" {
			// Validated already, parse cannot fail here
			ts, _ = time.Parse(time.RFC3339, p.Timestamp)
		}

		points[i] = analytics.HealthDataPoint{
			UserID:    userID,
			Metric:    p.Metric,
			Value:     p.Value,
			Timestamp: ts,
			Unit:      p.Unit,
			Source:    p.Source,
			Metadata:  p.Metadata,
		}
	}

	return points
}

// DetectAnomaliesRequest represents an anomaly detection request
type DetectAnomaliesRequest struct {
	Sensitivity string   `json:"sensitivity,omitempty"` // low, medium (default), high
	Algorithms  []string `json:"algorithms,omitempty"`  // defaults to configured algorithms
	Metrics     []string `json:"metrics,omitempty"`     // restrict detection to these metrics
}

// UpdateBaselineRequest represents a baseline observation request
type UpdateBaselineRequest struct {
	Value float64 `json:"value"`
}
