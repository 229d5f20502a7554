package analytics_test

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/vitalixdb/vitalix/internal/analytics"
	"github.com/vitalixdb/vitalix/internal/analytics/anomaly"
	"github.com/vitalixdb/vitalix/internal/analytics/baseline"
	"github.com/vitalixdb/vitalix/internal/analytics/circadian"
	"github.com/vitalixdb/vitalix/internal/analytics/forecast"
)

// Every persisted entity crosses a JSON boundary (cache, queue, HTTP), so a
// serialize/deserialize cycle must preserve all fields.
func TestEntityJSONRoundTrip(t *testing.T) {
	ts := time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		in, out interface{}
	}{
		{
			name: "health data point",
			in: &analytics.HealthDataPoint{
				UserID:    "user-1",
				Metric:    "heart_rate",
				Value:     72.5,
				Timestamp: ts,
				Unit:      "bpm",
				Source:    "wearable",
				Metadata:  map[string]interface{}{"device": "watch-3"},
			},
			out: &analytics.HealthDataPoint{},
		},
		{
			name: "anomaly detection",
			in: &anomaly.Detection{
				ID:           "det-1",
				UserID:       "user-1",
				Timestamp:    ts,
				Metric:       "heart_rate",
				Value:        180,
				AnomalyScore: 0.62,
				IsAnomaly:    true,
				Severity:     anomaly.SeverityHigh,
				Explanation:  "value 180.0 deviates 3.1 standard deviations from mean 72.5",
				Algorithm:    "zscore",
				CreatedAt:    ts,
			},
			out: &anomaly.Detection{},
		},
		{
			name: "forecast",
			in: &forecast.Forecast{
				ID:     "fc-1",
				UserID: "user-1",
				Metric: "steps",
				Predictions: []forecast.Prediction{
					{
						Timestamp:  ts.Add(24 * time.Hour),
						Value:      8200,
						Confidence: 0.8,
						UpperBound: 8700,
						LowerBound: 7700,
					},
				},
				Model:     "linear",
				Accuracy:  0.85,
				Horizon:   "7-days",
				CreatedAt: ts,
				UpdatedAt: ts,
			},
			out: &forecast.Forecast{},
		},
		{
			name: "baseline",
			in: &baseline.Baseline{
				ID:          "bl-1",
				UserID:      "user-1",
				Metric:      "steps",
				Baseline:    10000,
				NormalRange: baseline.Range{Min: 8000, Max: 12000},
				Confidence:  0.5,
				SampleSize:  3,
				LastUpdated: ts,
				CreatedAt:   ts,
			},
			out: &baseline.Baseline{},
		},
		{
			name: "circadian analysis",
			in: &circadian.Analysis{
				ID:     "ca-1",
				UserID: "user-1",
				SleepPattern: circadian.SleepPattern{
					AverageDuration: 7.5,
					Bedtime:         "23:00",
					WakeTime:        "06:30",
					Quality:         0.94,
					Consistency:     0.8,
					SampleSize:      5,
				},
				ActivityPattern: circadian.ActivityPattern{
					AverageDaily: 8400,
					PeakHours:    []int{8, 12, 18},
					ActiveDays:   6,
					Consistency:  0.7,
				},
				Recommendations: []string{"keep a consistent bedtime"},
				Score:           0.81,
				CreatedAt:       ts,
				UpdatedAt:       ts,
			},
			out: &circadian.Analysis{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.in)
			if err != nil {
				t.Fatalf("Marshal failed: %v", err)
			}
			if err := json.Unmarshal(data, tt.out); err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			if !reflect.DeepEqual(tt.in, tt.out) {
				t.Errorf("Round trip changed value:\n in: %+v\nout: %+v", tt.in, tt.out)
			}
		})
	}
}
