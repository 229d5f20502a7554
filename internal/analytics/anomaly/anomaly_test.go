package anomaly

import (
	"testing"
	"time"

	"github.com/vitalixdb/vitalix/internal/analytics"
)

func createTestPoints(metric string, values []float64) []analytics.HealthDataPoint {
	points := make([]analytics.HealthDataPoint, len(values))
	baseTime := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	for i, v := range values {
		points[i] = analytics.HealthDataPoint{
			UserID:    "user-1",
			Metric:    metric,
			Value:     v,
			Timestamp: baseTime.Add(time.Duration(i) * time.Minute),
		}
	}
	return points
}

func TestSensitivityThresholdOrdering(t *testing.T) {
	high := SensitivityHigh.Threshold()
	medium := SensitivityMedium.Threshold()
	low := SensitivityLow.Threshold()

	if !(high < medium && medium < low) {
		t.Errorf("Expected threshold(high) < threshold(medium) < threshold(low), got %f %f %f",
			high, medium, low)
	}
}

func TestDetect_SpikeFlagged(t *testing.T) {
	// Nine readings of 70 and one of 200: the outlier is ~2.85 std devs out
	values := []float64{70, 70, 70, 70, 200, 70, 70, 70, 70, 70}
	points := createTestPoints("heart_rate", values)

	detections, err := Detect(points, SensitivityHigh, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(detections) == 0 {
		t.Fatal("Expected the 200 reading to be flagged at high sensitivity")
	}

	d := detections[0]
	if d.Value != 200 {
		t.Errorf("Expected flagged value 200, got %f", d.Value)
	}
	if d.Severity == SeverityLow {
		t.Errorf("Expected severity at least medium, got %s", d.Severity)
	}
	if !d.IsAnomaly {
		t.Error("Expected IsAnomaly true")
	}
	if d.Algorithm != "zscore" {
		t.Errorf("Expected algorithm zscore, got %s", d.Algorithm)
	}
	if d.AnomalyScore < 0 || d.AnomalyScore > 1 {
		t.Errorf("Expected anomaly score in [0,1], got %f", d.AnomalyScore)
	}
	if d.Explanation == "" {
		t.Error("Expected non-empty explanation")
	}
	if d.ID == "" {
		t.Error("Expected generated detection ID")
	}
}

func TestDetect_ZeroVariance(t *testing.T) {
	// Constant readings: std = 0, z-score undefined, nothing may be flagged
	values := []float64{70, 70, 70, 70, 70, 70, 70, 70, 70, 70}
	points := createTestPoints("hr", values)

	detections, err := Detect(points, SensitivityMedium, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(detections) != 0 {
		t.Errorf("Expected no anomalies for zero-variance data, got %d", len(detections))
	}
}

func TestDetect_SmallGroupSkipped(t *testing.T) {
	// Fewer than 5 points per metric: group must be skipped regardless of values
	points := createTestPoints("glucose", []float64{90, 95, 500, 92})

	detections, err := Detect(points, SensitivityHigh, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(detections) != 0 {
		t.Errorf("Expected no anomalies for group of size 4, got %d", len(detections))
	}
}

func TestDetect_NormalDataNotFlagged(t *testing.T) {
	values := []float64{71, 72, 70, 73, 71, 70, 72, 71, 70, 72}
	points := createTestPoints("heart_rate", values)

	detections, err := Detect(points, SensitivityLow, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(detections) != 0 {
		t.Errorf("Expected no anomalies in normal data, got %d", len(detections))
	}
}

func TestDetect_SortedBySeverityThenRecency(t *testing.T) {
	// Two metrics with outliers of different magnitude
	points := createTestPoints("heart_rate", []float64{70, 70, 70, 71, 69, 70, 70, 71, 69, 300})
	points = append(points, createTestPoints("steps", []float64{8000, 8100, 7900, 8000, 8050, 7950, 8000, 8100, 7900, 11500})...)

	detections, err := Detect(points, SensitivityHigh, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(detections) < 2 {
		t.Fatalf("Expected at least two detections, got %d", len(detections))
	}

	for i := 1; i < len(detections); i++ {
		prev, cur := detections[i-1], detections[i]
		if prev.Severity.rank() < cur.Severity.rank() {
			t.Errorf("Detections not sorted by severity: %s before %s", prev.Severity, cur.Severity)
		}
		if prev.Severity == cur.Severity && prev.Timestamp.Before(cur.Timestamp) {
			t.Error("Ties must be broken by timestamp descending")
		}
	}
}

func TestDetect_UnknownAlgorithm(t *testing.T) {
	points := createTestPoints("hr", []float64{70, 70, 70, 70, 70, 200})
	_, err := Detect(points, SensitivityMedium, []string{"dbscan"})
	if err == nil {
		t.Fatal("Expected error for unknown algorithm")
	}
}

func TestClassify(t *testing.T) {
	threshold := 2.0
	tests := []struct {
		score float64
		want  Severity
	}{
		{4.5, SeverityCritical}, // > 2x threshold
		{3.5, SeverityHigh},     // > 1.5x threshold
		{2.5, SeverityMedium},   // > threshold
		{1.5, SeverityLow},      // unreachable for flagged points, rule kept
	}

	for _, tt := range tests {
		if got := classify(tt.score, threshold); got != tt.want {
			t.Errorf("classify(%f, %f) = %s, want %s", tt.score, threshold, got, tt.want)
		}
	}
}

func TestNormalizeScoreClamped(t *testing.T) {
	if got := normalizeScore(2.5); got != 0.5 {
		t.Errorf("Expected 0.5, got %f", got)
	}
	// z-scores above 5 would exceed 1.0 unclamped
	if got := normalizeScore(7.2); got != 1 {
		t.Errorf("Expected clamp to 1, got %f", got)
	}
}

func TestRegistry(t *testing.T) {
	names := List()
	found := map[string]bool{}
	for _, n := range names {
		found[n] = true
	}
	if !found["zscore"] || !found["iqr"] {
		t.Errorf("Expected zscore and iqr registered, got %v", names)
	}

	if _, err := Get("zscore"); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if _, err := Get("nope"); err == nil {
		t.Error("Expected error for unregistered detector")
	}
}
