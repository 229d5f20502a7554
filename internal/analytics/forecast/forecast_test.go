package forecast

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/vitalixdb/vitalix/internal/analytics"
)

func createTestSeries(values []float64) analytics.Series {
	series := make(analytics.Series, len(values))
	baseTime := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i, v := range values {
		series[i] = analytics.HealthDataPoint{
			UserID:    "user-1",
			Metric:    "heart_rate",
			Value:     v,
			Timestamp: baseTime.Add(time.Duration(i) * 24 * time.Hour),
		}
	}
	return series
}

func seededGenerator() *Generator {
	return NewGenerator(rand.New(rand.NewSource(42)))
}

func TestParseHorizon(t *testing.T) {
	tests := []struct {
		horizon string
		want    int
	}{
		{"7-days", 7},
		{"1-day", 1},
		{"2-weeks", 14},
		{"1-week", 7},
		{"1-month", 30},
		{"3-months", 90},
		{"garbage", 7},
		{"", 7},
		{"0-days", 7},
		{"-5-days", 7},
	}

	for _, tt := range tests {
		t.Run(tt.horizon, func(t *testing.T) {
			if got := ParseHorizon(tt.horizon); got != tt.want {
				t.Errorf("ParseHorizon(%q) = %d, want %d", tt.horizon, got, tt.want)
			}
		})
	}
}

func TestSelectModel(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{3, "linear"},
		{9, "linear"},
		{10, "arima"},
		{29, "arima"},
		{30, "prophet"},
		{100, "prophet"},
	}

	for _, tt := range tests {
		if got := SelectModel(tt.n); got != tt.want {
			t.Errorf("SelectModel(%d) = %s, want %s", tt.n, got, tt.want)
		}
	}
}

func TestGenerate_SevenDayLinear(t *testing.T) {
	g := seededGenerator()
	series := createTestSeries([]float64{100, 102, 104})

	fc, err := g.Generate("user-1", "heart_rate", "7-days", series)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(fc.Predictions) != 7 {
		t.Errorf("Expected 7 predictions, got %d", len(fc.Predictions))
	}
	if fc.Model != "linear" {
		t.Errorf("Expected model linear for n=3, got %s", fc.Model)
	}
	if fc.Predictions[0].Confidence != 0.8 {
		t.Errorf("Expected first prediction confidence 0.8, got %f", fc.Predictions[0].Confidence)
	}
	if fc.ID == "" {
		t.Error("Expected generated forecast ID")
	}
	if fc.Horizon != "7-days" {
		t.Errorf("Expected horizon preserved, got %s", fc.Horizon)
	}
}

func TestGenerate_InsufficientData(t *testing.T) {
	g := seededGenerator()
	_, err := g.Generate("user-1", "heart_rate", "7-days", createTestSeries([]float64{100, 102}))
	if err != ErrInsufficientData {
		t.Fatalf("Expected ErrInsufficientData, got %v", err)
	}
}

func TestGenerate_ConfidenceNonIncreasing(t *testing.T) {
	g := seededGenerator()
	series := createTestSeries([]float64{50, 51, 52, 53, 54})

	fc, err := g.Generate("user-1", "steps", "1-month", series)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(fc.Predictions) != 30 {
		t.Fatalf("Expected 30 predictions, got %d", len(fc.Predictions))
	}

	for i := 1; i < len(fc.Predictions); i++ {
		if fc.Predictions[i].Confidence > fc.Predictions[i-1].Confidence {
			t.Errorf("Confidence increased at step %d: %f > %f",
				i, fc.Predictions[i].Confidence, fc.Predictions[i-1].Confidence)
		}
	}

	last := fc.Predictions[len(fc.Predictions)-1]
	if last.Confidence != 0.1 {
		t.Errorf("Expected confidence floored at 0.1, got %f", last.Confidence)
	}
}

func TestGenerate_BoundsAndFloor(t *testing.T) {
	g := seededGenerator()
	// Steeply decreasing series pushes extrapolated values below zero
	series := createTestSeries([]float64{30, 20, 10, 0})

	fc, err := g.Generate("user-1", "deep_sleep_hours", "2-weeks", series)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	for i, p := range fc.Predictions {
		if p.Value < 0 {
			t.Errorf("Prediction %d below zero: %f", i, p.Value)
		}
		if p.LowerBound < 0 {
			t.Errorf("Lower bound %d below zero: %f", i, p.LowerBound)
		}
		if p.UpperBound < p.Value {
			t.Errorf("Upper bound %d below value: %f < %f", i, p.UpperBound, p.Value)
		}
	}
}

func TestGenerate_AccuracyRange(t *testing.T) {
	g := seededGenerator()
	series := createTestSeries([]float64{10, 11, 12, 13})

	for i := 0; i < 20; i++ {
		fc, err := g.Generate("user-1", "hr", "1-day", series)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if fc.Accuracy < 0.7 || fc.Accuracy > 1.0 {
			t.Errorf("Accuracy out of [0.7, 1.0]: %f", fc.Accuracy)
		}
	}
}

func TestGenerate_DeterministicWithSeed(t *testing.T) {
	series := createTestSeries([]float64{100, 102, 104, 106})

	a, err := NewGenerator(rand.New(rand.NewSource(7))).Generate("u", "hr", "7-days", series)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	b, err := NewGenerator(rand.New(rand.NewSource(7))).Generate("u", "hr", "7-days", series)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if a.Accuracy != b.Accuracy {
		t.Errorf("Expected identical accuracy under same seed, got %f vs %f", a.Accuracy, b.Accuracy)
	}
	for i := range a.Predictions {
		if a.Predictions[i].Value != b.Predictions[i].Value {
			t.Errorf("Prediction %d differs under same seed: %f vs %f",
				i, a.Predictions[i].Value, b.Predictions[i].Value)
		}
	}
}

func TestGenerate_Concurrent(t *testing.T) {
	g := seededGenerator()
	series := createTestSeries([]float64{100, 102, 104, 106})

	var wg sync.WaitGroup
	errs := make(chan error, 8*20)
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				fc, err := g.Generate("u", "steps", "3-months", series)
				if err != nil {
					errs <- err
					return
				}
				if len(fc.Predictions) != 90 {
					errs <- fmt.Errorf("expected 90 predictions, got %d", len(fc.Predictions))
					return
				}
				if fc.Accuracy < 0.7 || fc.Accuracy > 1.0 {
					errs <- fmt.Errorf("accuracy out of range: %f", fc.Accuracy)
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func TestConfidenceAt(t *testing.T) {
	if got := ConfidenceAt(1); got != 0.8 {
		t.Errorf("Expected 0.8 at step 1, got %f", got)
	}
	if got := ConfidenceAt(8); got != 0.1 {
		t.Errorf("Expected floor 0.1 at step 8, got %f", got)
	}
	if got := ConfidenceAt(100); got != 0.1 {
		t.Errorf("Expected floor 0.1 at step 100, got %f", got)
	}
}
