package circadian

import (
	"math"
	"testing"
	"time"

	"github.com/vitalixdb/vitalix/internal/analytics"
)

func sleepReading(day int, hour, minute int, duration float64) analytics.HealthDataPoint {
	return analytics.HealthDataPoint{
		UserID:    "user-1",
		Metric:    SleepMetric,
		Value:     duration,
		Timestamp: time.Date(2025, 6, day, hour, minute, 0, 0, time.UTC),
	}
}

func stepsReading(day, hour int, steps float64) analytics.HealthDataPoint {
	return analytics.HealthDataPoint{
		UserID:    "user-1",
		Metric:    ActivityMetric,
		Value:     steps,
		Timestamp: time.Date(2025, 6, day, hour, 0, 0, 0, time.UTC),
	}
}

func TestAnalyze_SleepAggregation(t *testing.T) {
	points := []analytics.HealthDataPoint{
		sleepReading(1, 6, 30, 7.5),
		sleepReading(2, 6, 30, 8.0),
		sleepReading(3, 6, 30, 7.0),
	}

	a := Analyze("user-1", points)

	if math.Abs(a.SleepPattern.AverageDuration-7.5) > 1e-9 {
		t.Errorf("Expected average duration 7.5, got %f", a.SleepPattern.AverageDuration)
	}
	if a.SleepPattern.WakeTime != "06:30" {
		t.Errorf("Expected wake time 06:30, got %s", a.SleepPattern.WakeTime)
	}
	// 06:30 minus 7.5 hours = 23:00 the previous evening
	if a.SleepPattern.Bedtime != "23:00" {
		t.Errorf("Expected bedtime 23:00, got %s", a.SleepPattern.Bedtime)
	}
	// Identical wake times: full consistency
	if a.SleepPattern.Consistency != 1 {
		t.Errorf("Expected consistency 1, got %f", a.SleepPattern.Consistency)
	}
	if a.SleepPattern.SampleSize != 3 {
		t.Errorf("Expected sample size 3, got %d", a.SleepPattern.SampleSize)
	}
}

func TestAnalyze_SleepDefaults(t *testing.T) {
	a := Analyze("user-1", nil)

	if a.SleepPattern.AverageDuration != DefaultSleepHours {
		t.Errorf("Expected default duration %f, got %f", DefaultSleepHours, a.SleepPattern.AverageDuration)
	}
	if a.SleepPattern.Bedtime == "" || a.SleepPattern.WakeTime == "" {
		t.Error("Expected default bedtime and wake time")
	}
	if a.Score < 0 || a.Score > 1 {
		t.Errorf("Expected score in [0,1], got %f", a.Score)
	}
}

func TestAnalyze_WakeTimeAcrossMidnight(t *testing.T) {
	// Clock times straddling midnight: a plain mean would land near noon
	points := []analytics.HealthDataPoint{
		sleepReading(1, 23, 50, 7),
		sleepReading(2, 0, 10, 7),
	}

	a := Analyze("user-1", points)
	if a.SleepPattern.WakeTime != "00:00" {
		t.Errorf("Expected circular mean 00:00, got %s", a.SleepPattern.WakeTime)
	}
}

func TestAnalyze_ActivityAggregation(t *testing.T) {
	points := []analytics.HealthDataPoint{
		stepsReading(1, 8, 3000),
		stepsReading(1, 18, 5000),
		stepsReading(2, 8, 4000),
		stepsReading(2, 18, 4000),
		stepsReading(3, 12, 8000),
	}

	a := Analyze("user-1", points)
	ap := a.ActivityPattern

	if ap.ActiveDays != 3 {
		t.Errorf("Expected 3 active days, got %d", ap.ActiveDays)
	}
	if math.Abs(ap.AverageDaily-8000) > 1e-9 {
		t.Errorf("Expected average daily 8000, got %f", ap.AverageDaily)
	}
	if len(ap.PeakHours) == 0 {
		t.Fatal("Expected peak hours")
	}
	for i := 1; i < len(ap.PeakHours); i++ {
		if ap.PeakHours[i] < ap.PeakHours[i-1] {
			t.Error("Peak hours must be sorted ascending")
		}
	}
	// Three equal daily totals: full consistency
	if ap.Consistency != 1 {
		t.Errorf("Expected consistency 1 for equal days, got %f", ap.Consistency)
	}
}

func TestAnalyze_Recommendations(t *testing.T) {
	// Short, irregular sleep and low activity should each produce advice
	points := []analytics.HealthDataPoint{
		sleepReading(1, 5, 0, 5),
		sleepReading(2, 9, 30, 5.5),
		sleepReading(3, 7, 0, 5.2),
		stepsReading(1, 9, 2000),
		stepsReading(2, 14, 2500),
	}

	a := Analyze("user-1", points)
	if len(a.Recommendations) < 2 {
		t.Errorf("Expected multiple recommendations for poor patterns, got %v", a.Recommendations)
	}
}

func TestAnalyze_GoodPatternsSingleRecommendation(t *testing.T) {
	var points []analytics.HealthDataPoint
	for day := 1; day <= 7; day++ {
		points = append(points, sleepReading(day, 6, 45, 8))
		points = append(points, stepsReading(day, 9, 6000))
		points = append(points, stepsReading(day, 17, 6000))
	}

	a := Analyze("user-1", points)
	if len(a.Recommendations) != 1 {
		t.Errorf("Expected single maintenance recommendation, got %v", a.Recommendations)
	}
	if a.Score < 0.8 {
		t.Errorf("Expected high circadian score for good patterns, got %f", a.Score)
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		minutes float64
		want    string
	}{
		{0, "00:00"},
		{390, "06:30"},
		{1439, "23:59"},
		{-60, "23:00"},
	}
	for _, tt := range tests {
		if got := formatClock(tt.minutes); got != tt.want {
			t.Errorf("formatClock(%f) = %s, want %s", tt.minutes, got, tt.want)
		}
	}
}
