package stats

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSummarize_Basic(t *testing.T) {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}

	s, err := Summarize(values)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !almostEqual(s.Mean, 5) {
		t.Errorf("Expected mean 5, got %f", s.Mean)
	}
	// Population std of this classic sample is exactly 2
	if !almostEqual(s.Std, 2) {
		t.Errorf("Expected std 2, got %f", s.Std)
	}
	if s.Min != 2 || s.Max != 9 {
		t.Errorf("Expected min 2 max 9, got %f %f", s.Min, s.Max)
	}
	if !almostEqual(s.Median, 4.5) {
		t.Errorf("Expected median 4.5, got %f", s.Median)
	}
}

func TestSummarize_OddMedian(t *testing.T) {
	s, err := Summarize([]float64{9, 1, 5})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if s.Median != 5 {
		t.Errorf("Expected median 5, got %f", s.Median)
	}
}

func TestSummarize_Quantiles(t *testing.T) {
	// Sorted: 10 20 30 40; q25 at floor(4*0.25)=1 -> 20, q75 at floor(4*0.75)=3 -> 40
	s, err := Summarize([]float64{40, 10, 30, 20})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if s.Q25 != 20 {
		t.Errorf("Expected q25 20, got %f", s.Q25)
	}
	if s.Q75 != 40 {
		t.Errorf("Expected q75 40, got %f", s.Q75)
	}
}

func TestSummarize_SingleValue(t *testing.T) {
	s, err := Summarize([]float64{42})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if s.Mean != 42 || s.Median != 42 || s.Min != 42 || s.Max != 42 {
		t.Errorf("Expected all stats 42, got %+v", s)
	}
	if s.Std != 0 {
		t.Errorf("Expected std 0 for single value, got %f", s.Std)
	}
}

func TestSummarize_Empty(t *testing.T) {
	_, err := Summarize(nil)
	if err != ErrEmptySample {
		t.Fatalf("Expected ErrEmptySample, got %v", err)
	}
}

func TestSummarize_Invariants(t *testing.T) {
	samples := [][]float64{
		{1, 2, 3, 4, 5},
		{-10, 0, 10},
		{3.5},
		{100, 100, 100, 100},
		{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7},
	}

	for _, values := range samples {
		s, err := Summarize(values)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if s.Std < 0 {
			t.Errorf("std must be non-negative, got %f", s.Std)
		}
		if s.Min > s.Median || s.Median > s.Max {
			t.Errorf("Expected min <= median <= max, got %f %f %f", s.Min, s.Median, s.Max)
		}
		if math.IsNaN(s.Mean) || math.IsNaN(s.Std) {
			t.Error("Summary must never contain NaN")
		}
	}
}

func TestStdDev_Population(t *testing.T) {
	// Population std divides by N: values 1,3 -> mean 2, variance 1, std 1
	got := StdDev([]float64{1, 3})
	if !almostEqual(got, 1) {
		t.Errorf("Expected population std 1, got %f", got)
	}
}

func TestLinearSlope(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"increasing", []float64{100, 102, 104}, 2},
		{"decreasing", []float64{10, 8, 6, 4}, -2},
		{"flat", []float64{5, 5, 5, 5, 5}, 0},
		{"too few", []float64{7}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LinearSlope(tt.values)
			if !almostEqual(got, tt.want) {
				t.Errorf("Expected slope %f, got %f", tt.want, got)
			}
		})
	}
}
