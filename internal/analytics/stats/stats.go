// Package stats implements the statistical summarizer used by anomaly
// detection, forecasting and insight generation.
package stats

import (
	"errors"
	"math"
	"sort"
)

// ErrEmptySample is returned when a summary is requested over zero values.
var ErrEmptySample = errors.New("cannot summarize an empty sample")

// Summary holds descriptive statistics for a numeric sample.
// Std is the population standard deviation (divide by N, not N-1).
// Median, Q25 and Q75 are approximate quantiles computed on a sorted copy
// without interpolation; callers must treat them as such for small N.
type Summary struct {
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
	Q25    float64 `json:"q25"`
	Q75    float64 `json:"q75"`
}

// Summarize computes a Summary over values. Returns ErrEmptySample for an
// empty input instead of propagating NaN.
func Summarize(values []float64) (Summary, error) {
	n := len(values)
	if n == 0 {
		return Summary{}, ErrEmptySample
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(n)

	var varianceSum float64
	for _, v := range values {
		diff := v - mean
		varianceSum += diff * diff
	}
	std := math.Sqrt(varianceSum / float64(n))

	return Summary{
		Mean:   mean,
		Std:    std,
		Min:    sorted[0],
		Max:    sorted[n-1],
		Median: median(sorted),
		Q25:    quantile(sorted, 0.25),
		Q75:    quantile(sorted, 0.75),
	}, nil
}

// Mean calculates the arithmetic mean of values, 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev calculates the population standard deviation of values.
func StdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := Mean(values)
	var varianceSum float64
	for _, v := range values {
		diff := v - mean
		varianceSum += diff * diff
	}
	return math.Sqrt(varianceSum / float64(len(values)))
}

// median returns the middle value of a sorted slice, averaging the two
// central values when the length is even.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// quantile returns the value at index floor(n*p) of a sorted slice.
func quantile(sorted []float64, p float64) float64 {
	idx := int(math.Floor(float64(len(sorted)) * p))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// LinearSlope computes the ordinary least-squares slope of values against
// their index sequence 0..n-1. Returns 0 when fewer than 2 points.
func LinearSlope(values []float64) float64 {
	n := float64(len(values))
	if len(values) < 2 {
		return 0
	}

	var sumX, sumY, sumXY, sumX2 float64
	for i, v := range values {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumX2 += x * x
	}

	denominator := n*sumX2 - sumX*sumX
	if denominator == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denominator
}
