// Package analytics provides the shared types used across the health
// analytics packages (stats, anomaly, forecast, baseline, circadian, insights).
package analytics

import (
	"sort"
	"time"
)

// HealthDataPoint represents a single typed health reading for a user.
// Points are immutable once ingested; duplicates are allowed and retained.
type HealthDataPoint struct {
	UserID    string                 `json:"user_id"`
	Metric    string                 `json:"metric"`
	Value     float64                `json:"value"`
	Timestamp time.Time              `json:"timestamp"`
	Unit      string                 `json:"unit,omitempty"`
	Source    string                 `json:"source,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Series is an ordered collection of health data points for one metric.
type Series []HealthDataPoint

// Values extracts just the values from the series
func (s Series) Values() []float64 {
	values := make([]float64, len(s))
	for i, p := range s {
		values[i] = p.Value
	}
	return values
}

// Times extracts just the timestamps from the series
func (s Series) Times() []time.Time {
	times := make([]time.Time, len(s))
	for i, p := range s {
		times[i] = p.Timestamp
	}
	return times
}

// Len returns the number of data points
func (s Series) Len() int {
	return len(s)
}

// SortByTime sorts the series in place by ascending timestamp.
// Duplicate timestamps keep their relative order.
func (s Series) SortByTime() {
	sort.SliceStable(s, func(i, j int) bool {
		return s[i].Timestamp.Before(s[j].Timestamp)
	})
}

// GroupByMetric splits a flat slice of readings into per-metric series.
// Relative order within each metric is preserved.
func GroupByMetric(points []HealthDataPoint) map[string]Series {
	groups := make(map[string]Series)
	for _, p := range points {
		groups[p.Metric] = append(groups[p.Metric], p)
	}
	return groups
}

// Metrics returns the metric names present in groups, sorted for
// deterministic iteration.
func Metrics(groups map[string]Series) []string {
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
