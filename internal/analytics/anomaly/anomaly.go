// Package anomaly implements per-metric anomaly detection over health
// readings with sensitivity-dependent thresholds and severity tiers.
package anomaly

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/vitalixdb/vitalix/internal/analytics"
)

// Sensitivity controls how aggressively points are flagged.
// A lower sensitivity label maps to a HIGHER numeric threshold
// (less sensitive = fewer flags). This inversion is deliberate.
type Sensitivity string

const (
	SensitivityLow    Sensitivity = "low"
	SensitivityMedium Sensitivity = "medium"
	SensitivityHigh   Sensitivity = "high"
)

// Threshold returns the z-score threshold for this sensitivity.
// Unknown sensitivities fall back to medium.
func (s Sensitivity) Threshold() float64 {
	switch s {
	case SensitivityLow:
		return 3.0
	case SensitivityHigh:
		return 2.0
	default:
		return 2.5
	}
}

// Valid reports whether s is a recognized sensitivity level.
func (s Sensitivity) Valid() bool {
	return s == SensitivityLow || s == SensitivityMedium || s == SensitivityHigh
}

// Severity classifies how far a flagged point exceeds the threshold.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// rank orders severities for sorting (higher = more severe).
func (s Severity) rank() int {
	switch s {
	case SeverityCritical:
		return 3
	case SeverityHigh:
		return 2
	case SeverityMedium:
		return 1
	default:
		return 0
	}
}

// MinGroupSize is the minimum number of points per metric group required
// to estimate a usable standard deviation. Smaller groups are skipped.
const MinGroupSize = 5

// Detection represents a single flagged data point.
type Detection struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Timestamp    time.Time `json:"timestamp"`
	Metric       string    `json:"metric"`
	Value        float64   `json:"value"`
	AnomalyScore float64   `json:"anomaly_score"`
	IsAnomaly    bool      `json:"is_anomaly"`
	Severity     Severity  `json:"severity"`
	Explanation  string    `json:"explanation"`
	Algorithm    string    `json:"algorithm"`
	CreatedAt    time.Time `json:"created_at"`
}

// Result is a raw per-point detection produced by a Detector before it is
// assembled into a Detection record.
type Result struct {
	Index int     // Index in the metric group
	Score float64 // Algorithm-specific deviation score (z-score for zscore)
}

// Detector is the interface implemented by all detection algorithms.
type Detector interface {
	// Name returns the algorithm name
	Name() string

	// Detect returns the indices of anomalous points in series together
	// with their deviation scores. threshold is the sensitivity-derived
	// flagging threshold.
	Detect(series analytics.Series, threshold float64) []Result
}

// Registry holds available detectors
var detectorRegistry = make(map[string]Detector)

// Register adds a detector to the registry
func Register(name string, detector Detector) {
	detectorRegistry[name] = detector
}

// Get returns a detector by name
func Get(name string) (Detector, error) {
	if detector, ok := detectorRegistry[name]; ok {
		return detector, nil
	}
	return nil, fmt.Errorf("unknown anomaly detector: %s", name)
}

// List returns the names of available detectors, sorted.
func List() []string {
	names := make([]string, 0, len(detectorRegistry))
	for name := range detectorRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Detect runs the named algorithms over points grouped by metric and returns
// the assembled detections, sorted by severity descending then timestamp
// descending. Metric groups with fewer than MinGroupSize points are skipped.
func Detect(points []analytics.HealthDataPoint, sensitivity Sensitivity, algorithms []string) ([]Detection, error) {
	if len(algorithms) == 0 {
		algorithms = []string{"zscore"}
	}

	threshold := sensitivity.Threshold()
	groups := analytics.GroupByMetric(points)

	var detections []Detection
	now := time.Now().UTC()

	for _, metric := range analytics.Metrics(groups) {
		series := groups[metric]
		if len(series) < MinGroupSize {
			continue
		}

		for _, name := range algorithms {
			detector, err := Get(name)
			if err != nil {
				return nil, err
			}

			for _, r := range detector.Detect(series, threshold) {
				p := series[r.Index]
				severity := classify(r.Score, threshold)
				detections = append(detections, Detection{
					ID:           uuid.New().String(),
					UserID:       p.UserID,
					Timestamp:    p.Timestamp,
					Metric:       metric,
					Value:        p.Value,
					AnomalyScore: normalizeScore(r.Score),
					IsAnomaly:    true,
					Severity:     severity,
					Explanation:  explain(p, r.Score, severity),
					Algorithm:    detector.Name(),
					CreatedAt:    now,
				})
			}
		}
	}

	sort.SliceStable(detections, func(i, j int) bool {
		ri, rj := detections[i].Severity.rank(), detections[j].Severity.rank()
		if ri != rj {
			return ri > rj
		}
		return detections[i].Timestamp.After(detections[j].Timestamp)
	})

	return detections, nil
}

// classify assigns a severity tier from how far score exceeds threshold.
// The low branch is unreachable for flagged points (score > threshold holds
// by construction) but the full rule is kept for completeness.
func classify(score, threshold float64) Severity {
	switch {
	case score > 2*threshold:
		return SeverityCritical
	case score > 1.5*threshold:
		return SeverityHigh
	case score > threshold:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// normalizeScore maps a z-score to [0,1] as z/5, clamped. Scores above 5
// standard deviations saturate at 1.
func normalizeScore(score float64) float64 {
	normalized := score / 5
	if normalized > 1 {
		return 1
	}
	if normalized < 0 {
		return 0
	}
	return normalized
}

// explain builds the human-readable explanation attached to a detection.
func explain(p analytics.HealthDataPoint, score float64, severity Severity) string {
	return fmt.Sprintf("%s reading of %s deviates %.1f standard deviations from the recent mean (%s severity)",
		p.Metric, formatValue(p.Value), score, severity)
}

func formatValue(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}
