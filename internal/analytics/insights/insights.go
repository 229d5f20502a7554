// Package insights combines statistics, anomaly detections and circadian
// analysis into free-text insights, recommendations and a bounded health
// score.
package insights

import (
	"fmt"
	"strings"

	"github.com/vitalixdb/vitalix/internal/analytics"
	"github.com/vitalixdb/vitalix/internal/analytics/anomaly"
	"github.com/vitalixdb/vitalix/internal/analytics/circadian"
	"github.com/vitalixdb/vitalix/internal/analytics/stats"
)

// TrendDirection classifies the slope of a metric over the analyzed window.
type TrendDirection string

const (
	TrendIncreasing TrendDirection = "increasing"
	TrendDecreasing TrendDirection = "decreasing"
	TrendStable     TrendDirection = "stable"
)

// slopeThreshold is the fixed band around zero inside which a trend is
// considered stable.
const slopeThreshold = 0.1

// MetricTrend is the per-metric trend analysis feeding insight text and the
// health score.
type MetricTrend struct {
	Metric    string         `json:"metric"`
	Direction TrendDirection `json:"direction"`
	Slope     float64        `json:"slope"`
}

// Report is the aggregated insight output for one user.
type Report struct {
	Insights        []string      `json:"insights"`
	Recommendations []string      `json:"recommendations"`
	RiskFactors     []string      `json:"risk_factors"`
	Trends          []MetricTrend `json:"trends"`
	Score           float64       `json:"score"`      // 0-100
	Confidence      float64       `json:"confidence"` // 0-1
}

// positiveMetricSubstrings marks metrics where an increasing trend is
// beneficial. Metrics not matching any substring are treated as
// lower-is-better (resting heart rate, stress, glucose and the like).
var positiveMetricSubstrings = []string{
	"steps", "sleep", "activity", "exercise", "hydration", "water",
}

// AnalyzeTrends computes the per-metric trend direction from the OLS slope
// against the fixed +/-0.1 band.
func AnalyzeTrends(groups map[string]analytics.Series) []MetricTrend {
	trends := make([]MetricTrend, 0, len(groups))
	for _, metric := range analytics.Metrics(groups) {
		slope := stats.LinearSlope(groups[metric].Values())

		direction := TrendStable
		if slope > slopeThreshold {
			direction = TrendIncreasing
		} else if slope < -slopeThreshold {
			direction = TrendDecreasing
		}

		trends = append(trends, MetricTrend{
			Metric:    metric,
			Direction: direction,
			Slope:     slope,
		})
	}
	return trends
}

// BuildReport assembles the aggregated report. detections and circ may be
// nil when the corresponding features are disabled; the related sections are
// then simply absent.
func BuildReport(points []analytics.HealthDataPoint, detections []anomaly.Detection, circ *circadian.Analysis) Report {
	groups := analytics.GroupByMetric(points)
	trends := AnalyzeTrends(groups)

	var insightTexts []string
	score := 75.0

	for _, t := range trends {
		if t.Direction == TrendStable {
			continue
		}

		insightTexts = append(insightTexts, fmt.Sprintf(
			"Your %s has been %s over the analyzed period", t.Metric, t.Direction))

		if isPositiveChange(t.Metric, t.Direction) {
			score += 5
		} else {
			score -= 5
		}
	}

	riskFactors := riskFactorsFrom(detections)

	var recommendations []string
	if circ != nil {
		insightTexts = append(insightTexts, fmt.Sprintf(
			"Average sleep duration is %.1f hours with a circadian score of %.2f",
			circ.SleepPattern.AverageDuration, circ.Score))
		recommendations = append(recommendations, circ.Recommendations...)
	}

	return Report{
		Insights:        insightTexts,
		Recommendations: recommendations,
		RiskFactors:     riskFactors,
		Trends:          trends,
		Score:           clampScore(score),
		Confidence:      confidence(len(points), len(insightTexts)),
	}
}

// riskFactorsFrom emits one risk factor per high or critical detection.
func riskFactorsFrom(detections []anomaly.Detection) []string {
	var factors []string
	for _, d := range detections {
		if d.Severity != anomaly.SeverityCritical && d.Severity != anomaly.SeverityHigh {
			continue
		}
		factors = append(factors, fmt.Sprintf(
			"Abnormal %s reading of %g flagged with %s severity", d.Metric, d.Value, d.Severity))
	}
	return factors
}

// isPositiveChange reports whether the trend direction is beneficial for
// the metric, based on the higher-is-better substring allow-list.
func isPositiveChange(metric string, direction TrendDirection) bool {
	higherIsBetter := false
	lower := strings.ToLower(metric)
	for _, s := range positiveMetricSubstrings {
		if strings.Contains(lower, s) {
			higherIsBetter = true
			break
		}
	}

	if direction == TrendIncreasing {
		return higherIsBetter
	}
	return !higherIsBetter
}

// confidence blends data volume and insight density, each clamped to [0,1].
func confidence(pointCount, insightCount int) float64 {
	dataQuality := float64(pointCount) / 30
	if dataQuality > 1 {
		dataQuality = 1
	}
	density := float64(insightCount) / 5
	if density > 1 {
		density = 1
	}
	return (dataQuality + density) / 2
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
