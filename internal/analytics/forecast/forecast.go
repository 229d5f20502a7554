// Package forecast implements time-series forecasting over health readings:
// a least-squares linear trend extrapolated across a parsed horizon with
// volatility-scaled noise from an injectable random source.
package forecast

import (
	"errors"
	"regexp"
	"strconv"
	"time"
)

// MinDataPoints is the minimum sample size required to fit a trend.
const MinDataPoints = 3

// DefaultHorizonDays is used when the horizon string cannot be parsed.
const DefaultHorizonDays = 7

// ErrInsufficientData is returned when the historical sample is too small.
var ErrInsufficientData = errors.New("insufficient historical data for forecasting")

// Prediction is a single forecasted point.
type Prediction struct {
	Timestamp  time.Time `json:"timestamp"`
	Value      float64   `json:"value"`
	Confidence float64   `json:"confidence"`
	UpperBound float64   `json:"upper_bound"`
	LowerBound float64   `json:"lower_bound"`
}

// Forecast is a complete forecast for one (user, metric, horizon).
type Forecast struct {
	ID          string       `json:"id"`
	UserID      string       `json:"user_id"`
	Metric      string       `json:"metric"`
	Predictions []Prediction `json:"predictions"`
	Model       string       `json:"model"`
	Accuracy    float64      `json:"accuracy"`
	Horizon     string       `json:"horizon"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// SelectModel picks a model name from the sample size. The name is a label
// only: prediction is a least-squares linear trend regardless of the label.
func SelectModel(sampleSize int) string {
	switch {
	case sampleSize < 10:
		return "linear"
	case sampleSize < 30:
		return "arima"
	default:
		return "prophet"
	}
}

var horizonPattern = regexp.MustCompile(`^(\d+)-(day|week|month)s?$`)

// ParseHorizon converts a horizon string like "7-days", "2-weeks" or
// "1-month" into a number of days. Unrecognized strings default to 7 days.
func ParseHorizon(horizon string) int {
	m := horizonPattern.FindStringSubmatch(horizon)
	if m == nil {
		return DefaultHorizonDays
	}

	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return DefaultHorizonDays
	}

	switch m[2] {
	case "week":
		return n * 7
	case "month":
		return n * 30
	default:
		return n
	}
}

// ConfidenceAt returns the confidence assigned to the i-th prediction step
// (1-based). Strictly decreasing until it floors at 0.1.
func ConfidenceAt(step int) float64 {
	c := 0.9 - 0.1*float64(step)
	if c < 0.1 {
		return 0.1
	}
	return c
}
