package anomaly

import (
	"math"

	"github.com/vitalixdb/vitalix/internal/analytics"
	"github.com/vitalixdb/vitalix/internal/analytics/stats"
)

// ZScoreDetector flags points whose absolute z-score exceeds the threshold.
type ZScoreDetector struct{}

func init() {
	Register("zscore", &ZScoreDetector{})
}

// Name returns the algorithm name
func (z *ZScoreDetector) Name() string {
	return "zscore"
}

// Detect finds anomalies using the z-score method. A zero standard deviation
// (all readings identical) yields no flags: the z-score is undefined there
// and treating it as 0 avoids NaN propagation.
func (z *ZScoreDetector) Detect(series analytics.Series, threshold float64) []Result {
	values := series.Values()
	mean := stats.Mean(values)
	std := stats.StdDev(values)

	if std == 0 {
		return nil
	}

	var results []Result
	for i, v := range values {
		score := math.Abs(v-mean) / std
		if score > threshold {
			results = append(results, Result{Index: i, Score: score})
		}
	}
	return results
}
