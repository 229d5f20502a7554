package anomaly

import (
	"sort"

	"github.com/vitalixdb/vitalix/internal/analytics"
)

// IQRDetector flags points outside the Tukey fences [Q1 - k*IQR, Q3 + k*IQR].
// More robust to extreme outliers than the z-score method, at the cost of
// lower resolution on small samples.
type IQRDetector struct{}

func init() {
	Register("iqr", &IQRDetector{})
}

// Name returns the algorithm name
func (d *IQRDetector) Name() string {
	return "iqr"
}

// Detect finds anomalies using the IQR method. The z-score style threshold
// is mapped onto a fence multiplier so that higher sensitivity (lower
// threshold) widens detection the same way it does for zscore.
func (d *IQRDetector) Detect(series analytics.Series, threshold float64) []Result {
	values := series.Values()
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	q1 := percentile(sorted, 25)
	q3 := percentile(sorted, 75)
	iqr := q3 - q1
	if iqr == 0 {
		return nil
	}

	multiplier := threshold / 2 // threshold 3.0 -> k=1.5, the standard fence
	lower := q1 - multiplier*iqr
	upper := q3 + multiplier*iqr

	var results []Result
	for i, v := range values {
		if v < lower || v > upper {
			var distance float64
			if v < lower {
				distance = (lower - v) / iqr
			} else {
				distance = (v - upper) / iqr
			}
			// Express the fence distance on the z-score scale used by
			// classify: a point exactly on the fence scores threshold.
			results = append(results, Result{Index: i, Score: threshold + distance})
		}
	}
	return results
}

// percentile calculates the p-th percentile of sorted data with linear
// interpolation. p is between 0 and 100.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}

	index := (p / 100) * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}
