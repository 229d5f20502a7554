// Package circadian derives sleep and activity pattern summaries from
// timestamped readings. Unlike the placeholder analyzers this service
// replaces, both patterns are computed from the actual data.
package circadian

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/vitalixdb/vitalix/internal/analytics"
	"github.com/vitalixdb/vitalix/internal/analytics/stats"
)

// SleepMetric is the metric name carrying nightly sleep duration in hours.
// Each reading's timestamp is the wake/recording time.
const SleepMetric = "sleep_duration"

// ActivityMetric is the metric name carrying activity readings (step counts).
const ActivityMetric = "steps"

// DefaultSleepHours is assumed when no sleep readings exist.
const DefaultSleepHours = 7.0

// SleepPattern summarizes recent sleep behaviour.
type SleepPattern struct {
	AverageDuration float64 `json:"average_duration"` // hours
	Bedtime         string  `json:"bedtime"`          // HH:MM, derived from wake time minus duration
	WakeTime        string  `json:"wake_time"`        // HH:MM, circular mean of reading clock times
	Quality         float64 `json:"quality"`          // 0-1
	Consistency     float64 `json:"consistency"`      // 0-1, from wake-time variability
	SampleSize      int     `json:"sample_size"`
}

// ActivityPattern summarizes recent activity behaviour.
type ActivityPattern struct {
	AverageDaily float64 `json:"average_daily"`
	PeakHours    []int   `json:"peak_hours"` // hours of day with the most activity
	ActiveDays   int     `json:"active_days"`
	Consistency  float64 `json:"consistency"` // 0-1, from day-to-day variability
}

// Analysis is a complete circadian analysis for one user. Recomputed on
// demand from recent readings; not incrementally updated.
type Analysis struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	SleepPattern    SleepPattern    `json:"sleep_pattern"`
	ActivityPattern ActivityPattern `json:"activity_pattern"`
	Recommendations []string        `json:"recommendations"`
	Score           float64         `json:"score"` // 0-1
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Analyze derives sleep and activity patterns from points and scores the
// combined circadian health in [0,1].
func Analyze(userID string, points []analytics.HealthDataPoint) *Analysis {
	groups := analytics.GroupByMetric(points)

	sleep := analyzeSleep(groups[SleepMetric])
	activity := analyzeActivity(groups[ActivityMetric])

	score := (sleep.Quality + sleep.Consistency + activity.Consistency) / 3
	score = clamp01(score)

	now := time.Now().UTC()
	return &Analysis{
		ID:              uuid.New().String(),
		UserID:          userID,
		SleepPattern:    sleep,
		ActivityPattern: activity,
		Recommendations: recommend(sleep, activity),
		Score:           score,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// analyzeSleep aggregates sleep_duration readings. The wake time is the
// circular mean of reading clock times (a plain mean misbehaves around
// midnight); bedtime is wake time minus the average duration.
func analyzeSleep(series analytics.Series) SleepPattern {
	if len(series) == 0 {
		return SleepPattern{
			AverageDuration: DefaultSleepHours,
			Bedtime:         "23:00",
			WakeTime:        "06:00",
			Quality:         clamp01(DefaultSleepHours / 8),
			Consistency:     0.5,
		}
	}

	avgDuration := stats.Mean(series.Values())

	wakeMinutes := make([]float64, len(series))
	for i, p := range series {
		wakeMinutes[i] = float64(p.Timestamp.Hour()*60 + p.Timestamp.Minute())
	}
	meanWake, spread := circularClockStats(wakeMinutes)

	bedtime := meanWake - avgDuration*60
	for bedtime < 0 {
		bedtime += 24 * 60
	}

	// A two-hour wake-time spread zeroes out consistency
	consistency := clamp01(1 - spread/120)

	return SleepPattern{
		AverageDuration: avgDuration,
		Bedtime:         formatClock(bedtime),
		WakeTime:        formatClock(meanWake),
		Quality:         clamp01(avgDuration / 8),
		Consistency:     consistency,
		SampleSize:      len(series),
	}
}

// analyzeActivity aggregates activity readings into daily totals, an hourly
// peak profile and a day-to-day consistency score.
func analyzeActivity(series analytics.Series) ActivityPattern {
	if len(series) == 0 {
		return ActivityPattern{}
	}

	dailyTotals := make(map[string]float64)
	hourlyTotals := make(map[int]float64)
	for _, p := range series {
		day := p.Timestamp.UTC().Format("2006-01-02")
		dailyTotals[day] += p.Value
		hourlyTotals[p.Timestamp.UTC().Hour()] += p.Value
	}

	totals := make([]float64, 0, len(dailyTotals))
	activeDays := 0
	for _, total := range dailyTotals {
		totals = append(totals, total)
		if total > 0 {
			activeDays++
		}
	}

	mean := stats.Mean(totals)
	consistency := 0.0
	if mean > 0 {
		// Coefficient of variation inverted onto [0,1]
		consistency = clamp01(1 - stats.StdDev(totals)/mean)
	}

	return ActivityPattern{
		AverageDaily: mean,
		PeakHours:    peakHours(hourlyTotals, 3),
		ActiveDays:   activeDays,
		Consistency:  consistency,
	}
}

// recommend produces actionable recommendations from the derived patterns.
func recommend(sleep SleepPattern, activity ActivityPattern) []string {
	var recs []string

	if sleep.AverageDuration < 7 {
		recs = append(recs, fmt.Sprintf(
			"Average sleep of %.1f hours is below the recommended range; aim for 7-9 hours per night", sleep.AverageDuration))
	}
	if sleep.Consistency < 0.6 && sleep.SampleSize > 0 {
		recs = append(recs, "Wake times vary widely; keeping a consistent sleep schedule improves circadian alignment")
	}
	if activity.AverageDaily > 0 && activity.AverageDaily < 6000 {
		recs = append(recs, fmt.Sprintf(
			"Daily activity averages %.0f steps; building toward 8000 or more supports cardiovascular health", activity.AverageDaily))
	}
	if len(recs) == 0 {
		recs = append(recs, "Sleep and activity patterns look consistent; maintain your current routine")
	}

	return recs
}

// circularClockStats computes the circular mean of clock times (minutes
// after midnight) and the mean absolute angular deviation from it, also in
// minutes.
func circularClockStats(minutes []float64) (mean, spread float64) {
	const minutesPerDay = 24 * 60

	var sinSum, cosSum float64
	for _, m := range minutes {
		angle := 2 * math.Pi * m / minutesPerDay
		sinSum += math.Sin(angle)
		cosSum += math.Cos(angle)
	}

	meanAngle := math.Atan2(sinSum, cosSum)
	mean = meanAngle * minutesPerDay / (2 * math.Pi)
	for mean < 0 {
		mean += minutesPerDay
	}

	var devSum float64
	for _, m := range minutes {
		diff := math.Abs(m - mean)
		if diff > minutesPerDay/2 {
			diff = minutesPerDay - diff
		}
		devSum += diff
	}
	spread = devSum / float64(len(minutes))

	return mean, spread
}

// peakHours returns the n hours with the highest activity totals, sorted
// ascending by hour of day.
func peakHours(hourlyTotals map[int]float64, n int) []int {
	type hourTotal struct {
		hour  int
		total float64
	}

	entries := make([]hourTotal, 0, len(hourlyTotals))
	for h, total := range hourlyTotals {
		if total > 0 {
			entries = append(entries, hourTotal{h, total})
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].total != entries[j].total {
			return entries[i].total > entries[j].total
		}
		return entries[i].hour < entries[j].hour
	})

	if len(entries) > n {
		entries = entries[:n]
	}

	hours := make([]int, len(entries))
	for i, e := range entries {
		hours[i] = e.hour
	}
	sort.Ints(hours)
	return hours
}

func formatClock(minutes float64) string {
	total := int(math.Round(minutes)) % (24 * 60)
	if total < 0 {
		total += 24 * 60
	}
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
