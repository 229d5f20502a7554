// Package baseline maintains exponentially-updated personalized baselines,
// one per (user, metric).
package baseline

import (
	"time"

	"github.com/google/uuid"
)

// Alpha is the fixed EMA learning rate applied to each new observation.
const Alpha = 0.1

// Range is the expected normal range around a baseline.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Baseline is the personalized baseline for one (user, metric) pair.
// Created on the first observation, updated in place thereafter, never
// deleted within the process lifetime.
type Baseline struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Metric      string    `json:"metric"`
	Baseline    float64   `json:"baseline"`
	NormalRange Range     `json:"normal_range"`
	Confidence  float64   `json:"confidence"`
	SampleSize  int       `json:"sample_size"`
	LastUpdated time.Time `json:"last_updated"`
	CreatedAt   time.Time `json:"created_at"`
}

// New creates a baseline from the first observation. The normal range is
// value +/- 20% and confidence starts at 0.5. Confidence is intentionally
// not recalculated on later updates; see Update.
func New(userID, metric string, value float64) *Baseline {
	now := time.Now().UTC()
	return &Baseline{
		ID:       uuid.New().String(),
		UserID:   userID,
		Metric:   metric,
		Baseline: value,
		NormalRange: Range{
			Min: value * 0.8,
			Max: value * 1.2,
		},
		Confidence:  0.5,
		SampleSize:  1,
		LastUpdated: now,
		CreatedAt:   now,
	}
}

// Update folds a new observation into the baseline with the fixed EMA rule
// newBaseline = old*(1-Alpha) + value*Alpha. SampleSize increases by one per
// call. Confidence stays at its initial value: growing it with sample size
// is a known improvement opportunity, left unchanged pending product review.
func (b *Baseline) Update(value float64) {
	b.Baseline = b.Baseline*(1-Alpha) + value*Alpha
	b.NormalRange = Range{
		Min: b.Baseline * 0.8,
		Max: b.Baseline * 1.2,
	}
	b.SampleSize++
	b.LastUpdated = time.Now().UTC()
}
