package forecast

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vitalixdb/vitalix/internal/analytics"
	"github.com/vitalixdb/vitalix/internal/analytics/stats"
)

// Generator produces forecasts from historical readings. The random source
// drives the per-step noise term and the reported accuracy figure; inject a
// seeded source for deterministic output in tests. Safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator creates a Generator backed by rng. A nil rng falls back to a
// time-seeded source.
func NewGenerator(rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{rng: rng}
}

// float64 draws from the shared source. rand.Rand is not goroutine-safe and
// one Generator serves all concurrent forecast requests.
func (g *Generator) float64() float64 {
	g.mu.Lock()
	v := g.rng.Float64()
	g.mu.Unlock()
	return v
}

// Generate fits a least-squares linear trend over historical and
// extrapolates it across the parsed horizon, one prediction per day.
// Each predicted value carries volatility-scaled noise and is floored at 0.
// Returns ErrInsufficientData when fewer than MinDataPoints readings exist.
//
// Accuracy is a placeholder drawn uniformly from [0.7, 1.0); it is not
// derived from any validation against held-out data.
func (g *Generator) Generate(userID, metric, horizon string, historical analytics.Series) (*Forecast, error) {
	if len(historical) < MinDataPoints {
		return nil, ErrInsufficientData
	}

	values := historical.Values()
	trend := stats.LinearSlope(values)
	volatility := stats.StdDev(values)
	lastValue := values[len(values)-1]
	lastTime := historical[len(historical)-1].Timestamp

	horizonDays := ParseHorizon(horizon)
	predictions := make([]Prediction, horizonDays)

	for i := 1; i <= horizonDays; i++ {
		noise := (g.float64() - 0.5) * volatility
		value := lastValue + trend*float64(i) + noise
		if value < 0 {
			value = 0
		}

		lower := value - volatility
		if lower < 0 {
			lower = 0
		}

		predictions[i-1] = Prediction{
			Timestamp:  lastTime.Add(time.Duration(i) * 24 * time.Hour),
			Value:      value,
			Confidence: ConfidenceAt(i),
			UpperBound: value + volatility,
			LowerBound: lower,
		}
	}

	now := time.Now().UTC()
	return &Forecast{
		ID:          uuid.New().String(),
		UserID:      userID,
		Metric:      metric,
		Predictions: predictions,
		Model:       SelectModel(len(historical)),
		Accuracy:    0.7 + g.float64()*0.3,
		Horizon:     horizon,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
