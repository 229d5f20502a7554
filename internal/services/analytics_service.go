package services

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/vitalixdb/vitalix/internal/analytics"
	"github.com/vitalixdb/vitalix/internal/analytics/anomaly"
	"github.com/vitalixdb/vitalix/internal/analytics/baseline"
	"github.com/vitalixdb/vitalix/internal/analytics/circadian"
	"github.com/vitalixdb/vitalix/internal/analytics/forecast"
	"github.com/vitalixdb/vitalix/internal/analytics/insights"
	"github.com/vitalixdb/vitalix/internal/cache"
	"github.com/vitalixdb/vitalix/internal/config"
	"github.com/vitalixdb/vitalix/internal/logging"
	"github.com/vitalixdb/vitalix/internal/queue"
	"github.com/vitalixdb/vitalix/internal/store"
)

// Feature names used in FEATURE_DISABLED errors
const (
	FeatureForecasting = "time_series_forecasting"
	FeatureAnomalies   = "anomaly_detection"
	FeatureCircadian   = "circadian_analysis"
	FeatureBaselines   = "personalized_baselines"
)

// AnalyticsService orchestrates the analytics core behind feature flags
// and caching. All operations fail with SERVICE_NOT_INITIALIZED until
// Initialize has been called.
type AnalyticsService struct {
	logger   *logging.Logger
	readings *store.ReadingStore
	cache    cache.Store
	notifier *queue.AlertNotifier // nil disables alert publishing

	mu          sync.RWMutex
	cfg         config.AnalyticsConfig
	generator   *forecast.Generator
	initialized bool

	// Serializes read-modify-write cycles on baselines
	baselineMu sync.Mutex
}

// NewAnalyticsService creates an analytics service over a readings store
// and cache. The notifier may be nil when alert publishing is disabled.
func NewAnalyticsService(
	logger *logging.Logger,
	readings *store.ReadingStore,
	cacheStore cache.Store,
	notifier *queue.AlertNotifier,
) *AnalyticsService {
	return &AnalyticsService{
		logger:   logger,
		readings: readings,
		cache:    cacheStore,
		notifier: notifier,
	}
}

// Initialize applies configuration and arms the service. A random_seed of
// zero seeds the forecast noise source from the clock.
func (s *AnalyticsService) Initialize(cfg config.AnalyticsConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	var rng *rand.Rand
	if cfg.RandomSeed != 0 {
		rng = rand.New(rand.NewSource(cfg.RandomSeed))
	}

	s.mu.Lock()
	s.cfg = cfg
	s.generator = forecast.NewGenerator(rng)
	s.initialized = true
	s.mu.Unlock()

	s.logger.Info("Analytics service initialized",
		"forecasting", cfg.EnableTimeSeriesForecasting,
		"anomaly_detection", cfg.EnableAnomalyDetection,
		"circadian", cfg.EnableCircadianAnalysis,
		"baselines", cfg.EnablePersonalizedBaselines)

	return nil
}

// config returns a snapshot of the current configuration, or an error
// when the service is not yet initialized.
func (s *AnalyticsService) snapshot() (config.AnalyticsConfig, *forecast.Generator, *ServiceError) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return config.AnalyticsConfig{}, nil, ErrNotInitialized()
	}
	return s.cfg, s.generator, nil
}

// Ingest stores a batch of readings and returns the accepted count and
// the distinct metrics seen in the batch.
func (s *AnalyticsService) Ingest(ctx context.Context, points []analytics.HealthDataPoint) (int, []string, error) {
	if _, _, err := s.snapshot(); err != nil {
		return 0, nil, err
	}

	s.readings.Add(points)

	metrics := analytics.Metrics(analytics.GroupByMetric(points))

	s.logger.Debug("Ingested readings",
		"count", len(points),
		"metrics", len(metrics))

	return len(points), metrics, nil
}

// Data returns the stored readings for one user and metric
func (s *AnalyticsService) Data(ctx context.Context, userID, metric string) ([]analytics.HealthDataPoint, error) {
	if _, _, err := s.snapshot(); err != nil {
		return nil, err
	}
	return s.readings.Recent(userID, metric), nil
}

// DetectAnomalies runs anomaly detection over the user's recent readings.
// Results are cached per user; a cached result is returned as-is with
// cached=true. High and critical detections are published as alerts on
// fresh runs only.
func (s *AnalyticsService) DetectAnomalies(
	ctx context.Context,
	userID string,
	sensitivity anomaly.Sensitivity,
	algorithms []string,
) ([]anomaly.Detection, bool, error) {
	cfg, _, serr := s.snapshot()
	if serr != nil {
		return nil, false, serr
	}

	if !cfg.EnableAnomalyDetection {
		return nil, false, ErrFeatureDisabled(FeatureAnomalies)
	}

	if sensitivity == "" {
		sensitivity = anomaly.SensitivityMedium
	}

	key := cache.Key("anomalies", userID)

	var cached []anomaly.Detection
	hit, err := cache.GetJSON(ctx, s.cache, key, &cached)
	if err != nil {
		s.logger.Warn("Anomaly cache read failed", "error", err, "user_id", userID)
	}
	if hit {
		return cached, true, nil
	}

	if len(algorithms) == 0 {
		algorithms = cfg.AnomalyDetectionAlgorithms
	}

	points := s.readings.RecentAll(userID)

	detections, err := anomaly.Detect(points, sensitivity, algorithms)
	if err != nil {
		return nil, false, ErrComputation("anomaly detection failed", err)
	}

	if detections == nil {
		detections = []anomaly.Detection{}
	}

	if s.notifier != nil {
		s.notifier.NotifyDetections(ctx, userID, detections)
	}

	if err := cache.SetJSON(ctx, s.cache, key, detections, cfg.AnomalyCacheTTL); err != nil {
		s.logger.Warn("Anomaly cache write failed", "error", err, "user_id", userID)
	}

	s.logger.Info("Anomaly detection completed",
		"user_id", userID,
		"sensitivity", sensitivity,
		"detections", len(detections))

	return detections, false, nil
}

// Forecast generates a metric forecast for the user. Results are cached
// per (user, metric, horizon); a cache hit returns the stored forecast
// unchanged, including its UpdatedAt.
func (s *AnalyticsService) Forecast(ctx context.Context, userID, metric, horizon string) (*forecast.Forecast, bool, error) {
	cfg, generator, serr := s.snapshot()
	if serr != nil {
		return nil, false, serr
	}

	if !cfg.EnableTimeSeriesForecasting {
		return nil, false, ErrFeatureDisabled(FeatureForecasting)
	}

	key := cache.Key("forecast", userID, metric, horizon)

	var cached forecast.Forecast
	hit, err := cache.GetJSON(ctx, s.cache, key, &cached)
	if err != nil {
		s.logger.Warn("Forecast cache read failed", "error", err, "user_id", userID)
	}
	if hit {
		return &cached, true, nil
	}

	historical := s.readings.Recent(userID, metric)

	result, err := generator.Generate(userID, metric, horizon, historical)
	if err != nil {
		if errors.Is(err, forecast.ErrInsufficientData) {
			return nil, false, ErrInsufficientData(
				"not enough readings to forecast",
				map[string]interface{}{
					"metric":    metric,
					"required":  forecast.MinDataPoints,
					"available": len(historical),
				})
		}
		return nil, false, ErrComputation("forecast generation failed", err)
	}

	if err := cache.SetJSON(ctx, s.cache, key, result, cfg.ForecastCacheTTL); err != nil {
		s.logger.Warn("Forecast cache write failed", "error", err, "user_id", userID)
	}

	s.logger.Info("Forecast generated",
		"user_id", userID,
		"metric", metric,
		"horizon", horizon,
		"model", result.Model,
		"predictions", len(result.Predictions))

	return result, false, nil
}

// Baseline returns the stored baseline for one user and metric
func (s *AnalyticsService) Baseline(ctx context.Context, userID, metric string) (*baseline.Baseline, error) {
	cfg, _, serr := s.snapshot()
	if serr != nil {
		return nil, serr
	}

	if !cfg.EnablePersonalizedBaselines {
		return nil, ErrFeatureDisabled(FeatureBaselines)
	}

	var b baseline.Baseline
	hit, err := cache.GetJSON(ctx, s.cache, s.baselineKey(userID, metric), &b)
	if err != nil {
		return nil, ErrComputation("baseline read failed", err)
	}
	if !hit {
		return nil, ErrInsufficientData(
			"no baseline recorded for metric",
			map[string]interface{}{"metric": metric})
	}

	return &b, nil
}

// ObserveBaseline folds one observation into the user's baseline for the
// metric, creating it on first observation. Baselines never expire.
func (s *AnalyticsService) ObserveBaseline(ctx context.Context, userID, metric string, value float64) (*baseline.Baseline, error) {
	cfg, _, serr := s.snapshot()
	if serr != nil {
		return nil, serr
	}

	if !cfg.EnablePersonalizedBaselines {
		return nil, ErrFeatureDisabled(FeatureBaselines)
	}

	key := s.baselineKey(userID, metric)

	s.baselineMu.Lock()
	defer s.baselineMu.Unlock()

	var b baseline.Baseline
	hit, err := cache.GetJSON(ctx, s.cache, key, &b)
	if err != nil {
		return nil, ErrComputation("baseline read failed", err)
	}

	var result *baseline.Baseline
	if hit {
		b.Update(value)
		result = &b
	} else {
		result = baseline.New(userID, metric, value)
	}

	if err := cache.SetJSON(ctx, s.cache, key, result, 0); err != nil {
		return nil, ErrComputation("baseline write failed", err)
	}

	s.logger.Debug("Baseline observed",
		"user_id", userID,
		"metric", metric,
		"sample_size", result.SampleSize)

	return result, nil
}

func (s *AnalyticsService) baselineKey(userID, metric string) string {
	return cache.Key("baseline", userID, metric)
}

// Circadian analyzes the user's circadian rhythm from recent readings
func (s *AnalyticsService) Circadian(ctx context.Context, userID string) (*circadian.Analysis, error) {
	cfg, _, serr := s.snapshot()
	if serr != nil {
		return nil, serr
	}

	if !cfg.EnableCircadianAnalysis {
		return nil, ErrFeatureDisabled(FeatureCircadian)
	}

	points := s.readings.RecentAll(userID)
	if len(points) == 0 {
		return nil, ErrInsufficientData(
			"no readings stored for user",
			map[string]interface{}{"user_id": userID})
	}

	return circadian.Analyze(userID, points), nil
}

// Insights builds the aggregate health report for a user. Anomaly and
// circadian sections are included only when their features are enabled;
// a failure in an enabled section fails the whole call.
func (s *AnalyticsService) Insights(ctx context.Context, userID string) (*insights.Report, error) {
	cfg, _, serr := s.snapshot()
	if serr != nil {
		return nil, serr
	}

	points := s.readings.RecentAll(userID)
	if len(points) == 0 {
		return nil, ErrInsufficientData(
			"no readings stored for user",
			map[string]interface{}{"user_id": userID})
	}

	// An enabled component failing fails the whole report; sections are
	// never silently omitted.
	var detections []anomaly.Detection
	if cfg.EnableAnomalyDetection {
		var err error
		detections, _, err = s.DetectAnomalies(ctx, userID, anomaly.SensitivityMedium, nil)
		if err != nil {
			return nil, err
		}
	}

	var circ *circadian.Analysis
	if cfg.EnableCircadianAnalysis {
		circ = circadian.Analyze(userID, points)
	}

	report := insights.BuildReport(points, detections, circ)

	s.logger.Info("Insights report generated",
		"user_id", userID,
		"score", report.Score,
		"insights", len(report.Insights))

	return &report, nil
}

// Stats returns service level statistics for diagnostics
func (s *AnalyticsService) Stats() map[string]interface{} {
	stats := s.readings.Stats()

	s.mu.RLock()
	stats["initialized"] = s.initialized
	s.mu.RUnlock()

	stats["timestamp"] = time.Now().UTC().Format(time.RFC3339)
	return stats
}
