// Package store provides the in-memory recent-readings store backing the
// analytics operations. Readings are partitioned across lock shards by
// user ID so concurrent ingests for different users do not contend.
package store

import (
	"hash/fnv"
	"sort"
	"sync"
	"time"

	"github.com/vitalixdb/vitalix/internal/analytics"
	"github.com/vitalixdb/vitalix/internal/logging"
)

// numShards is the number of lock shards for concurrent write scalability.
// 64 shards allow up to 64 goroutines to ingest concurrently without
// blocking (assuming they hash to different shards).
const numShards = 64

// shard is one partition of the ReadingStore's data, with its own mutex.
type shard struct {
	mu sync.RWMutex
	// userID -> metric -> readings sorted by ascending timestamp
	data map[string]map[string][]analytics.HealthDataPoint
}

// ReadingStore is an in-memory health readings store with sharded locking.
// Readings older than maxAge are removed by a background cleanup loop, and
// each (user, metric) series is capped at maxPerMetric points with the
// oldest dropped first.
type ReadingStore struct {
	shards [numShards]shard

	maxAge       time.Duration
	maxPerMetric int
	logger       *logging.Logger

	globalMu    sync.Mutex
	totalCount  int64
	stopCh      chan struct{}
	stopOnce    sync.Once
	cleanupDone chan struct{}
}

// getShard returns the shard index for a user ID using FNV-1a hash.
func getShard(userID string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return h.Sum32() % numShards
}

// NewReadingStore creates a new in-memory readings store with sharded locking
func NewReadingStore(maxAge time.Duration, maxPerMetric int, logger *logging.Logger) *ReadingStore {
	rs := &ReadingStore{
		maxAge:       maxAge,
		maxPerMetric: maxPerMetric,
		logger:       logger,
		stopCh:       make(chan struct{}),
		cleanupDone:  make(chan struct{}),
	}

	for i := range rs.shards {
		rs.shards[i].data = make(map[string]map[string][]analytics.HealthDataPoint)
	}

	go rs.cleanupLoop()

	logger.Info("Reading store initialized",
		"max_age", maxAge,
		"max_per_metric", maxPerMetric,
		"num_shards", numShards)

	return rs
}

// Add appends readings to their per-user, per-metric series.
// Only the shard for each user is locked, so ingests for different users
// proceed concurrently. Series stay sorted by ascending timestamp.
func (rs *ReadingStore) Add(points []analytics.HealthDataPoint) {
	if len(points) == 0 {
		return
	}

	added := int64(0)
	dropped := int64(0)

	// Group by user first so each shard is locked once per batch
	byUser := make(map[string][]analytics.HealthDataPoint)
	for _, p := range points {
		byUser[p.UserID] = append(byUser[p.UserID], p)
	}

	for userID, userPoints := range byUser {
		s := &rs.shards[getShard(userID)]
		s.mu.Lock()

		userData, exists := s.data[userID]
		if !exists {
			userData = make(map[string][]analytics.HealthDataPoint)
			s.data[userID] = userData
		}

		touched := make(map[string]bool)
		for _, p := range userPoints {
			userData[p.Metric] = append(userData[p.Metric], p)
			touched[p.Metric] = true
			added++
		}

		for metric := range touched {
			series := userData[metric]
			sort.SliceStable(series, func(i, j int) bool {
				return series[i].Timestamp.Before(series[j].Timestamp)
			})
			if rs.maxPerMetric > 0 && len(series) > rs.maxPerMetric {
				excess := len(series) - rs.maxPerMetric
				series = append(series[:0:0], series[excess:]...)
				dropped += int64(excess)
			}
			userData[metric] = series
		}

		s.mu.Unlock()
	}

	rs.globalMu.Lock()
	rs.totalCount += added - dropped
	rs.globalMu.Unlock()

	if dropped > 0 {
		rs.logger.Debug("Dropped oldest readings over per-metric cap",
			"dropped", dropped)
	}
}

// Recent returns a copy of the stored readings for one user and metric,
// sorted by ascending timestamp. Returns nil when nothing is stored.
func (rs *ReadingStore) Recent(userID, metric string) []analytics.HealthDataPoint {
	s := &rs.shards[getShard(userID)]
	s.mu.RLock()
	defer s.mu.RUnlock()

	userData, exists := s.data[userID]
	if !exists {
		return nil
	}

	series := userData[metric]
	if len(series) == 0 {
		return nil
	}

	out := make([]analytics.HealthDataPoint, len(series))
	copy(out, series)
	return out
}

// RecentAll returns a copy of all stored readings for one user across
// every metric. Order within each metric is ascending by timestamp.
func (rs *ReadingStore) RecentAll(userID string) []analytics.HealthDataPoint {
	s := &rs.shards[getShard(userID)]
	s.mu.RLock()
	defer s.mu.RUnlock()

	userData, exists := s.data[userID]
	if !exists {
		return nil
	}

	metrics := make([]string, 0, len(userData))
	for metric := range userData {
		metrics = append(metrics, metric)
	}
	sort.Strings(metrics)

	var out []analytics.HealthDataPoint
	for _, metric := range metrics {
		out = append(out, userData[metric]...)
	}
	return out
}

// Metrics returns the sorted metric names stored for one user.
func (rs *ReadingStore) Metrics(userID string) []string {
	s := &rs.shards[getShard(userID)]
	s.mu.RLock()
	defer s.mu.RUnlock()

	userData, exists := s.data[userID]
	if !exists {
		return nil
	}

	metrics := make([]string, 0, len(userData))
	for metric := range userData {
		metrics = append(metrics, metric)
	}
	sort.Strings(metrics)
	return metrics
}

// Count returns the total number of stored readings
func (rs *ReadingStore) Count() int64 {
	rs.globalMu.Lock()
	v := rs.totalCount
	rs.globalMu.Unlock()
	return v
}

// Stats returns reading store statistics
func (rs *ReadingStore) Stats() map[string]interface{} {
	userCount := 0
	seriesCount := 0

	for i := range rs.shards {
		s := &rs.shards[i]
		s.mu.RLock()
		userCount += len(s.data)
		for _, userData := range s.data {
			seriesCount += len(userData)
		}
		s.mu.RUnlock()
	}

	return map[string]interface{}{
		"total_count":    rs.Count(),
		"user_count":     userCount,
		"series_count":   seriesCount,
		"max_age":        rs.maxAge.String(),
		"max_per_metric": rs.maxPerMetric,
	}
}

// Close stops the background cleanup goroutine. Safe to call twice.
func (rs *ReadingStore) Close() {
	rs.stopOnce.Do(func() {
		close(rs.stopCh)
	})
	<-rs.cleanupDone
}

// cleanupLoop periodically removes expired readings
func (rs *ReadingStore) cleanupLoop() {
	defer close(rs.cleanupDone)

	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-rs.stopCh:
			rs.logger.Debug("Cleanup goroutine stopping")
			return
		case <-ticker.C:
			rs.cleanup()
		}
	}
}

// cleanup removes readings older than maxAge across all shards
func (rs *ReadingStore) cleanup() {
	if rs.maxAge <= 0 {
		return
	}

	cutoff := time.Now().Add(-rs.maxAge)
	removed := int64(0)

	for i := range rs.shards {
		s := &rs.shards[i]
		s.mu.Lock()

		for userID, userData := range s.data {
			for metric, series := range userData {
				// Series is sorted, so find the first surviving index
				idx := sort.Search(len(series), func(j int) bool {
					return !series[j].Timestamp.Before(cutoff)
				})
				if idx == 0 {
					continue
				}
				removed += int64(idx)
				if idx == len(series) {
					delete(userData, metric)
					continue
				}
				userData[metric] = append(series[:0:0], series[idx:]...)
			}
			if len(userData) == 0 {
				delete(s.data, userID)
			}
		}

		s.mu.Unlock()
	}

	if removed > 0 {
		rs.globalMu.Lock()
		rs.totalCount -= removed
		rs.globalMu.Unlock()

		rs.logger.Debug("Cleaned up expired readings", "removed", removed)
	}
}
