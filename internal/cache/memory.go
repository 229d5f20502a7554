package cache

import (
	"context"
	"sync"
	"time"
)

// defaultCleanupInterval is how often the janitor sweeps expired entries.
const defaultCleanupInterval = time.Minute

type entry struct {
	data      []byte
	expiresAt time.Time // zero = never expires
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryStore is an in-process Store backed by a mutex-guarded map with a
// background janitor for expired entries. Suitable for single-node
// deployments and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]entry

	stopCh      chan struct{}
	stopOnce    sync.Once
	cleanupDone chan struct{}
}

// NewMemoryStore creates a memory store. cleanupInterval <= 0 uses the
// default of one minute.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	if cleanupInterval <= 0 {
		cleanupInterval = defaultCleanupInterval
	}

	s := &MemoryStore{
		entries:     make(map[string]entry),
		stopCh:      make(chan struct{}),
		cleanupDone: make(chan struct{}),
	}

	go s.cleanupLoop(cleanupInterval)

	return s
}

// Get returns the value for key, treating expired entries as absent.
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok || e.expired(time.Now()) {
		return nil, false, nil
	}

	// Copy so callers cannot mutate the stored slice
	data := make([]byte, len(e.data))
	copy(data, e.data)
	return data, true, nil
}

// Set stores value under key. ttl <= 0 keeps the entry until deleted.
func (s *MemoryStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data := make([]byte, len(value))
	copy(data, value)

	e := entry{data: data}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}

	s.mu.Lock()
	s.entries[key] = e
	s.mu.Unlock()
	return nil
}

// Delete removes key from the store.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

// Close stops the janitor goroutine.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
	<-s.cleanupDone
	return nil
}

// Len returns the number of live (unexpired) entries.
func (s *MemoryStore) Len() int {
	now := time.Now()

	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, e := range s.entries {
		if !e.expired(now) {
			count++
		}
	}
	return count
}

// cleanupLoop periodically removes expired entries so the map does not grow
// unbounded under churning keys.
func (s *MemoryStore) cleanupLoop(interval time.Duration) {
	defer close(s.cleanupDone)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			for key, e := range s.entries {
				if e.expired(now) {
					delete(s.entries, key)
				}
			}
			s.mu.Unlock()
		case <-s.stopCh:
			return
		}
	}
}
