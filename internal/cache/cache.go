// Package cache provides a TTL cache with a pluggable backing store.
// The analytics service keeps its anomaly, forecast and baseline state in
// stores injected through this interface rather than ad hoc maps.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Store is the backing store interface. A ttl of zero or less means the
// entry never expires.
type Store interface {
	// Get returns the raw value for key and whether it was present.
	// Expired entries behave as absent.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key with the given ttl.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backing resources.
	Close() error
}

// SetJSON marshals v and stores it under key.
func SetJSON(ctx context.Context, store Store, key string, v interface{}, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value for %s: %w", key, err)
	}
	return store.Set(ctx, key, data, ttl)
}

// GetJSON loads key and unmarshals it into v. Returns false when the key is
// absent or expired.
func GetJSON(ctx context.Context, store Store, key string, v interface{}) (bool, error) {
	data, ok, err := store.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value for %s: %w", key, err)
	}
	return true, nil
}

// Key joins parts into a cache key with the conventional separator.
func Key(parts ...string) string {
	key := parts[0]
	for _, p := range parts[1:] {
		key += ":" + p
	}
	return key
}
