package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vitalixdb/vitalix/internal/compression"
)

// RedisConfig represents Redis cache configuration
type RedisConfig struct {
	URL       string // Redis URL (e.g., redis://localhost:6379)
	Password  string // Optional password
	DB        int    // Database number (default: 0)
	KeyPrefix string // Prefix applied to all keys (default: "vitalix")
}

// RedisStore is a Store backed by Redis. Values are snappy-compressed
// before storage; expiry is delegated to Redis TTLs. Use it when multiple
// service instances must share analytics caches.
type RedisStore struct {
	client     *redis.Client
	keyPrefix  string
	compressor compression.Compressor
}

// NewRedisStore creates a Redis-backed store and verifies the connection.
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		// Fallback to simple options
		opts = &redis.Options{
			Addr:     cfg.URL,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "vitalix"
	}

	return &RedisStore{
		client:     client,
		keyPrefix:  prefix,
		compressor: compression.NewSnappyCompressor(),
	}, nil
}

func (s *RedisStore) prefixed(key string) string {
	return s.keyPrefix + ":" + key
}

// Get returns the decompressed value for key.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	compressed, err := s.client.Get(ctx, s.prefixed(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}

	data, err := s.compressor.Decompress(compressed)
	if err != nil {
		return nil, false, fmt.Errorf("decompress for %s: %w", key, err)
	}
	return data, true, nil
}

// Set stores the snappy-compressed value. ttl <= 0 stores without expiry.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	compressed, err := s.compressor.Compress(value)
	if err != nil {
		return fmt.Errorf("compress for %s: %w", key, err)
	}

	if ttl < 0 {
		ttl = 0
	}
	if err := s.client.Set(ctx, s.prefixed(key), compressed, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefixed(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying Redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
