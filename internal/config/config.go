package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
	Store     StoreConfig     `mapstructure:"store"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Queue     QueueConfig     `mapstructure:"queue"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host     string `mapstructure:"host"`      // Bind address (e.g., 0.0.0.0 for all interfaces)
	HTTPPort int    `mapstructure:"http_port"` // HTTP server port
}

// AnalyticsConfig represents feature flags and tuning for the analytics
// core. Each Enable* flag fails its operations closed when false.
type AnalyticsConfig struct {
	EnableTimeSeriesForecasting bool     `mapstructure:"enable_time_series_forecasting"`
	EnableAnomalyDetection      bool     `mapstructure:"enable_anomaly_detection"`
	AnomalyDetectionAlgorithms  []string `mapstructure:"anomaly_detection_algorithms"`
	EnableCircadianAnalysis     bool     `mapstructure:"enable_circadian_analysis"`
	EnablePersonalizedBaselines bool     `mapstructure:"enable_personalized_baselines"`

	AnomalyCacheTTL  time.Duration `mapstructure:"anomaly_cache_ttl"`  // default 30m
	ForecastCacheTTL time.Duration `mapstructure:"forecast_cache_ttl"` // default 1h

	// RandomSeed seeds the forecast noise source. 0 means time-based
	// seeding; set a fixed value for reproducible forecasts.
	RandomSeed int64 `mapstructure:"random_seed"`
}

// StoreConfig represents the recent-readings store configuration
type StoreConfig struct {
	MaxAge       time.Duration `mapstructure:"max_age"`        // readings older than this are evicted
	MaxPerMetric int           `mapstructure:"max_per_metric"` // per (user, metric) retention cap
}

// CacheConfig represents analytics cache configuration
type CacheConfig struct {
	Type            string        `mapstructure:"type"`             // memory (default) or redis
	URL             string        `mapstructure:"url"`              // redis URL when type=redis
	Password        string        `mapstructure:"password"`         // optional redis auth
	DB              int           `mapstructure:"db"`               // redis database number
	KeyPrefix       string        `mapstructure:"key_prefix"`       // redis key prefix
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"` // memory janitor interval
}

// QueueConfig represents the anomaly alert queue configuration
type QueueConfig struct {
	Enabled  bool   `mapstructure:"enabled"`  // Publish high/critical anomaly alerts
	Type     string `mapstructure:"type"`     // Queue type: nats (default), redis, kafka, memory
	URL      string `mapstructure:"url"`      // Queue server URL (e.g., nats://localhost:4222)
	Username string `mapstructure:"username"` // Optional authentication
	Password string `mapstructure:"password"` // Optional authentication

	// Redis-specific options
	RedisDB       int    `mapstructure:"redis_db"`       // Redis database number (default: 0)
	RedisStream   string `mapstructure:"redis_stream"`   // Redis stream prefix (default: "vitalix")
	RedisGroup    string `mapstructure:"redis_group"`    // Redis consumer group (default: "vitalix-group")
	RedisConsumer string `mapstructure:"redis_consumer"` // Redis consumer name (default: hostname)

	// Kafka-specific options
	KafkaBrokers []string `mapstructure:"kafka_brokers"`  // Kafka broker addresses
	KafkaGroupID string   `mapstructure:"kafka_group_id"` // Kafka consumer group ID
}

// AuthConfig represents authentication configuration
type AuthConfig struct {
	Enabled bool     `mapstructure:"enabled"`  // Enable/disable API key authentication
	APIKeys []string `mapstructure:"api_keys"` // List of valid API keys
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, file path
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.Analytics.Validate(); err != nil {
		return fmt.Errorf("analytics config: %w", err)
	}

	if err := c.Store.Validate(); err != nil {
		return fmt.Errorf("store config: %w", err)
	}

	if err := c.Cache.Validate(); err != nil {
		return fmt.Errorf("cache config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates server configuration
func (c *ServerConfig) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid http_port: %d", c.HTTPPort)
	}
	return nil
}

// Validate validates analytics configuration
func (c *AnalyticsConfig) Validate() error {
	if c.AnomalyCacheTTL < 0 {
		return fmt.Errorf("anomaly_cache_ttl cannot be negative")
	}

	if c.ForecastCacheTTL < 0 {
		return fmt.Errorf("forecast_cache_ttl cannot be negative")
	}

	if c.EnableAnomalyDetection && len(c.AnomalyDetectionAlgorithms) == 0 {
		return fmt.Errorf("anomaly_detection_algorithms is required when anomaly detection is enabled")
	}

	return nil
}

// Validate validates store configuration
func (c *StoreConfig) Validate() error {
	if c.MaxAge <= 0 {
		return fmt.Errorf("store.max_age must be positive")
	}

	if c.MaxPerMetric <= 0 {
		return fmt.Errorf("store.max_per_metric must be positive")
	}

	return nil
}

// Validate validates cache configuration
func (c *CacheConfig) Validate() error {
	switch c.Type {
	case "", "memory":
		// in-process cache needs nothing further
	case "redis":
		if c.URL == "" {
			return fmt.Errorf("cache.url is required when cache.type is redis")
		}
	default:
		return fmt.Errorf("cache.type must be 'memory' or 'redis', got %q", c.Type)
	}
	return nil
}

// Validate validates logging configuration
func (c *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLevels[c.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}

	if c.Format != "json" && c.Format != "console" {
		return fmt.Errorf("logging.format must be 'json' or 'console'")
	}

	return nil
}
