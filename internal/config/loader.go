package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/vitalixdb/vitalix/internal/utils"
)

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Configure viper
	v.SetConfigType("yaml")
	v.SetEnvPrefix("VITALIX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Load config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return parseConfig(v)
}

// LoadOrDefault loads configuration, falling back to defaults on error
func LoadOrDefault(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		return DefaultConfig()
	}
	return cfg
}

// parseConfig unmarshals and validates the configuration
func parseConfig(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.http_port", 8080)

	// Analytics defaults
	v.SetDefault("analytics.enable_time_series_forecasting", true)
	v.SetDefault("analytics.enable_anomaly_detection", true)
	v.SetDefault("analytics.anomaly_detection_algorithms", []string{"zscore"})
	v.SetDefault("analytics.enable_circadian_analysis", true)
	v.SetDefault("analytics.enable_personalized_baselines", true)
	v.SetDefault("analytics.anomaly_cache_ttl", 30*time.Minute)
	v.SetDefault("analytics.forecast_cache_ttl", time.Hour)
	v.SetDefault("analytics.random_seed", 0)

	// Store defaults
	v.SetDefault("store.max_age", utils.DefaultReadingRetention)
	v.SetDefault("store.max_per_metric", utils.DefaultMaxReadingsPerMetric)

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.key_prefix", "vitalix")
	v.SetDefault("cache.cleanup_interval", time.Minute)

	// Queue defaults
	v.SetDefault("queue.enabled", false)
	v.SetDefault("queue.type", "nats")
	v.SetDefault("queue.url", "nats://localhost:4222")
	v.SetDefault("queue.redis_db", 0)
	v.SetDefault("queue.redis_stream", "vitalix")
	v.SetDefault("queue.redis_group", "vitalix-group")

	// Auth defaults
	v.SetDefault("auth.enabled", false)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output_path", "stdout")
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	v := viper.New()
	setDefaults(v)

	cfg, err := parseConfig(v)
	if err != nil {
		// Defaults are static and always validate
		panic(fmt.Sprintf("default config is invalid: %v", err))
	}

	return cfg
}
