// Package utils holds shared constants for timeouts and service defaults.
package utils

import "time"

// HTTP server timeouts
const (
	// DefaultRequestTimeout is the default timeout for HTTP requests
	DefaultRequestTimeout = 30 * time.Second

	// ShutdownTimeout is the graceful shutdown window for the HTTP server
	ShutdownTimeout = 10 * time.Second
)

// Service defaults
const (
	// DefaultReadingRetention is how long readings stay queryable
	DefaultReadingRetention = 90 * 24 * time.Hour

	// DefaultMaxReadingsPerMetric caps each (user, metric) series
	DefaultMaxReadingsPerMetric = 10000

	// AlertPublishTimeout bounds a single alert batch publish
	AlertPublishTimeout = 5 * time.Second
)
