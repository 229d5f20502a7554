package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vitalixdb/vitalix/internal/cache"
	"github.com/vitalixdb/vitalix/internal/config"
	"github.com/vitalixdb/vitalix/internal/logging"
	"github.com/vitalixdb/vitalix/internal/queue"
	"github.com/vitalixdb/vitalix/internal/router"
	"github.com/vitalixdb/vitalix/internal/services"
	"github.com/vitalixdb/vitalix/internal/store"
	"github.com/vitalixdb/vitalix/internal/utils"
)

var (
	Version   = "dev"     // Injected via ldflags during build
	GitCommit = "unknown" // Injected via ldflags during build
	BuildTime = "unknown" // Injected via ldflags during build
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewFromConfig(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetGlobal(logger)
	logger.Info("Analytics service starting...",
		"version", Version, "commit", GitCommit, "build time", BuildTime)

	// Readings store
	readings := store.NewReadingStore(cfg.Store.MaxAge, cfg.Store.MaxPerMetric, logger)
	defer readings.Close()

	// Analytics cache (memory or redis)
	var cacheStore cache.Store
	switch cfg.Cache.Type {
	case "redis":
		logger.Info("Connecting to Redis cache", "url", cfg.Cache.URL)
		cacheStore, err = cache.NewRedisStore(cache.RedisConfig{
			URL:       cfg.Cache.URL,
			Password:  cfg.Cache.Password,
			DB:        cfg.Cache.DB,
			KeyPrefix: cfg.Cache.KeyPrefix,
		})
		if err != nil {
			logger.Fatal("Failed to connect to Redis cache", "error", err)
		}
	default:
		cacheStore = cache.NewMemoryStore(cfg.Cache.CleanupInterval)
	}
	defer func() { _ = cacheStore.Close() }()

	// Alert queue (optional)
	var notifier *queue.AlertNotifier
	if cfg.Queue.Enabled {
		logger.Info("Connecting to alert queue", "type", cfg.Queue.Type, "url", cfg.Queue.URL)
		queueClient, err := queue.NewQueue(cfg.Queue)
		if err != nil {
			logger.Fatal("Failed to connect to alert queue", "error", err)
		}
		defer func() { _ = queueClient.Close() }()
		notifier = queue.NewAlertNotifier(queueClient, logger)
	} else {
		logger.Info("Alert queue disabled")
	}

	// Analytics service
	service := services.NewAnalyticsService(logger, readings, cacheStore, notifier)
	if err := service.Initialize(cfg.Analytics); err != nil {
		logger.Fatal("Failed to initialize analytics service", "error", err)
	}

	if cfg.Auth.Enabled {
		logger.Info("API key authentication enabled", "num_keys", len(cfg.Auth.APIKeys))
	} else {
		logger.Warn("API key authentication DISABLED - all requests will be allowed")
	}

	app := router.New(logger, service, *cfg)

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort)
		logger.Info("Server listening", "address", addr)
		if err := app.Listen(addr); err != nil {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), utils.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}
