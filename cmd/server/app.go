package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/skillpath-api/internal/config"
	"github.com/phrazzld/skillpath-api/internal/gateway"
	"github.com/phrazzld/skillpath-api/internal/guidance"
	"github.com/phrazzld/skillpath-api/internal/platform/gemini"
	"github.com/phrazzld/skillpath-api/internal/platform/memcache"
	"github.com/phrazzld/skillpath-api/internal/platform/rediscache"
	"github.com/phrazzld/skillpath-api/internal/platform/sqlstore"
	"github.com/phrazzld/skillpath-api/internal/service/auth"
	"golang.org/x/time/rate"
)

// application holds the shared dependencies so they can be cleaned up
// together on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	cache    *cacheBackend
	executor *gateway.Executor
	guide    *guidance.Service

	// jwtService is nil when authentication is disabled.
	jwtService auth.JWTService
}

// newApplication wires the gateway, cache backend, model client and
// guidance service from cfg.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	var err error
	app.cache, err = newCache(ctx, cfg.Cache, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}
	logger.Info("Response cache initialized", "driver", cfg.Cache.Driver)

	app.executor = newExecutor(cfg.Gateway, logger)
	logger.Info("AI gateway initialized",
		"max_concurrency", cfg.Gateway.MaxConcurrency,
		"max_retries", cfg.Gateway.MaxRetries,
		"requests_per_minute", cfg.Gateway.RequestsPerMinute)

	completer, err := gemini.NewClient(ctx, logger, cfg.LLM)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to initialize model client: %w", err)
	}

	app.guide, err = guidance.NewService(completer, app.executor, app.cache.cache, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create guidance service: %w", err)
	}

	if cfg.Auth.Enabled {
		app.jwtService, err = auth.NewJWTService(cfg.Auth)
		if err != nil {
			app.cleanup()
			return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
		}
		logger.Info("JWT authentication enabled",
			"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// newExecutor builds the gateway executor described by cfg.
func newExecutor(cfg config.GatewayConfig, logger *slog.Logger) *gateway.Executor {
	opts := []gateway.Option{
		gateway.WithClassifier(gateway.NewClassifier(cfg.RetryableStatusCodes...)),
		gateway.WithBackoff(gateway.Backoff{
			Base:      cfg.BackoffBase,
			Unit:      cfg.BackoffUnit,
			MaxJitter: cfg.MaxJitter,
			Max:       cfg.MaxBackoff,
		}),
		gateway.WithDefaultMaxRetries(cfg.MaxRetries),
		gateway.WithAttemptTimeout(cfg.AttemptTimeout),
		gateway.WithLogger(logger),
	}
	if cfg.RequestsPerMinute > 0 {
		every := time.Minute / time.Duration(cfg.RequestsPerMinute)
		opts = append(opts, gateway.WithRateLimit(rate.NewLimiter(rate.Every(every), 1)))
	}

	return gateway.NewExecutor(gateway.NewQueue(cfg.MaxConcurrency), opts...)
}

// cacheBackend is the configured response cache plus the handles needed to
// maintain and close it.
type cacheBackend struct {
	cache gateway.Cache

	// store is set for the SQL drivers, which need periodic purging.
	store *sqlstore.CacheStore
	close func() error
}

// newCache opens the backend selected by cfg.Driver. SQL backends are
// migrated to the latest schema before use.
func newCache(ctx context.Context, cfg config.CacheConfig, logger *slog.Logger) (*cacheBackend, error) {
	switch cfg.Driver {
	case "memory":
		c, err := memcache.New(cfg.MaxEntries)
		if err != nil {
			return nil, err
		}
		return &cacheBackend{cache: c, close: func() error { return nil }}, nil

	case "redis":
		c, err := rediscache.Open(ctx, cfg.RedisURL, cfg.KeyPrefix)
		if err != nil {
			return nil, err
		}
		return &cacheBackend{cache: c, close: c.Close}, nil

	case sqlstore.DriverPostgres, sqlstore.DriverSQLite:
		db, err := sqlstore.Open(ctx, cfg.Driver, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}

		migrator, err := sqlstore.NewMigrator(db, cfg.Driver, logger)
		if err == nil {
			_, err = migrator.Up(ctx)
		}
		if err != nil {
			return nil, errors.Join(err, db.Close())
		}

		store := sqlstore.NewCacheStore(db)
		return &cacheBackend{cache: store, store: store, close: db.Close}, nil

	default:
		return nil, fmt.Errorf("unsupported cache driver %q", cfg.Driver)
	}
}

// purgeExpired removes expired SQL cache rows every interval until ctx is
// done. It returns immediately for backends that expire entries themselves.
func (b *cacheBackend) purgeExpired(ctx context.Context, interval time.Duration, logger *slog.Logger) error {
	if b.store == nil {
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			removed, err := b.store.PurgeExpired(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				logger.Warn("Failed to purge expired cache entries", "error", err)
				continue
			}
			if removed > 0 {
				logger.Debug("Purged expired cache entries", "removed", removed)
			}
		}
	}
}

// cleanup releases the cache backend.
func (app *application) cleanup() {
	if app.cache != nil {
		if err := app.cache.close(); err != nil {
			app.logger.Error("Error closing response cache", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
