package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/phrazzld/skillpath-api/internal/api"
	"github.com/phrazzld/skillpath-api/internal/platform/logger"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// cachePurgeInterval is how often expired SQL cache rows are deleted.
const cachePurgeInterval = 10 * time.Minute

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			log, err := logger.Setup(cfg.Server)
			if err != nil {
				return fmt.Errorf("failed to set up logger: %w", err)
			}
			log.Info("Server configuration loaded",
				"port", cfg.Server.Port,
				"log_level", cfg.Server.LogLevel,
				"cache_driver", cfg.Cache.Driver,
				"auth_enabled", cfg.Auth.Enabled)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app, err := newApplication(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer app.cleanup()

			lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Server.Port))
			if err != nil {
				return fmt.Errorf("failed to listen on port %d: %w", cfg.Server.Port, err)
			}
			return app.serve(ctx, lis)
		},
	}
}

// router builds the HTTP handler for the application.
func (app *application) router() http.Handler {
	return api.NewRouter(api.RouterConfig{
		Guide:      app.guide,
		Queue:      app.executor.Queue(),
		Logger:     app.logger,
		JWTService: app.jwtService,
	})
}

// serve runs the HTTP server on lis until ctx is done, then shuts it down
// within the configured timeout. The SQL cache purge loop runs alongside.
func (app *application) serve(ctx context.Context, lis net.Listener) error {
	server := &http.Server{
		Handler:           app.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.logger.Info("Starting server", "addr", lis.Addr().String())
		if err := server.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return app.cache.purgeExpired(gctx, cachePurgeInterval, app.logger)
	})

	g.Go(func() error {
		<-gctx.Done()
		app.logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithCancel(context.Background())
		if timeout := app.config.Server.ShutdownTimeout; timeout > 0 {
			shutdownCtx, cancel = context.WithTimeout(context.Background(), timeout)
		}
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			app.logger.Error("Server shutdown failed", "error", err)
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		app.logger.Info("Server shutdown completed")
		return nil
	})

	return g.Wait()
}
