package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/watchme/emotion-hume/config"
)

// ServiceOrchestrationConfig contains everything RunServicesWithShutdown needs.
type ServiceOrchestrationConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// RunServicesWithShutdown starts the HTTP server and blocks until ctx is done,
// a shutdown signal arrives or the listener fails.
func RunServicesWithShutdown(ctx context.Context, cfg *ServiceOrchestrationConfig) error {
	if cfg == nil || cfg.Config == nil {
		return errors.New("service orchestration config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	errCh := make(chan error, 1)
	server := StartHTTPServer(&HTTPServerConfig{
		Addr:     cfg.Config.HTTP.Addr,
		Services: cfg.Services,
		Logger:   logger,
		ErrCh:    errCh,
	})

	return waitForShutdown(shutdownConfig{
		ctx:        ctx,
		errCh:      errCh,
		httpServer: server,
		services:   cfg.Services,
		timeout:    cfg.Config.HTTP.ShutdownTimeout,
		logger:     logger,
	})
}

// shutdownConfig contains dependencies for graceful shutdown.
type shutdownConfig struct {
	ctx        context.Context
	errCh      <-chan error
	httpServer *http.Server
	services   ServiceContainer
	timeout    time.Duration
	logger     *slog.Logger
}

// waitForShutdown waits for shutdown signal or service error.
func waitForShutdown(cfg shutdownConfig) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		cfg.logger.Info("shutting down services...", "signal", sig.String())
		return gracefulStop(cfg)
	case <-cfg.ctx.Done():
		cfg.logger.Info("shutting down services...", "reason", cfg.ctx.Err())
		return gracefulStop(cfg)
	case err := <-cfg.errCh:
		cfg.logger.Error("service error", "error", err)
		if stopErr := gracefulStop(cfg); stopErr != nil {
			cfg.logger.Error("graceful stop failed", "error", stopErr)
		}
		return err
	}
}

// gracefulStop drains the HTTP server and in-flight analyses, then releases shared resources.
func gracefulStop(cfg shutdownConfig) error {
	shutdown := ShutdownConfig{
		// The caller's context may already be cancelled; shutdown still gets its full timeout.
		Context: context.WithoutCancel(cfg.ctx),
		Server:  cfg.httpServer,
		Timeout: cfg.timeout,
		Logger:  cfg.logger,
	}
	if cfg.services.Analysis != nil {
		shutdown.Inflight = cfg.services.Analysis
	}
	err := ShutdownHTTPServer(shutdown)

	if closeErr := cfg.services.Close(); closeErr != nil {
		cfg.logger.Warn("close services failed", "error", closeErr)
	}
	return err
}
