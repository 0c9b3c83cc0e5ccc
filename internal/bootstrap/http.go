package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	httpx "github.com/watchme/emotion-hume/internal/http"
)

const defaultShutdownTimeout = 10 * time.Second

// HTTPServerConfig contains configuration for HTTP server.
type HTTPServerConfig struct {
	Addr     string
	Services ServiceContainer
	Logger   *slog.Logger
	// ErrCh receives the listener error when ListenAndServe fails. Optional.
	ErrCh chan<- error
}

// StartHTTPServer creates and starts the HTTP server.
// Returns the server instance for graceful shutdown.
func StartHTTPServer(cfg *HTTPServerConfig) *http.Server {
	if cfg == nil {
		return nil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return startServer(logger, BuildHandler(cfg.Services, logger), cfg.Addr, cfg.ErrCh)
}

// BuildHandler returns the API router for services.
func BuildHandler(services ServiceContainer, logger *slog.Logger) http.Handler {
	rs := httpx.RouterServices{Deps: services.Deps, Logger: logger}
	if services.Analysis != nil {
		rs.Analysis = services.Analysis
	}
	return httpx.NewRouter(rs)
}

func startServer(logger *slog.Logger, handler http.Handler, addr string, errCh chan<- error) *http.Server {
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8018"
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
			if errCh != nil {
				select {
				case errCh <- fmt.Errorf("http server: %w", err):
				default:
				}
			}
		}
	}()

	return server
}

// inflightWaiter blocks until background analyses have finished.
type inflightWaiter interface {
	Wait()
}

// ShutdownConfig contains dependencies for HTTP server shutdown.
type ShutdownConfig struct {
	Context  context.Context
	Server   *http.Server
	Inflight inflightWaiter // Optional: analyses started by /async-process
	Timeout  time.Duration
	Logger   *slog.Logger
}

// ShutdownHTTPServer stops accepting requests, then waits for in-flight analyses.
// Both steps share one Timeout; analyses still running when it expires are abandoned.
func ShutdownHTTPServer(cfg ShutdownConfig) error {
	if cfg.Server == nil {
		return nil
	}
	parent := cfg.Context
	if parent == nil {
		parent = context.Background()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("shutting down HTTP server")
	}

	shutdownCtx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	if err := cfg.Server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if cfg.Inflight != nil {
		waitInflight(shutdownCtx, cfg.Inflight, cfg.Logger)
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("HTTP server stopped")
	}

	return nil
}

func waitInflight(ctx context.Context, w inflightWaiter, logger *slog.Logger) {
	done := make(chan struct{})
	go func() {
		w.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		if logger != nil {
			logger.Warn("abandoning in-flight analyses", "reason", ctx.Err())
		}
	}
}
