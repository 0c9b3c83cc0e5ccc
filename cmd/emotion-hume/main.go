package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/watchme/emotion-hume/config"
	"github.com/watchme/emotion-hume/internal/bootstrap"
	httpx "github.com/watchme/emotion-hume/internal/http"
)

func main() {
	ctx := context.Background()
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		bootstrap.InitLogger("info", false).ErrorContext(ctx, "load config", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}

	logger := bootstrap.InitLogger(cfg.LogLevel, cfg.IsDev)
	if err := run(ctx, logger, &cfg); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) error {
	logStartupInfo(ctx, logger, cfg)

	infra := bootstrap.ConnectInfra(ctx, cfg, logger)
	defer func() {
		if cerr := infra.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close infrastructure failed", "error", cerr)
		}
	}()

	if infra.DB != nil {
		if cfg.Postgres.RunMigrationsOnStart {
			if err := bootstrap.RunMigrations(ctx, infra.DB, logger); err != nil {
				return err
			}
		} else {
			logger.InfoContext(ctx, "skipping database migrations on startup", "reason", "disabled via config")
		}
	}

	services, err := bootstrap.NewServices(&bootstrap.ServiceDeps{
		Config:      cfg,
		DB:          infra.DB,
		RedisClient: infra.Redis,
		AWS:         infra.AWS,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	return bootstrap.RunServicesWithShutdown(ctx, &bootstrap.ServiceOrchestrationConfig{
		Config:   cfg,
		Services: services,
		Logger:   logger,
	})
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	logger.InfoContext(ctx, "starting "+httpx.ServiceName,
		"version", httpx.ServiceVersion,
		"addr", cfg.HTTP.Addr,
		"hume_configured", cfg.Hume.Enabled(),
		"db_enabled", cfg.Postgres.Enabled,
		"redis_enabled", cfg.Redis.Enabled,
		"aws_enabled", cfg.AWS.Enabled(),
		"bucket", cfg.AWS.Bucket,
	)
}
