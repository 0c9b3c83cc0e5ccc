package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/redis/go-redis/v9"

	"github.com/watchme/emotion-hume/config"
)

// Infra holds the shared connections. Any field may be nil when its backend is
// disabled or could not be reached at startup.
type Infra struct {
	DB    *sql.DB
	Redis redis.UniversalClient
	AWS   *aws.Config
}

// ConnectInfra connects every enabled backend. A backend that fails to connect is
// logged and left nil so the service can start degraded.
func ConnectInfra(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) Infra {
	if logger == nil {
		logger = slog.Default()
	}
	var infra Infra

	if cfg.Postgres.Enabled {
		db, err := ConnectDB(DatabaseConfig{DBConfig: cfg.Postgres, Logger: logger})
		if err != nil {
			logger.ErrorContext(ctx, "database unavailable; results will not be persisted", "error", err)
		} else {
			infra.DB = db
		}
	} else {
		logger.InfoContext(ctx, "database disabled via config")
	}

	if cfg.Redis.Enabled {
		client, err := ConnectRedis(DatabaseConfig{RedisConfig: cfg.Redis, Logger: logger})
		if err != nil {
			logger.ErrorContext(ctx, "redis unavailable; analyses run without the per-recording guard", "error", err)
		} else {
			infra.Redis = client
		}
	}

	if cfg.AWS.Enabled() {
		awsCfg, err := LoadAWSConfig(ctx, cfg.AWS)
		if err != nil {
			logger.ErrorContext(ctx, "aws configuration failed", "error", err)
		} else {
			infra.AWS = &awsCfg
			logger.InfoContext(ctx, "aws configured", "region", cfg.AWS.Region, "bucket", cfg.AWS.Bucket)
		}
	} else {
		logger.WarnContext(ctx, "AWS credentials not configured")
	}

	return infra
}

// RequireDB returns the database or an error naming the command that needed it.
func (i Infra) RequireDB(what string) (*sql.DB, error) {
	if i.DB == nil {
		return nil, fmt.Errorf("%s requires a database connection", what)
	}
	return i.DB, nil
}

// Close releases every open connection.
func (i Infra) Close() error {
	var closeErr error
	if i.DB != nil {
		if err := i.DB.Close(); err != nil {
			closeErr = errors.Join(closeErr, fmt.Errorf("close db: %w", err))
		}
	}
	if i.Redis != nil {
		if err := i.Redis.Close(); err != nil {
			closeErr = errors.Join(closeErr, fmt.Errorf("close redis: %w", err))
		}
	}
	return closeErr
}
