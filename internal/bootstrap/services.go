package bootstrap

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/redis/go-redis/v9"

	"github.com/watchme/emotion-hume/config"
	"github.com/watchme/emotion-hume/internal/adapters/s3presign"
	"github.com/watchme/emotion-hume/internal/adapters/sqsnotify"
	"github.com/watchme/emotion-hume/internal/data"
	httpx "github.com/watchme/emotion-hume/internal/http"
	"github.com/watchme/emotion-hume/internal/hume"
	"github.com/watchme/emotion-hume/internal/observability/notify/slack"
	"github.com/watchme/emotion-hume/internal/observability/statsd"
	"github.com/watchme/emotion-hume/internal/service"
	"github.com/watchme/emotion-hume/internal/service/failurenotifier"
)

// suppressedAlertClasses never page anyone: low-signal audio is an expected outcome.
var suppressedAlertClasses = []string{"insufficient_signal"}

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Analysis      *service.EmotionAnalysisService
	Features      *data.SpotFeatureRepo // nil without a database
	AudioFiles    *data.AudioFileRepo   // nil without a database
	Guard         *data.RedisKeyGuard   // nil without Redis
	HumeClient    *hume.Client          // nil without HUME_API_KEY
	Presigner     *s3presign.Presigner  // nil without AWS credentials
	Publisher     *sqsnotify.Publisher  // nil without a queue URL
	Deps          httpx.Dependencies
	Observability ObservabilityContainer
}

// ObservabilityContainer groups shared observability dependencies.
type ObservabilityContainer struct {
	MetricsSink     *statsd.Client
	MetricsConfig   config.ObservabilityMetricsConfig
	FailureNotifier *failurenotifier.Service
	NotifierConfig  config.ObservabilityNotificationsConfig
}

// ServiceDeps groups dependencies for service initialization.
// DB, RedisClient and AWS are optional; each missing one disables the adapters built on it.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	AWS         *aws.Config
	Logger      *slog.Logger
}

// NewServices wires adapters into the emotion analysis service.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service deps with config are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	c := ServiceContainer{
		Observability: buildObservability(logger, cfg.Observability),
		Deps: httpx.Dependencies{
			DatabaseConnected: deps.DB != nil,
			AWSConnected:      deps.AWS != nil,
		},
	}

	if deps.DB != nil {
		c.Features = data.NewSpotFeatureRepo(deps.DB)
		c.AudioFiles = data.NewAudioFileRepo(deps.DB)
	}
	if deps.RedisClient != nil {
		c.Guard = data.NewRedisKeyGuard(deps.RedisClient, cfg.Redis.LockPrefix)
	}
	c.HumeClient = buildHumeClient(logger, cfg.Hume)
	c.Presigner, c.Publisher = buildAWSAdapters(logger, deps.AWS, cfg.AWS)

	analysis, err := service.NewEmotionAnalysisService(analysisOptions(&c, cfg, logger))
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("create emotion analysis service: %w", err)
	}
	c.Analysis = analysis
	return c, nil
}

// analysisOptions only assigns interface fields from non-nil adapters so the
// service never sees a typed nil.
func analysisOptions(c *ServiceContainer, cfg *config.AppConfig, logger *slog.Logger) service.EmotionAnalysisServiceOptions {
	opts := service.EmotionAnalysisServiceOptions{
		GuardTTL:        cfg.Redis.LockTTL,
		Bucket:          cfg.AWS.Bucket,
		PresignExpiry:   cfg.AWS.PresignExpiry,
		FailureNotifier: c.Observability.FailureNotifier,
		Logger:          logger,
	}
	if c.HumeClient != nil {
		opts.JobClient = c.HumeClient
	}
	if c.Features != nil {
		opts.Store = c.Features
	}
	if c.Presigner != nil {
		opts.Signer = c.Presigner
	}
	if c.Publisher != nil {
		opts.Publisher = c.Publisher
	}
	if c.Guard != nil {
		opts.Guard = c.Guard
	}
	if c.Observability.MetricsSink != nil {
		opts.Metrics = c.Observability.MetricsSink
	}
	return opts
}

func buildHumeClient(logger *slog.Logger, cfg config.HumeConfig) *hume.Client {
	if !cfg.Enabled() {
		logger.Warn("HUME_API_KEY not set; emotion analysis requests will be refused")
		return nil
	}
	client, err := hume.NewClient(hume.Config{
		BaseURL:             cfg.BaseURL,
		APIKey:              cfg.APIKey,
		PollInterval:        cfg.PollInterval.Std(),
		MaxPollAttempts:     cfg.MaxPollAttempts,
		ConfidenceThreshold: cfg.ConfidenceThreshold,
		Language:            cfg.Language,
		StatusRetry: hume.Backoff{
			Attempts: cfg.StatusRetryAttempts,
			Min:      cfg.StatusRetryMin,
			Max:      cfg.StatusRetryMax,
		},
		Logger: logger,
	})
	if err != nil {
		logger.Error("failed to initialise hume client", "error", err)
		return nil
	}
	logger.Info("hume client initialised",
		"base_url", cfg.BaseURL,
		"poll_interval", cfg.PollInterval.Std().String(),
		"max_poll_attempts", cfg.MaxPollAttempts,
	)
	return client
}

func buildAWSAdapters(
	logger *slog.Logger,
	awsCfg *aws.Config,
	cfg config.AWSConfig,
) (*s3presign.Presigner, *sqsnotify.Publisher) {
	if awsCfg == nil {
		logger.Warn("AWS credentials not configured; audio URLs cannot be presigned")
		return nil, nil
	}

	presigner := s3presign.New(NewS3Client(*awsCfg, cfg))

	if !cfg.QueueEnabled() {
		logger.Info("feature completed queue not configured; completion messages disabled")
		return presigner, nil
	}
	publisher, err := sqsnotify.NewFromConfig(*awsCfg, cfg.EndpointURL, sqsnotify.Options{
		QueueURL: cfg.FeatureCompletedQueueURL,
		Logger:   logger,
	})
	if err != nil {
		logger.Error("failed to initialise sqs publisher", "error", err)
		return presigner, nil
	}
	return presigner, publisher
}

// buildObservability configures metrics and notification adapters.
func buildObservability(logger *slog.Logger, cfg config.ObservabilityConfig) ObservabilityContainer {
	var metricsSink *statsd.Client
	if cfg.Metrics.IsEnabled() {
		client, err := statsd.NewClient(statsd.Config{
			Enabled: true,
			Address: cfg.Metrics.StatsdAddress,
			Prefix:  cfg.Metrics.Prefix,
			Logger:  logger,
		})
		if err != nil {
			logger.Error("failed to initialise statsd client", "error", err)
		} else {
			metricsSink = client
		}
	}

	return ObservabilityContainer{
		MetricsSink:     metricsSink,
		MetricsConfig:   cfg.Metrics,
		FailureNotifier: buildFailureNotifier(logger, cfg.Notifications),
		NotifierConfig:  cfg.Notifications,
	}
}

func buildFailureNotifier(logger *slog.Logger, cfg config.ObservabilityNotificationsConfig) *failurenotifier.Service {
	if !cfg.Enabled {
		return failurenotifier.NewService(failurenotifier.Options{Logger: logger})
	}

	var sinks []failurenotifier.SinkRegistration
	if cfg.Slack.Enabled {
		client, err := slack.NewClient(slack.Config{
			WebhookURL: cfg.Slack.WebhookURL,
			Channel:    cfg.Slack.Channel,
			Username:   cfg.Slack.Username,
			Timeout:    cfg.Timeout,
			RetryLimit: cfg.RetryLimit,
		})
		if err != nil {
			logger.Error("failed to initialise slack notifier", "error", err)
		} else {
			sinks = append(sinks, failurenotifier.SinkRegistration{Name: "slack", Sink: client})
		}
	}

	return failurenotifier.NewService(failurenotifier.Options{
		Logger:          logger,
		Sinks:           sinks,
		SuppressClasses: suppressedAlertClasses,
	})
}

// Close releases resources owned by the container.
func (c ServiceContainer) Close() error {
	if c.Observability.MetricsSink != nil {
		return c.Observability.MetricsSink.Close()
	}
	return nil
}
