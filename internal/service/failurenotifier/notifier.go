// Package failurenotifier fans analysis failure alerts out to every configured sink.
package failurenotifier

import (
	"context"
	"log/slog"
	"sync"

	"github.com/watchme/emotion-hume/internal/observability/notify"
)

// SinkRegistration pairs a sink implementation with a human-readable name for logging.
type SinkRegistration struct {
	Name string
	Sink notify.Sink
}

// Options configures the failure notifier service.
type Options struct {
	Logger *slog.Logger
	Sinks  []SinkRegistration
	// SuppressClasses lists error classes that never raise an alert.
	SuppressClasses []string
}

// Service dispatches failure events to all registered sinks.
type Service struct {
	logger   *slog.Logger
	sinks    []SinkRegistration
	suppress map[string]struct{}
}

// NewService constructs a failure notifier.
func NewService(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "failure_notifier")

	var sinks []SinkRegistration
	for _, entry := range opts.Sinks {
		if entry.Sink == nil {
			continue
		}
		name := entry.Name
		if name == "" {
			name = "sink"
		}
		sinks = append(sinks, SinkRegistration{Name: name, Sink: entry.Sink})
	}

	suppress := make(map[string]struct{}, len(opts.SuppressClasses))
	for _, class := range opts.SuppressClasses {
		suppress[class] = struct{}{}
	}

	return &Service{logger: logger, sinks: sinks, suppress: suppress}
}

// NotifyAnalysisFailure delivers payload to every sink concurrently and waits for all of them.
// Delivery errors are logged, never returned.
func (s *Service) NotifyAnalysisFailure(ctx context.Context, payload notify.AnalysisFailurePayload) {
	if s == nil || len(s.sinks) == 0 {
		return
	}
	if _, skip := s.suppress[payload.ErrorClass]; skip {
		s.logger.DebugContext(ctx, "alert suppressed",
			"device_id", payload.DeviceID,
			"error_class", payload.ErrorClass,
		)
		return
	}

	if payload.Severity == "" {
		payload.Severity = notify.SeverityCritical
	}

	var wg sync.WaitGroup
	for _, entry := range s.sinks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := entry.Sink.SendAnalysisFailure(ctx, payload); err != nil {
				s.logger.ErrorContext(ctx, "failure notifier delivery error",
					"sink", entry.Name,
					"device_id", payload.DeviceID,
					"recorded_at", payload.RecordedAt,
					"error", err,
				)
			}
		}()
	}
	wg.Wait()
}

// Enabled reports whether the notifier has any active sinks.
func (s *Service) Enabled() bool {
	return s != nil && len(s.sinks) > 0
}
