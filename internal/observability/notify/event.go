// Package notify defines the alert payload fanned out when an emotion analysis fails.
package notify

import (
	"context"
	"time"
)

// Severity constants recognised by downstream sinks.
const (
	SeverityCritical = "critical"
	SeverityWarning  = "warning"
)

// AnalysisFailurePayload is the canonical data sent for a failed orchestration.
type AnalysisFailurePayload struct {
	DeviceID   string
	RecordedAt string
	FilePath   string
	JobID      string
	Stage      string
	Error      string
	ErrorClass string
	Severity   string
	OccurredAt time.Time
	Metadata   map[string]string
}

// Sink is a destination for analysis failure alerts.
type Sink interface {
	SendAnalysisFailure(ctx context.Context, payload AnalysisFailurePayload) error
}

// SinkFunc adapts a function to the Sink interface (useful for tests).
type SinkFunc func(ctx context.Context, payload AnalysisFailurePayload) error

// SendAnalysisFailure implements the Sink interface.
func (f SinkFunc) SendAnalysisFailure(ctx context.Context, payload AnalysisFailurePayload) error {
	if f == nil {
		return nil
	}
	return f(ctx, payload)
}
