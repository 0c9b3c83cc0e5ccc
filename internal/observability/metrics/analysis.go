// Package metrics emits the analysis lifecycle metrics shared by the server and admin CLI.
package metrics

import (
	"time"

	obserrors "github.com/watchme/emotion-hume/internal/observability/errors"
	"github.com/watchme/emotion-hume/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultNoop    = "noop"
)

// Transition names the step of an orchestration being reported.
const (
	TransitionStarted   = "started"
	TransitionCompleted = "completed"
	TransitionFailed    = "failed"
	TransitionSkipped   = "skipped"
)

// AnalysisMetric captures one orchestration lifecycle event.
type AnalysisMetric struct {
	Transition string
	Result     string
	Duration   time.Duration
	Segments   int
	Attempts   int
	Err        error
}

// EmitAnalysisLifecycle emits analysis.transition and, when known, analysis.duration,
// analysis.segments and hume.poll_attempts.
func EmitAnalysisLifecycle(sink statsd.Sink, in AnalysisMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"provider":   "hume",
		"transition": in.Transition,
		"result":     in.Result,
	}
	if in.Err != nil && in.Result == ResultError {
		if class := obserrors.Classify(in.Err); class != "" {
			tags["error_class"] = class
		}
	}

	sink.Count("analysis.transition", 1, tags)

	if in.Duration > 0 {
		sink.Timing("analysis.duration", in.Duration, CloneTags(tags))
	}
	if in.Segments > 0 {
		sink.Gauge("analysis.segments", float64(in.Segments), CloneTags(tags))
	}
	if in.Attempts > 0 {
		sink.Gauge("hume.poll_attempts", float64(in.Attempts), CloneTags(tags))
	}
}

// CloneTags creates a shallow copy of a tag map.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
