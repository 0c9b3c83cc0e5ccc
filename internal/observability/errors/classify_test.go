package errors

import (
	"context"
	goerrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type classedErr struct{ class string }

func (e *classedErr) Error() string      { return "classed" }
func (e *classedErr) ErrorClass() string { return e.class }

type plainErr struct{}

func (plainErr) Error() string { return "plain" }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "classed", err: &classedErr{class: "job_timeout"}, want: "job_timeout"},
		{name: "wrapped classed", err: fmt.Errorf("job 1: %w", &classedErr{class: "job_failed"}), want: "job_failed"},
		{name: "outermost class wins", err: &wrapper{class: "forbidden", inner: &classedErr{class: "hume_api"}}, want: "forbidden"},
		{name: "blank class falls through", err: fmt.Errorf("x: %w", &classedErr{}), want: "errors_classederr"},
		{name: "deadline", err: fmt.Errorf("poll: %w", context.DeadlineExceeded), want: "timeout"},
		{name: "canceled", err: context.Canceled, want: "canceled"},
		{name: "concrete type", err: fmt.Errorf("a: %w", plainErr{}), want: "errors_plainerr"},
		{name: "errors.New", err: goerrors.New("boom"), want: "errors_errorstring"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

type wrapper struct {
	class string
	inner error
}

func (w *wrapper) Error() string      { return w.class + ": " + w.inner.Error() }
func (w *wrapper) Unwrap() error      { return w.inner }
func (w *wrapper) ErrorClass() string { return w.class }
