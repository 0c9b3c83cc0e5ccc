package hume

import (
	"errors"
	"fmt"
)

// classedError is a sentinel that also names its metric error class.
type classedError struct {
	msg   string
	class string
}

func (e *classedError) Error() string      { return e.msg }
func (e *classedError) ErrorClass() string { return e.class }

var (
	// ErrJobFailed is returned when the remote job reports FAILED.
	ErrJobFailed error = &classedError{msg: "hume job failed", class: "job_failed"}
	// ErrJobTimeout is returned when polling exhausts its attempt budget without a terminal state.
	ErrJobTimeout error = &classedError{msg: "hume job timed out", class: "job_timeout"}
	// ErrAPIKeyRequired is returned by NewClient when no API key is configured.
	ErrAPIKeyRequired = errors.New("hume api key is required")
)

// ServiceError describes a failed call to the Hume batch API.
type ServiceError struct {
	Op         string
	StatusCode int
	Message    string
	Transient  bool
	Err        error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	msg := e.Message
	if msg == "" && e.StatusCode != 0 {
		msg = fmt.Sprintf("Hume API error: %d", e.StatusCode)
	}
	if msg == "" {
		msg = "request failed"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, msg, e.Err)
	}
	return e.Op + ": " + msg
}

// Unwrap exposes the transport error, if any.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// ErrorClass tags metrics for failed Hume API calls.
func (e *ServiceError) ErrorClass() string {
	return "hume_api"
}

// IsTransient reports whether err is a ServiceError that is worth retrying.
func IsTransient(err error) bool {
	var se *ServiceError
	return errors.As(err, &se) && se.Transient
}
