package service

import "errors"

// ErrInsufficientSignal is stored when Hume completed but produced no segments.
var ErrInsufficientSignal error = &insufficientSignalError{}

type insufficientSignalError struct{}

func (*insufficientSignalError) Error() string {
	return "No emotion data extracted - audio quality too low"
}

func (*insufficientSignalError) ErrorClass() string { return "insufficient_signal" }

// ErrDependencyUnavailable matches every DependencyUnavailableError via errors.Is.
var ErrDependencyUnavailable = errors.New("dependency unavailable")

// DependencyUnavailableError reports a collaborator that was never wired.
type DependencyUnavailableError struct {
	Dependency string
}

func (e *DependencyUnavailableError) Error() string {
	return e.Dependency + " unavailable"
}

// Is lets errors.Is(err, ErrDependencyUnavailable) succeed.
func (e *DependencyUnavailableError) Is(target error) bool {
	return target == ErrDependencyUnavailable
}

// ErrorClass implements the metrics error class hook.
func (e *DependencyUnavailableError) ErrorClass() string { return "dependency_unavailable" }
