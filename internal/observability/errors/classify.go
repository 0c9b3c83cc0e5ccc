// Package errors derives low-cardinality error classes for metric tags.
package errors

import (
	"context"
	goerrors "errors"
	"reflect"
	"strings"
)

// Classed is implemented by errors that name their own class.
type Classed interface {
	ErrorClass() string
}

// Classify returns a normalized class for err suitable for tagging metrics and logs.
// The outermost error in the chain that implements Classed wins. Context errors map to
// timeout and canceled. Anything else falls back to the innermost concrete type name.
func Classify(err error) string {
	if err == nil {
		return ""
	}

	var classed Classed
	if goerrors.As(err, &classed) {
		if class := strings.TrimSpace(classed.ErrorClass()); class != "" {
			return class
		}
	}

	switch {
	case goerrors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case goerrors.Is(err, context.Canceled):
		return "canceled"
	}

	for {
		unwrapped := goerrors.Unwrap(err)
		if unwrapped == nil {
			break
		}
		err = unwrapped
	}

	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "unknown"
	}
	name := strings.ToLower(strings.ReplaceAll(t.String(), ".", "_"))
	if name == "" {
		return "unknown"
	}
	return name
}
