package strategy

import (
	"context"
	"errors"
	"fmt"
)

// FailureKind classifies why a delivery attempt did not complete
type FailureKind string

const (
	FailureRejected     FailureKind = "rejected"              // OS refused the synthetic event
	FailureTimeout      FailureKind = "timeout"               // attempt exceeded its budget
	FailureResourceBusy FailureKind = "resource_busy"         // clipboard held by another process
	FailureUnsupported  FailureKind = "unsupported_character" // recovered inside the attempt, never fatal
	FailureCancelled    FailureKind = "cancelled"             // caller aborted the request
	FailureExhausted    FailureKind = "exhausted"             // coordinator-level: all strategies failed
)

// Failure wraps a delivery error with its classification
type Failure struct {
	Kind FailureKind
	Err  error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return string(f.Kind)
	}
	return fmt.Sprintf("%s: %v", f.Kind, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Failf builds a classified failure from a format string
func Failf(kind FailureKind, format string, args ...any) *Failure {
	return &Failure{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// KindOf extracts the failure kind from an error chain. Unclassified
// errors count as rejections: something below us refused to cooperate.
func KindOf(err error) FailureKind {
	if err == nil {
		return ""
	}
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return FailureRejected
}

// Recoverable reports whether the coordinator may try the next strategy
// after this error. Cancellation always terminates the whole request.
func Recoverable(err error) bool {
	switch KindOf(err) {
	case FailureRejected, FailureTimeout, FailureResourceBusy:
		return true
	default:
		return false
	}
}

// classify folds a context error into the failure taxonomy, keeping the
// underlying error for the %w chain.
func classify(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(ctx.Err(), context.Canceled):
		return &Failure{Kind: FailureCancelled, Err: err}
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return &Failure{Kind: FailureTimeout, Err: err}
	}
	var f *Failure
	if errors.As(err, &f) {
		return err
	}
	return &Failure{Kind: FailureRejected, Err: err}
}
