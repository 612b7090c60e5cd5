package errors

import (
	"errors"
	"fmt"
)

// Common error types used across the uthreads library

var (
	// ErrClosed indicates that an operation was attempted on a torn down scheduler
	ErrClosed = errors.New("resource is closed")

	// ErrCapacityExceeded indicates that a capacity limit was exceeded
	ErrCapacityExceeded = errors.New("capacity exceeded")

	// ErrInvalidConfiguration indicates invalid configuration parameters
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrNoSuchThread indicates that no living thread has the given id
	ErrNoSuchThread = errors.New("no such thread id")

	// ErrBootstrapThread indicates an operation that is not permitted on thread 0
	ErrBootstrapThread = errors.New("operation not permitted on the bootstrap thread")

	// ErrThreadSleeping indicates that a sleeping thread cannot be terminated
	ErrThreadSleeping = errors.New("thread is sleeping")

	// ErrPlatform indicates a failure of the underlying timer or signal facility
	ErrPlatform = errors.New("platform failure")
)

// ValidationError describes an invalid argument or configuration value.
type ValidationError struct {
	Module string
	Field  string
	Value  interface{}
	Reason string
	Hint   string
}

// NewValidationError creates a ValidationError without a hint.
func NewValidationError(module, field string, value interface{}, reason string) *ValidationError {
	return &ValidationError{
		Module: module,
		Field:  field,
		Value:  value,
		Reason: reason,
	}
}

// WithHint attaches a remediation hint and returns the same error for chaining.
func (e *ValidationError) WithHint(hint string) *ValidationError {
	e.Hint = hint
	return e
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%s: invalid %s=%v (%s)", e.Module, e.Field, e.Value, e.Reason)
	if e.Hint != "" {
		msg += " - " + e.Hint
	}
	return msg
}

// Unwrap returns ErrInvalidConfiguration so callers can match with errors.Is.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidConfiguration
}

// OperationError describes a failed operation and the reason it failed.
type OperationError struct {
	Module    string
	Operation string
	Cause     error
	Context   string
}

// NewOperationError creates an OperationError without additional context.
func NewOperationError(module, operation string, cause error) *OperationError {
	return &OperationError{
		Module:    module,
		Operation: operation,
		Cause:     cause,
	}
}

// WithContext attaches additional context and returns the same error for chaining.
func (e *OperationError) WithContext(context string) *OperationError {
	e.Context = context
	return e
}

func (e *OperationError) Error() string {
	msg := fmt.Sprintf("%s.%s failed: %v", e.Module, e.Operation, e.Cause)
	if e.Context != "" {
		msg += " (" + e.Context + ")"
	}
	return msg
}

func (e *OperationError) Unwrap() error {
	return e.Cause
}

// IsValidationError reports whether err is, or wraps, a ValidationError.
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// IsUsageError returns true if the error was caused by incorrect use of the
// library. Usage errors leave scheduler state unchanged.
func IsUsageError(err error) bool {
	return IsValidationError(err) ||
		errors.Is(err, ErrCapacityExceeded) ||
		errors.Is(err, ErrNoSuchThread) ||
		errors.Is(err, ErrBootstrapThread) ||
		errors.Is(err, ErrThreadSleeping)
}

// IsPlatformError returns true if the error originates from the timer or
// signal facility. Such failures are never recoverable.
func IsPlatformError(err error) bool {
	return errors.Is(err, ErrPlatform)
}
