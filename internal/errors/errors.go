package apperrors

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess       = 0   // Indicates successful execution.
	ExitErrorGeneric  = 1   // Indicates a generic error.
	ExitErrorTimeout  = 2   // Indicates the operation timed out.
	ExitErrorFailed   = 3   // Indicates that at least one benchmark case failed.
	ExitErrorConfig   = 4   // Indicates a configuration error.
	ExitErrorCanceled = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// ErrInvalidArgument is the sentinel matched by every argument validation
// failure of the integration core (non-positive iteration or job counts).
// Use errors.Is(err, ErrInvalidArgument) to detect it and errors.As with a
// ValidationError to retrieve the offending field.
var ErrInvalidArgument = errors.New("invalid argument")

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError instance containing the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// ValidationError represents an input validation failure. It identifies which
// field failed validation and provides a human-readable explanation.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Message explains the validation failure.
	Message string
}

// Error returns a formatted message describing the validation failure.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// NewInvalidArgument builds an error that matches both ErrInvalidArgument
// (via errors.Is) and ValidationError (via errors.As).
//
// Parameters:
//   - field: The name of the rejected argument.
//   - format: A format string describing the violation.
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: The combined validation error.
func NewInvalidArgument(field, format string, a ...any) error {
	return fmt.Errorf("%w: %w", ErrInvalidArgument, ValidationError{Field: field, Message: fmt.Sprintf(format, a...)})
}

// IntegrandError reports a failure raised by the integrand while it was being
// evaluated. The original error is preserved so callers can match it with
// errors.Is or errors.As.
type IntegrandError struct {
	// Integrand is the registry name of the failing function ("" for anonymous functions).
	Integrand string
	// X is the abscissa at which the evaluation failed.
	X float64
	// Cause is the error returned by the integrand.
	Cause error
}

// Error returns a message naming the integrand and the failing abscissa.
func (e IntegrandError) Error() string {
	name := e.Integrand
	if name == "" {
		name = "<anonymous>"
	}
	return fmt.Sprintf("integrand %s failed at x=%g: %v", name, e.X, e.Cause)
}

// Unwrap returns the integrand's own error.
func (e IntegrandError) Unwrap() error { return e.Cause }

// TransferError reports that an integrand or its arguments could not be moved
// across a process boundary, or that the worker process could not be driven
// to completion. It is only produced by the isolated-process strategy.
type TransferError struct {
	// Integrand is the name (possibly empty) of the integrand being transferred.
	Integrand string
	// Cause is the underlying failure.
	Cause error
}

// Error returns a message describing the transfer failure.
func (e TransferError) Error() string {
	if e.Integrand == "" {
		return fmt.Sprintf("transfer failed: %v", e.Cause)
	}
	return fmt.Sprintf("transfer of integrand %q failed: %v", e.Integrand, e.Cause)
}

// Unwrap returns the underlying failure.
func (e TransferError) Unwrap() error { return e.Cause }

// TimeoutError represents a run timeout. It captures the operation
// name and the duration limit that was exceeded.
type TimeoutError struct {
	// Operation is the name of the operation that timed out.
	Operation string
	// Limit is the duration after which the operation was considered timed out.
	Limit time.Duration
}

// Error returns a formatted message describing the timeout.
func (e TimeoutError) Error() string {
	return fmt.Sprintf("operation %q timed out after %s", e.Operation, e.Limit)
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
//
// Parameters:
//   - err: The error to wrap.
//   - format: A format string for the context message.
//   - args: Arguments for the format string.
//
// Returns:
//   - error: The wrapped error, or nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ExitCodeFor maps a run error onto the process exit code.
//
// Parameters:
//   - err: The error returned by the run, or nil.
//
// Returns:
//   - int: The exit code to report to the OS.
func ExitCodeFor(err error) int {
	var cfgErr ConfigError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, context.DeadlineExceeded):
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	case errors.As(err, &cfgErr), errors.Is(err, ErrInvalidArgument):
		return ExitErrorConfig
	default:
		return ExitErrorGeneric
	}
}
