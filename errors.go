package artisan

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for common operations.
var (
	// ErrNotFound is returned when a query that expects at least one
	// row (e.g. Builder.First) matches nothing.
	ErrNotFound = errors.New("artisan: record not found")

	// ErrUnsupported is returned when the active dialect cannot express
	// a requested operation.
	ErrUnsupported = errors.New("artisan: unsupported operation")
)

// UsageError reports a programmer error: an invalid operator, an unknown
// binding bucket, an unknown column type tag, and similar misuse of the
// builder API. Usage errors are never retried.
type UsageError struct {
	msg string
}

// Error returns the error string.
func (e *UsageError) Error() string {
	return fmt.Sprintf("artisan: %s", e.msg)
}

// NewUsageError returns a new UsageError with the formatted message.
func NewUsageError(format string, args ...any) error {
	return &UsageError{msg: fmt.Sprintf(format, args...)}
}

// IsUsageError returns true if the error is a UsageError.
func IsUsageError(err error) bool {
	if err == nil {
		return false
	}
	var e *UsageError
	return errors.As(err, &e)
}

// UnsupportedError reports that a dialect cannot express a requested
// operation natively (e.g. dropping a column on SQLite).
type UnsupportedError struct {
	Dialect   string
	Operation string
}

// Error returns the error string.
func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("artisan: dialect %q does not support %s", e.Dialect, e.Operation)
}

// Is reports whether the target error matches UnsupportedError.
// This allows errors.Is(err, ErrUnsupported) to return true.
func (e *UnsupportedError) Is(err error) bool {
	return err == ErrUnsupported
}

// NewUnsupportedError returns a new UnsupportedError for the given
// dialect and operation.
func NewUnsupportedError(dialect, operation string) error {
	return &UnsupportedError{Dialect: dialect, Operation: operation}
}

// IsUnsupported returns true if the error is an UnsupportedError.
func IsUnsupported(err error) bool {
	if err == nil {
		return false
	}
	var e *UnsupportedError
	return errors.As(err, &e) || errors.Is(err, ErrUnsupported)
}

// ConstraintError represents a database constraint violation error.
type ConstraintError struct {
	msg  string
	wrap error
}

// Error returns the error string.
func (e *ConstraintError) Error() string {
	return fmt.Sprintf("artisan: constraint failed: %s", e.msg)
}

// Unwrap returns the underlying error.
func (e *ConstraintError) Unwrap() error {
	return e.wrap
}

// NewConstraintError returns a new ConstraintError with the given message.
func NewConstraintError(msg string, wrap error) error {
	return &ConstraintError{msg: msg, wrap: wrap}
}

// IsConstraintError returns true if the error is a ConstraintError.
func IsConstraintError(err error) bool {
	if err == nil {
		return false
	}
	var e *ConstraintError
	return errors.As(err, &e)
}
