package errx

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	// SystemErrorMessage is a user-facing fallback when internal errors occur.
	SystemErrorMessage = "internal server error"
	// RedisErrorMessage describes Redis related failures.
	RedisErrorMessage = "redis operation failed"
	// RedisNotFoundMessage describes a cache miss surfaced as an error.
	RedisNotFoundMessage = "redis key not found"
)

// AppError wraps an underlying error with an HTTP status and safe message.
// Hint, when set, is returned alongside the message in the response body.
type AppError struct {
	Err     error
	Status  int
	Message string
	Hint    string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with the provided information.
func New(err error, status int, message string) *AppError {
	return &AppError{
		Err:     err,
		Status:  status,
		Message: message,
	}
}

// BadRequest marks a validation failure: malformed JSON, a missing field,
// or a feature vector with holes.
func BadRequest(message string) *AppError {
	return New(nil, http.StatusBadRequest, message)
}

// Unavailable marks an external endpoint that is not configured or not
// initialised yet.
func Unavailable(message string) *AppError {
	return New(nil, http.StatusServiceUnavailable, message)
}

// Internal wraps an unexpected fault with a 500 status.
func Internal(err error, message string) *AppError {
	return New(err, http.StatusInternalServerError, message)
}

// WithHint attaches a secondary note for the response body.
func (e *AppError) WithHint(hint string) *AppError {
	e.Hint = hint
	return e
}

// Is reports whether the target matches the underlying error or the AppError itself.
func (e *AppError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// As allows casting to AppError or the wrapped error in a chain.
func (e *AppError) As(target any) bool {
	if errors.As(e.Err, target) {
		return true
	}
	if t, ok := target.(**AppError); ok {
		*t = e
		return true
	}
	return false
}
