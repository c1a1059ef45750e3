package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError represents a standardized application error
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"` // Internal error for logging
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the wrapped internal error
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError
func New(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NotFound creates a 404 error. Also used when an entity exists but is
// outside the caller's ownership scope, so absence and inaccessibility are
// indistinguishable to the caller.
func NotFound(message string) *AppError {
	return New(http.StatusNotFound, message, nil)
}

// Forbidden creates a 403 error
func Forbidden(message string) *AppError {
	return New(http.StatusForbidden, message, nil)
}

// Conflict creates a 409 error
func Conflict(message string) *AppError {
	return New(http.StatusConflict, message, nil)
}

// Unauthorized creates a 401 error
func Unauthorized(message string) *AppError {
	return New(http.StatusUnauthorized, message, nil)
}

// BadRequest creates a 400 error
func BadRequest(message string) *AppError {
	return New(http.StatusBadRequest, message, nil)
}

// Internal creates a 500 error
func Internal(err error) *AppError {
	return New(http.StatusInternalServerError, "internal server error", err)
}

// From converts any error to an *AppError, wrapping unknown errors as Internal
func From(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// IsNotFound reports whether err carries a 404 code
func IsNotFound(err error) bool {
	return hasCode(err, http.StatusNotFound)
}

// IsForbidden reports whether err carries a 403 code
func IsForbidden(err error) bool {
	return hasCode(err, http.StatusForbidden)
}

// IsConflict reports whether err carries a 409 code
func IsConflict(err error) bool {
	return hasCode(err, http.StatusConflict)
}

// IsUnauthorized reports whether err carries a 401 code
func IsUnauthorized(err error) bool {
	return hasCode(err, http.StatusUnauthorized)
}

func hasCode(err error, code int) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}
