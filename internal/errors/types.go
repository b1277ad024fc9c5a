package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind categorizes an application error.
type Kind string

const (
	KindValidation        Kind = "VALIDATION_ERROR"
	KindSourceUnavailable Kind = "SOURCE_UNAVAILABLE"
	KindUnstructurable    Kind = "UNSTRUCTURABLE_CONTENT"
	KindCacheDegraded     Kind = "CACHE_DEGRADED"
	KindRateLimit         Kind = "RATE_LIMIT_ERROR"
	KindNotFound          Kind = "NOT_FOUND_ERROR"
	KindInternal          Kind = "INTERNAL_ERROR"
)

// AppError is the structured error surfaced to callers. Message is the
// localized human-readable text; ErrorCode is the stable machine-readable
// code clients switch on.
type AppError struct {
	Kind       Kind   `json:"kind"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
	ErrorCode  string `json:"errorCode"`
	Err        error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the wrapped cause to errors.Is/As.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Code returns the application-specific error code.
func (e *AppError) Code() string {
	return e.ErrorCode
}

// AsAppError extracts an *AppError from err's chain, or wraps err as an
// internal error so handlers always have a status and code to render.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Kind:       KindInternal,
		Message:    "internal error",
		StatusCode: http.StatusInternalServerError,
		ErrorCode:  "INTERNAL",
		Err:        err,
	}
}

// NewValidationError creates a new validation error (400).
func NewValidationError(message, errorCode string) *AppError {
	return &AppError{
		Kind:       KindValidation,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		ErrorCode:  errorCode,
	}
}

// NewNotFoundError creates a new not found error (404).
func NewNotFoundError(message, errorCode string) *AppError {
	return &AppError{
		Kind:       KindNotFound,
		Message:    message,
		StatusCode: http.StatusNotFound,
		ErrorCode:  errorCode,
	}
}

// NewRateLimitError creates a new rate limit error (429).
func NewRateLimitError(message, errorCode string) *AppError {
	return &AppError{
		Kind:       KindRateLimit,
		Message:    message,
		StatusCode: http.StatusTooManyRequests,
		ErrorCode:  errorCode,
	}
}

// NewSourceUnavailableError reports a scraper collaborator failure (502).
// Terminal for the request; retries belong to the scraper itself.
func NewSourceUnavailableError(message, errorCode string, err error) *AppError {
	return &AppError{
		Kind:       KindSourceUnavailable,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		ErrorCode:  errorCode,
		Err:        err,
	}
}

// NewUnstructurableError reports that no strategy could produce a non-empty
// recipe from non-trivial input (422).
func NewUnstructurableError(message string, err error) *AppError {
	return &AppError{
		Kind:       KindUnstructurable,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
		ErrorCode:  "UNSTRUCTURABLE_CONTENT",
		Err:        err,
	}
}

// NewCacheDegradedError marks a cache store failure. Never surfaced to
// callers; exists so logs and tests can identify the condition.
func NewCacheDegradedError(err error) *AppError {
	return &AppError{
		Kind:       KindCacheDegraded,
		Message:    "cache store unavailable",
		StatusCode: http.StatusInternalServerError,
		ErrorCode:  "CACHE_DEGRADED",
		Err:        err,
	}
}

// NewInternalError creates a new internal error (500).
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Kind:       KindInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		ErrorCode:  "INTERNAL",
		Err:        err,
	}
}
