// Copyright (c) 2026 Comiclog. All rights reserved.
// Author: dev@comiclog.app

/*
Package apperr defines the centralized error handling framework for Comiclog.

It provides a rich error type that bridges the gap between low-level Domain/Storage
errors and high-level HTTP responses.

Architecture:

  - AppError: A struct containing machine-readable ErrorCode and user-friendly messages.
  - Classification: Helpers to distinguish retryable transients from terminal failures.
  - Mapping: Explicit mapping from AppError to standard HTTP Status Codes.

Every error that leaves the service layer should be wrapped as an [AppError] to ensure
consistent API responses.
*/
package apperr

import (
	"errors"
	"net/http"
)

// AppError is the canonical error type for the Comiclog API.
//
// It carries an HTTP status code, a machine-readable code, a client-safe
// message, and an optional slice of field-level validation errors.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients
// to avoid leaking internal implementation details (e.g., SQL queries).
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "NOT_FOUND", "SLUG_CONFLICT").
	Code string `json:"code"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"error"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for VALIDATION_ERROR responses.
	Details []FieldError `json:"details,omitempty"`
	// Retryable marks transient failures that callers may safely retry.
	Retryable bool `json:"-"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the JSON field path that failed validation (e.g. "images[2].key").
	Field string `json:"field"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Client Errors (4xx)

// NotFound creates a 404 [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("Comic") // Returns "Comic not found"
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       "NOT_FOUND",
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// ValidationError creates a 400 [AppError] with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:       "VALIDATION_ERROR",
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// SlugConflict creates a 409 [AppError] for a slug uniqueness violation.
//
// The ingestion pipeline retries allocation exactly once before surfacing
// this error to the caller.
func SlugConflict(slug string) *AppError {
	return &AppError{
		Code:       "SLUG_CONFLICT",
		Message:    "Slug already in use: " + slug,
		HTTPStatus: http.StatusConflict,
	}
}

// MissingMedia creates a 422 [AppError] naming the first storage key that
// could not be resolved. Any missing reference aborts the whole ingestion.
func MissingMedia(key string) *AppError {
	return &AppError{
		Code:       "MISSING_MEDIA",
		Message:    "Referenced image not found: " + key,
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

// # Server Errors (5xx)

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
// The cause is stored for logging but is never sent to the client.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// StoreUnavailable creates a 503 [AppError] for a transient storage failure.
//
// Reads flagged with this error may be retried with backoff.
func StoreUnavailable(cause error) *AppError {
	return &AppError{
		Code:       "STORE_UNAVAILABLE",
		Message:    "Storage temporarily unavailable",
		HTTPStatus: http.StatusServiceUnavailable,
		Cause:      cause,
		Retryable:  true,
	}
}

// AmbiguousWrite creates a 503 [AppError] for a timeout that fired after the
// storage write was issued. The commit may or may not have happened, so this
// carries a distinct code: callers must re-check by id/slug before retrying.
func AmbiguousWrite(cause error) *AppError {
	return &AppError{
		Code:       "AMBIGUOUS_WRITE",
		Message:    "Write outcome unknown; verify before retrying",
		HTTPStatus: http.StatusServiceUnavailable,
		Cause:      cause,
	}
}

// # Helpers

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// IsRetryable reports whether err is a transient failure safe to retry.
func IsRetryable(err error) bool {
	ae := As(err)
	return ae != nil && ae.Retryable
}

// IsCode reports whether err carries the given machine-readable code.
func IsCode(err error, code string) bool {
	ae := As(err)
	return ae != nil && ae.Code == code
}
