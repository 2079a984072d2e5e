// Copyright (c) 2026 Comiclog. All rights reserved.
// Author: dev@comiclog.app

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/comiclog/comiclog/internal/platform/apperr"
)

var (
	// ErrNotFound is a standard error returned when a queried row doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")
)

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// violation (SQLSTATE 23505), optionally on the named constraint.
//
// The slug uniqueness invariant is enforced here, at the storage layer, not by
// the allocator's snapshot of existing slugs.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	if pgErr.Code != pgerrcode.UniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

// IsTransient reports whether err looks like a recoverable connectivity or
// timeout failure rather than a logic error.
func IsTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.ConnectionException,
			pgerrcode.ConnectionFailure,
			pgerrcode.ConnectionDoesNotExist,
			pgerrcode.CannotConnectNow,
			pgerrcode.TooManyConnections,
			pgerrcode.QueryCanceled:
			return true
		}
	}

	return pgconn.SafeToRetry(err)
}

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	cause := fmt.Errorf("%s: %w", action, err)

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	// 2. Transient connectivity failures are retryable by the caller
	if IsTransient(err) {
		return apperr.StoreUnavailable(cause)
	}

	// 3. Unknown query errors become Internal Server Errors
	return apperr.Internal(cause)
}
