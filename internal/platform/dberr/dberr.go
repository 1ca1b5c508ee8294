// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
//
// # Classification
//
//   - pgx.ErrNoRows            → NOT_FOUND
//   - 23505 unique_violation   → CONFLICT
//   - 23503 foreign_key_violation → NOT_FOUND (the referenced row is missing)
//   - anything else            → INTERNAL_ERROR (cause kept for logs only)
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/comunidad/internal/platform/apperr"
)

var (
	// ErrNotFound is a standard error returned when a queried row doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")
)

// options carries the client-facing wording for a single Wrap call.
type options struct {
	resource        string
	conflictMessage string
	reference       string
}

// Option customises the messages produced by [Wrap].
type Option func(*options)

// Resource names the entity used in NOT_FOUND messages (e.g. "Role").
func Resource(name string) Option {
	return func(o *options) { o.resource = name }
}

// OnConflict sets the message returned for unique violations.
func OnConflict(message string) Option {
	return func(o *options) { o.conflictMessage = message }
}

// Reference names the entity a foreign key points to (e.g. "User").
func Reference(name string) Option {
	return func(o *options) { o.reference = name }
}

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
func Wrap(err error, action string, opts ...Option) error {
	if err == nil {
		return nil
	}

	// Already classified further down the stack.
	if apperr.IsAppError(err) {
		return err
	}

	o := options{resource: "Resource", conflictMessage: "Resource already exists", reference: "Referenced resource"}
	for _, opt := range opts {
		opt(&o)
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(o.resource)
	}

	// 2. Constraint violations reported by the store
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			conflict := apperr.Conflict(o.conflictMessage)
			conflict.Cause = err
			return conflict
		case pgerrcode.ForeignKeyViolation:
			missing := apperr.NotFound(o.reference)
			missing.Cause = err
			return missing
		}
	}

	// 3. Unknown query errors become Internal Server Errors
	return apperr.Internal(fmt.Errorf("%s: %w", action, err))
}

// IsUniqueViolation reports whether err is a unique_violation, optionally on
// one of the named constraints.
func IsUniqueViolation(err error, constraints ...string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		return false
	}
	if len(constraints) == 0 {
		return true
	}
	for _, name := range constraints {
		if pgErr.ConstraintName == name {
			return true
		}
	}
	return false
}
