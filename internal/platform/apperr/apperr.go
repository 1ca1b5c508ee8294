// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr is the error type services return to handlers.

An [AppError] carries the HTTP status, a stable machine code and a message
that is safe to show. The wrapped Cause is for logs only.

	NOT_FOUND            404  missing, or hidden from the caller
	UNAUTHORIZED         401  no valid session
	FORBIDDEN            403  signed in but lacking the action
	SYSTEM_PROTECTED     403  seeded records no one may remove
	CONFLICT             409  unique constraint, stale state
	VALIDATION_ERROR     400  field errors in Details
	UNPROCESSABLE        422  well formed but unusable input
	RATE_LIMITED         429  RetryAfter seconds
	SERVICE_UNAVAILABLE  503  optional backend not configured
	INTERNAL_ERROR       500  everything else
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is a client-facing failure.
type AppError struct {
	Code       string       `json:"code"`
	Message    string       `json:"error"`
	HTTPStatus int          `json:"-"`
	Cause      error        `json:"-"`
	Details    []FieldError `json:"details,omitempty"`
	RetryAfter int          `json:"-"`
}

// FieldError is one failed field of a VALIDATION_ERROR.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string { return e.Message }

func (e *AppError) Unwrap() error { return e.Cause }

// # Codes

const (
	CodeNotFound        = "NOT_FOUND"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeForbidden       = "FORBIDDEN"
	CodeConflict        = "CONFLICT"
	CodeValidation      = "VALIDATION_ERROR"
	CodeSystemProtected = "SYSTEM_PROTECTED"
	CodeRateLimited     = "RATE_LIMITED"
	CodeUnprocessable   = "UNPROCESSABLE"
	CodeInternal        = "INTERNAL_ERROR"
	CodeUnavailable     = "SERVICE_UNAVAILABLE"
)

// # Constructors

func newError(status int, code, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

// NotFound reports "<resource> not found".
func NotFound(resource string) *AppError {
	return newError(http.StatusNotFound, CodeNotFound, resource+" not found")
}

func Unauthorized(msg string) *AppError {
	return newError(http.StatusUnauthorized, CodeUnauthorized, msg)
}

func Forbidden(msg string) *AppError {
	return newError(http.StatusForbidden, CodeForbidden, msg)
}

// SystemProtected refuses changes to seeded records, whatever the caller's roles.
func SystemProtected(msg string) *AppError {
	return newError(http.StatusForbidden, CodeSystemProtected, msg)
}

func Conflict(msg string) *AppError {
	return newError(http.StatusConflict, CodeConflict, msg)
}

// ValidationError carries one entry per failed field.
func ValidationError(msg string, details ...FieldError) *AppError {
	appErr := newError(http.StatusBadRequest, CodeValidation, msg)
	appErr.Details = details
	return appErr
}

// RateLimited asks the client to retry after the given number of seconds.
func RateLimited(retryAfterSeconds int) *AppError {
	appErr := newError(http.StatusTooManyRequests, CodeRateLimited,
		fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds))
	appErr.RetryAfter = retryAfterSeconds
	return appErr
}

func Unprocessable(msg string) *AppError {
	return newError(http.StatusUnprocessableEntity, CodeUnprocessable, msg)
}

// Internal hides cause behind a generic message.
func Internal(cause error) *AppError {
	appErr := newError(http.StatusInternalServerError, CodeInternal, "An unexpected error occurred")
	appErr.Cause = cause
	return appErr
}

// ServiceUnavailable reports a backend that is down or not configured.
func ServiceUnavailable(msg string) *AppError {
	return newError(http.StatusServiceUnavailable, CodeUnavailable, msg)
}

// # Inspection

// As returns the first [*AppError] in err's chain, or nil.
func As(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsAppError reports whether err's chain holds an [*AppError].
func IsAppError(err error) bool {
	return As(err) != nil
}

// HasCode reports whether err's chain holds an [*AppError] with code.
func HasCode(err error, code string) bool {
	appErr := As(err)
	return appErr != nil && appErr.Code == code
}
