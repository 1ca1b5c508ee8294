// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package validate collects field errors in services and returns them as one
VALIDATION_ERROR.

	validator := &validate.Validator{}
	validator.Required("title", title).MaxLen("title", title, 200)
	if err := validator.Err(); err != nil {
		return err
	}

Only the first failure per field is kept, so an empty email reports
"required" and not also "invalid format".
*/
package validate

import (
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/taibuivan/comunidad/internal/platform/apperr"
	"github.com/taibuivan/comunidad/pkg/slug"
	"github.com/taibuivan/comunidad/pkg/uuid"
)

var colorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ErrInvalidJSON is returned when a request body cannot be decoded.
var ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")

// Validator accumulates field errors. Use one per operation.
type Validator struct {
	errs []apperr.FieldError
}

func (v *Validator) failed(field string) bool {
	return slices.ContainsFunc(v.errs, func(e apperr.FieldError) bool { return e.Field == field })
}

func (v *Validator) check(field string, ok bool, message string) *Validator {
	if !ok && !v.failed(field) {
		v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
	}
	return v
}

// Required rejects blank values.
func (v *Validator) Required(field, value string) *Validator {
	return v.check(field, strings.TrimSpace(value) != "", "This field is required")
}

// MaxLen caps the length in characters.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	return v.check(field, utf8.RuneCountInString(value) <= max, fmt.Sprintf("Maximum %d characters", max))
}

// MinLen sets a minimum length in characters.
func (v *Validator) MinLen(field, value string, min int) *Validator {
	return v.check(field, utf8.RuneCountInString(value) >= min, fmt.Sprintf("Minimum %d characters", min))
}

// Email accepts a bare address such as "ana@comunidad.org". Display-name
// forms are rejected.
func (v *Validator) Email(field, value string) *Validator {
	parsed, err := mail.ParseAddress(value)
	return v.check(field, err == nil && parsed.Address == value, "Must be a valid email address")
}

// Slug accepts lowercase ASCII words joined by single hyphens.
func (v *Validator) Slug(field, value string) *Validator {
	return v.check(field, value != "" && slug.From(value) == value,
		"Must be a valid URL slug (lowercase letters, digits, hyphens only)")
}

// UUID accepts a canonical UUID.
func (v *Validator) UUID(field, value string) *Validator {
	return v.check(field, uuid.IsValid(value), "Must be a valid UUID")
}

// URL accepts an absolute http or https URL.
func (v *Validator) URL(field, value string) *Validator {
	parsed, err := url.ParseRequestURI(value)
	ok := err == nil && (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
	return v.check(field, ok, "Must be a valid http(s) URL")
}

// Color accepts #RGB or #RRGGBB.
func (v *Validator) Color(field, value string) *Validator {
	return v.check(field, colorPattern.MatchString(value), "Must be a hex color (e.g. #1e40af)")
}

// RequiredTime rejects the zero time.
func (v *Validator) RequiredTime(field string, value time.Time) *Validator {
	return v.check(field, !value.IsZero(), "This field is required")
}

// NotBefore rejects an end earlier than start. A nil end passes.
func (v *Validator) NotBefore(field string, end *time.Time, start time.Time) *Validator {
	return v.check(field, end == nil || !end.Before(start), "Must not be earlier than the start")
}

// OneOf restricts value to allowed.
func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	return v.check(field, slices.Contains(allowed, value), "Must be one of: "+strings.Join(allowed, ", "))
}

// Custom records message when failed is true.
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	return v.check(field, !failed, message)
}

// HasErrors reports whether any rule failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

// Err returns the collected failures as VALIDATION_ERROR, or nil.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.errs...)
}

// Invalid builds a VALIDATION_ERROR for a single field.
func Invalid(field, message string) *apperr.AppError {
	return apperr.ValidationError("Validation failed", apperr.FieldError{Field: field, Message: message})
}
