// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/comunidad/internal/platform/apperr"
	"github.com/taibuivan/comunidad/internal/platform/validate"
)

/*
TestValidator_Rules runs each rule against a passing and failing value.
*/
func TestValidator_Rules(t *testing.T) {
	start := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	before, after := start.Add(-time.Hour), start.Add(time.Hour)

	tests := []struct {
		name  string
		rule  func(v *validate.Validator)
		valid bool
	}{
		{"required", func(v *validate.Validator) { v.Required("name", "Predicaciones") }, true},
		{"required_blank", func(v *validate.Validator) { v.Required("name", "   ") }, false},
		{"max_len_counts_runes", func(v *validate.Validator) { v.MaxLen("name", "Jóvenes", 7) }, true},
		{"max_len", func(v *validate.Validator) { v.MaxLen("name", "Jóvenes!", 7) }, false},
		{"min_len", func(v *validate.Validator) { v.MinLen("password", "corta", 8) }, false},
		{"email", func(v *validate.Validator) { v.Email("email", "ana@comunidad.org") }, true},
		{"email_display_name", func(v *validate.Validator) { v.Email("email", "Ana <ana@comunidad.org>") }, false},
		{"email_no_domain", func(v *validate.Validator) { v.Email("email", "ana@") }, false},
		{"slug", func(v *validate.Validator) { v.Slug("slug", "culto-de-jovenes") }, true},
		{"slug_double_hyphen", func(v *validate.Validator) { v.Slug("slug", "culto--jovenes") }, false},
		{"slug_uppercase", func(v *validate.Validator) { v.Slug("slug", "Culto") }, false},
		{"uuid", func(v *validate.Validator) { v.UUID("role_id", "0192F3A4-5B6C-7D8E-9F01-23456789ABCD") }, true},
		{"uuid_short", func(v *validate.Validator) { v.UUID("role_id", "0192f3a4") }, false},
		{"https_url", func(v *validate.Validator) { v.URL("image_url", "https://cdn.comunidad.org/a.png") }, true},
		{"relative_url", func(v *validate.Validator) { v.URL("image_url", "/a.png") }, false},
		{"ftp_url", func(v *validate.Validator) { v.URL("image_url", "ftp://comunidad.org") }, false},
		{"long_color", func(v *validate.Validator) { v.Color("color", "#1e40af") }, true},
		{"short_color", func(v *validate.Validator) { v.Color("color", "#fff") }, true},
		{"named_color", func(v *validate.Validator) { v.Color("color", "blue") }, false},
		{"one_of", func(v *validate.Validator) { v.OneOf("status", "draft", "draft", "published") }, true},
		{"one_of_other", func(v *validate.Validator) { v.OneOf("status", "archived", "draft", "published") }, false},
		{"zero_time", func(v *validate.Validator) { v.RequiredTime("starts_at", time.Time{}) }, false},
		{"open_end", func(v *validate.Validator) { v.NotBefore("ends_at", nil, start) }, true},
		{"end_after_start", func(v *validate.Validator) { v.NotBefore("ends_at", &after, start) }, true},
		{"end_before_start", func(v *validate.Validator) { v.NotBefore("ends_at", &before, start) }, false},
		{"custom", func(v *validate.Validator) { v.Custom("size_bytes", true, "Too large") }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			tt.rule(v)

			assert.Equal(t, !tt.valid, v.HasErrors())
			if tt.valid {
				assert.NoError(t, v.Err())
			}
		})
	}
}

/*
TestValidator_FirstErrorPerField keeps one message per field and every
failing field.
*/
func TestValidator_FirstErrorPerField(t *testing.T) {
	err := (&validate.Validator{}).
		Required("email", "").
		Email("email", "").
		Required("name", "").
		MinLen("password", "a", 8).
		Err()

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperr.CodeValidation, appErr.Code)
	require.Len(t, appErr.Details, 3)
	assert.Equal(t, apperr.FieldError{Field: "email", Message: "This field is required"}, appErr.Details[0])
	assert.Equal(t, "name", appErr.Details[1].Field)
	assert.Equal(t, "password", appErr.Details[2].Field)
}

func TestInvalid(t *testing.T) {
	appErr := validate.Invalid("status", "Must be one of: draft, published")

	assert.Equal(t, apperr.CodeValidation, appErr.Code)
	assert.Equal(t, "status", appErr.Details[0].Field)
}
