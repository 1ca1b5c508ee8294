// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/comunidad/internal/platform/apperr"
	"github.com/taibuivan/comunidad/internal/platform/dberr"
)

/*
TestWrap_Classification verifies that store errors are mapped onto the API taxonomy.
*/
func TestWrap_Classification(t *testing.T) {
	unique := &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "roles_name_key"}
	foreign := &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}

	tests := []struct {
		name   string
		err    error
		opts   []dberr.Option
		code   string
		status int
		msg    string
	}{
		{"no_rows", pgx.ErrNoRows, []dberr.Option{dberr.Resource("Role")}, apperr.CodeNotFound, http.StatusNotFound, "Role not found"},
		{"unique", unique, []dberr.Option{dberr.OnConflict("Role name already exists")}, apperr.CodeConflict, http.StatusConflict, "Role name already exists"},
		{"foreign_key", foreign, []dberr.Option{dberr.Reference("User")}, apperr.CodeNotFound, http.StatusNotFound, "User not found"},
		{"unknown", errors.New("connection reset"), nil, apperr.CodeInternal, http.StatusInternalServerError, "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := dberr.Wrap(tt.err, "test_action", tt.opts...)
			ae := apperr.As(wrapped)
			require.NotNil(t, ae)
			assert.Equal(t, tt.code, ae.Code)
			assert.Equal(t, tt.status, ae.HTTPStatus)
			assert.Equal(t, tt.msg, ae.Message)
		})
	}
}

/*
TestWrap_PassThrough ensures nil and already-classified errors are left alone.
*/
func TestWrap_PassThrough(t *testing.T) {
	assert.NoError(t, dberr.Wrap(nil, "noop"))

	forbidden := apperr.Forbidden("nope")
	assert.Same(t, forbidden, apperr.As(dberr.Wrap(forbidden, "noop")))
}

/*
TestIsUniqueViolation checks constraint-specific detection.
*/
func TestIsUniqueViolation(t *testing.T) {
	err := &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "posts_slug_key"}

	assert.True(t, dberr.IsUniqueViolation(err))
	assert.True(t, dberr.IsUniqueViolation(err, "posts_slug_key"))
	assert.False(t, dberr.IsUniqueViolation(err, "posts_title_key"))
	assert.False(t, dberr.IsUniqueViolation(errors.New("plain")))
}
