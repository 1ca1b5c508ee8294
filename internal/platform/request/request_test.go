// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package requestutil_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/comunidad/internal/platform/apperr"
	"github.com/taibuivan/comunidad/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/comunidad/internal/platform/request"
	"github.com/taibuivan/comunidad/internal/platform/sec"
	"github.com/taibuivan/comunidad/internal/platform/validate"
)

type payload struct {
	Title string `json:"title"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
		code string
	}{
		{name: "valid", body: `{"title":"Retiro de jóvenes"}`},
		{name: "malformed", body: `{"title":`, want: validate.ErrInvalidJSON},
		{name: "trailing_document", body: `{"title":"a"}{"title":"b"}`, want: validate.ErrInvalidJSON},
		{name: "too_large", body: `{"title":"` + strings.Repeat("a", requestutil.MaxBodyBytes) + `"}`, code: apperr.CodeUnprocessable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))

			var target payload
			err := requestutil.DecodeJSON(request, &target)

			switch {
			case tt.want != nil:
				assert.ErrorIs(t, err, tt.want)
			case tt.code != "":
				assert.True(t, apperr.HasCode(err, tt.code))
			default:
				require.NoError(t, err)
				assert.Equal(t, "Retiro de jóvenes", target.Title)
			}
		})
	}
}

func TestRequiredUserID(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)

	_, err := requestutil.RequiredUserID(request)
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))

	request = request.WithContext(ctxutil.WithAuthUser(request.Context(), &sec.AuthClaims{UserID: "u-7"}))
	userID, err := requestutil.RequiredUserID(request)
	require.NoError(t, err)
	assert.Equal(t, "u-7", userID)
}
