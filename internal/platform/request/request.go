// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package requestutil reads path parameters, JSON bodies and the caller's
// identity from an incoming request.
package requestutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/comunidad/internal/platform/apperr"
	"github.com/taibuivan/comunidad/internal/platform/ctxutil"
	"github.com/taibuivan/comunidad/internal/platform/validate"
)

// MaxBodyBytes caps a JSON request body. Blog posts are the largest payload.
const MaxBodyBytes = 1 << 20

/*
DecodeJSON decodes the body into target.

Returns:
  - error: [validate.ErrInvalidJSON] for malformed or trailing input,
    UNPROCESSABLE when the body exceeds [MaxBodyBytes]
*/
func DecodeJSON(request *http.Request, target any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(nil, request.Body, MaxBodyBytes))

	var tooLarge *http.MaxBytesError
	if err := decoder.Decode(target); err != nil {
		if errors.As(err, &tooLarge) {
			return apperr.Unprocessable("Request body is too large")
		}
		return validate.ErrInvalidJSON
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		if errors.As(err, &tooLarge) {
			return apperr.Unprocessable("Request body is too large")
		}
		return validate.ErrInvalidJSON
	}
	return nil
}

// ID returns a path parameter holding a resource identifier.
func ID(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

// Param returns any named path parameter.
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

// RequiredUserID returns the caller's user id, or UNAUTHORIZED when anonymous.
func RequiredUserID(request *http.Request) (string, error) {
	claims := ctxutil.GetAuthUser(request.Context())
	if claims == nil {
		return "", apperr.Unauthorized("Authentication required")
	}
	return claims.UserID, nil
}
