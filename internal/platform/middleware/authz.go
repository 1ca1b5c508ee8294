// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taibuivan/comunidad/internal/platform/apperr"
	"github.com/taibuivan/comunidad/internal/platform/constants"
	"github.com/taibuivan/comunidad/internal/platform/ctxutil"
	"github.com/taibuivan/comunidad/internal/platform/respond"
	"github.com/taibuivan/comunidad/internal/platform/sec"
)

// # Authentication

// TokenVerifier checks an access token and returns its claims.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

/*
Authenticate resolves the caller from the access token.

Rules:
  - An Authorization header must be "Bearer <token>" and verify, else 401.
  - Without a header the access token cookie is tried. A cookie that fails
    verification is ignored so a stale browser session still sees public pages.
  - With neither the request continues anonymous.

The claims and a logger tagged with user_id are stored in the context.
*/
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			var claims *sec.AuthClaims

			if header := request.Header.Get(constants.HeaderAuthorization); header != "" {
				scheme, token, found := strings.Cut(header, " ")
				if !found || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
					respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
					return
				}

				verified, err := verifier.VerifyToken(strings.TrimSpace(token))
				if err != nil {
					respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
					return
				}
				claims = verified
			} else if cookie, err := request.Cookie(constants.AccessTokenCookieName); err == nil && cookie.Value != "" {
				if verified, err := verifier.VerifyToken(cookie.Value); err == nil {
					claims = verified
				}
			}

			if claims == nil {
				next.ServeHTTP(writer, request)
				return
			}

			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			ctx = ctxutil.WithLogger(ctx, ctxutil.GetLogger(ctx).With(slog.String("user_id", claims.UserID)))
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth rejects anonymous callers with 401. Mount it after [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if GetUser(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// GetUser returns the caller's claims, or nil when anonymous.
func GetUser(ctx context.Context) *sec.AuthClaims {
	return ctxutil.GetAuthUser(ctx)
}
