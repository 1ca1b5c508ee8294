// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"log/slog"
	"net/http"

	"github.com/unrolled/secure"

	"github.com/taibuivan/comunidad/internal/platform/ctxutil"
)

// # Security Headers

// SecureHeaders sets the standard browser hardening headers on every response.
// HTTPS redirection and HSTS are only enforced in production.
func SecureHeaders(isProduction bool) func(http.Handler) http.Handler {
	secureMiddleware := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
		SSLRedirect:           isProduction,
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
		STSSeconds:            31536000,
		STSIncludeSubdomains:  true,
		IsDevelopment:         !isProduction,
	})

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if err := secureMiddleware.Process(writer, request); err != nil {
				ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "secure_headers_blocked",
					slog.String("error", err.Error()),
				)
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}
