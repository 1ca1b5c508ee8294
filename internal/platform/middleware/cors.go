// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/taibuivan/comunidad/internal/platform/constants"
)

// # Cross-Origin Resource Sharing

// OriginPolicy decides which browser origins may call the API.
type OriginPolicy interface {
	// AllowAnyOrigin is true in development.
	AllowAnyOrigin() bool
	// TrustedOrigins lists exact origins ("https://comunidad.org") or
	// wildcard subdomains ("https://*.comunidad.org").
	TrustedOrigins() []string
}

const (
	corsAllowMethods  = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
	corsAllowHeaders  = "Accept, Content-Type, Content-Length, Authorization, X-Request-ID"
	corsExposeHeaders = "Content-Length, X-Request-ID, Retry-After"
	corsMaxAge        = "600"
)

// CORS echoes trusted origins with credentials allowed and answers
// preflight requests with 204.
func CORS(policy OriginPolicy) func(http.Handler) http.Handler {
	trusted := policy.TrustedOrigins()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			origin := request.Header.Get(constants.HeaderOrigin)
			if origin == "" {
				next.ServeHTTP(writer, request)
				return
			}

			header := writer.Header()
			header.Add("Vary", constants.HeaderOrigin)

			if policy.AllowAnyOrigin() || originTrusted(origin, trusted) {
				header.Set("Access-Control-Allow-Origin", origin)
				header.Set("Access-Control-Allow-Methods", corsAllowMethods)
				header.Set("Access-Control-Allow-Headers", corsAllowHeaders)
				header.Set("Access-Control-Expose-Headers", corsExposeHeaders)
				header.Set("Access-Control-Allow-Credentials", "true")
				header.Set("Access-Control-Max-Age", corsMaxAge)
			}

			if request.Method == http.MethodOptions && request.Header.Get("Access-Control-Request-Method") != "" {
				writer.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// originTrusted matches origin by scheme and host. A "*." entry matches
// any subdomain but not the bare domain or look-alikes such as
// "evilcomunidad.org".
func originTrusted(origin string, trusted []string) bool {
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return false
	}
	host := strings.ToLower(parsed.Host)

	for _, entry := range trusted {
		allowed, err := url.Parse(strings.TrimSpace(entry))
		if err != nil || allowed.Scheme != parsed.Scheme {
			continue
		}

		pattern := strings.ToLower(allowed.Host)
		if suffix, wildcard := strings.CutPrefix(pattern, "*."); wildcard {
			if strings.HasSuffix(host, "."+suffix) {
				return true
			}
			continue
		}
		if host == pattern {
			return true
		}
	}
	return false
}
