// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package middleware holds the HTTP decorators shared by every route.

The chain built in the api package runs, outermost first:

	RequestID → AccessLog → SecureHeaders → metrics → timeout →
	RateLimit → Recover → CORS → Authenticate

Role based authorization is not here. It needs the role store and lives in
the access package.
*/
package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/taibuivan/comunidad/internal/platform/constants"
)

// RealIP returns the client address, preferring the proxy headers set by
// the ingress over the socket peer.
func RealIP(request *http.Request) string {
	if ip := strings.TrimSpace(request.Header.Get(constants.HeaderXRealIP)); ip != "" {
		return ip
	}

	if forwarded := request.Header.Get(constants.HeaderXForwardedFor); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}

	host, _, err := net.SplitHostPort(request.RemoteAddr)
	if err != nil {
		return request.RemoteAddr
	}
	return host
}
