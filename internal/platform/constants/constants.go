// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package constants holds the fixed values shared across packages: server
// timing, rate limits, cookie names, Redis key prefixes and header names.
// Deployment specific values belong in config instead.
package constants

import "time"

// AppName tags log lines, database sessions and Redis connections.
const AppName = "comunidad-api"

// # Server Timing

const (
	DefaultReadTimeout       = 5 * time.Second
	DefaultWriteTimeout      = 10 * time.Second
	DefaultIdleTimeout       = 120 * time.Second
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout bounds a request end to end and doubles as the
	// Postgres statement_timeout.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long in-flight requests may drain on SIGTERM.
	ShutdownTimeout = 30 * time.Second

	// StartupTimeout bounds connecting to Postgres, Redis and S3 at boot.
	StartupTimeout = 30 * time.Second

	// SessionPurgeInterval is how often expired refresh sessions are deleted.
	SessionPurgeInterval = time.Hour
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS and DefaultRateLimitBurst size the per-IP bucket
	// applied to every request.
	DefaultRateLimitRPS   = 100.0
	DefaultRateLimitBurst = 150

	RateLimitCleanupInterval = time.Minute
	RateLimitClientTTL       = 3 * time.Minute

	// ContactFormRequests messages per IP per ContactFormWindow.
	ContactFormRequests = 5
	ContactFormWindow   = 10 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is the JWT "iss" claim.
	AuthIssuer = "comunidad.org"

	AccessTokenCookieName  = "access_token"
	RefreshTokenCookieName = "refresh_token"

	// RefreshTokenCookiePath scopes the refresh cookie to the auth routes.
	RefreshTokenCookiePath = "/api/v1/auth"
)

// # Redis Keys

const (
	RedisPrefixResetToken  = "auth:reset_token:"
	RedisPrefixVerifyToken = "auth:verify_token:"
	RedisPrefixUserRoles   = "rbac:user_roles:"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderAuthorization = "Authorization"
)
