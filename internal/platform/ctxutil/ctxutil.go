// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil stores and reads the per-request values set by the
// middleware chain.
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/comunidad/internal/platform/ctxkey"
	"github.com/taibuivan/comunidad/internal/platform/sec"
)

func value[T any](ctx context.Context, key any) (T, bool) {
	found, ok := ctx.Value(key).(T)
	return found, ok
}

// WithRequestID attaches the correlation id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID returns the correlation id, or "".
func GetRequestID(ctx context.Context) string {
	id, _ := value[string](ctx, ctxkey.KeyRequestID)
	return id
}

// WithLogger attaches a request scoped logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger returns the request logger, falling back to [slog.Default].
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := value[*slog.Logger](ctx, ctxkey.KeyLogger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// WithAuthUser attaches verified token claims.
func WithAuthUser(ctx context.Context, claims *sec.AuthClaims) context.Context {
	return context.WithValue(ctx, ctxkey.KeyUser, claims)
}

// GetAuthUser returns the caller's claims, or nil when anonymous.
func GetAuthUser(ctx context.Context) *sec.AuthClaims {
	claims, _ := value[*sec.AuthClaims](ctx, ctxkey.KeyUser)
	return claims
}
