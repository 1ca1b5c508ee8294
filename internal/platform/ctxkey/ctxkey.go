// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxkey declares the context keys shared across packages. The key
// type is unexported so no other package can forge or collide with them.
package ctxkey

type key uint8

const (
	// KeyRequestID holds the X-Request-ID string.
	KeyRequestID key = iota + 1
	// KeyLogger holds the request scoped *slog.Logger.
	KeyLogger
	// KeyUser holds the verified *sec.AuthClaims.
	KeyUser
	// KeyPrincipal holds the *access.Principal with resolved roles.
	KeyPrincipal
)
