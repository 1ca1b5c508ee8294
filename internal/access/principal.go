// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access

import (
	"context"

	"github.com/taibuivan/comunidad/internal/platform/ctxkey"
)

// Principal is the caller of a request with its roles resolved.
// A nil *Principal is an anonymous visitor.
type Principal struct {
	UserID string
	Email  string
	Roles  RoleSet
}

// IsAuthenticated reports whether the principal carries a session.
func (principal *Principal) IsAuthenticated() bool {
	return principal != nil && principal.UserID != ""
}

// RoleSet returns the caller's roles, empty for anonymous visitors.
func (principal *Principal) RoleSet() RoleSet {
	if principal == nil {
		return nil
	}
	return principal.Roles
}

// WithPrincipal stores the resolved caller in the context.
func WithPrincipal(ctx context.Context, principal *Principal) context.Context {
	return context.WithValue(ctx, ctxkey.KeyPrincipal, principal)
}

// PrincipalFrom returns the resolved caller, or nil when none was resolved.
func PrincipalFrom(ctx context.Context) *Principal {
	principal, _ := ctx.Value(ctxkey.KeyPrincipal).(*Principal)
	return principal
}
