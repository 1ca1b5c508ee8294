// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/taibuivan/comunidad/internal/platform/ctxutil"
	"github.com/taibuivan/comunidad/internal/platform/metrics"
	"github.com/taibuivan/comunidad/internal/platform/respond"
)

// RoleLookup resolves the roles a user holds.
type RoleLookup interface {
	RolesForUser(context context.Context, userID string) (RoleSet, error)
}

// # Admin Action Guard

// Guard turns session claims into a [Principal] and enforces action rules.
type Guard struct {
	lookup  RoleLookup
	metrics *metrics.Metrics
}

// NewGuard constructs a Guard. metrics may be nil.
func NewGuard(lookup RoleLookup, collector *metrics.Metrics) *Guard {
	return &Guard{lookup: lookup, metrics: collector}
}

// Principal returns the resolved caller for the request context, resolving
// and caching it on first use. Anonymous requests yield nil.
func (guard *Guard) Principal(context context.Context) (*Principal, error) {
	if principal := PrincipalFrom(context); principal != nil {
		return principal, nil
	}

	claims := ctxutil.GetAuthUser(context)
	if claims == nil {
		return nil, nil
	}

	roles, err := guard.lookup.RolesForUser(context, claims.UserID)
	if err != nil {
		return nil, err
	}

	return &Principal{UserID: claims.UserID, Email: claims.Email, Roles: roles}, nil
}

// Resolve attaches the caller's [Principal] for routes whose output depends
// on roles but which stay open to anonymous visitors.
func (guard *Guard) Resolve(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		principal, err := guard.Principal(request.Context())
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		if principal == nil {
			next.ServeHTTP(writer, request)
			return
		}
		next.ServeHTTP(writer, request.WithContext(WithPrincipal(request.Context(), principal)))
	})
}

// Require blocks the request unless the caller may perform action.
//
// # Flow
//  1. No session: 401, before any role lookup.
//  2. Resolve roles from the [RoleLookup].
//  3. Rule fails: 403.
//  4. Otherwise continue with the [Principal] in context.
func (guard *Guard) Require(action Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ctx := request.Context()

			// ── 1. Authentication Check ───────────────────────────────────────
			if ctxutil.GetAuthUser(ctx) == nil {
				guard.metrics.ObserveDecision(string(action), metrics.OutcomeUnauthenticated)
				respond.Error(writer, request, Authorize(nil, action))
				return
			}

			// ── 2. Role Resolution ────────────────────────────────────────────
			principal, err := guard.Principal(ctx)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			// ── 3. Authorization Check ────────────────────────────────────────
			if err := Authorize(principal, action); err != nil {
				guard.metrics.ObserveDecision(string(action), metrics.OutcomeForbidden)
				ctxutil.GetLogger(ctx).WarnContext(ctx, "access_denied",
					slog.String("action", string(action)),
					slog.String("user_id", principal.UserID),
					slog.Any("roles", principal.Roles.Names()),
				)
				respond.Error(writer, request, err)
				return
			}

			guard.metrics.ObserveDecision(string(action), metrics.OutcomeAllowed)
			next.ServeHTTP(writer, request.WithContext(WithPrincipal(ctx, principal)))
		})
	}
}
