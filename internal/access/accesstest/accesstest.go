// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package accesstest provides role fixtures and a fake session layer for
// handler tests.
package accesstest

import (
	"context"
	"net/http"

	"github.com/taibuivan/comunidad/internal/access"
	"github.com/taibuivan/comunidad/internal/platform/ctxutil"
	"github.com/taibuivan/comunidad/internal/platform/sec"
)

// HeaderUser carries the user id the [Session] middleware authenticates.
const HeaderUser = "X-Test-User"

// roleIDs mirrors the ids seeded by the initial migration.
var roleIDs = map[string]string{
	access.RoleAdmin:   "01900000-0000-7000-8000-000000000001",
	access.RolePastor:  "01900000-0000-7000-8000-000000000002",
	access.RoleLider:   "01900000-0000-7000-8000-000000000003",
	access.RoleCelula:  "01900000-0000-7000-8000-000000000004",
	access.RoleCurso:   "01900000-0000-7000-8000-000000000005",
	access.RoleUsuario: "01900000-0000-7000-8000-000000000006",
}

// RoleID returns the seeded id of a system role, or "" for other names.
func RoleID(name string) string {
	return roleIDs[name]
}

// Set builds a role set of system roles in the given order.
func Set(names ...string) access.RoleSet {
	set := make(access.RoleSet, 0, len(names))
	for _, name := range names {
		set = append(set, access.Role{ID: roleIDs[name], Name: name, DisplayName: name, IsSystem: true})
	}
	return set
}

// Principal builds an authenticated caller holding the named roles.
func Principal(userID string, names ...string) *access.Principal {
	return &access.Principal{UserID: userID, Roles: Set(names...)}
}

// Lookup is an in-memory [access.RoleLookup] keyed by user id.
type Lookup map[string]access.RoleSet

// RolesForUser returns the user's roles; unknown users hold none.
func (lookup Lookup) RolesForUser(_ context.Context, userID string) (access.RoleSet, error) {
	return lookup[userID], nil
}

// Session authenticates requests carrying [HeaderUser], standing in for the
// JWT middleware.
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if userID := request.Header.Get(HeaderUser); userID != "" {
			request = request.WithContext(ctxutil.WithAuthUser(request.Context(), &sec.AuthClaims{UserID: userID}))
		}
		next.ServeHTTP(writer, request)
	})
}
