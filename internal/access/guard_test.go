// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/comunidad/internal/access"
	"github.com/taibuivan/comunidad/internal/platform/apperr"
	"github.com/taibuivan/comunidad/internal/platform/ctxutil"
	"github.com/taibuivan/comunidad/internal/platform/metrics"
	"github.com/taibuivan/comunidad/internal/platform/sec"
)

// # Stubs

type stubLookup struct {
	roles map[string]access.RoleSet
	err   error
	calls int
}

func (lookup *stubLookup) RolesForUser(_ context.Context, userID string) (access.RoleSet, error) {
	lookup.calls++
	if lookup.err != nil {
		return nil, lookup.err
	}
	return lookup.roles[userID], nil
}

// withSession injects claims the way middleware.Authenticate does.
func withSession(userID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if userID != "" {
				request = request.WithContext(ctxutil.WithAuthUser(request.Context(), &sec.AuthClaims{UserID: userID}))
			}
			next.ServeHTTP(writer, request)
		})
	}
}

func newGuardedRouter(guard *access.Guard, userID string, mutated *int) chi.Router {
	router := chi.NewRouter()
	router.Use(withSession(userID))
	router.Route("/admin", func(admin chi.Router) {
		admin.Use(guard.Require(access.ActionAdminPanel))
		admin.With(guard.Require(access.ActionPostsWrite)).Post("/posts", func(writer http.ResponseWriter, _ *http.Request) {
			*mutated++
			writer.WriteHeader(http.StatusCreated)
		})
		admin.With(guard.Require(access.ActionPostsDelete)).Delete("/posts/1", func(writer http.ResponseWriter, _ *http.Request) {
			*mutated++
			writer.WriteHeader(http.StatusNoContent)
		})
	})
	return router
}

/*
TestGuard_Require distinguishes anonymous, forbidden and allowed callers.
*/
func TestGuard_Require(t *testing.T) {
	lookup := &stubLookup{roles: map[string]access.RoleSet{
		"admin-user":   set(access.RoleAdmin),
		"pastor-user":  set(access.RolePastor),
		"celula-user":  set(access.RoleCelula),
		"member-user":  set(access.RoleUsuario),
		"no-role-user": set(),
	}}

	tests := []struct {
		name   string
		userID string
		method string
		status int
		code   string
	}{
		{"anonymous_create", "", http.MethodPost, http.StatusUnauthorized, apperr.CodeUnauthorized},
		{"member_blocked_at_panel", "member-user", http.MethodPost, http.StatusForbidden, apperr.CodeForbidden},
		{"no_roles_blocked_at_panel", "no-role-user", http.MethodPost, http.StatusForbidden, apperr.CodeForbidden},
		{"celula_in_panel_but_not_writer", "celula-user", http.MethodPost, http.StatusForbidden, apperr.CodeForbidden},
		{"pastor_creates", "pastor-user", http.MethodPost, http.StatusCreated, ""},
		{"pastor_cannot_delete", "pastor-user", http.MethodDelete, http.StatusForbidden, apperr.CodeForbidden},
		{"admin_deletes", "admin-user", http.MethodDelete, http.StatusNoContent, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mutated := 0
			router := newGuardedRouter(access.NewGuard(lookup, nil), tt.userID, &mutated)

			path := "/admin/posts"
			if tt.method == http.MethodDelete {
				path = "/admin/posts/1"
			}

			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, httptest.NewRequest(tt.method, path, nil))

			assert.Equal(t, tt.status, recorder.Code)
			if tt.code != "" {
				assert.Contains(t, recorder.Body.String(), tt.code)
				assert.Zero(t, mutated, "no mutation may run after a denial")
			} else {
				assert.Equal(t, 1, mutated)
			}
		})
	}
}

/*
TestGuard_AnonymousSkipsLookup ensures unauthenticated calls never reach the role store.
*/
func TestGuard_AnonymousSkipsLookup(t *testing.T) {
	lookup := &stubLookup{}
	mutated := 0
	router := newGuardedRouter(access.NewGuard(lookup, nil), "", &mutated)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/admin/posts", nil))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Zero(t, lookup.calls)
}

/*
TestGuard_ResolvesRolesOncePerRequest checks the principal is reused by nested guards.
*/
func TestGuard_ResolvesRolesOncePerRequest(t *testing.T) {
	lookup := &stubLookup{roles: map[string]access.RoleSet{"admin-user": set(access.RoleAdmin)}}
	mutated := 0
	router := newGuardedRouter(access.NewGuard(lookup, nil), "admin-user", &mutated)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/admin/posts", nil))

	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.Equal(t, 1, lookup.calls)
}

/*
TestGuard_LookupFailure surfaces a store failure as a generic internal error.
*/
func TestGuard_LookupFailure(t *testing.T) {
	lookup := &stubLookup{err: apperr.Internal(errors.New("connection refused"))}
	mutated := 0
	router := newGuardedRouter(access.NewGuard(lookup, nil), "admin-user", &mutated)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/admin/posts", nil))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "connection refused")
	assert.Zero(t, mutated)
}

/*
TestGuard_RecordsDecisions verifies the authz decision counter.
*/
func TestGuard_RecordsDecisions(t *testing.T) {
	collector := metrics.New()
	lookup := &stubLookup{roles: map[string]access.RoleSet{"member-user": set(access.RoleUsuario)}}
	mutated := 0
	router := newGuardedRouter(access.NewGuard(lookup, collector), "member-user", &mutated)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/admin/posts", nil))

	require.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.Decisions().WithLabelValues(string(access.ActionAdminPanel), metrics.OutcomeForbidden)))
}

/*
TestGuard_Resolve leaves anonymous requests untouched and resolves members.
*/
func TestGuard_Resolve(t *testing.T) {
	lookup := &stubLookup{roles: map[string]access.RoleSet{"member-user": set(access.RoleUsuario)}}
	guard := access.NewGuard(lookup, nil)

	var seen *access.Principal
	handler := guard.Resolve(http.HandlerFunc(func(_ http.ResponseWriter, request *http.Request) {
		seen = access.PrincipalFrom(request.Context())
	}))

	withSession("")(handler).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Nil(t, seen)
	assert.Zero(t, lookup.calls)

	withSession("member-user")(handler).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotNil(t, seen)
	assert.True(t, seen.Roles.IsUsuario())
}

/*
TestAuthorize_ActionTable pins the rule for each guarded action.
*/
func TestAuthorize_ActionTable(t *testing.T) {
	tests := []struct {
		action access.Action
		allow  []string
		deny   []string
	}{
		{access.ActionRolesManage, []string{access.RoleAdmin}, []string{access.RolePastor, access.RoleLider}},
		{access.ActionRolesAssign, []string{access.RoleAdmin}, []string{access.RolePastor}},
		{access.ActionCategoriesManage, []string{access.RoleAdmin}, []string{access.RoleLider}},
		{access.ActionDelegationsManage, []string{access.RoleAdmin}, []string{access.RolePastor}},
		{access.ActionFilesManage, []string{access.RoleAdmin}, []string{access.RolePastor}},
		{access.ActionEventsManage, []string{access.RoleAdmin}, []string{access.RoleLider}},
		{access.ActionPostsWrite, []string{access.RoleAdmin, access.RolePastor, access.RoleLider}, []string{access.RoleCelula, access.RoleCurso}},
		{access.ActionPostsDelete, []string{access.RoleAdmin}, []string{access.RolePastor, access.RoleLider}},
		{access.ActionContactRead, []string{access.RolePastor}, []string{access.RoleCurso}},
		{access.ActionAdminPanel, []string{access.RoleCurso, access.RoleCelula}, []string{access.RoleUsuario}},
	}

	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			for _, name := range tt.allow {
				assert.NoError(t, access.Authorize(member(name), tt.action), name)
			}
			for _, name := range tt.deny {
				assert.True(t, apperr.HasCode(access.Authorize(member(name), tt.action), apperr.CodeForbidden), name)
			}
			assert.True(t, apperr.HasCode(access.Authorize(nil, tt.action), apperr.CodeUnauthorized))
		})
	}

	assert.False(t, access.Allowed("unknown.action", set(access.RoleAdmin)))
}
