// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package roles_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/comunidad/internal/access"
	"github.com/taibuivan/comunidad/internal/platform/constants"
	"github.com/taibuivan/comunidad/internal/platform/metrics"
	"github.com/taibuivan/comunidad/internal/users/roles"
)

// countingLookup counts store round trips.
type countingLookup struct {
	inner access.RoleLookup
	calls int
}

func (lookup *countingLookup) RolesForUser(context context.Context, userID string) (access.RoleSet, error) {
	lookup.calls++
	return lookup.inner.RolesForUser(context, userID)
}

func newCache(t *testing.T) (*roles.CachedLookup, *countingLookup, *memRepo, *miniredis.Miniredis, *metrics.Metrics) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := newMemRepo()
	repo.users[memberID] = true
	repo.assignments = append(repo.assignments, roles.Assignment{UserID: memberID, RoleID: repo.roleID(access.RoleCelula)})

	source := &countingLookup{inner: repo}
	collector := metrics.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return roles.NewCachedLookup(source, client, time.Minute, logger, collector), source, repo, server, collector
}

/*
TestCachedLookup_HitAfterMiss serves the second lookup from Redis.
*/
func TestCachedLookup_HitAfterMiss(t *testing.T) {
	cache, source, _, server, _ := newCache(t)
	ctx := context.Background()

	first, err := cache.RolesForUser(ctx, memberID)
	require.NoError(t, err)
	second, err := cache.RolesForUser(ctx, memberID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.True(t, second.IsCelula())
	assert.Equal(t, 1, source.calls)
	assert.True(t, server.Exists(constants.RedisPrefixUserRoles+memberID))
	assert.Equal(t, time.Minute, server.TTL(constants.RedisPrefixUserRoles+memberID))
}

/*
TestCachedLookup_Invalidate forces a fresh read after a grant changes.
*/
func TestCachedLookup_Invalidate(t *testing.T) {
	cache, source, repo, _, _ := newCache(t)
	ctx := context.Background()

	_, err := cache.RolesForUser(ctx, memberID)
	require.NoError(t, err)

	repo.assignments = append(repo.assignments, roles.Assignment{UserID: memberID, RoleID: repo.roleID(access.RoleLider)})
	require.NoError(t, cache.Invalidate(ctx, memberID))

	set, err := cache.RolesForUser(ctx, memberID)
	require.NoError(t, err)
	assert.True(t, set.IsLider())
	assert.Equal(t, 2, source.calls)
}

/*
TestCachedLookup_InvalidateAll sweeps only role entries, across several scan batches.
*/
func TestCachedLookup_InvalidateAll(t *testing.T) {
	cache, _, _, server, _ := newCache(t)

	for i := 0; i < 450; i++ {
		require.NoError(t, server.Set(fmt.Sprintf("%suser-%03d", constants.RedisPrefixUserRoles, i), "[]"))
	}
	require.NoError(t, server.Set("auth:refresh:keep", "1"))

	require.NoError(t, cache.InvalidateAll(context.Background()))

	assert.Equal(t, []string{"auth:refresh:keep"}, server.Keys())
}

/*
TestCachedLookup_RedisDown falls back to the store and counts the error.
*/
func TestCachedLookup_RedisDown(t *testing.T) {
	cache, source, _, server, collector := newCache(t)
	server.Close()

	set, err := cache.RolesForUser(context.Background(), memberID)
	require.NoError(t, err)
	assert.True(t, set.IsCelula())
	assert.Equal(t, 1, source.calls)

	scrape := httptest.NewRecorder()
	collector.Handler().ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, scrape.Body.String(), `comunidad_role_cache_lookups_total{result="error"} 1`)
}
