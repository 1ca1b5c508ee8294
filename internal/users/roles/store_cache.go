// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package roles

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/comunidad/internal/access"
	"github.com/taibuivan/comunidad/internal/platform/constants"
	"github.com/taibuivan/comunidad/internal/platform/metrics"
)

// # Role Cache

// scanBatch is the COUNT hint used while sweeping cached entries.
const scanBatch = 200

// CachedLookup serves resolved role sets from Redis and falls back to the store.
//
// Redis being unavailable never grants or denies anything by itself: a cache
// error degrades to a direct store lookup.
type CachedLookup struct {
	source  access.RoleLookup
	client  *redis.Client
	ttl     time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewCachedLookup wraps source with a Redis cache. metrics may be nil.
func NewCachedLookup(source access.RoleLookup, client *redis.Client, ttl time.Duration, logger *slog.Logger, collector *metrics.Metrics) *CachedLookup {
	return &CachedLookup{source: source, client: client, ttl: ttl, logger: logger, metrics: collector}
}

func userRolesKey(userID string) string {
	return constants.RedisPrefixUserRoles + userID
}

/*
RolesForUser implements [access.RoleLookup].

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - access.RoleSet: Roles in store order (an empty set is cached too)
  - error: Store failures only
*/
func (cache *CachedLookup) RolesForUser(context context.Context, userID string) (access.RoleSet, error) {
	key := userRolesKey(userID)

	// ── 1. Cache Read ─────────────────────────────────────────────────────────
	raw, err := cache.client.Get(context, key).Bytes()
	switch {
	case err == nil:
		var roles access.RoleSet
		if decodeErr := json.Unmarshal(raw, &roles); decodeErr == nil {
			cache.metrics.ObserveRoleCache("hit")
			return roles, nil
		}
		cache.logger.Warn("role_cache_corrupt_entry", slog.String("user_id", userID))
	case errors.Is(err, redis.Nil):
		cache.metrics.ObserveRoleCache("miss")
	default:
		cache.metrics.ObserveRoleCache("error")
		cache.logger.Warn("role_cache_read_failed", slog.String("user_id", userID), slog.Any("error", err))
	}

	// ── 2. Store Lookup ───────────────────────────────────────────────────────
	roles, err := cache.source.RolesForUser(context, userID)
	if err != nil {
		return nil, err
	}

	// ── 3. Cache Fill ─────────────────────────────────────────────────────────
	payload, err := json.Marshal(roles)
	if err == nil {
		err = cache.client.Set(context, key, payload, cache.ttl).Err()
	}
	if err != nil {
		cache.logger.Warn("role_cache_write_failed", slog.String("user_id", userID), slog.Any("error", err))
	}

	return roles, nil
}

// Invalidate drops one user's cached roles.
func (cache *CachedLookup) Invalidate(context context.Context, userID string) error {
	if err := cache.client.Del(context, userRolesKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis_role_cache_invalidate_failed: %w", err)
	}
	return nil
}

// InvalidateAll drops every cached role set. Used when a role definition
// changes, since its display fields are embedded in each cached entry.
// Keys are collected before deleting so the scan cursor never shifts.
func (cache *CachedLookup) InvalidateAll(context context.Context) error {
	iterator := cache.client.Scan(context, 0, constants.RedisPrefixUserRoles+"*", scanBatch).Iterator()

	var keys []string
	for iterator.Next(context) {
		keys = append(keys, iterator.Val())
	}
	if err := iterator.Err(); err != nil {
		return fmt.Errorf("redis_role_cache_scan_failed: %w", err)
	}

	for start := 0; start < len(keys); start += scanBatch {
		end := min(start+scanBatch, len(keys))
		if err := cache.client.Del(context, keys[start:end]...).Err(); err != nil {
			return fmt.Errorf("redis_role_cache_flush_failed: %w", err)
		}
	}
	return nil
}
