// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/comunidad/internal/platform/apperr"
	"github.com/taibuivan/comunidad/internal/platform/constants"
	"github.com/taibuivan/comunidad/internal/platform/sec"
)

// RedisTokenRepository implements [TokenRepository] with one expiring key per
// token. Keys hold the SHA-256 of the token, never the token itself.
type RedisTokenRepository struct {
	client   redis.Cmdable
	prefix   string
	resource string
}

// NewResetTokenRepository stores password reset tokens.
func NewResetTokenRepository(client redis.Cmdable) *RedisTokenRepository {
	return &RedisTokenRepository{client: client, prefix: constants.RedisPrefixResetToken, resource: "Reset token"}
}

// NewVerificationTokenRepository stores email verification tokens.
func NewVerificationTokenRepository(client redis.Cmdable) *RedisTokenRepository {
	return &RedisTokenRepository{client: client, prefix: constants.RedisPrefixVerifyToken, resource: "Verification token"}
}

// Save implements [TokenRepository].
func (repository *RedisTokenRepository) Save(context context.Context, token, userID string, ttl time.Duration) error {
	if err := repository.client.Set(context, repository.prefix+sec.HashToken(token), userID, ttl).Err(); err != nil {
		return fmt.Errorf("redis_token_save: %w", err)
	}
	return nil
}

// Consume implements [TokenRepository] with GETDEL, so two concurrent
// requests cannot both redeem the same token.
func (repository *RedisTokenRepository) Consume(context context.Context, token string) (string, error) {
	userID, err := repository.client.GetDel(context, repository.prefix+sec.HashToken(token)).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return "", apperr.NotFound(repository.resource)
	case err != nil:
		return "", fmt.Errorf("redis_token_consume: %w", err)
	}
	return userID, nil
}
