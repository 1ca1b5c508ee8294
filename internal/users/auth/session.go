// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/comunidad/internal/platform/apperr"
	"github.com/taibuivan/comunidad/internal/platform/sec"
	"github.com/taibuivan/comunidad/pkg/uuid"
)

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email     string
	Password  string
	UserAgent string
	IPAddress string
}

// LoginSession is the credential pair handed to a signed-in client.
type LoginSession struct {
	SessionID             string
	AccessToken           string
	AccessTokenExpiresAt  time.Time
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
	User                  *User
}

var errBadCredentials = apperr.Unauthorized("Invalid login credentials")

/*
Login checks the credentials and opens a session.

Description: An unknown email, a wrong password and a disabled account all
fail with the same message.
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {
	user, err := service.deps.Users.FindByEmail(context, NormalizeEmail(input.Email))
	if apperr.HasCode(err, apperr.CodeNotFound) {
		return nil, errBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive || !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, errBadCredentials
	}

	session, err := service.openSession(context, user, input.UserAgent, input.IPAddress)
	if err != nil {
		return nil, err
	}

	loggedAt := service.now()
	if err := service.deps.Users.TouchLogin(context, user.ID, loggedAt); err != nil {
		service.deps.Logger.Warn("last_login_update_failed", slog.String("user_id", user.ID), slog.Any("error", err))
	}
	user.LastLoginAt = &loggedAt

	service.deps.Logger.Info("user_logged_in", slog.String("user_id", user.ID), slog.String("ip", input.IPAddress))
	return session, nil
}

/*
RefreshSession exchanges a refresh token for a new pair.

Description: The presented session is revoked before the new one is stored,
so replaying an old token fails.
*/
func (service *Service) RefreshSession(context context.Context, refreshToken, userAgent, ipAddress string) (*LoginSession, error) {
	previous, err := service.deps.Sessions.FindByTokenHash(context, sec.HashToken(refreshToken))
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}
	if err := service.deps.Sessions.Revoke(context, previous.ID); err != nil {
		return nil, err
	}

	user, err := service.deps.Users.FindByID(context, previous.UserID)
	if err != nil || !user.IsActive {
		return nil, apperr.Unauthorized("User not found or disabled")
	}

	return service.openSession(context, user, userAgent, ipAddress)
}

// Logout revokes the session behind refreshToken. Unknown tokens are ignored.
func (service *Service) Logout(context context.Context, refreshToken string) error {
	session, err := service.deps.Sessions.FindByTokenHash(context, sec.HashToken(refreshToken))
	if err != nil {
		return nil
	}
	if err := service.deps.Sessions.Revoke(context, session.ID); err != nil {
		return err
	}

	service.deps.Logger.Info("user_logged_out", slog.String("user_id", session.UserID))
	return nil
}

// PurgeExpiredSessions deletes sessions past their expiry.
func (service *Service) PurgeExpiredSessions(context context.Context) error {
	removed, err := service.deps.Sessions.DeleteExpired(context)
	if err != nil {
		return err
	}
	if removed > 0 {
		service.deps.Logger.Info("expired_sessions_purged", slog.Int64("count", removed))
	}
	return nil
}

// openSession stores a fresh refresh session and signs an access token bound
// to it. Only the SHA-256 of the refresh token is persisted.
func (service *Service) openSession(context context.Context, user *User, userAgent, ipAddress string) (*LoginSession, error) {
	issuedAt := service.now()

	refreshToken, err := sec.GenerateSecureToken(RefreshTokenLength)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_generate_refresh_token: %w", err))
	}

	session := &Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: sec.HashToken(refreshToken),
		UserAgent: userAgent,
		IPAddress: ipAddress,
		ExpiresAt: issuedAt.Add(RefreshTokenTTL),
	}

	accessToken, err := service.deps.Tokens.GenerateAccessToken(user.ID, user.Email, session.ID, AccessTokenTTL)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_sign_access_token: %w", err))
	}

	if err := service.deps.Sessions.Create(context, session); err != nil {
		return nil, err
	}

	return &LoginSession{
		SessionID:             session.ID,
		AccessToken:           accessToken,
		AccessTokenExpiresAt:  issuedAt.Add(AccessTokenTTL),
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: session.ExpiresAt,
		User:                  user,
	}, nil
}
