// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract auth needs from accounts.
type UserRepository interface {
	// FindByID returns a live account or NOT_FOUND.
	FindByID(context context.Context, id string) (*User, error)

	// FindByEmail returns the live account registered with email, matched
	// case-insensitively, or NOT_FOUND.
	FindByEmail(context context.Context, email string) (*User, error)

	// Create inserts an account. A taken email is CONFLICT.
	Create(context context.Context, user *User) error

	// UpdatePassword replaces only the password hash.
	UpdatePassword(context context.Context, userID, newHash string) error

	// MarkVerified flags the email as confirmed.
	MarkVerified(context context.Context, userID string) error

	// TouchLogin records a successful login time.
	TouchLogin(context context.Context, userID string, at time.Time) error
}

// # Session Data Access

// SessionRepository defines the data access contract for refresh-token sessions.
type SessionRepository interface {
	// Create persists a new session for an authenticated login.
	Create(context context.Context, session *Session) error

	// FindByTokenHash returns the session matching tokenHash. Revoked and
	// expired sessions are NOT_FOUND.
	FindByTokenHash(context context.Context, tokenHash string) (*Session, error)

	// Revoke invalidates one session.
	Revoke(context context.Context, sessionID string) error

	// RevokeAll invalidates every session of userID.
	RevokeAll(context context.Context, userID string) error

	// RevokeOthers invalidates every session of userID except currentSessionID.
	RevokeOthers(context context.Context, userID, currentSessionID string) error

	// DeleteExpired removes sessions whose expiry is in the past.
	DeleteExpired(context context.Context) (int64, error)
}

// # One-Time Tokens

/*
TokenRepository keeps single-use tokens (password reset, email verification)
until they are consumed or expire.
*/
type TokenRepository interface {
	// Save stores token for userID until ttl elapses.
	Save(context context.Context, token, userID string, ttl time.Duration) error

	// Consume returns the owner of token and deletes it in one step. A used
	// or expired token is NOT_FOUND.
	Consume(context context.Context, token string) (string, error)
}

// # Collaborators

// RoleAssigner grants the default member role to new accounts.
type RoleAssigner interface {
	AssignDefaultRole(context context.Context, userID string) error
}

// Mailer delivers transactional emails.
type Mailer interface {
	SendVerification(context context.Context, user *User, token string) error
	SendPasswordReset(context context.Context, user *User, token string) error
}
