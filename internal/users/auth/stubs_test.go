// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/taibuivan/comunidad/internal/platform/apperr"
	"github.com/taibuivan/comunidad/internal/users/auth"
)

// # Stubs

type memUsers struct {
	byID map[string]*auth.User
}

func (repo *memUsers) FindByID(_ context.Context, id string) (*auth.User, error) {
	if user, ok := repo.byID[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, apperr.NotFound("User")
}

func (repo *memUsers) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	for _, user := range repo.byID {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *memUsers) Create(context context.Context, user *auth.User) error {
	if _, err := repo.FindByEmail(context, user.Email); err == nil {
		return apperr.Conflict("Email is already registered")
	}
	copied := *user
	repo.byID[user.ID] = &copied
	return nil
}

func (repo *memUsers) UpdatePassword(_ context.Context, userID, newHash string) error {
	user, ok := repo.byID[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.PasswordHash = newHash
	return nil
}

func (repo *memUsers) MarkVerified(_ context.Context, userID string) error {
	user, ok := repo.byID[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.IsVerified = true
	return nil
}

func (repo *memUsers) TouchLogin(_ context.Context, userID string, at time.Time) error {
	if user, ok := repo.byID[userID]; ok {
		user.LastLoginAt = &at
	}
	return nil
}

type memSessions struct {
	byID map[string]*auth.Session
}

func (repo *memSessions) Create(_ context.Context, session *auth.Session) error {
	copied := *session
	repo.byID[session.ID] = &copied
	return nil
}

func (repo *memSessions) FindByTokenHash(_ context.Context, tokenHash string) (*auth.Session, error) {
	for _, session := range repo.byID {
		if session.TokenHash == tokenHash && !session.IsRevoked && session.ExpiresAt.After(time.Now()) {
			copied := *session
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("Session")
}

func (repo *memSessions) Revoke(_ context.Context, sessionID string) error {
	if session, ok := repo.byID[sessionID]; ok {
		session.IsRevoked = true
	}
	return nil
}

func (repo *memSessions) RevokeAll(_ context.Context, userID string) error {
	for _, session := range repo.byID {
		if session.UserID == userID {
			session.IsRevoked = true
		}
	}
	return nil
}

func (repo *memSessions) RevokeOthers(_ context.Context, userID, currentSessionID string) error {
	for _, session := range repo.byID {
		if session.UserID == userID && session.ID != currentSessionID {
			session.IsRevoked = true
		}
	}
	return nil
}

func (repo *memSessions) DeleteExpired(_ context.Context) (int64, error) {
	var removed int64
	for id, session := range repo.byID {
		if session.ExpiresAt.Before(time.Now()) {
			delete(repo.byID, id)
			removed++
		}
	}
	return removed, nil
}

func (repo *memSessions) live(userID string) int {
	count := 0
	for _, session := range repo.byID {
		if session.UserID == userID && !session.IsRevoked {
			count++
		}
	}
	return count
}

type memTokens struct {
	owners map[string]string
}

func (repo *memTokens) Save(_ context.Context, token, userID string, _ time.Duration) error {
	repo.owners[token] = userID
	return nil
}

func (repo *memTokens) Consume(_ context.Context, token string) (string, error) {
	userID, ok := repo.owners[token]
	if !ok {
		return "", apperr.NotFound("Token")
	}
	delete(repo.owners, token)
	return userID, nil
}

type fakeSigner struct{}

func (fakeSigner) GenerateAccessToken(userID, _, _ string, _ time.Duration) (string, error) {
	return "access-" + userID, nil
}

type spyRoles struct {
	assigned []string
	err      error
}

func (spy *spyRoles) AssignDefaultRole(_ context.Context, userID string) error {
	if spy.err != nil {
		return spy.err
	}
	spy.assigned = append(spy.assigned, userID)
	return nil
}

// spyMailer keeps the last token sent per kind.
type spyMailer struct {
	verification string
	reset        string
}

func (spy *spyMailer) SendVerification(_ context.Context, _ *auth.User, token string) error {
	spy.verification = token
	return nil
}

func (spy *spyMailer) SendPasswordReset(_ context.Context, _ *auth.User, token string) error {
	spy.reset = token
	return nil
}

type fixture struct {
	service  *auth.Service
	users    *memUsers
	sessions *memSessions
	roles    *spyRoles
	mailer   *spyMailer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		users:    &memUsers{byID: map[string]*auth.User{}},
		sessions: &memSessions{byID: map[string]*auth.Session{}},
		roles:    &spyRoles{},
		mailer:   &spyMailer{},
	}
	f.service = auth.NewService(auth.Dependencies{
		Users:        f.users,
		Sessions:     f.sessions,
		ResetTokens:  &memTokens{owners: map[string]string{}},
		VerifyTokens: &memTokens{owners: map[string]string{}},
		Tokens:       fakeSigner{},
		Roles:        f.roles,
		Mailer:       f.mailer,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return f
}

func (f *fixture) register(t *testing.T, email, password string) *auth.User {
	t.Helper()
	user, err := f.service.Register(context.Background(), auth.RegisterInput{Email: email, Password: password, FullName: "Ana Pérez"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return user
}
