// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/comunidad/internal/platform/apperr"
	"github.com/taibuivan/comunidad/internal/platform/sec"
	"github.com/taibuivan/comunidad/internal/platform/validate"
	"github.com/taibuivan/comunidad/pkg/uuid"
)

// TokenProvider signs access tokens bound to a refresh session.
type TokenProvider interface {
	GenerateAccessToken(userID, email, sessionID string, timeToLive time.Duration) (string, error)
}

// Dependencies groups the collaborators of [Service].
type Dependencies struct {
	Users        UserRepository
	Sessions     SessionRepository
	ResetTokens  TokenRepository
	VerifyTokens TokenRepository
	Tokens       TokenProvider
	Roles        RoleAssigner
	Mailer       Mailer
	Logger       *slog.Logger
}

/*
Service implements registration, sessions and the password and email
recovery flows.

The flows are split by file: this one holds registration and email
verification, session.go the login lifecycle and password.go the password
changes.
*/
type Service struct {
	deps Dependencies
	now  func() time.Time
}

// NewService constructs an auth [Service].
func NewService(deps Dependencies) *Service {
	return &Service{deps: deps, now: time.Now}
}

// NormalizeEmail trims and lowercases an address for lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// # Registration

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Email    string
	Password string
	FullName string
}

/*
Register validates, hashes and persists a new account, then grants it the
base member role and mails a verification token.

Returns:
  - *User: Created entity
  - error: VALIDATION_ERROR, CONFLICT when the email is taken, or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {
	email := NormalizeEmail(input.Email)
	fullName := strings.TrimSpace(input.FullName)

	validator := &validate.Validator{}
	validator.Required(FieldEmail, email).Email(FieldEmail, email)
	checkPassword(validator, FieldPassword, input.Password)
	validator.Required(FieldFullName, fullName).MaxLen(FieldFullName, fullName, 150)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	// ── 1. Uniqueness ──
	_, err := service.deps.Users.FindByEmail(context, email)
	switch {
	case err == nil:
		return nil, apperr.Conflict("Email is already registered")
	case !apperr.HasCode(err, apperr.CodeNotFound):
		return nil, err
	}

	// ── 2. Account ──
	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &User{ID: uuid.New(), Email: email, PasswordHash: hash, FullName: fullName, IsActive: true}
	if err := service.deps.Users.Create(context, user); err != nil {
		return nil, err
	}

	// ── 3. Member role ──
	if err := service.deps.Roles.AssignDefaultRole(context, user.ID); err != nil {
		service.deps.Logger.Error("default_role_assign_failed", slog.String("user_id", user.ID), slog.Any("error", err))
		return nil, err
	}

	// ── 4. Verification mail ──
	service.sendVerification(context, user)

	service.deps.Logger.Info("user_registered", slog.String("user_id", user.ID))
	return user, nil
}

// sendVerification never fails the registration; a lost mail can be
// requested again.
func (service *Service) sendVerification(context context.Context, user *User) {
	token, err := issueToken(context, service.deps.VerifyTokens, user.ID, VerificationTokenTTL)
	if err == nil {
		err = service.deps.Mailer.SendVerification(context, user, token)
	}
	if err != nil {
		service.deps.Logger.Warn("verification_mail_failed", slog.String("user_id", user.ID), slog.Any("error", err))
	}
}

// VerifyEmail consumes a verification token and flags the address as confirmed.
func (service *Service) VerifyEmail(context context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return validate.Invalid(FieldToken, "This field is required")
	}

	userID, err := service.deps.VerifyTokens.Consume(context, token)
	if err != nil {
		return err
	}

	if err := service.deps.Users.MarkVerified(context, userID); err != nil {
		return err
	}

	service.deps.Logger.Info("email_verified", slog.String("user_id", userID))
	return nil
}

// # Helpers

// checkPassword applies the password rules shared by every flow.
func checkPassword(validator *validate.Validator, field, password string) {
	validator.Required(field, password).
		MinLen(field, password, MinPasswordLength).
		Custom(field, len(password) > MaxPasswordBytes, passwordTooLong)
}

func hashPassword(password string) (string, error) {
	hash, err := sec.HashPassword(password)
	if err != nil {
		return "", apperr.Internal(fmt.Errorf("auth_hash_password: %w", err))
	}
	return hash, nil
}

// issueToken mints a random single-use token and stores it for userID.
func issueToken(context context.Context, store TokenRepository, userID string, ttl time.Duration) (string, error) {
	token, err := sec.GenerateSecureToken(OneTimeTokenLength)
	if err != nil {
		return "", apperr.Internal(fmt.Errorf("auth_generate_token: %w", err))
	}
	if err := store.Save(context, token, userID, ttl); err != nil {
		return "", apperr.Internal(err)
	}
	return token, nil
}
