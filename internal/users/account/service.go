// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/comunidad/internal/platform/apperr"
	"github.com/taibuivan/comunidad/internal/platform/validate"
	"github.com/taibuivan/comunidad/internal/users/auth"
	"github.com/taibuivan/comunidad/pkg/slice"
	"github.com/taibuivan/comunidad/pkg/uuid"
)

// Service implements the self-service account use cases.
type Service struct {
	accounts AccountRepository
	sessions SessionRepository
	roles    RoleSource
	logger   *slog.Logger
}

// NewService constructs an account [Service].
func NewService(accounts AccountRepository, sessions SessionRepository, roles RoleSource, logger *slog.Logger) *Service {
	return &Service{accounts: accounts, sessions: sessions, roles: roles, logger: logger}
}

// # Profile

// GetProfile returns the member's own account.
func (service *Service) GetProfile(context context.Context, userID string) (*auth.User, error) {
	return service.accounts.FindByID(context, userID)
}

/*
UpdateProfile applies a partial profile change. An empty phone or avatar
clears it.

Returns:
  - *auth.User: The updated account
  - error: VALIDATION_ERROR, NOT_FOUND or storage failures
*/
func (service *Service) UpdateProfile(context context.Context, userID string, patch ProfilePatch) (*auth.User, error) {
	if err := patch.normalize(); err != nil {
		return nil, err
	}

	user, err := service.accounts.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	if patch.FullName != nil {
		user.FullName = *patch.FullName
	}
	if patch.Phone != nil {
		user.Phone = nilIfEmpty(*patch.Phone)
	}
	if patch.AvatarURL != nil {
		user.AvatarURL = nilIfEmpty(*patch.AvatarURL)
	}

	if err := service.accounts.UpdateProfile(context, user); err != nil {
		return nil, err
	}

	service.logger.Info("user_profile_updated", slog.String("user_id", userID))
	return user, nil
}

// normalize trims the patch in place and validates what it sets.
func (patch *ProfilePatch) normalize() error {
	validator := &validate.Validator{}
	for _, field := range []*string{patch.FullName, patch.Phone, patch.AvatarURL} {
		if field != nil {
			*field = strings.TrimSpace(*field)
		}
	}

	if patch.FullName != nil {
		validator.Required(FieldFullName, *patch.FullName).MaxLen(FieldFullName, *patch.FullName, 150)
	}
	if patch.Phone != nil {
		validator.MaxLen(FieldPhone, *patch.Phone, 30)
	}
	if patch.AvatarURL != nil && *patch.AvatarURL != "" {
		validator.URL(FieldAvatarURL, *patch.AvatarURL).MaxLen(FieldAvatarURL, *patch.AvatarURL, 500)
	}
	return validator.Err()
}

// DeleteAccount soft-deletes the account, signs out every device and drops
// its cached roles.
func (service *Service) DeleteAccount(context context.Context, userID string) error {
	if err := service.accounts.SoftDelete(context, userID); err != nil {
		return err
	}

	if err := service.sessions.RevokeAll(context, userID); err != nil {
		service.logger.Warn("session_revoke_all_failed", slog.String("user_id", userID), slog.Any("error", err))
	}
	if err := service.roles.Invalidate(context, userID); err != nil {
		service.logger.Warn("role_cache_invalidate_failed", slog.String("user_id", userID), slog.Any("error", err))
	}

	service.logger.Warn("user_account_deleted", slog.String("user_id", userID))
	return nil
}

// Access returns the roles, sections and actions available to the member.
func (service *Service) Access(context context.Context, userID string) (*AccessSummary, error) {
	roles, err := service.roles.RolesForUser(context, userID)
	if err != nil {
		return nil, err
	}
	return NewAccessSummary(roles), nil
}

// # Devices

// Devices lists the live sessions of userID, flagging currentSessionID.
func (service *Service) Devices(context context.Context, userID, currentSessionID string) ([]Device, error) {
	sessions, err := service.sessions.ListActive(context, userID)
	if err != nil {
		return nil, err
	}

	devices := slice.Map(sessions, func(session *auth.Session) Device {
		return Device{
			ID:        session.ID,
			UserAgent: session.UserAgent,
			IPAddress: session.IPAddress,
			CreatedAt: session.CreatedAt,
			ExpiresAt: session.ExpiresAt,
			IsCurrent: currentSessionID != "" && session.ID == currentSessionID,
		}
	})
	if devices == nil {
		devices = []Device{}
	}
	return devices, nil
}

// SignOutDevice revokes one of the member's sessions.
func (service *Service) SignOutDevice(context context.Context, userID, sessionID string) error {
	if !uuid.IsValid(sessionID) {
		return apperr.NotFound("Session")
	}
	if err := service.sessions.RevokeOwned(context, userID, sessionID); err != nil {
		return err
	}

	service.logger.Info("user_session_revoked", slog.String("user_id", userID), slog.String("session_id", sessionID))
	return nil
}

// SignOutOtherDevices keeps currentSessionID and revokes the rest. Without a
// current session every device is signed out.
func (service *Service) SignOutOtherDevices(context context.Context, userID, currentSessionID string) error {
	var err error
	if currentSessionID == "" {
		err = service.sessions.RevokeAll(context, userID)
	} else {
		err = service.sessions.RevokeOthers(context, userID, currentSessionID)
	}
	if err != nil {
		return err
	}

	service.logger.Info("user_other_sessions_revoked", slog.String("user_id", userID), slog.Bool("kept_current", currentSessionID != ""))
	return nil
}

func nilIfEmpty(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
