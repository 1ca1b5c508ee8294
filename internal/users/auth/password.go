// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"log/slog"

	"github.com/taibuivan/comunidad/internal/platform/apperr"
	"github.com/taibuivan/comunidad/internal/platform/sec"
	"github.com/taibuivan/comunidad/internal/platform/validate"
)

/*
RequestPasswordReset mails a reset token to a registered address.

Description: Unknown emails succeed silently so the endpoint cannot be used
to probe for accounts. A failed delivery is only logged for the same reason.
*/
func (service *Service) RequestPasswordReset(context context.Context, email string) error {
	user, err := service.deps.Users.FindByEmail(context, NormalizeEmail(email))
	if apperr.HasCode(err, apperr.CodeNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	token, err := issueToken(context, service.deps.ResetTokens, user.ID, ResetTokenTTL)
	if err != nil {
		return err
	}

	if err := service.deps.Mailer.SendPasswordReset(context, user, token); err != nil {
		service.deps.Logger.Warn("password_reset_mail_failed", slog.String("user_id", user.ID), slog.Any("error", err))
	}
	return nil
}

/*
ResetPassword completes the forgot-password flow.

Description: The token is consumed before anything is written, so it works
at most once even under concurrent requests. Every session of the account is
revoked afterwards.
*/
func (service *Service) ResetPassword(context context.Context, token, newPassword string) error {
	validator := &validate.Validator{}
	validator.Required(FieldToken, token)
	checkPassword(validator, FieldPassword, newPassword)
	if err := validator.Err(); err != nil {
		return err
	}

	userID, err := service.deps.ResetTokens.Consume(context, token)
	if err != nil {
		return err
	}

	if err := service.setPassword(context, userID, newPassword); err != nil {
		return err
	}
	if err := service.deps.Sessions.RevokeAll(context, userID); err != nil {
		service.deps.Logger.Warn("session_revoke_all_failed", slog.String("user_id", userID), slog.Any("error", err))
	}

	service.deps.Logger.Info("password_reset", slog.String("user_id", userID))
	return nil
}

/*
ChangePassword updates the password of a signed-in member.

Description: currentSessionID stays signed in and every other session is
revoked. An empty currentSessionID revokes them all.
*/
func (service *Service) ChangePassword(context context.Context, userID, currentPassword, newPassword, currentSessionID string) error {
	validator := &validate.Validator{}
	validator.Required(FieldCurrentPassword, currentPassword)
	checkPassword(validator, FieldNewPassword, newPassword)
	if err := validator.Err(); err != nil {
		return err
	}

	user, err := service.deps.Users.FindByID(context, userID)
	if err != nil {
		return err
	}
	if !sec.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return apperr.Unauthorized("Current password is incorrect")
	}

	if err := service.setPassword(context, userID, newPassword); err != nil {
		return err
	}

	if currentSessionID == "" {
		err = service.deps.Sessions.RevokeAll(context, userID)
	} else {
		err = service.deps.Sessions.RevokeOthers(context, userID, currentSessionID)
	}
	if err != nil {
		service.deps.Logger.Warn("session_revoke_failed", slog.String("user_id", userID), slog.Any("error", err))
	}

	service.deps.Logger.Info("password_changed", slog.String("user_id", userID))
	return nil
}

func (service *Service) setPassword(context context.Context, userID, password string) error {
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	return service.deps.Users.UpdatePassword(context, userID, hash)
}
