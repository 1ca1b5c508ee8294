// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"log/slog"
)

// LogMailer records outgoing emails in the log instead of delivering them.
// Tokens are never written to the log.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer constructs a [LogMailer].
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// SendVerification implements [Mailer].
func (mailer *LogMailer) SendVerification(context context.Context, user *User, _ string) error {
	mailer.logger.InfoContext(context, "email_verification_queued", slog.String("user_id", user.ID))
	return nil
}

// SendPasswordReset implements [Mailer].
func (mailer *LogMailer) SendPasswordReset(context context.Context, user *User, _ string) error {
	mailer.logger.InfoContext(context, "email_password_reset_queued", slog.String("user_id", user.ID))
	return nil
}
