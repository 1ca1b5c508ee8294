// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "time"

// # Authentication Constraints

const (
	// AccessTokenTTL is the lifetime of a JWT access token and its cookie.
	AccessTokenTTL = 15 * time.Minute

	// RefreshTokenTTL is the lifetime of a refresh session.
	RefreshTokenTTL = 30 * 24 * time.Hour

	// RefreshTokenLength is the byte length of a random refresh token.
	RefreshTokenLength = 32

	// ResetTokenTTL is how long a password reset token stays usable.
	ResetTokenTTL = 1 * time.Hour

	// VerificationTokenTTL is how long an email verification token stays usable.
	VerificationTokenTTL = 24 * time.Hour

	// OneTimeTokenLength is the byte length of reset and verification tokens.
	OneTimeTokenLength = 32

	// MinPasswordLength applies to registration, reset and change flows.
	MinPasswordLength = 8

	// MaxPasswordBytes is the longest input bcrypt accepts.
	MaxPasswordBytes = 72
)

const passwordTooLong = "Must be at most 72 bytes"
