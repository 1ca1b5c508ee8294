// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account serves the signed-in member's own data: profile, access
summary and device sessions.
*/
package account

import (
	"context"
	"time"

	"github.com/taibuivan/comunidad/internal/access"
	"github.com/taibuivan/comunidad/internal/users/auth"
)

// # Domain Entities

// Device is a signed-in session as shown to its owner.
type Device struct {
	ID        string    `json:"id"`
	UserAgent string    `json:"user_agent"`
	IPAddress string    `json:"ip_address"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	IsCurrent bool      `json:"is_current"`
}

// ProfilePatch carries the editable profile fields. Nil means unchanged.
type ProfilePatch struct {
	FullName  *string `json:"full_name"`
	Phone     *string `json:"phone"`
	AvatarURL *string `json:"avatar_url"`
}

// AccessSummary tells a client what the member may see and do.
type AccessSummary struct {
	Roles               access.RoleSet   `json:"roles"`
	PrimaryRole         *access.Role     `json:"primary_role"`
	IsAdmin             bool             `json:"is_admin"`
	HasManagementRole   bool             `json:"has_management_role"`
	HasAdminPanelAccess bool             `json:"has_admin_panel_access"`
	Sections            []access.Section `json:"sections"`
	Actions             []access.Action  `json:"actions"`
}

// NewAccessSummary derives the summary for a role set.
func NewAccessSummary(roles access.RoleSet) *AccessSummary {
	if roles == nil {
		roles = access.RoleSet{}
	}
	actions := access.AllowedActions(roles)
	if actions == nil {
		actions = []access.Action{}
	}
	return &AccessSummary{
		Roles:               roles,
		PrimaryRole:         roles.PrimaryRole(),
		IsAdmin:             roles.IsAdmin(),
		HasManagementRole:   roles.HasManagementRole(),
		HasAdminPanelAccess: roles.HasAdminPanelAccess(),
		Sections:            access.DashboardSections(roles),
		Actions:             actions,
	}
}

// # Field Identifiers

const (
	FieldFullName  = "full_name"
	FieldPhone     = "phone"
	FieldAvatarURL = "avatar_url"
)

// # Repository Contracts

// AccountRepository is the profile side of the account store.
type AccountRepository interface {
	// FindByID returns a live account or NOT_FOUND.
	FindByID(context context.Context, id string) (*auth.User, error)

	// UpdateProfile persists full name, phone and avatar.
	UpdateProfile(context context.Context, user *auth.User) error

	// SoftDelete flags the account as deleted and deactivates it.
	SoftDelete(context context.Context, id string) error
}

// RoleSource resolves a member's roles and forgets cached ones.
type RoleSource interface {
	access.RoleLookup
	Invalidate(context context.Context, userID string) error
}

// SessionRepository lists and revokes a member's refresh sessions.
type SessionRepository interface {
	// ListActive returns live sessions, newest first.
	ListActive(context context.Context, userID string) ([]*auth.Session, error)

	// RevokeOwned revokes one live session of userID, NOT_FOUND otherwise.
	RevokeOwned(context context.Context, userID, sessionID string) error

	// RevokeOthers revokes every session of userID but currentSessionID.
	RevokeOthers(context context.Context, userID, currentSessionID string) error

	// RevokeAll revokes every session of userID.
	RevokeAll(context context.Context, userID string) error
}
