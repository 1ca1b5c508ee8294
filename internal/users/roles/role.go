// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package roles manages role definitions and user-role assignments.

# Rules

  - Role names are unique lowercase slugs. The store enforces uniqueness.
  - A user holds a role at most once: (user_id, role_id) is the primary key.
  - System roles are seeded by migrations and can never be deleted.
  - A role's name is frozen once it is a system role or has assignments;
    only display fields (display name, color, description) stay editable.

The package also provides the [access.RoleLookup] used by the guard, with a
Redis cache in front of the store.
*/
package roles

import (
	"errors"
	"time"

	"github.com/taibuivan/comunidad/internal/access"
)

// # Domain Entities

// Role is a role definition.
type Role struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name"`
	Color       string    `json:"color"`
	Description *string   `json:"description,omitempty"`
	IsSystem    bool      `json:"is_system"`
	MemberCount int       `json:"member_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Member is a user account with the roles it holds, as listed in the panel.
type Member struct {
	ID          string         `json:"id"`
	Email       string         `json:"email"`
	FullName    string         `json:"full_name"`
	IsActive    bool           `json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	Roles       access.RoleSet `json:"roles"`
	PrimaryRole *access.Role   `json:"primary_role"`
}

// Assignment is one (user, role) grant.
type Assignment struct {
	UserID     string    `json:"user_id"`
	RoleID     string    `json:"role_id"`
	AssignedBy string    `json:"assigned_by"`
	CreatedAt  time.Time `json:"created_at"`
}

// MemberFilter narrows the member listing.
type MemberFilter struct {
	// Query matches email or full name.
	Query string
	// Role restricts to holders of the named role.
	Role string
}

// RolePatch carries the editable fields of a role. Nil means unchanged.
type RolePatch struct {
	Name        *string `json:"name"`
	DisplayName *string `json:"display_name"`
	Color       *string `json:"color"`
	Description *string `json:"description"`
}

// DefaultColor is used when a role is created without a color.
const DefaultColor = "#6B7280"

// # Field Identifiers

const (
	FieldName        = "name"
	FieldDisplayName = "display_name"
	FieldColor       = "color"
	FieldDescription = "description"
	FieldRoleID      = "role_id"
	FieldUserID      = "user_id"
)

var errMissingDefaultRole = errors.New("roles: the usuario role is not seeded")
