// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package event runs the community calendar.

Every event carries an [access.Visibility]. Listings push the visibility
rule into SQL so a page never contains an event the caller cannot open, and
single reads apply [access.CanView] to the loaded row. An event the caller
may not see is reported as not found.
*/
package event

import (
	"time"

	"github.com/taibuivan/comunidad/internal/access"
)

// # Domain Entities

// RoleRef is a role an event is shared with.
type RoleRef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Color       string `json:"color"`
}

// Event is a calendar entry.
type Event struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    *string    `json:"description"`
	Location       *string    `json:"location"`
	StartsAt       time.Time  `json:"starts_at"`
	EndsAt         *time.Time `json:"ends_at"`
	ImageURL       *string    `json:"image_url"`
	DelegationID   *string    `json:"delegation_id"`
	DelegationName *string    `json:"delegation_name,omitempty"`

	access.Visibility

	Roles     []RoleRef `json:"roles"`
	CreatedBy *string   `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Filter narrows the calendar.
type Filter struct {
	// From and To bound the window; an event overlapping it is included.
	From *time.Time
	To   *time.Time

	DelegationID string

	// Viewer is the caller whose roles gate the listing.
	Viewer *access.Principal
	// Unrestricted skips the visibility rule (admin panel).
	Unrestricted bool
}

// Input carries the writable fields of an event. On update, nil means
// unchanged.
type Input struct {
	Title             *string    `json:"title"`
	Description       *string    `json:"description"`
	Location          *string    `json:"location"`
	StartsAt          *time.Time `json:"starts_at"`
	EndsAt            *time.Time `json:"ends_at"`
	ImageURL          *string    `json:"image_url"`
	DelegationID      *string    `json:"delegation_id"`
	IsPublic          *bool      `json:"is_public"`
	VisibleToAllRoles *bool      `json:"visible_to_all_roles"`
	RoleIDs           *[]string  `json:"role_ids"`

	// ClearEndsAt removes the end time on update.
	ClearEndsAt bool `json:"clear_ends_at"`
}

// maxWindow bounds one calendar query.
const maxWindow = 400 * 24 * time.Hour

// # Field Identifiers

const (
	FieldTitle        = "title"
	FieldDescription  = "description"
	FieldLocation     = "location"
	FieldStartsAt     = "starts_at"
	FieldEndsAt       = "ends_at"
	FieldImageURL     = "image_url"
	FieldDelegationID = "delegation_id"
	FieldRoleIDs      = "role_ids"
	FieldFrom         = "from"
	FieldTo           = "to"
)
