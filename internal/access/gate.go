// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access

import (
	"fmt"
	"strings"
)

// # Resource Gate

// Visibility is the access mode carried by events and shared files.
// Precedence is IsPublic, then VisibleToAllRoles, then RoleIDs.
type Visibility struct {
	IsPublic          bool     `json:"is_public"`
	VisibleToAllRoles bool     `json:"visible_to_all_roles"`
	RoleIDs           []string `json:"role_ids"`
}

// Mode names the visibility mode that is active for v.
func (v Visibility) Mode() string {
	switch {
	case v.IsPublic:
		return "public"
	case v.VisibleToAllRoles:
		return "all_roles"
	default:
		return "role_list"
	}
}

// CanView decides whether requester may see a resource with visibility v.
//
//  1. Public resources are visible to everyone, anonymous included.
//  2. Anonymous requesters see nothing else.
//  3. All-roles resources are visible to callers holding at least one role.
//  4. Otherwise the caller's role ids must intersect the allow-list.
func CanView(v Visibility, requester *Principal) bool {
	if v.IsPublic {
		return true
	}

	if !requester.IsAuthenticated() {
		return false
	}

	roles := requester.RoleSet()
	if v.VisibleToAllRoles {
		return len(roles) > 0
	}

	for _, granted := range v.RoleIDs {
		for _, held := range roles {
			if held.ID == granted {
				return true
			}
		}
	}
	return false
}

// VisibilityColumns locates the visibility columns of one resource table so
// the gate can be expressed as a SQL predicate.
type VisibilityColumns struct {
	// Alias is the table alias used in the outer query, e.g. "e".
	Alias string
	// ID is the primary key column of the resource table.
	ID string
	// IsPublic and VisibleToAllRoles are the flag columns.
	IsPublic          string
	VisibleToAllRoles string
	// GrantTable holds (resource_id, role_id) allow-list rows.
	GrantTable       string
	GrantResourceCol string
	GrantRoleCol     string
}

// Filter returns a WHERE fragment equivalent to [CanView] for requester.
// Placeholders start at argID; the next free placeholder index is returned.
func (columns VisibilityColumns) Filter(requester *Principal, argID int) (string, []any, int) {
	public := fmt.Sprintf("%s.%s = true", columns.Alias, columns.IsPublic)

	roles := requester.RoleSet()
	if !requester.IsAuthenticated() || len(roles) == 0 {
		return "(" + public + ")", nil, argID
	}

	var clause strings.Builder
	clause.WriteString("(")
	clause.WriteString(public)
	clause.WriteString(fmt.Sprintf(" OR %s.%s = true", columns.Alias, columns.VisibleToAllRoles))
	clause.WriteString(fmt.Sprintf(
		" OR EXISTS (SELECT 1 FROM %s g WHERE g.%s = %s.%s AND g.%s = ANY($%d::uuid[]))",
		columns.GrantTable, columns.GrantResourceCol, columns.Alias, columns.ID, columns.GrantRoleCol, argID,
	))
	clause.WriteString(")")

	return clause.String(), []any{roles.IDs()}, argID + 1
}
