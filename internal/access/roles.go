// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package access centralizes who may see and do what.

It has three parts that every route goes through instead of carrying its own
role lists:

  - Role Resolver: [RoleSet] derives management, admin-panel and primary role
    answers from the roles a user holds.
  - Resource Gate: [CanView] and [VisibilityColumns.Filter] decide whether a
    public / all-roles / explicit-list resource is visible, in memory and in SQL.
  - Admin Action Guard: [Guard] resolves the caller's roles and applies one
    rule per [Action] before any mutation runs.

A user with no role assignments is not the same as a user holding only
"usuario": the first has no primary role, the second does.
*/
package access

// # Well-known Roles

const (
	RoleAdmin   = "admin"
	RolePastor  = "pastor"
	RoleLider   = "lider"
	RoleCelula  = "celula"
	RoleCurso   = "curso"
	RoleUsuario = "usuario"
)

// PriorityOrder is the fixed order used to pick a primary role.
var PriorityOrder = []string{RoleAdmin, RolePastor, RoleLider, RoleCelula, RoleCurso, RoleUsuario}

var managementRoles = map[string]struct{}{
	RoleAdmin:  {},
	RolePastor: {},
	RoleLider:  {},
}

// Role is a role as resolved for a user.
type Role struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Color       string `json:"color"`
	IsSystem    bool   `json:"is_system"`
}

// RoleSet is the set of roles a user holds, in store order.
type RoleSet []Role

// # Role Resolver

// Has reports whether the set contains a role with the exact name.
func (set RoleSet) Has(name string) bool {
	for _, role := range set {
		if role.Name == name {
			return true
		}
	}
	return false
}

// HasAny reports whether the set contains at least one of names.
func (set RoleSet) HasAny(names ...string) bool {
	for _, name := range names {
		if set.Has(name) {
			return true
		}
	}
	return false
}

// HasManagementRole is true iff the set intersects {admin, pastor, lider}.
func (set RoleSet) HasManagementRole() bool {
	for _, role := range set {
		if _, ok := managementRoles[role.Name]; ok {
			return true
		}
	}
	return false
}

// HasAdminPanelAccess is true iff the set holds any role other than usuario.
// It is the coarse panel gate; each action inside still has its own rule.
func (set RoleSet) HasAdminPanelAccess() bool {
	for _, role := range set {
		if role.Name != RoleUsuario {
			return true
		}
	}
	return false
}

// PrimaryRole returns the first role of [PriorityOrder] the user holds, else
// the first held role, else nil.
func (set RoleSet) PrimaryRole() *Role {
	if len(set) == 0 {
		return nil
	}

	for _, name := range PriorityOrder {
		for index := range set {
			if set[index].Name == name {
				role := set[index]
				return &role
			}
		}
	}

	role := set[0]
	return &role
}

// IsAdmin reports whether the set holds the admin role.
func (set RoleSet) IsAdmin() bool { return set.Has(RoleAdmin) }

// IsPastor reports whether the set holds the pastor role.
func (set RoleSet) IsPastor() bool { return set.Has(RolePastor) }

// IsLider reports whether the set holds the lider role.
func (set RoleSet) IsLider() bool { return set.Has(RoleLider) }

// IsCelula reports whether the set holds the celula role.
func (set RoleSet) IsCelula() bool { return set.Has(RoleCelula) }

// IsCurso reports whether the set holds the curso role.
func (set RoleSet) IsCurso() bool { return set.Has(RoleCurso) }

// IsUsuario reports whether the set holds the base member role.
func (set RoleSet) IsUsuario() bool { return set.Has(RoleUsuario) }

// Names returns the role names in set order.
func (set RoleSet) Names() []string {
	names := make([]string, 0, len(set))
	for _, role := range set {
		names = append(names, role.Name)
	}
	return names
}

// IDs returns the role ids in set order.
func (set RoleSet) IDs() []string {
	ids := make([]string, 0, len(set))
	for _, role := range set {
		ids = append(ids, role.ID)
	}
	return ids
}
