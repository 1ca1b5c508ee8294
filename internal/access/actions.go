// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access

import (
	"sort"

	"github.com/taibuivan/comunidad/internal/platform/apperr"
)

// Action names a guarded operation.
type Action string

const (
	// ActionAdminPanel is the coarse gate in front of every /admin route.
	ActionAdminPanel Action = "admin.panel"

	ActionRolesManage       Action = "roles.manage"
	ActionRolesAssign       Action = "roles.assign"
	ActionUsersRead         Action = "users.read"
	ActionCategoriesManage  Action = "categories.manage"
	ActionPostsWrite        Action = "posts.write"
	ActionPostsDelete       Action = "posts.delete"
	ActionEventsManage      Action = "events.manage"
	ActionFilesManage       Action = "files.manage"
	ActionDelegationsManage Action = "delegations.manage"
	ActionContactRead       Action = "contact.read"
)

// Rule decides an action for a resolved role set.
type Rule func(RoleSet) bool

// rules is the single allow-list table. Unknown actions are denied.
var rules = map[Action]Rule{
	ActionAdminPanel:        RoleSet.HasAdminPanelAccess,
	ActionRolesManage:       RoleSet.IsAdmin,
	ActionRolesAssign:       RoleSet.IsAdmin,
	ActionUsersRead:         RoleSet.IsAdmin,
	ActionCategoriesManage:  RoleSet.IsAdmin,
	ActionPostsWrite:        RoleSet.HasManagementRole,
	ActionPostsDelete:       RoleSet.IsAdmin,
	ActionEventsManage:      RoleSet.IsAdmin,
	ActionFilesManage:       RoleSet.IsAdmin,
	ActionDelegationsManage: RoleSet.IsAdmin,
	ActionContactRead:       RoleSet.HasManagementRole,
}

// Allowed reports whether roles satisfy the rule for action.
func Allowed(action Action, roles RoleSet) bool {
	rule, ok := rules[action]
	if !ok {
		return false
	}
	return rule(roles)
}

// Authorize applies the rule for action to principal and returns
// UNAUTHORIZED when there is no session or FORBIDDEN when the rule fails.
func Authorize(principal *Principal, action Action) error {
	if !principal.IsAuthenticated() {
		return apperr.Unauthorized("Authentication required")
	}
	if !Allowed(action, principal.RoleSet()) {
		return apperr.Forbidden("Insufficient permissions")
	}
	return nil
}

// AllowedActions lists every action roles satisfy, sorted by name.
func AllowedActions(roles RoleSet) []Action {
	var allowed []Action
	for action, rule := range rules {
		if rule(roles) {
			allowed = append(allowed, action)
		}
	}
	sort.Slice(allowed, func(i, j int) bool { return allowed[i] < allowed[j] })
	return allowed
}
