// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access

// Dashboard areas.
const (
	AreaMember     = "member"
	AreaManagement = "management"
	AreaAdmin      = "admin"
)

// Section is one navigable dashboard section.
type Section struct {
	Key  string `json:"key"`
	Area string `json:"area"`
}

var memberSections = []string{"files", "calendar", "settings"}

var managementSections = []string{"team", "reports"}

// adminSections maps each panel section to the action that manages it.
var adminSections = []struct {
	key    string
	action Action
}{
	{"users", ActionUsersRead},
	{"roles", ActionRolesManage},
	{"posts", ActionPostsWrite},
	{"categories", ActionCategoriesManage},
	{"events", ActionEventsManage},
	{"delegations", ActionDelegationsManage},
	{"files", ActionFilesManage},
	{"contact", ActionContactRead},
}

// DashboardSections lists the sections a signed-in user with roles may open.
// Admin sections require the panel gate and the section's own action rule.
func DashboardSections(roles RoleSet) []Section {
	sections := make([]Section, 0, len(memberSections))
	for _, key := range memberSections {
		sections = append(sections, Section{Key: key, Area: AreaMember})
	}

	if roles.HasManagementRole() {
		for _, key := range managementSections {
			sections = append(sections, Section{Key: key, Area: AreaManagement})
		}
	}

	if !roles.HasAdminPanelAccess() {
		return sections
	}

	for _, section := range adminSections {
		if Allowed(section.action, roles) {
			sections = append(sections, Section{Key: section.key, Area: AreaAdmin})
		}
	}
	return sections
}
