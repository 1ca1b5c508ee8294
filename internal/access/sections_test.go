// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/comunidad/internal/access"
)

func keys(sections []access.Section, area string) []string {
	var out []string
	for _, section := range sections {
		if section.Area == area {
			out = append(out, section.Key)
		}
	}
	return out
}

/*
TestDashboardSections checks the two-tier navigation model.
*/
func TestDashboardSections(t *testing.T) {
	t.Run("member", func(t *testing.T) {
		sections := access.DashboardSections(set(access.RoleUsuario))
		assert.Equal(t, []string{"files", "calendar", "settings"}, keys(sections, access.AreaMember))
		assert.Empty(t, keys(sections, access.AreaManagement))
		assert.Empty(t, keys(sections, access.AreaAdmin))
	})

	t.Run("curso_enters_panel_without_sections", func(t *testing.T) {
		sections := access.DashboardSections(set(access.RoleCurso))
		assert.Empty(t, keys(sections, access.AreaManagement))
		assert.Empty(t, keys(sections, access.AreaAdmin))
	})

	t.Run("lider", func(t *testing.T) {
		sections := access.DashboardSections(set(access.RoleLider))
		assert.Equal(t, []string{"team", "reports"}, keys(sections, access.AreaManagement))
		assert.Equal(t, []string{"posts", "contact"}, keys(sections, access.AreaAdmin))
	})

	t.Run("admin", func(t *testing.T) {
		sections := access.DashboardSections(set(access.RoleAdmin))
		assert.Equal(t,
			[]string{"users", "roles", "posts", "categories", "events", "delegations", "files", "contact"},
			keys(sections, access.AreaAdmin),
		)
	})
}
