// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package roles_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/comunidad/internal/access"
	"github.com/taibuivan/comunidad/internal/platform/apperr"
	"github.com/taibuivan/comunidad/internal/users/roles"
)

const (
	memberID = "01900000-0000-7000-8000-0000000000a1"
	adminID  = "01900000-0000-7000-8000-0000000000a2"
)

func newService(t *testing.T) (*roles.Service, *memRepo, *spyCache) {
	t.Helper()
	repo := newMemRepo()
	repo.users[memberID] = true
	repo.users[adminID] = true
	cache := &spyCache{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return roles.NewService(repo, cache, logger), repo, cache
}

func strPtr(value string) *string { return &value }

/*
TestCreateRole_Validation checks defaults and field rules.
*/
func TestCreateRole_Validation(t *testing.T) {
	service, _, _ := newService(t)
	ctx := context.Background()

	role := &roles.Role{Name: " musicos ", DisplayName: "Músicos"}
	require.NoError(t, service.CreateRole(ctx, role))
	assert.Equal(t, "musicos", role.Name)
	assert.Equal(t, roles.DefaultColor, role.Color)
	assert.False(t, role.IsSystem)
	assert.NotEmpty(t, role.ID)

	tests := []struct {
		name string
		role *roles.Role
	}{
		{"missing_name", &roles.Role{DisplayName: "X"}},
		{"uppercase_name", &roles.Role{Name: "Musicos", DisplayName: "X"}},
		{"missing_display", &roles.Role{Name: "coro"}},
		{"bad_color", &roles.Role{Name: "coro", DisplayName: "Coro", Color: "red"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.CreateRole(ctx, tt.role)
			assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
		})
	}
}

/*
TestCreateRole_Duplicate ensures a taken name is a conflict and leaves one row.
*/
func TestCreateRole_Duplicate(t *testing.T) {
	service, repo, _ := newService(t)
	ctx := context.Background()

	require.NoError(t, service.CreateRole(ctx, &roles.Role{Name: "musicos", DisplayName: "Músicos"}))
	err := service.CreateRole(ctx, &roles.Role{Name: "musicos", DisplayName: "Otro"})

	assert.True(t, apperr.HasCode(err, apperr.CodeConflict))
	matches := 0
	for _, role := range repo.roles {
		if role.Name == "musicos" {
			matches++
		}
	}
	assert.Equal(t, 1, matches)
}

/*
TestCreateRole_CannotForgeSystemFlag ensures created roles are never system roles.
*/
func TestCreateRole_CannotForgeSystemFlag(t *testing.T) {
	service, _, _ := newService(t)

	role := &roles.Role{Name: "forged", DisplayName: "Forged", IsSystem: true}
	require.NoError(t, service.CreateRole(context.Background(), role))
	assert.False(t, role.IsSystem)
}

/*
TestDeleteRole_SystemProtected refuses to delete seeded roles.
*/
func TestDeleteRole_SystemProtected(t *testing.T) {
	service, repo, cache := newService(t)
	ctx := context.Background()

	for _, name := range access.PriorityOrder {
		err := service.DeleteRole(ctx, repo.roleID(name))
		require.Error(t, err)
		assert.True(t, apperr.HasCode(err, apperr.CodeSystemProtected), name)
		assert.NotEmpty(t, repo.roleID(name))
	}
	assert.Zero(t, cache.flushes)
}

/*
TestDeleteRole_Custom removes the role with its grants and flushes the cache.
*/
func TestDeleteRole_Custom(t *testing.T) {
	service, repo, cache := newService(t)
	ctx := context.Background()

	role := &roles.Role{Name: "musicos", DisplayName: "Músicos"}
	require.NoError(t, service.CreateRole(ctx, role))
	_, err := service.AssignRole(ctx, memberID, role.ID, adminID)
	require.NoError(t, err)

	require.NoError(t, service.DeleteRole(ctx, role.ID))
	assert.Empty(t, repo.roleID("musicos"))
	assert.Zero(t, repo.count(role.ID))
	assert.Equal(t, 1, cache.flushes)

	err = service.DeleteRole(ctx, role.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

/*
TestUpdateRole_NameFreeze covers renames of system and held roles.
*/
func TestUpdateRole_NameFreeze(t *testing.T) {
	service, repo, _ := newService(t)
	ctx := context.Background()

	t.Run("system_rename", func(t *testing.T) {
		_, err := service.UpdateRole(ctx, repo.roleID(access.RolePastor), roles.RolePatch{Name: strPtr("pastores")})
		assert.True(t, apperr.HasCode(err, apperr.CodeConflict))
	})

	t.Run("system_display_fields", func(t *testing.T) {
		updated, err := service.UpdateRole(ctx, repo.roleID(access.RolePastor), roles.RolePatch{DisplayName: strPtr("Pastores"), Color: strPtr("#112233")})
		require.NoError(t, err)
		assert.Equal(t, access.RolePastor, updated.Name)
		assert.Equal(t, "Pastores", updated.DisplayName)
		assert.Equal(t, "#112233", updated.Color)
	})

	custom := &roles.Role{Name: "coro", DisplayName: "Coro"}
	require.NoError(t, service.CreateRole(ctx, custom))

	t.Run("unheld_rename", func(t *testing.T) {
		updated, err := service.UpdateRole(ctx, custom.ID, roles.RolePatch{Name: strPtr("coral")})
		require.NoError(t, err)
		assert.Equal(t, "coral", updated.Name)
	})

	t.Run("held_rename", func(t *testing.T) {
		_, err := service.AssignRole(ctx, memberID, custom.ID, adminID)
		require.NoError(t, err)

		_, err = service.UpdateRole(ctx, custom.ID, roles.RolePatch{Name: strPtr("voces")})
		assert.True(t, apperr.HasCode(err, apperr.CodeConflict))
	})
}

/*
TestAssignRole covers grants, duplicates and unknown targets.
*/
func TestAssignRole(t *testing.T) {
	service, repo, cache := newService(t)
	ctx := context.Background()
	liderID := repo.roleID(access.RoleLider)

	assignment, err := service.AssignRole(ctx, memberID, liderID, adminID)
	require.NoError(t, err)
	assert.Equal(t, adminID, assignment.AssignedBy)
	assert.Equal(t, []string{memberID}, cache.users)

	t.Run("duplicate", func(t *testing.T) {
		_, err := service.AssignRole(ctx, memberID, liderID, adminID)
		assert.True(t, apperr.HasCode(err, apperr.CodeConflict))
		assert.Equal(t, 1, repo.count(liderID))
	})

	t.Run("unknown_user", func(t *testing.T) {
		_, err := service.AssignRole(ctx, "01900000-0000-7000-8000-0000000000ff", liderID, adminID)
		assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
	})

	t.Run("unknown_role", func(t *testing.T) {
		_, err := service.AssignRole(ctx, memberID, "01900000-0000-7000-8000-0000000000ff", adminID)
		assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
	})

	t.Run("malformed_role", func(t *testing.T) {
		_, err := service.AssignRole(ctx, memberID, "lider", adminID)
		assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
	})

	set, err := service.UserRoles(ctx, memberID)
	require.NoError(t, err)
	assert.Equal(t, []string{access.RoleLider}, set.Names())
}

/*
TestRemoveRole revokes once and reports a missing grant afterwards.
*/
func TestRemoveRole(t *testing.T) {
	service, repo, cache := newService(t)
	ctx := context.Background()
	cursoID := repo.roleID(access.RoleCurso)

	_, err := service.AssignRole(ctx, memberID, cursoID, adminID)
	require.NoError(t, err)

	require.NoError(t, service.RemoveRole(ctx, memberID, cursoID, adminID))
	assert.Zero(t, repo.count(cursoID))
	assert.Len(t, cache.users, 2)

	err = service.RemoveRole(ctx, memberID, cursoID, adminID)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

/*
TestAssignDefaultRole grants the base member role.
*/
func TestAssignDefaultRole(t *testing.T) {
	service, repo, _ := newService(t)
	ctx := context.Background()

	require.NoError(t, service.AssignDefaultRole(ctx, memberID))
	set, _ := repo.RolesForUser(ctx, memberID)
	assert.True(t, set.IsUsuario())

	delete(repo.roles, repo.roleID(access.RoleUsuario))
	err := service.AssignDefaultRole(ctx, adminID)
	assert.True(t, apperr.HasCode(err, apperr.CodeInternal))
}

/*
TestListMembers filters by role.
*/
func TestListMembers(t *testing.T) {
	service, repo, _ := newService(t)
	ctx := context.Background()

	_, err := service.AssignRole(ctx, adminID, repo.roleID(access.RoleAdmin), adminID)
	require.NoError(t, err)

	members, total, err := service.ListMembers(ctx, roles.MemberFilter{Role: access.RoleAdmin}, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, members, 1)
	assert.Equal(t, adminID, members[0].ID)
	assert.Equal(t, access.RoleAdmin, members[0].PrimaryRole.Name)
}
