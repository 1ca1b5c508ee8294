// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package roles_test

import (
	"context"
	"sort"
	"strings"

	"github.com/taibuivan/comunidad/internal/access"
	"github.com/taibuivan/comunidad/internal/platform/apperr"
	"github.com/taibuivan/comunidad/internal/users/roles"
)

// # In-Memory Repository

// memRepo mirrors the store constraints: unique role names, one grant per
// (user, role) pair and undeletable system rows.
type memRepo struct {
	roles       map[string]*roles.Role
	users       map[string]bool
	assignments []roles.Assignment
}

func newMemRepo() *memRepo {
	repo := &memRepo{roles: map[string]*roles.Role{}, users: map[string]bool{}}
	for i, name := range access.PriorityOrder {
		id := "01900000-0000-7000-8000-00000000000" + string(rune('1'+i))
		repo.roles[id] = &roles.Role{ID: id, Name: name, DisplayName: strings.ToUpper(name[:1]) + name[1:], Color: roles.DefaultColor, IsSystem: true}
	}
	return repo
}

func (repo *memRepo) roleID(name string) string {
	for id, role := range repo.roles {
		if role.Name == name {
			return id
		}
	}
	return ""
}

func (repo *memRepo) RolesForUser(_ context.Context, userID string) (access.RoleSet, error) {
	var set access.RoleSet
	for _, assignment := range repo.assignments {
		if assignment.UserID != userID {
			continue
		}
		role := repo.roles[assignment.RoleID]
		set = append(set, access.Role{ID: role.ID, Name: role.Name, DisplayName: role.DisplayName, Color: role.Color, IsSystem: role.IsSystem})
	}
	sort.Slice(set, func(i, j int) bool { return set[i].Name < set[j].Name })
	return set, nil
}

func (repo *memRepo) List(_ context.Context) ([]*roles.Role, error) {
	var list []*roles.Role
	for _, role := range repo.roles {
		copied := *role
		copied.MemberCount = repo.count(role.ID)
		list = append(list, &copied)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (repo *memRepo) FindByID(_ context.Context, id string) (*roles.Role, error) {
	role, ok := repo.roles[id]
	if !ok {
		return nil, apperr.NotFound("Role")
	}
	copied := *role
	copied.MemberCount = repo.count(id)
	return &copied, nil
}

func (repo *memRepo) FindByName(context context.Context, name string) (*roles.Role, error) {
	id := repo.roleID(name)
	if id == "" {
		return nil, apperr.NotFound("Role")
	}
	return repo.FindByID(context, id)
}

func (repo *memRepo) Create(_ context.Context, role *roles.Role) error {
	if repo.roleID(role.Name) != "" {
		return apperr.Conflict("Role name already exists")
	}
	copied := *role
	repo.roles[role.ID] = &copied
	return nil
}

func (repo *memRepo) Update(_ context.Context, role *roles.Role) error {
	if other := repo.roleID(role.Name); other != "" && other != role.ID {
		return apperr.Conflict("Role name already exists")
	}
	copied := *role
	repo.roles[role.ID] = &copied
	return nil
}

func (repo *memRepo) Delete(_ context.Context, id string) error {
	role, ok := repo.roles[id]
	if !ok || role.IsSystem {
		return apperr.NotFound("Role")
	}
	delete(repo.roles, id)
	kept := repo.assignments[:0]
	for _, assignment := range repo.assignments {
		if assignment.RoleID != id {
			kept = append(kept, assignment)
		}
	}
	repo.assignments = kept
	return nil
}

func (repo *memRepo) CountAssignments(_ context.Context, roleID string) (int, error) {
	return repo.count(roleID), nil
}

func (repo *memRepo) Assign(_ context.Context, assignment *roles.Assignment) error {
	if !repo.users[assignment.UserID] {
		return apperr.NotFound("User or role")
	}
	if _, ok := repo.roles[assignment.RoleID]; !ok {
		return apperr.NotFound("User or role")
	}
	for _, existing := range repo.assignments {
		if existing.UserID == assignment.UserID && existing.RoleID == assignment.RoleID {
			return apperr.Conflict("User already has this role")
		}
	}
	repo.assignments = append(repo.assignments, *assignment)
	return nil
}

func (repo *memRepo) Unassign(_ context.Context, userID, roleID string) error {
	for i, existing := range repo.assignments {
		if existing.UserID == userID && existing.RoleID == roleID {
			repo.assignments = append(repo.assignments[:i], repo.assignments[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("Role assignment")
}

func (repo *memRepo) ListMembers(context context.Context, filter roles.MemberFilter, limit, offset int) ([]*roles.Member, int, error) {
	var ids []string
	for id := range repo.users {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var members []*roles.Member
	for _, id := range ids {
		set, _ := repo.RolesForUser(context, id)
		if filter.Role != "" && !set.Has(filter.Role) {
			continue
		}
		members = append(members, &roles.Member{ID: id, Roles: set, PrimaryRole: set.PrimaryRole()})
	}

	total := len(members)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return members[offset:end], total, nil
}

func (repo *memRepo) UserExists(_ context.Context, userID string) (bool, error) {
	return repo.users[userID], nil
}

func (repo *memRepo) count(roleID string) int {
	total := 0
	for _, assignment := range repo.assignments {
		if assignment.RoleID == roleID {
			total++
		}
	}
	return total
}

// spyCache records invalidations.
type spyCache struct {
	users   []string
	flushes int
}

func (cache *spyCache) Invalidate(_ context.Context, userID string) error {
	cache.users = append(cache.users, userID)
	return nil
}

func (cache *spyCache) InvalidateAll(_ context.Context) error {
	cache.flushes++
	return nil
}
