// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package roles

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/comunidad/internal/access"
	"github.com/taibuivan/comunidad/internal/platform/apperr"
	"github.com/taibuivan/comunidad/internal/platform/validate"
	"github.com/taibuivan/comunidad/pkg/uuid"
)

// # Service Layer

// Service orchestrates role definitions and assignments.
type Service struct {
	repo   Repository
	cache  Cache
	logger *slog.Logger
}

// NewService constructs a roles [Service]. cache may be nil when roles are
// resolved straight from the store.
func NewService(repo Repository, cache Cache, logger *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, logger: logger}
}

// # Role Definitions

// ListRoles returns every role definition.
func (service *Service) ListRoles(context context.Context) ([]*Role, error) {
	return service.repo.List(context)
}

// GetRole returns one role definition.
func (service *Service) GetRole(context context.Context, id string) (*Role, error) {
	if !uuid.IsValid(id) {
		return nil, apperr.NotFound("Role")
	}
	return service.repo.FindByID(context, id)
}

/*
CreateRole validates and persists a new, non-system role.

Parameters:
  - context: context.Context
  - role: *Role (Name, DisplayName, Color, Description)

Returns:
  - error: VALIDATION_ERROR, or CONFLICT when the name is taken
*/
func (service *Service) CreateRole(context context.Context, role *Role) error {
	role.Name = strings.TrimSpace(role.Name)
	role.DisplayName = strings.TrimSpace(role.DisplayName)
	if role.Color == "" {
		role.Color = DefaultColor
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, role.Name).MaxLen(FieldName, role.Name, 50)
	if role.Name != "" {
		validator.Slug(FieldName, role.Name)
	}
	validator.Required(FieldDisplayName, role.DisplayName).MaxLen(FieldDisplayName, role.DisplayName, 100)
	validator.Color(FieldColor, role.Color)
	if role.Description != nil {
		validator.MaxLen(FieldDescription, *role.Description, 500)
	}
	if err := validator.Err(); err != nil {
		return err
	}

	role.ID = uuid.New()
	role.IsSystem = false

	if err := service.repo.Create(context, role); err != nil {
		return err
	}

	service.logger.Info("role_created",
		slog.String("role_id", role.ID),
		slog.String("name", role.Name),
	)
	return nil
}

/*
UpdateRole applies a patch to a role.

Description: Display fields are always editable. The name is frozen for
system roles and for roles that already have holders.

Returns:
  - *Role: The updated role
  - error: NOT_FOUND, VALIDATION_ERROR or CONFLICT
*/
func (service *Service) UpdateRole(context context.Context, id string, patch RolePatch) (*Role, error) {
	role, err := service.GetRole(context, id)
	if err != nil {
		return nil, err
	}

	validator := &validate.Validator{}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		validator.Required(FieldName, name).MaxLen(FieldName, name, 50)
		if name != "" {
			validator.Slug(FieldName, name)
		}
		patch.Name = &name
	}
	if patch.DisplayName != nil {
		displayName := strings.TrimSpace(*patch.DisplayName)
		validator.Required(FieldDisplayName, displayName).MaxLen(FieldDisplayName, displayName, 100)
		patch.DisplayName = &displayName
	}
	if patch.Color != nil {
		validator.Color(FieldColor, *patch.Color)
	}
	if patch.Description != nil {
		validator.MaxLen(FieldDescription, *patch.Description, 500)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	// Renames are checked against the stored row before any write.
	if patch.Name != nil && *patch.Name != role.Name {
		if role.IsSystem {
			return nil, apperr.Conflict("System role names cannot be changed")
		}

		holders, err := service.repo.CountAssignments(context, role.ID)
		if err != nil {
			return nil, err
		}
		if holders > 0 {
			return nil, apperr.Conflict("Role name cannot be changed while users hold the role")
		}
		role.Name = *patch.Name
	}

	if patch.DisplayName != nil {
		role.DisplayName = *patch.DisplayName
	}
	if patch.Color != nil {
		role.Color = *patch.Color
	}
	if patch.Description != nil {
		role.Description = patch.Description
	}

	if err := service.repo.Update(context, role); err != nil {
		return nil, err
	}

	service.invalidateAll(context)
	service.logger.Info("role_updated", slog.String("role_id", role.ID))

	return role, nil
}

/*
DeleteRole removes a role and its assignments.

Description: System roles are refused with SYSTEM_PROTECTED whatever the
caller's own roles are.
*/
func (service *Service) DeleteRole(context context.Context, id string) error {
	role, err := service.GetRole(context, id)
	if err != nil {
		return err
	}

	if role.IsSystem {
		return apperr.SystemProtected("System roles cannot be deleted")
	}

	if err := service.repo.Delete(context, role.ID); err != nil {
		return err
	}

	service.invalidateAll(context)
	service.logger.Info("role_deleted",
		slog.String("role_id", role.ID),
		slog.String("name", role.Name),
		slog.Int("holders", role.MemberCount),
	)
	return nil
}

// # Assignments

// ListMembers returns a page of accounts with their roles.
func (service *Service) ListMembers(context context.Context, filter MemberFilter, limit, offset int) ([]*Member, int, error) {
	return service.repo.ListMembers(context, filter, limit, offset)
}

// UserRoles returns the roles held by one user, straight from the store.
func (service *Service) UserRoles(context context.Context, userID string) (access.RoleSet, error) {
	if err := service.requireUser(context, userID); err != nil {
		return nil, err
	}
	return service.repo.RolesForUser(context, userID)
}

/*
AssignRole grants a role to a user.

Parameters:
  - context: context.Context
  - userID, roleID: string
  - assignedBy: string (the acting admin)

Returns:
  - *Assignment: The new grant
  - error: NOT_FOUND for an unknown user or role, CONFLICT when already held
*/
func (service *Service) AssignRole(context context.Context, userID, roleID, assignedBy string) (*Assignment, error) {
	validator := &validate.Validator{}
	validator.Required(FieldRoleID, roleID)
	if roleID != "" {
		validator.UUID(FieldRoleID, roleID)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.requireUser(context, userID); err != nil {
		return nil, err
	}

	role, err := service.repo.FindByID(context, roleID)
	if err != nil {
		return nil, err
	}

	assignment := &Assignment{UserID: userID, RoleID: role.ID, AssignedBy: assignedBy}
	if err := service.repo.Assign(context, assignment); err != nil {
		return nil, err
	}

	service.invalidate(context, userID)
	service.logger.Info("role_assigned",
		slog.String("user_id", userID),
		slog.String("role", role.Name),
		slog.String("assigned_by", assignedBy),
	)

	return assignment, nil
}

// RemoveRole revokes a role from a user.
func (service *Service) RemoveRole(context context.Context, userID, roleID, removedBy string) error {
	if !uuid.IsValid(userID) || !uuid.IsValid(roleID) {
		return apperr.NotFound("Role assignment")
	}

	if err := service.repo.Unassign(context, userID, roleID); err != nil {
		return err
	}

	service.invalidate(context, userID)
	service.logger.Info("role_removed",
		slog.String("user_id", userID),
		slog.String("role_id", roleID),
		slog.String("removed_by", removedBy),
	)
	return nil
}

// AssignDefaultRole grants the base member role by name. Used at registration.
func (service *Service) AssignDefaultRole(context context.Context, userID string) error {
	role, err := service.repo.FindByName(context, access.RoleUsuario)
	if apperr.HasCode(err, apperr.CodeNotFound) {
		return apperr.Internal(errMissingDefaultRole)
	}
	if err != nil {
		return err
	}

	if err := service.repo.Assign(context, &Assignment{UserID: userID, RoleID: role.ID}); err != nil {
		return err
	}

	service.invalidate(context, userID)
	return nil
}

// # Helpers

func (service *Service) requireUser(context context.Context, userID string) error {
	if !uuid.IsValid(userID) {
		return apperr.NotFound("User")
	}
	exists, err := service.repo.UserExists(context, userID)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound("User")
	}
	return nil
}

// invalidate and invalidateAll log cache failures instead of failing the
// write; the TTL bounds how long a stale entry can live.
func (service *Service) invalidate(context context.Context, userID string) {
	if service.cache == nil {
		return
	}
	if err := service.cache.Invalidate(context, userID); err != nil {
		service.logger.Warn("role_cache_invalidate_failed", slog.String("user_id", userID), slog.Any("error", err))
	}
}

func (service *Service) invalidateAll(context context.Context) {
	if service.cache == nil {
		return
	}
	if err := service.cache.InvalidateAll(context); err != nil {
		service.logger.Warn("role_cache_flush_failed", slog.Any("error", err))
	}
}
