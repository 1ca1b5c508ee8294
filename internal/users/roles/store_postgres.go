// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package roles

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/comunidad/internal/access"
	"github.com/taibuivan/comunidad/internal/platform/apperr"
	"github.com/taibuivan/comunidad/internal/platform/database/schema"
	"github.com/taibuivan/comunidad/internal/platform/dberr"
)

// # PostgreSQL Repository

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed role store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var roleColumns = fmt.Sprintf("r.%s, r.%s, r.%s, r.%s, r.%s, r.%s, r.%s, r.%s",
	schema.UserRoleDef.ID, schema.UserRoleDef.Name, schema.UserRoleDef.DisplayName, schema.UserRoleDef.Color,
	schema.UserRoleDef.Description, schema.UserRoleDef.IsSystem, schema.UserRoleDef.CreatedAt, schema.UserRoleDef.UpdatedAt,
)

// memberCountExpr counts assignments of the role aliased r.
var memberCountExpr = fmt.Sprintf("(SELECT COUNT(*) FROM %s ur WHERE ur.%s = r.%s)",
	schema.UserRoleAssignment.Table, schema.UserRoleAssignment.RoleID, schema.UserRoleDef.ID,
)

/*
RolesForUser resolves a user's roles through the get_user_roles function.

The function orders by name, which keeps the primary-role fallback stable.
*/
func (repository *PostgresRepository) RolesForUser(context context.Context, userID string) (access.RoleSet, error) {
	query := fmt.Sprintf(`SELECT roleid, rolename, displayname, color, issystem FROM %s($1)`, schema.FuncGetUserRoles)

	rows, err := repository.db.Query(context, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "get_user_roles")
	}
	defer rows.Close()

	roles := make(access.RoleSet, 0)
	for rows.Next() {
		var role access.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.DisplayName, &role.Color, &role.IsSystem); err != nil {
			return nil, dberr.Wrap(err, "scan_user_role")
		}
		roles = append(roles, role)
	}

	return roles, dberr.Wrap(rows.Err(), "iterate_user_roles")
}

// List returns all roles ordered by name.
func (repository *PostgresRepository) List(context context.Context) ([]*Role, error) {
	query := fmt.Sprintf(`SELECT %s, %s FROM %s r ORDER BY r.%s ASC`,
		roleColumns, memberCountExpr, schema.UserRoleDef.Table, schema.UserRoleDef.Name)

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_roles")
	}
	defer rows.Close()

	result := make([]*Role, 0)
	for rows.Next() {
		role := &Role{}
		if err := rows.Scan(
			&role.ID, &role.Name, &role.DisplayName, &role.Color, &role.Description,
			&role.IsSystem, &role.CreatedAt, &role.UpdatedAt, &role.MemberCount,
		); err != nil {
			return nil, dberr.Wrap(err, "scan_role")
		}
		result = append(result, role)
	}

	return result, dberr.Wrap(rows.Err(), "iterate_roles")
}

// FindByID returns a single role.
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Role, error) {
	query := fmt.Sprintf(`SELECT %s, %s FROM %s r WHERE r.%s = $1`,
		roleColumns, memberCountExpr, schema.UserRoleDef.Table, schema.UserRoleDef.ID)

	role := &Role{}
	err := repository.db.QueryRow(context, query, id).Scan(
		&role.ID, &role.Name, &role.DisplayName, &role.Color, &role.Description,
		&role.IsSystem, &role.CreatedAt, &role.UpdatedAt, &role.MemberCount,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "find_role", dberr.Resource("Role"))
	}
	return role, nil
}

// FindByName returns a single role by name.
func (repository *PostgresRepository) FindByName(context context.Context, name string) (*Role, error) {
	query := fmt.Sprintf(`SELECT %s, %s FROM %s r WHERE r.%s = $1`,
		roleColumns, memberCountExpr, schema.UserRoleDef.Table, schema.UserRoleDef.Name)

	role := &Role{}
	err := repository.db.QueryRow(context, query, name).Scan(
		&role.ID, &role.Name, &role.DisplayName, &role.Color, &role.Description,
		&role.IsSystem, &role.CreatedAt, &role.UpdatedAt, &role.MemberCount,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "find_role_by_name", dberr.Resource("Role"))
	}
	return role, nil
}

// Create inserts a role row; the unique name constraint reports duplicates.
func (repository *PostgresRepository) Create(context context.Context, role *Role) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s, %s
	`,
		schema.UserRoleDef.Table,
		schema.UserRoleDef.ID, schema.UserRoleDef.Name, schema.UserRoleDef.DisplayName,
		schema.UserRoleDef.Color, schema.UserRoleDef.Description, schema.UserRoleDef.IsSystem,
		schema.UserRoleDef.CreatedAt, schema.UserRoleDef.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		role.ID, role.Name, role.DisplayName, role.Color, role.Description, role.IsSystem,
	).Scan(&role.CreatedAt, &role.UpdatedAt)

	return dberr.Wrap(err, "create_role", dberr.OnConflict("Role name already exists"))
}

// Update persists the mutable columns of a role.
func (repository *PostgresRepository) Update(context context.Context, role *Role) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5, %s = now()
		WHERE %s = $1
		RETURNING %s
	`,
		schema.UserRoleDef.Table,
		schema.UserRoleDef.Name, schema.UserRoleDef.DisplayName, schema.UserRoleDef.Color,
		schema.UserRoleDef.Description, schema.UserRoleDef.UpdatedAt,
		schema.UserRoleDef.ID,
		schema.UserRoleDef.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		role.ID, role.Name, role.DisplayName, role.Color, role.Description,
	).Scan(&role.UpdatedAt)

	return dberr.Wrap(err, "update_role", dberr.Resource("Role"), dberr.OnConflict("Role name already exists"))
}

// Delete removes a role unless it is a system role.
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = false`,
		schema.UserRoleDef.Table, schema.UserRoleDef.ID, schema.UserRoleDef.IsSystem)

	tag, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_role")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Role")
	}
	return nil
}

// CountAssignments returns the number of holders of a role.
func (repository *PostgresRepository) CountAssignments(context context.Context, roleID string) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`,
		schema.UserRoleAssignment.Table, schema.UserRoleAssignment.RoleID)

	var count int
	if err := repository.db.QueryRow(context, query, roleID).Scan(&count); err != nil {
		return 0, dberr.Wrap(err, "count_role_assignments")
	}
	return count, nil
}

// # Assignments

// Assign inserts the grant; the primary key rejects a second identical row.
func (repository *PostgresRepository) Assign(context context.Context, assignment *Assignment) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3)
		RETURNING %s
	`,
		schema.UserRoleAssignment.Table,
		schema.UserRoleAssignment.UserID, schema.UserRoleAssignment.RoleID, schema.UserRoleAssignment.AssignedBy,
		schema.UserRoleAssignment.CreatedAt,
	)

	var assignedBy any
	if assignment.AssignedBy != "" {
		assignedBy = assignment.AssignedBy
	}

	err := repository.db.QueryRow(context, query, assignment.UserID, assignment.RoleID, assignedBy).Scan(&assignment.CreatedAt)

	return dberr.Wrap(err, "assign_role",
		dberr.OnConflict("User already has this role"),
		dberr.Reference("User or role"),
	)
}

// Unassign deletes the grant.
func (repository *PostgresRepository) Unassign(context context.Context, userID, roleID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.UserRoleAssignment.Table, schema.UserRoleAssignment.UserID, schema.UserRoleAssignment.RoleID)

	tag, err := repository.db.Exec(context, query, userID, roleID)
	if err != nil {
		return dberr.Wrap(err, "unassign_role")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Role assignment")
	}
	return nil
}

// UserExists checks for a live account.
func (repository *PostgresRepository) UserExists(context context.Context, userID string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s IS NULL)`,
		schema.UserAccount.Table, schema.UserAccount.ID, schema.UserAccount.DeletedAt)

	var exists bool
	if err := repository.db.QueryRow(context, query, userID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "user_exists")
	}
	return exists, nil
}

// # Members

/*
ListMembers returns accounts with their roles aggregated as JSON.

Description: COUNT(*) OVER() returns the total alongside the page, and the
roles sub-select avoids an N+1 per account.
*/
func (repository *PostgresRepository) ListMembers(context context.Context, filter MemberFilter, limit, offset int) ([]*Member, int, error) {
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(fmt.Sprintf(`
		SELECT a.%s, a.%s, a.%s, a.%s, a.%s,
			COALESCE((
				SELECT json_agg(json_build_object(
					'id', r.%s, 'name', r.%s, 'display_name', r.%s, 'color', r.%s, 'is_system', r.%s
				) ORDER BY r.%s)
				FROM %s ur
				JOIN %s r ON r.%s = ur.%s
				WHERE ur.%s = a.%s
			), '[]') AS roles,
			COUNT(*) OVER() AS total_count
		FROM %s a
		WHERE a.%s IS NULL
	`,
		schema.UserAccount.ID, schema.UserAccount.Email, schema.UserAccount.FullName,
		schema.UserAccount.IsActive, schema.UserAccount.CreatedAt,
		schema.UserRoleDef.ID, schema.UserRoleDef.Name, schema.UserRoleDef.DisplayName,
		schema.UserRoleDef.Color, schema.UserRoleDef.IsSystem, schema.UserRoleDef.Name,
		schema.UserRoleAssignment.Table,
		schema.UserRoleDef.Table, schema.UserRoleDef.ID, schema.UserRoleAssignment.RoleID,
		schema.UserRoleAssignment.UserID, schema.UserAccount.ID,
		schema.UserAccount.Table,
		schema.UserAccount.DeletedAt,
	))

	// Search by email or name
	if filter.Query != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND (a.%s ILIKE $%d OR a.%s ILIKE $%d)",
			schema.UserAccount.Email, argID, schema.UserAccount.FullName, argID))
		args = append(args, "%"+filter.Query+"%")
		argID++
	}

	// Holders of a named role
	if filter.Role != "" {
		queryBuilder.WriteString(fmt.Sprintf(` AND EXISTS (
			SELECT 1 FROM %s ur JOIN %s r ON r.%s = ur.%s
			WHERE ur.%s = a.%s AND r.%s = $%d)`,
			schema.UserRoleAssignment.Table, schema.UserRoleDef.Table,
			schema.UserRoleDef.ID, schema.UserRoleAssignment.RoleID,
			schema.UserRoleAssignment.UserID, schema.UserAccount.ID,
			schema.UserRoleDef.Name, argID,
		))
		args = append(args, filter.Role)
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY a.%s DESC LIMIT $%d OFFSET $%d",
		schema.UserAccount.CreatedAt, argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_members")
	}
	defer rows.Close()

	members := make([]*Member, 0)
	total := 0

	for rows.Next() {
		member := &Member{}
		var rolesJSON []byte

		if err := rows.Scan(
			&member.ID, &member.Email, &member.FullName, &member.IsActive, &member.CreatedAt,
			&rolesJSON, &total,
		); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_member")
		}

		if err := json.Unmarshal(rolesJSON, &member.Roles); err != nil {
			return nil, 0, apperr.Internal(fmt.Errorf("decode member roles: %w", err))
		}
		member.PrimaryRole = member.Roles.PrimaryRole()

		members = append(members, member)
	}

	return members, total, dberr.Wrap(rows.Err(), "iterate_members")
}
