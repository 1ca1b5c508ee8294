// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package event

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/comunidad/internal/access"
	"github.com/taibuivan/comunidad/internal/platform/database/schema"
	"github.com/taibuivan/comunidad/internal/platform/dberr"
	"github.com/taibuivan/comunidad/internal/platform/postgres"
	"github.com/taibuivan/comunidad/pkg/slice"
)

// # PostgreSQL Repository

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed event store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// visibility locates the gate columns of core.event for [access.VisibilityColumns.Filter].
var visibility = access.VisibilityColumns{
	Alias:             "e",
	ID:                schema.CoreEvent.ID,
	IsPublic:          schema.CoreEvent.IsPublic,
	VisibleToAllRoles: schema.CoreEvent.VisibleToAllRoles,
	GrantTable:        schema.CoreEventRole.Table,
	GrantResourceCol:  schema.CoreEventRole.EventID,
	GrantRoleCol:      schema.CoreEventRole.RoleID,
}

var grants = postgres.Junction{
	Table:    schema.CoreEventRole.Table,
	OwnerCol: schema.CoreEventRole.EventID,
	ValueCol: schema.CoreEventRole.RoleID,
}

var eventSelect = fmt.Sprintf(`
	SELECT
		e.%s, e.%s, e.%s, e.%s, e.%s, e.%s, e.%s, e.%s, e.%s, e.%s, e.%s, e.%s, e.%s,
		d.%s,
		COALESCE((
			SELECT json_agg(json_build_object('id', r.%s, 'name', r.%s, 'display_name', r.%s, 'color', r.%s) ORDER BY r.%s)
			FROM %s er
			JOIN %s r ON r.%s = er.%s
			WHERE er.%s = e.%s
		), '[]') AS roles
	FROM %s e
	LEFT JOIN %s d ON d.%s = e.%s`,
	schema.CoreEvent.ID, schema.CoreEvent.Title, schema.CoreEvent.Description, schema.CoreEvent.Location,
	schema.CoreEvent.StartsAt, schema.CoreEvent.EndsAt, schema.CoreEvent.ImageURL, schema.CoreEvent.DelegationID,
	schema.CoreEvent.IsPublic, schema.CoreEvent.VisibleToAllRoles, schema.CoreEvent.CreatedBy,
	schema.CoreEvent.CreatedAt, schema.CoreEvent.UpdatedAt,
	schema.CoreDelegation.Name,
	schema.UserRoleDef.ID, schema.UserRoleDef.Name, schema.UserRoleDef.DisplayName, schema.UserRoleDef.Color, schema.UserRoleDef.Name,
	schema.CoreEventRole.Table,
	schema.UserRoleDef.Table, schema.UserRoleDef.ID, schema.CoreEventRole.RoleID,
	schema.CoreEventRole.EventID, schema.CoreEvent.ID,
	schema.CoreEvent.Table,
	schema.CoreDelegation.Table, schema.CoreDelegation.ID, schema.CoreEvent.DelegationID,
)

// scanEvent reads the eventSelect columns plus any trailing destinations.
func scanEvent(row pgx.Row, extra ...any) (*Event, error) {
	event := &Event{}
	var rolesJSON []byte

	destinations := []any{
		&event.ID, &event.Title, &event.Description, &event.Location, &event.StartsAt, &event.EndsAt,
		&event.ImageURL, &event.DelegationID, &event.IsPublic, &event.VisibleToAllRoles, &event.CreatedBy,
		&event.CreatedAt, &event.UpdatedAt, &event.DelegationName, &rolesJSON,
	}
	if err := row.Scan(append(destinations, extra...)...); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(rolesJSON, &event.Roles); err != nil {
		return nil, fmt.Errorf("decode event roles: %w", err)
	}
	event.RoleIDs = slice.Map(event.Roles, func(role RoleRef) string { return role.ID })

	return event, nil
}

/*
List returns the events of a calendar window.

Description: An event is in the window when it starts before To and ends
(or, without an end, starts) at or after From. Unless the filter is
unrestricted, the Resource Gate predicate is appended so hidden events never
reach the page or the total.
*/
func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Event, int, error) {

	// Query build initialization
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(strings.Replace(eventSelect, "AS roles", "AS roles, COUNT(*) OVER() AS total_count", 1))
	queryBuilder.WriteString(" WHERE 1=1")

	// Window Filtering
	if filter.From != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND COALESCE(e.%s, e.%s) >= $%d",
			schema.CoreEvent.EndsAt, schema.CoreEvent.StartsAt, argID))
		args = append(args, *filter.From)
		argID++
	}
	if filter.To != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND e.%s < $%d", schema.CoreEvent.StartsAt, argID))
		args = append(args, *filter.To)
		argID++
	}

	// Delegation Filtering
	if filter.DelegationID != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND e.%s = $%d", schema.CoreEvent.DelegationID, argID))
		args = append(args, filter.DelegationID)
		argID++
	}

	// Visibility Filtering
	if !filter.Unrestricted {
		clause, gateArgs, next := visibility.Filter(filter.Viewer, argID)
		queryBuilder.WriteString(" AND " + clause)
		args = append(args, gateArgs...)
		argID = next
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY e.%s ASC, e.%s ASC LIMIT $%d OFFSET $%d",
		schema.CoreEvent.StartsAt, schema.CoreEvent.ID, argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_events")
	}
	defer rows.Close()

	total := 0
	result := make([]*Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_event")
		}
		result = append(result, event)
	}

	return result, total, dberr.Wrap(rows.Err(), "iterate_events")
}

// FindByID returns a single event with its grants.
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Event, error) {
	query := fmt.Sprintf(`%s WHERE e.%s = $1`, eventSelect, schema.CoreEvent.ID)

	event, err := scanEvent(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "find_event", dberr.Resource("Event"))
	}
	return event, nil
}

// Create inserts the event row and its grants in one transaction.
func (repository *PostgresRepository) Create(context context.Context, event *Event) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING %s, %s
	`,
		schema.CoreEvent.Table,
		schema.CoreEvent.ID, schema.CoreEvent.Title, schema.CoreEvent.Description, schema.CoreEvent.Location,
		schema.CoreEvent.StartsAt, schema.CoreEvent.EndsAt, schema.CoreEvent.ImageURL, schema.CoreEvent.DelegationID,
		schema.CoreEvent.IsPublic, schema.CoreEvent.VisibleToAllRoles, schema.CoreEvent.CreatedBy,
		schema.CoreEvent.CreatedAt, schema.CoreEvent.UpdatedAt,
	)

	err := postgres.WithTx(context, repository.pool, func(transaction pgx.Tx) error {
		err := transaction.QueryRow(context, query,
			event.ID, event.Title, event.Description, event.Location, event.StartsAt, event.EndsAt,
			event.ImageURL, event.DelegationID, event.IsPublic, event.VisibleToAllRoles, event.CreatedBy,
		).Scan(&event.CreatedAt, &event.UpdatedAt)
		if err != nil {
			return err
		}
		return grants.Replace(context, transaction, event.ID, event.RoleIDs)
	})

	return dberr.Wrap(err, "create_event", dberr.Reference("Delegation or role"))
}

// Update persists the event row and replaces its grants in one transaction.
func (repository *PostgresRepository) Update(context context.Context, event *Event) error {
	query := fmt.Sprintf(`
		UPDATE %s SET
			%s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8, %s = $9, %s = $10, %s = NOW()
		WHERE %s = $1
		RETURNING %s
	`,
		schema.CoreEvent.Table,
		schema.CoreEvent.Title, schema.CoreEvent.Description, schema.CoreEvent.Location, schema.CoreEvent.StartsAt,
		schema.CoreEvent.EndsAt, schema.CoreEvent.ImageURL, schema.CoreEvent.DelegationID,
		schema.CoreEvent.IsPublic, schema.CoreEvent.VisibleToAllRoles, schema.CoreEvent.UpdatedAt,
		schema.CoreEvent.ID,
		schema.CoreEvent.UpdatedAt,
	)

	err := postgres.WithTx(context, repository.pool, func(transaction pgx.Tx) error {
		err := transaction.QueryRow(context, query,
			event.ID, event.Title, event.Description, event.Location, event.StartsAt, event.EndsAt,
			event.ImageURL, event.DelegationID, event.IsPublic, event.VisibleToAllRoles,
		).Scan(&event.UpdatedAt)
		if err != nil {
			return err
		}
		return grants.Replace(context, transaction, event.ID, event.RoleIDs)
	})

	return dberr.Wrap(err, "update_event", dberr.Resource("Event"), dberr.Reference("Delegation or role"))
}

// Delete removes an event.
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CoreEvent.Table, schema.CoreEvent.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_event")
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "delete_event", dberr.Resource("Event"))
	}
	return nil
}
