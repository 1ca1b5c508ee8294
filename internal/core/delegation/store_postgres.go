// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package delegation

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/comunidad/internal/platform/database/schema"
	"github.com/taibuivan/comunidad/internal/platform/dberr"
)

// # PostgreSQL Repository

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed delegation store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const slugConflict = "A delegation with this slug already exists"

var delegationColumns = strings.Join([]string{
	"d." + schema.CoreDelegation.ID, "d." + schema.CoreDelegation.Name, "d." + schema.CoreDelegation.Slug,
	"d." + schema.CoreDelegation.City, "d." + schema.CoreDelegation.Region, "d." + schema.CoreDelegation.Address,
	"d." + schema.CoreDelegation.Phone, "d." + schema.CoreDelegation.Email, "d." + schema.CoreDelegation.PastorName,
	"d." + schema.CoreDelegation.ServiceSchedule, "d." + schema.CoreDelegation.Latitude, "d." + schema.CoreDelegation.Longitude,
	"d." + schema.CoreDelegation.ImageURL, "d." + schema.CoreDelegation.IsActive,
	"d." + schema.CoreDelegation.CreatedAt, "d." + schema.CoreDelegation.UpdatedAt,
}, ", ")

func scanDelegation(row pgx.Row, extra ...any) (*Delegation, error) {
	item := &Delegation{}
	destinations := []any{
		&item.ID, &item.Name, &item.Slug, &item.City, &item.Region, &item.Address,
		&item.Phone, &item.Email, &item.PastorName, &item.ServiceSchedule, &item.Latitude, &item.Longitude,
		&item.ImageURL, &item.IsActive, &item.CreatedAt, &item.UpdatedAt,
	}
	if err := row.Scan(append(destinations, extra...)...); err != nil {
		return nil, err
	}
	return item, nil
}

// distanceExpr is the haversine distance in km from ($lat, $lng) to the row.
func distanceExpr(latArg, lngArg int) string {
	return fmt.Sprintf(
		`(%[5]f * 2 * ASIN(SQRT(
			POWER(SIN(RADIANS(d.%[1]s - $%[3]d::float8) / 2), 2) +
			COS(RADIANS($%[3]d::float8)) * COS(RADIANS(d.%[1]s)) *
			POWER(SIN(RADIANS(d.%[2]s - $%[4]d::float8) / 2), 2)
		)))`,
		schema.CoreDelegation.Latitude, schema.CoreDelegation.Longitude, latArg, lngArg, EarthRadiusKm,
	)
}

/*
List returns a page of delegations.

Description: Without Near the page is ordered by name. With Near, rows
lacking coordinates are dropped and the rest come nearest first, each
carrying its distance.
*/
func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Delegation, int, error) {
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	distance := "NULL::float8"
	if filter.Near != nil {
		distance = distanceExpr(argID, argID+1)
		args = append(args, filter.Near.Lat, filter.Near.Lng)
		argID += 2
	}

	queryBuilder.WriteString(fmt.Sprintf(`SELECT %s, %s AS distance_km, COUNT(*) OVER() AS total_count FROM %s d WHERE 1=1`,
		delegationColumns, distance, schema.CoreDelegation.Table))

	// Status Filtering
	if filter.Active != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND d.%s = $%d", schema.CoreDelegation.IsActive, argID))
		args = append(args, *filter.Active)
		argID++
	}

	// Location Filtering
	if filter.City != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND d.%s ILIKE $%d", schema.CoreDelegation.City, argID))
		args = append(args, filter.City)
		argID++
	}
	if filter.Region != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND d.%s ILIKE $%d", schema.CoreDelegation.Region, argID))
		args = append(args, filter.Region)
		argID++
	}

	// Search Query Filtering
	if filter.Query != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND (d.%s ILIKE $%d OR d.%s ILIKE $%d OR d.%s ILIKE $%d)",
			schema.CoreDelegation.Name, argID, schema.CoreDelegation.City, argID, schema.CoreDelegation.Address, argID))
		args = append(args, "%"+filter.Query+"%")
		argID++
	}

	// Proximity
	if filter.Near != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND d.%s IS NOT NULL AND d.%s IS NOT NULL",
			schema.CoreDelegation.Latitude, schema.CoreDelegation.Longitude))
		if filter.RadiusKm > 0 {
			queryBuilder.WriteString(fmt.Sprintf(" AND %s <= $%d", distance, argID))
			args = append(args, filter.RadiusKm)
			argID++
		}
		queryBuilder.WriteString(fmt.Sprintf(" ORDER BY distance_km ASC, d.%s ASC", schema.CoreDelegation.Name))
	} else {
		queryBuilder.WriteString(fmt.Sprintf(" ORDER BY d.%s ASC", schema.CoreDelegation.Name))
	}

	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_delegations")
	}
	defer rows.Close()

	total := 0
	result := make([]*Delegation, 0)
	for rows.Next() {
		var distanceKm *float64
		item, err := scanDelegation(rows, &distanceKm, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_delegation")
		}
		item.DistanceKm = distanceKm
		result = append(result, item)
	}

	return result, total, dberr.Wrap(rows.Err(), "iterate_delegations")
}

func (repository *PostgresRepository) findBy(context context.Context, column, value string) (*Delegation, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s d WHERE d.%s = $1`, delegationColumns, schema.CoreDelegation.Table, column)

	item, err := scanDelegation(repository.pool.QueryRow(context, query, value))
	if err != nil {
		return nil, dberr.Wrap(err, "find_delegation", dberr.Resource("Delegation"))
	}
	return item, nil
}

// FindByID returns one delegation by id.
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Delegation, error) {
	return repository.findBy(context, schema.CoreDelegation.ID, id)
}

// FindBySlug returns one delegation by slug.
func (repository *PostgresRepository) FindBySlug(context context.Context, slug string) (*Delegation, error) {
	return repository.findBy(context, schema.CoreDelegation.Slug, slug)
}

// Create inserts a delegation.
func (repository *PostgresRepository) Create(context context.Context, item *Delegation) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING %s, %s
	`,
		schema.CoreDelegation.Table,
		schema.CoreDelegation.ID, schema.CoreDelegation.Name, schema.CoreDelegation.Slug, schema.CoreDelegation.City,
		schema.CoreDelegation.Region, schema.CoreDelegation.Address, schema.CoreDelegation.Phone, schema.CoreDelegation.Email,
		schema.CoreDelegation.PastorName, schema.CoreDelegation.ServiceSchedule,
		schema.CoreDelegation.Latitude, schema.CoreDelegation.Longitude, schema.CoreDelegation.ImageURL, schema.CoreDelegation.IsActive,
		schema.CoreDelegation.CreatedAt, schema.CoreDelegation.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		item.ID, item.Name, item.Slug, item.City, item.Region, item.Address, item.Phone, item.Email,
		item.PastorName, item.ServiceSchedule, item.Latitude, item.Longitude, item.ImageURL, item.IsActive,
	).Scan(&item.CreatedAt, &item.UpdatedAt)

	return dberr.Wrap(err, "create_delegation", dberr.OnConflict(slugConflict))
}

// Update persists every writable column.
func (repository *PostgresRepository) Update(context context.Context, item *Delegation) error {
	query := fmt.Sprintf(`
		UPDATE %s SET
			%s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8,
			%s = $9, %s = $10, %s = $11, %s = $12, %s = $13, %s = $14, %s = NOW()
		WHERE %s = $1
		RETURNING %s
	`,
		schema.CoreDelegation.Table,
		schema.CoreDelegation.Name, schema.CoreDelegation.Slug, schema.CoreDelegation.City, schema.CoreDelegation.Region,
		schema.CoreDelegation.Address, schema.CoreDelegation.Phone, schema.CoreDelegation.Email,
		schema.CoreDelegation.PastorName, schema.CoreDelegation.ServiceSchedule,
		schema.CoreDelegation.Latitude, schema.CoreDelegation.Longitude, schema.CoreDelegation.ImageURL, schema.CoreDelegation.IsActive,
		schema.CoreDelegation.UpdatedAt,
		schema.CoreDelegation.ID,
		schema.CoreDelegation.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		item.ID, item.Name, item.Slug, item.City, item.Region, item.Address, item.Phone, item.Email,
		item.PastorName, item.ServiceSchedule, item.Latitude, item.Longitude, item.ImageURL, item.IsActive,
	).Scan(&item.UpdatedAt)

	return dberr.Wrap(err, "update_delegation", dberr.Resource("Delegation"), dberr.OnConflict(slugConflict))
}

// Delete removes a delegation. Events pointing at it keep their row and
// lose the reference.
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CoreDelegation.Table, schema.CoreDelegation.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_delegation")
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "delete_delegation", dberr.Resource("Delegation"))
	}
	return nil
}
