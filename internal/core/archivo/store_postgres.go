// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package archivo

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

// NewPostgresRepository constructs a PostgreSQL backed file store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

var visibility = access.VisibilityColumns{
	Alias:             "f",
	ID:                schema.CoreArchivo.ID,
	IsPublic:          schema.CoreArchivo.IsPublic,
	VisibleToAllRoles: schema.CoreArchivo.VisibleToAllRoles,
	GrantTable:        schema.CoreArchivoRole.Table,
	GrantResourceCol:  schema.CoreArchivoRole.ArchivoID,
	GrantRoleCol:      schema.CoreArchivoRole.RoleID,
}

var grants = postgres.Junction{
	Table:    schema.CoreArchivoRole.Table,
	OwnerCol: schema.CoreArchivoRole.ArchivoID,
	ValueCol: schema.CoreArchivoRole.RoleID,
}

var fileColumns = fmt.Sprintf(`
		f.%s, f.%s, f.%s, f.%s, f.%s, f.%s, f.%s, f.%s, f.%s, f.%s, f.%s, f.%s,
		COALESCE((
			SELECT json_agg(json_build_object('id', r.%s, 'name', r.%s, 'display_name', r.%s, 'color', r.%s) ORDER BY r.%s)
			FROM %s fr
			JOIN %s r ON r.%s = fr.%s
			WHERE fr.%s = f.%s
		), '[]') AS roles`,
	schema.CoreArchivo.ID, schema.CoreArchivo.Name, schema.CoreArchivo.Description, schema.CoreArchivo.Folder,
	schema.CoreArchivo.ObjectKey, schema.CoreArchivo.MimeType, schema.CoreArchivo.SizeBytes,
	schema.CoreArchivo.IsPublic, schema.CoreArchivo.VisibleToAllRoles, schema.CoreArchivo.UploadedBy,
	schema.CoreArchivo.CreatedAt, schema.CoreArchivo.UpdatedAt,
	schema.UserRoleDef.ID, schema.UserRoleDef.Name, schema.UserRoleDef.DisplayName, schema.UserRoleDef.Color, schema.UserRoleDef.Name,
	schema.CoreArchivoRole.Table,
	schema.UserRoleDef.Table, schema.UserRoleDef.ID, schema.CoreArchivoRole.RoleID,
	schema.CoreArchivoRole.ArchivoID, schema.CoreArchivo.ID,
)

func scanFile(row pgx.Row, extra ...any) (*Archivo, error) {
	file := &Archivo{}
	var rolesJSON []byte

	destinations := []any{
		&file.ID, &file.Name, &file.Description, &file.Folder, &file.ObjectKey, &file.MimeType, &file.SizeBytes,
		&file.IsPublic, &file.VisibleToAllRoles, &file.UploadedBy, &file.CreatedAt, &file.UpdatedAt, &rolesJSON,
	}
	if err := row.Scan(append(destinations, extra...)...); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(rolesJSON, &file.Roles); err != nil {
		return nil, fmt.Errorf("decode file roles: %w", err)
	}
	file.RoleIDs = slice.Map(file.Roles, func(role RoleRef) string { return role.ID })

	return file, nil
}

// where builds the shared WHERE clause of List and Folders.
func where(filter Filter) (string, []any, int) {
	var clause strings.Builder
	var args []any
	argID := 1

	clause.WriteString(" WHERE 1=1")

	// Folder Filtering
	if len(filter.Folders) > 0 {
		clause.WriteString(fmt.Sprintf(" AND f.%s = ANY($%d)", schema.CoreArchivo.Folder, argID))
		args = append(args, filter.Folders)
		argID++
	}

	// Search Query Filtering
	if filter.Query != "" {
		clause.WriteString(fmt.Sprintf(" AND (f.%s ILIKE $%d OR f.%s ILIKE $%d)",
			schema.CoreArchivo.Name, argID, schema.CoreArchivo.Description, argID))
		args = append(args, "%"+filter.Query+"%")
		argID++
	}

	// Visibility Filtering
	if !filter.Unrestricted {
		gate, gateArgs, next := visibility.Filter(filter.Viewer, argID)
		clause.WriteString(" AND " + gate)
		args = append(args, gateArgs...)
		argID = next
	}

	return clause.String(), args, argID
}

// List returns a page of files visible under filter.
func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Archivo, int, error) {
	clause, args, argID := where(filter)

	query := fmt.Sprintf(`SELECT %s, COUNT(*) OVER() AS total_count FROM %s f %s ORDER BY f.%s DESC, f.%s DESC LIMIT $%d OFFSET $%d`,
		fileColumns, schema.CoreArchivo.Table, clause,
		schema.CoreArchivo.CreatedAt, schema.CoreArchivo.ID, argID, argID+1)
	args = append(args, limit, offset)

	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_files")
	}
	defer rows.Close()

	total := 0
	result := make([]*Archivo, 0)
	for rows.Next() {
		file, err := scanFile(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_file")
		}
		result = append(result, file)
	}

	return result, total, dberr.Wrap(rows.Err(), "iterate_files")
}

// Folders groups the visible files by folder.
func (repository *PostgresRepository) Folders(context context.Context, filter Filter) ([]Folder, error) {
	filter.Folders = nil
	clause, args, _ := where(filter)

	query := fmt.Sprintf(`SELECT f.%s, COUNT(*) FROM %s f %s GROUP BY f.%s ORDER BY f.%s ASC`,
		schema.CoreArchivo.Folder, schema.CoreArchivo.Table, clause,
		schema.CoreArchivo.Folder, schema.CoreArchivo.Folder)

	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "list_folders")
	}
	defer rows.Close()

	result := make([]Folder, 0)
	for rows.Next() {
		var folder Folder
		if err := rows.Scan(&folder.Name, &folder.Files); err != nil {
			return nil, dberr.Wrap(err, "scan_folder")
		}
		result = append(result, folder)
	}

	return result, dberr.Wrap(rows.Err(), "iterate_folders")
}

// FindByID returns a single file.
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Archivo, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s f WHERE f.%s = $1`, fileColumns, schema.CoreArchivo.Table, schema.CoreArchivo.ID)

	file, err := scanFile(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "find_file", dberr.Resource("File"))
	}
	return file, nil
}

// Create inserts the row and its grants in one transaction.
func (repository *PostgresRepository) Create(context context.Context, file *Archivo) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING %s, %s
	`,
		schema.CoreArchivo.Table,
		schema.CoreArchivo.ID, schema.CoreArchivo.Name, schema.CoreArchivo.Description, schema.CoreArchivo.Folder,
		schema.CoreArchivo.ObjectKey, schema.CoreArchivo.MimeType, schema.CoreArchivo.SizeBytes,
		schema.CoreArchivo.IsPublic, schema.CoreArchivo.VisibleToAllRoles, schema.CoreArchivo.UploadedBy,
		schema.CoreArchivo.CreatedAt, schema.CoreArchivo.UpdatedAt,
	)

	err := postgres.WithTx(context, repository.pool, func(transaction pgx.Tx) error {
		err := transaction.QueryRow(context, query,
			file.ID, file.Name, file.Description, file.Folder, file.ObjectKey, file.MimeType, file.SizeBytes,
			file.IsPublic, file.VisibleToAllRoles, file.UploadedBy,
		).Scan(&file.CreatedAt, &file.UpdatedAt)
		if err != nil {
			return err
		}
		return grants.Replace(context, transaction, file.ID, file.RoleIDs)
	})

	return dberr.Wrap(err, "create_file", dberr.Reference("Role"), dberr.OnConflict("Object key already in use"))
}

// Update persists metadata and visibility in one transaction.
func (repository *PostgresRepository) Update(context context.Context, file *Archivo) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = NOW()
		WHERE %s = $1
		RETURNING %s
	`,
		schema.CoreArchivo.Table,
		schema.CoreArchivo.Name, schema.CoreArchivo.Description, schema.CoreArchivo.Folder,
		schema.CoreArchivo.IsPublic, schema.CoreArchivo.VisibleToAllRoles, schema.CoreArchivo.UpdatedAt,
		schema.CoreArchivo.ID,
		schema.CoreArchivo.UpdatedAt,
	)

	err := postgres.WithTx(context, repository.pool, func(transaction pgx.Tx) error {
		err := transaction.QueryRow(context, query,
			file.ID, file.Name, file.Description, file.Folder, file.IsPublic, file.VisibleToAllRoles,
		).Scan(&file.UpdatedAt)
		if err != nil {
			return err
		}
		return grants.Replace(context, transaction, file.ID, file.RoleIDs)
	})

	return dberr.Wrap(err, "update_file", dberr.Resource("File"), dberr.Reference("Role"))
}

// Delete removes the row and reports the object key it held.
func (repository *PostgresRepository) Delete(context context.Context, id string) (string, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 RETURNING %s`,
		schema.CoreArchivo.Table, schema.CoreArchivo.ID, schema.CoreArchivo.ObjectKey)

	var objectKey string
	if err := repository.pool.QueryRow(context, query, id).Scan(&objectKey); err != nil {
		return "", dberr.Wrap(err, "delete_file", dberr.Resource("File"))
	}
	return objectKey, nil
}
