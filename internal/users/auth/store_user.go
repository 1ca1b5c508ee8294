// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/comunidad/internal/platform/apperr"
	"github.com/taibuivan/comunidad/internal/platform/database/schema"
	"github.com/taibuivan/comunidad/internal/platform/dberr"
)

/*
PostgresUserRepository stores accounts in users.account.

Soft-deleted rows (deletedat set) are invisible to every method, which also
frees their email for a new registration through the partial unique index.
It serves both [UserRepository] and the profile contract of the account
package.
*/
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a PostgreSQL implementation of [UserRepository].
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

var (
	accountTable = schema.UserAccount

	accountColumns = fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s",
		accountTable.ID, accountTable.Email, accountTable.Password, accountTable.FullName, accountTable.Phone, accountTable.AvatarURL,
		accountTable.IsVerified, accountTable.IsActive, accountTable.LastLoginAt, accountTable.CreatedAt, accountTable.UpdatedAt)

	liveAccount = fmt.Sprintf("%s IS NULL", accountTable.DeletedAt)
)

func scanUser(row pgx.Row) (*User, error) {
	var user User
	err := row.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.FullName, &user.Phone, &user.AvatarURL,
		&user.IsVerified, &user.IsActive, &user.LastLoginAt, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (repository *PostgresUserRepository) findOne(context context.Context, action, condition string, arg any) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s AND %s`, accountColumns, accountTable.Table, condition, liveAccount)

	user, err := scanUser(repository.pool.QueryRow(context, query, arg))
	if err != nil {
		return nil, dberr.Wrap(err, action, dberr.Resource("User"))
	}
	return user, nil
}

// FindByID implements [UserRepository].
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	return repository.findOne(context, "find_user_by_id", accountTable.ID+" = $1", id)
}

// FindByEmail implements [UserRepository]. The lookup matches the
// lower(email) unique index.
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	return repository.findOne(context, "find_user_by_email", fmt.Sprintf("lower(%s) = lower($1)", accountTable.Email), email)
}

// Create inserts the account and reads back the database timestamps.
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s, %s`,
		accountTable.Table,
		accountTable.ID, accountTable.Email, accountTable.Password, accountTable.FullName, accountTable.IsVerified, accountTable.IsActive,
		accountTable.CreatedAt, accountTable.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		user.ID, user.Email, user.PasswordHash, user.FullName, user.IsVerified, user.IsActive,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	return dberr.Wrap(err, "create_user", dberr.OnConflict("Email is already registered"))
}

// UpdatePassword implements [UserRepository].
func (repository *PostgresUserRepository) UpdatePassword(context context.Context, userID, newHash string) error {
	return repository.update(context, "update_password", userID, accountTable.Password+" = $2", newHash)
}

// MarkVerified implements [UserRepository].
func (repository *PostgresUserRepository) MarkVerified(context context.Context, userID string) error {
	return repository.update(context, "mark_verified", userID, accountTable.IsVerified+" = TRUE")
}

// TouchLogin records the last successful login. updatedat is left alone.
func (repository *PostgresUserRepository) TouchLogin(context context.Context, userID string, at time.Time) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1`, accountTable.Table, accountTable.LastLoginAt, accountTable.ID)

	_, err := repository.pool.Exec(context, query, userID, at)
	return dberr.Wrap(err, "touch_login")
}

// UpdateProfile persists the self-service fields: full name, phone and avatar.
func (repository *PostgresUserRepository) UpdateProfile(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = NOW()
		WHERE %s = $1 AND %s
		RETURNING %s`,
		accountTable.Table,
		accountTable.FullName, accountTable.Phone, accountTable.AvatarURL, accountTable.UpdatedAt,
		accountTable.ID, liveAccount,
		accountTable.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query, user.ID, user.FullName, user.Phone, user.AvatarURL).Scan(&user.UpdatedAt)
	return dberr.Wrap(err, "update_profile", dberr.Resource("User"))
}

// SoftDelete stamps deletedat and deactivates the account.
func (repository *PostgresUserRepository) SoftDelete(context context.Context, userID string) error {
	return repository.update(context, "soft_delete_user", userID,
		fmt.Sprintf("%s = NOW(), %s = FALSE", accountTable.DeletedAt, accountTable.IsActive))
}

// update applies assignments to one live account and bumps updatedat.
// Placeholders in assignments start at $2.
func (repository *PostgresUserRepository) update(context context.Context, action, userID, assignments string, args ...any) error {
	query := fmt.Sprintf(`UPDATE %s SET %s, %s = NOW() WHERE %s = $1 AND %s`,
		accountTable.Table, assignments, accountTable.UpdatedAt, accountTable.ID, liveAccount)

	tag, err := repository.pool.Exec(context, query, append([]any{userID}, args...)...)
	if err != nil {
		return dberr.Wrap(err, action)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}
	return nil
}
