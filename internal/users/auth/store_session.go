// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/comunidad/internal/platform/apperr"
	"github.com/taibuivan/comunidad/internal/platform/database/schema"
	"github.com/taibuivan/comunidad/internal/platform/dberr"
)

// PostgresSessionRepository stores refresh sessions in users.session. It
// also serves the device listing of the account package.
type PostgresSessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a PostgreSQL implementation of [SessionRepository].
func NewSessionRepository(pool *pgxpool.Pool) *PostgresSessionRepository {
	return &PostgresSessionRepository{pool: pool}
}

// RevokedRetention is how long revoked sessions are kept for auditing
// before [PostgresSessionRepository.DeleteExpired] removes them.
const RevokedRetention = "7 days"

var (
	sessionTable = schema.UserSession

	sessionColumns = fmt.Sprintf("%s, %s, %s, COALESCE(%s, ''), COALESCE(%s, ''), %s, %s, %s",
		sessionTable.ID, sessionTable.UserID, sessionTable.TokenHash, sessionTable.UserAgent, sessionTable.IPAddress,
		sessionTable.ExpiresAt, sessionTable.IsRevoked, sessionTable.CreatedAt)

	liveSession = fmt.Sprintf("%s = FALSE AND %s > NOW()", sessionTable.IsRevoked, sessionTable.ExpiresAt)
)

func scanSession(row pgx.Row) (*Session, error) {
	var s Session
	err := row.Scan(&s.ID, &s.UserID, &s.TokenHash, &s.UserAgent, &s.IPAddress, &s.ExpiresAt, &s.IsRevoked, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create implements [SessionRepository].
func (repository *PostgresSessionRepository) Create(context context.Context, s *Session) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s`,
		sessionTable.Table,
		sessionTable.ID, sessionTable.UserID, sessionTable.TokenHash, sessionTable.UserAgent, sessionTable.IPAddress, sessionTable.ExpiresAt,
		sessionTable.CreatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		s.ID, s.UserID, s.TokenHash, s.UserAgent, s.IPAddress, s.ExpiresAt,
	).Scan(&s.CreatedAt)
	return dberr.Wrap(err, "create_session", dberr.Reference("User"))
}

// FindByTokenHash implements [SessionRepository].
func (repository *PostgresSessionRepository) FindByTokenHash(context context.Context, tokenHash string) (*Session, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s`, sessionColumns, sessionTable.Table, sessionTable.TokenHash, liveSession)

	found, err := scanSession(repository.pool.QueryRow(context, query, tokenHash))
	if err != nil {
		return nil, dberr.Wrap(err, "find_session", dberr.Resource("Session"))
	}
	return found, nil
}

// ListActive returns the live sessions of userID, newest first.
func (repository *PostgresSessionRepository) ListActive(context context.Context, userID string) ([]*Session, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s ORDER BY %s DESC`,
		sessionColumns, sessionTable.Table, sessionTable.UserID, liveSession, sessionTable.CreatedAt)

	rows, err := repository.pool.Query(context, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_sessions")
	}

	sessions, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Session, error) { return scanSession(row) })
	if err != nil {
		return nil, dberr.Wrap(err, "scan_sessions")
	}
	return sessions, nil
}

// Revoke implements [SessionRepository]. Revoking twice is not an error.
func (repository *PostgresSessionRepository) Revoke(context context.Context, sessionID string) error {
	_, err := repository.revoke(context, "revoke_session", sessionTable.ID+" = $1", sessionID)
	return err
}

// RevokeOwned revokes one live session of userID, or reports NOT_FOUND.
func (repository *PostgresSessionRepository) RevokeOwned(context context.Context, userID, sessionID string) error {
	revoked, err := repository.revoke(context, "revoke_owned_session",
		fmt.Sprintf("%s = $1 AND %s = $2", sessionTable.UserID, sessionTable.ID), userID, sessionID)
	if err != nil {
		return err
	}
	if revoked == 0 {
		return apperr.NotFound("Session")
	}
	return nil
}

// RevokeAll implements [SessionRepository].
func (repository *PostgresSessionRepository) RevokeAll(context context.Context, userID string) error {
	_, err := repository.revoke(context, "revoke_all_sessions", sessionTable.UserID+" = $1", userID)
	return err
}

// RevokeOthers implements [SessionRepository].
func (repository *PostgresSessionRepository) RevokeOthers(context context.Context, userID, currentSessionID string) error {
	_, err := repository.revoke(context, "revoke_other_sessions",
		fmt.Sprintf("%s = $1 AND %s <> $2", sessionTable.UserID, sessionTable.ID), userID, currentSessionID)
	return err
}

// DeleteExpired removes expired sessions and revoked ones older than
// [RevokedRetention].
func (repository *PostgresSessionRepository) DeleteExpired(context context.Context) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s < NOW() OR (%s AND %s < NOW() - INTERVAL '%s')`,
		sessionTable.Table, sessionTable.ExpiresAt, sessionTable.IsRevoked, sessionTable.RevokedAt, RevokedRetention)

	tag, err := repository.pool.Exec(context, query)
	if err != nil {
		return 0, dberr.Wrap(err, "delete_expired_sessions")
	}
	return tag.RowsAffected(), nil
}

// revoke flags the live sessions matching condition and reports how many.
func (repository *PostgresSessionRepository) revoke(context context.Context, action, condition string, args ...any) (int64, error) {
	query := fmt.Sprintf(`UPDATE %s SET %s = TRUE, %s = NOW() WHERE %s AND %s = FALSE`,
		sessionTable.Table, sessionTable.IsRevoked, sessionTable.RevokedAt, condition, sessionTable.IsRevoked)

	tag, err := repository.pool.Exec(context, query, args...)
	if err != nil {
		return 0, dberr.Wrap(err, action)
	}
	return tag.RowsAffected(), nil
}
