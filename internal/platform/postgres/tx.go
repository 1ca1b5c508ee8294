// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// # Transactions

/*
WithTx runs fn inside a transaction on pool.

Description: The transaction is committed when fn returns nil and rolled
back otherwise. A rollback after a successful commit is a no-op, so the
deferred call is always safe.

Returns:
  - error: fn's error unchanged, or a begin/commit failure
*/
func WithTx(context context.Context, pool *pgxpool.Pool, fn func(pgx.Tx) error) error {
	transaction, err := pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres: failed to begin transaction: %w", err)
	}
	defer transaction.Rollback(context)

	if err := fn(transaction); err != nil {
		return err
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres: failed to commit transaction: %w", err)
	}
	return nil
}

// # Junction Tables

// Junction names a two-column link table such as core.eventrole.
type Junction struct {
	Table    string
	OwnerCol string
	ValueCol string
}

/*
Replace swaps every row owned by ownerID for one row per value.

Description: Clear-and-insert inside the caller's transaction. Inserts are
queued on a single pgx.Batch so the whole set costs one round-trip.
*/
func (junction Junction) Replace(context context.Context, transaction pgx.Tx, ownerID string, values []string) error {
	purge := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", junction.Table, junction.OwnerCol)
	if _, err := transaction.Exec(context, purge, ownerID); err != nil {
		return fmt.Errorf("postgres: failed to clear %s: %w", junction.Table, err)
	}

	if len(values) == 0 {
		return nil
	}

	insert := fmt.Sprintf("INSERT INTO %s (%s, %s) VALUES ($1, $2) ON CONFLICT DO NOTHING",
		junction.Table, junction.OwnerCol, junction.ValueCol)

	batch := &pgx.Batch{}
	for _, value := range values {
		batch.Queue(insert, ownerID, value)
	}

	// Close surfaces the first failed statement, e.g. an unknown role id.
	if err := transaction.SendBatch(context, batch).Close(); err != nil {
		return fmt.Errorf("postgres: failed to batch insert into %s: %w", junction.Table, err)
	}
	return nil
}
