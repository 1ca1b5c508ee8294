// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package contact

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/comunidad/internal/platform/database/schema"
	"github.com/taibuivan/comunidad/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed inbox.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

var messageColumns = fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s",
	schema.CoreContactMessage.ID, schema.CoreContactMessage.Name, schema.CoreContactMessage.Email,
	schema.CoreContactMessage.Phone, schema.CoreContactMessage.Subject, schema.CoreContactMessage.Message,
	schema.CoreContactMessage.IsRead, schema.CoreContactMessage.CreatedAt,
)

func scanMessage(row pgx.Row, extra ...any) (*Message, error) {
	message := &Message{}
	destinations := []any{
		&message.ID, &message.Name, &message.Email, &message.Phone, &message.Subject,
		&message.Message, &message.IsRead, &message.CreatedAt,
	}
	if err := row.Scan(append(destinations, extra...)...); err != nil {
		return nil, err
	}
	return message, nil
}

// List returns a page of the inbox.
func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Message, int, error) {
	where := ""
	if filter.UnreadOnly {
		where = fmt.Sprintf("WHERE %s = false", schema.CoreContactMessage.IsRead)
	}

	query := fmt.Sprintf(`SELECT %s, COUNT(*) OVER() AS total_count FROM %s %s ORDER BY %s DESC LIMIT $1 OFFSET $2`,
		messageColumns, schema.CoreContactMessage.Table, where, schema.CoreContactMessage.CreatedAt)

	rows, err := repository.pool.Query(context, query, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_contact_messages")
	}
	defer rows.Close()

	total := 0
	result := make([]*Message, 0)
	for rows.Next() {
		message, err := scanMessage(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_contact_message")
		}
		result = append(result, message)
	}

	return result, total, dberr.Wrap(rows.Err(), "iterate_contact_messages")
}

// CountUnread counts unread messages using the partial unread index.
func (repository *PostgresRepository) CountUnread(context context.Context) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = false`,
		schema.CoreContactMessage.Table, schema.CoreContactMessage.IsRead)

	var count int
	if err := repository.pool.QueryRow(context, query).Scan(&count); err != nil {
		return 0, dberr.Wrap(err, "count_unread_contact_messages")
	}
	return count, nil
}

// Create stores a submission.
func (repository *PostgresRepository) Create(context context.Context, message *Message) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s
	`,
		schema.CoreContactMessage.Table,
		schema.CoreContactMessage.ID, schema.CoreContactMessage.Name, schema.CoreContactMessage.Email,
		schema.CoreContactMessage.Phone, schema.CoreContactMessage.Subject, schema.CoreContactMessage.Message,
		schema.CoreContactMessage.CreatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		message.ID, message.Name, message.Email, message.Phone, message.Subject, message.Message,
	).Scan(&message.CreatedAt)

	return dberr.Wrap(err, "create_contact_message")
}

// SetRead updates the read flag and returns the row.
func (repository *PostgresRepository) SetRead(context context.Context, id string, read bool) (*Message, error) {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1 RETURNING %s`,
		schema.CoreContactMessage.Table, schema.CoreContactMessage.IsRead, schema.CoreContactMessage.ID, messageColumns)

	message, err := scanMessage(repository.pool.QueryRow(context, query, id, read))
	if err != nil {
		return nil, dberr.Wrap(err, "mark_contact_message", dberr.Resource("Message"))
	}
	return message, nil
}

// Delete removes a message.
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CoreContactMessage.Table, schema.CoreContactMessage.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_contact_message")
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "delete_contact_message", dberr.Resource("Message"))
	}
	return nil
}
