// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package contact_test

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/comunidad/internal/core/contact"
	"github.com/taibuivan/comunidad/internal/platform/apperr"
	"github.com/taibuivan/comunidad/internal/platform/dberr"
	"github.com/taibuivan/comunidad/pkg/pointer"
)

// # In-Memory Repository

type memRepo struct {
	mu   sync.Mutex
	rows map[string]*contact.Message
	tick time.Time
}

func newMemRepo() *memRepo {
	return &memRepo{rows: map[string]*contact.Message{}, tick: time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)}
}

func (repo *memRepo) List(_ context.Context, filter contact.Filter, limit, offset int) ([]*contact.Message, int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	matched := make([]*contact.Message, 0)
	for _, row := range repo.rows {
		if filter.UnreadOnly && row.IsRead {
			continue
		}
		copied := *row
		matched = append(matched, &copied)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := len(matched)
	if offset >= total {
		return []*contact.Message{}, total, nil
	}
	if offset+limit < total {
		matched = matched[:offset+limit]
	}
	return matched[offset:], total, nil
}

func (repo *memRepo) CountUnread(_ context.Context) (int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	count := 0
	for _, row := range repo.rows {
		if !row.IsRead {
			count++
		}
	}
	return count, nil
}

func (repo *memRepo) Create(_ context.Context, message *contact.Message) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.tick = repo.tick.Add(time.Minute)
	message.CreatedAt = repo.tick
	copied := *message
	repo.rows[message.ID] = &copied
	return nil
}

func (repo *memRepo) SetRead(_ context.Context, id string, read bool) (*contact.Message, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	row, ok := repo.rows[id]
	if !ok {
		return nil, dberr.Wrap(pgx.ErrNoRows, "mark_contact_message", dberr.Resource("Message"))
	}
	row.IsRead = read
	copied := *row
	return &copied, nil
}

func (repo *memRepo) Delete(_ context.Context, id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if _, ok := repo.rows[id]; !ok {
		return dberr.Wrap(pgx.ErrNoRows, "delete_contact_message", dberr.Resource("Message"))
	}
	delete(repo.rows, id)
	return nil
}

// # Tests

func newService(t *testing.T) (*contact.Service, *memRepo) {
	t.Helper()
	repo := newMemRepo()
	return contact.NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil))), repo
}

func validSubmission() contact.Submission {
	return contact.Submission{
		Name:    "Lucía Fernández",
		Email:   " Lucia@Example.com ",
		Subject: pointer.To("  "),
		Message: "¿A qué hora es el culto del domingo?",
	}
}

func TestService_Submit(t *testing.T) {
	service, repo := newService(t)

	message, err := service.Submit(context.Background(), validSubmission())
	require.NoError(t, err)

	assert.Equal(t, "lucia@example.com", message.Email)
	assert.Nil(t, message.Subject)
	assert.False(t, message.IsRead)
	assert.Len(t, repo.rows, 1)
}

func TestService_SubmitValidation(t *testing.T) {
	service, repo := newService(t)

	tests := []struct {
		name   string
		mutate func(*contact.Submission)
		field  string
	}{
		{"missing name", func(s *contact.Submission) { s.Name = " " }, contact.FieldName},
		{"bad email", func(s *contact.Submission) { s.Email = "lucia" }, contact.FieldEmail},
		{"short message", func(s *contact.Submission) { s.Message = "hola" }, contact.FieldMessage},
		{"long phone", func(s *contact.Submission) { s.Phone = pointer.To("+34 600 000 000 000 000 000 000 000 000 000") }, contact.FieldPhone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			submission := validSubmission()
			tt.mutate(&submission)

			_, err := service.Submit(context.Background(), submission)
			appErr := apperr.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, apperr.CodeValidation, appErr.Code)
			require.NotEmpty(t, appErr.Details)
			assert.Equal(t, tt.field, appErr.Details[0].Field)
		})
	}
	assert.Empty(t, repo.rows)
}

func TestService_Inbox(t *testing.T) {
	service, _ := newService(t)
	ctx := context.Background()

	first, err := service.Submit(ctx, validSubmission())
	require.NoError(t, err)
	_, err = service.Submit(ctx, validSubmission())
	require.NoError(t, err)

	read, err := service.SetRead(ctx, first.ID, true)
	require.NoError(t, err)
	assert.True(t, read.IsRead)

	unread, total, err := service.List(ctx, contact.Filter{UnreadOnly: true}, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.NotEqual(t, first.ID, unread[0].ID)

	count, err := service.CountUnread(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, service.Delete(ctx, first.ID))
	_, err = service.SetRead(ctx, first.ID, false)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
	assert.True(t, apperr.HasCode(service.Delete(ctx, "not-a-uuid"), apperr.CodeNotFound))
}
