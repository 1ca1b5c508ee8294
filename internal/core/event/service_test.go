// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package event_test

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/comunidad/internal/access"
	"github.com/taibuivan/comunidad/internal/access/accesstest"
	"github.com/taibuivan/comunidad/internal/core/event"
	"github.com/taibuivan/comunidad/internal/platform/apperr"
	"github.com/taibuivan/comunidad/internal/platform/dberr"
	"github.com/taibuivan/comunidad/pkg/pointer"
)

// # In-Memory Repository

// memRepo applies the same window and visibility rules as the SQL listing.
type memRepo struct {
	mu   sync.Mutex
	rows map[string]*event.Event
}

func newMemRepo() *memRepo {
	return &memRepo{rows: map[string]*event.Event{}}
}

func clone(source *event.Event) *event.Event {
	copied := *source
	copied.RoleIDs = append([]string(nil), source.RoleIDs...)
	copied.Roles = make([]event.RoleRef, 0, len(source.RoleIDs))
	for _, id := range source.RoleIDs {
		copied.Roles = append(copied.Roles, event.RoleRef{ID: id})
	}
	return &copied
}

func (repo *memRepo) List(_ context.Context, filter event.Filter, limit, offset int) ([]*event.Event, int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	matched := make([]*event.Event, 0)
	for _, row := range repo.rows {
		end := row.StartsAt
		if row.EndsAt != nil {
			end = *row.EndsAt
		}
		if filter.From != nil && end.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !row.StartsAt.Before(*filter.To) {
			continue
		}
		if !filter.Unrestricted && !access.CanView(row.Visibility, filter.Viewer) {
			continue
		}
		matched = append(matched, clone(row))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].StartsAt.Before(matched[j].StartsAt) })

	total := len(matched)
	if offset >= total {
		return []*event.Event{}, total, nil
	}
	if offset+limit < total {
		matched = matched[:offset+limit]
	}
	return matched[offset:], total, nil
}

func (repo *memRepo) FindByID(_ context.Context, id string) (*event.Event, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	row, ok := repo.rows[id]
	if !ok {
		return nil, dberr.Wrap(pgx.ErrNoRows, "find_event", dberr.Resource("Event"))
	}
	return clone(row), nil
}

func (repo *memRepo) Create(_ context.Context, item *event.Event) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.rows[item.ID] = clone(item)
	return nil
}

func (repo *memRepo) Update(_ context.Context, item *event.Event) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if _, ok := repo.rows[item.ID]; !ok {
		return dberr.Wrap(pgx.ErrNoRows, "update_event", dberr.Resource("Event"))
	}
	repo.rows[item.ID] = clone(item)
	return nil
}

func (repo *memRepo) Delete(_ context.Context, id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if _, ok := repo.rows[id]; !ok {
		return dberr.Wrap(pgx.ErrNoRows, "delete_event", dberr.Resource("Event"))
	}
	delete(repo.rows, id)
	return nil
}

// # Fixtures

const creatorID = "01900000-0000-7000-8000-0000000000d1"

var sunday = time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)

func newService(t *testing.T) (*event.Service, *memRepo) {
	t.Helper()
	repo := newMemRepo()
	service := event.NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
	service.SetClock(func() time.Time { return sunday.Add(-48 * time.Hour) })
	return service, repo
}

func create(t *testing.T, service *event.Service, title string, input event.Input) *event.Event {
	t.Helper()
	input.Title = pointer.To(title)
	if input.StartsAt == nil {
		input.StartsAt = pointer.To(sunday)
	}
	created, err := service.Create(context.Background(), creatorID, input)
	require.NoError(t, err)
	return created
}

// # Tests

/*
TestGet_ExplicitRoleList covers an event shared with lider only.
*/
func TestGet_ExplicitRoleList(t *testing.T) {
	service, _ := newService(t)
	leaders := create(t, service, "Reunión de líderes", event.Input{
		RoleIDs: &[]string{accesstest.RoleID(access.RoleLider)},
	})

	_, err := service.Get(context.Background(), accesstest.Principal("u1", access.RoleCelula), leaders.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	got, err := service.Get(context.Background(), accesstest.Principal("u1", access.RoleLider, access.RoleCelula), leaders.ID)
	require.NoError(t, err)
	assert.Equal(t, leaders.ID, got.ID)

	_, err = service.Get(context.Background(), nil, leaders.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

/*
TestListCalendar_Visibility lists the same calendar for different callers.
*/
func TestListCalendar_Visibility(t *testing.T) {
	service, _ := newService(t)
	create(t, service, "Culto dominical", event.Input{IsPublic: pointer.To(true)})
	create(t, service, "Cena de miembros", event.Input{VisibleToAllRoles: pointer.To(true)})
	create(t, service, "Escuela de líderes", event.Input{RoleIDs: &[]string{accesstest.RoleID(access.RoleLider)}})
	create(t, service, "Borrador", event.Input{})

	tests := []struct {
		name   string
		viewer *access.Principal
		titles []string
	}{
		{"anonymous", nil, []string{"Culto dominical"}},
		{"no_roles", &access.Principal{UserID: "u0"}, []string{"Culto dominical"}},
		{"usuario", accesstest.Principal("u1", access.RoleUsuario), []string{"Culto dominical", "Cena de miembros"}},
		{"lider", accesstest.Principal("u2", access.RoleLider), []string{"Culto dominical", "Cena de miembros", "Escuela de líderes"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, total, err := service.ListCalendar(context.Background(), event.Filter{Viewer: tt.viewer}, 50, 0)
			require.NoError(t, err)
			assert.Equal(t, len(tt.titles), total)

			var titles []string
			for _, item := range events {
				titles = append(titles, item.Title)
			}
			assert.ElementsMatch(t, tt.titles, titles)
		})
	}

	all, total, err := service.ListAll(context.Background(), event.Filter{}, 50, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Len(t, all, 4)
}

func TestListCalendar_Window(t *testing.T) {
	service, _ := newService(t)
	create(t, service, "Pasado", event.Input{IsPublic: pointer.To(true), StartsAt: pointer.To(sunday.AddDate(0, 0, -7))})
	create(t, service, "Retiro", event.Input{
		IsPublic: pointer.To(true),
		StartsAt: pointer.To(sunday.AddDate(0, 0, -3)),
		EndsAt:   pointer.To(sunday.AddDate(0, 0, 1)),
	})
	create(t, service, "Próximo", event.Input{IsPublic: pointer.To(true)})

	// Default window starts today, so the multi-day retreat still shows.
	events, _, err := service.ListCalendar(context.Background(), event.Filter{}, 50, 0)
	require.NoError(t, err)
	var titles []string
	for _, item := range events {
		titles = append(titles, item.Title)
	}
	assert.Equal(t, []string{"Retiro", "Próximo"}, titles)

	from := sunday
	to := sunday.AddDate(0, 0, -1)
	_, _, err = service.ListCalendar(context.Background(), event.Filter{From: &from, To: &to}, 50, 0)
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	to = sunday.AddDate(2, 0, 0)
	_, _, err = service.ListCalendar(context.Background(), event.Filter{From: &from, To: &to}, 50, 0)
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

func TestCreate_Validation(t *testing.T) {
	service, repo := newService(t)

	tests := []struct {
		name  string
		input event.Input
	}{
		{"missing_title", event.Input{StartsAt: pointer.To(sunday)}},
		{"missing_start", event.Input{Title: pointer.To("Culto")}},
		{"ends_before_start", event.Input{
			Title:    pointer.To("Culto"),
			StartsAt: pointer.To(sunday),
			EndsAt:   pointer.To(sunday.Add(-time.Hour)),
		}},
		{"bad_role_id", event.Input{
			Title:    pointer.To("Culto"),
			StartsAt: pointer.To(sunday),
			RoleIDs:  &[]string{"lider"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Create(context.Background(), creatorID, tt.input)
			require.Error(t, err)
			assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
		})
	}
	assert.Empty(t, repo.rows)
}

/*
TestUpdate_ReplacesGrants checks that role_ids replaces the allow-list and
that omitting it keeps the current one.
*/
func TestUpdate_ReplacesGrants(t *testing.T) {
	service, _ := newService(t)
	lider := accesstest.RoleID(access.RoleLider)
	celula := accesstest.RoleID(access.RoleCelula)

	created := create(t, service, "Taller", event.Input{RoleIDs: &[]string{lider, " " + strings.ToUpper(lider)}})
	assert.Equal(t, []string{lider}, created.RoleIDs)

	updated, err := service.Update(context.Background(), created.ID, event.Input{RoleIDs: &[]string{celula}})
	require.NoError(t, err)
	assert.Equal(t, []string{celula}, updated.RoleIDs)

	renamed, err := service.Update(context.Background(), created.ID, event.Input{Title: pointer.To("Taller II")})
	require.NoError(t, err)
	assert.Equal(t, "Taller II", renamed.Title)
	assert.Equal(t, []string{celula}, renamed.RoleIDs)

	_, err = service.Update(context.Background(), created.ID, event.Input{EndsAt: pointer.To(sunday.Add(-time.Minute))})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

/*
TestUpdate_ClearEndsAt removes a previously set end time.
*/
func TestUpdate_ClearEndsAt(t *testing.T) {
	service, _ := newService(t)
	created := create(t, service, "Retiro", event.Input{EndsAt: pointer.To(sunday.Add(3 * time.Hour))})
	require.NotNil(t, created.EndsAt)

	kept, err := service.Update(context.Background(), created.ID, event.Input{Title: pointer.To("Retiro juvenil")})
	require.NoError(t, err)
	require.NotNil(t, kept.EndsAt)

	cleared, err := service.Update(context.Background(), created.ID, event.Input{ClearEndsAt: true})
	require.NoError(t, err)
	assert.Nil(t, cleared.EndsAt)
	assert.Equal(t, "Retiro juvenil", cleared.Title)
}

func TestDelete(t *testing.T) {
	service, repo := newService(t)
	created := create(t, service, "Vigilia", event.Input{})

	require.NoError(t, service.Delete(context.Background(), created.ID))
	assert.Empty(t, repo.rows)

	err := service.Delete(context.Background(), created.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}
