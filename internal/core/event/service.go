// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package event

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/comunidad/internal/access"
	"github.com/taibuivan/comunidad/internal/platform/apperr"
	"github.com/taibuivan/comunidad/internal/platform/validate"
	"github.com/taibuivan/comunidad/pkg/pointer"
	"github.com/taibuivan/comunidad/pkg/slice"
	"github.com/taibuivan/comunidad/pkg/uuid"
)

// # Service Layer

// Service orchestrates the calendar.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService constructs an event [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// # Calendar

/*
ListCalendar returns the events filter.Viewer may see in a window.

Description: Without any bound, the window starts today (UTC) and is open
ended. A window whose end precedes its start, or that spans more than
roughly thirteen months, is rejected.
*/
func (service *Service) ListCalendar(context context.Context, filter Filter, limit, offset int) ([]*Event, int, error) {
	if filter.From == nil && filter.To == nil {
		today := service.now().UTC().Truncate(24 * time.Hour)
		filter.From = &today
	}
	if err := validateWindow(filter); err != nil {
		return nil, 0, err
	}

	filter.Unrestricted = false
	return service.repo.List(context, filter, limit, offset)
}

// Get returns one event if viewer may see it. Hidden events are NOT_FOUND.
func (service *Service) Get(context context.Context, viewer *access.Principal, id string) (*Event, error) {
	event, err := service.GetForAdmin(context, id)
	if err != nil {
		return nil, err
	}
	if !access.CanView(event.Visibility, viewer) {
		return nil, apperr.NotFound("Event")
	}
	return event, nil
}

// # Administration

// ListAll returns every event in the window regardless of visibility.
func (service *Service) ListAll(context context.Context, filter Filter, limit, offset int) ([]*Event, int, error) {
	if err := validateWindow(filter); err != nil {
		return nil, 0, err
	}

	filter.Unrestricted = true
	return service.repo.List(context, filter, limit, offset)
}

// GetForAdmin returns one event whatever its visibility.
func (service *Service) GetForAdmin(context context.Context, id string) (*Event, error) {
	if !uuid.IsValid(id) {
		return nil, apperr.NotFound("Event")
	}
	return service.repo.FindByID(context, id)
}

/*
Create validates and persists an event and its role grants.

Parameters:
  - context: context.Context
  - createdBy: string (acting admin)
  - input: Input

Returns:
  - *Event: The stored event
  - error: VALIDATION_ERROR, or NOT_FOUND for an unknown delegation or role
*/
func (service *Service) Create(context context.Context, createdBy string, input Input) (*Event, error) {
	event := &Event{
		Title:        strings.TrimSpace(pointer.Val(input.Title)),
		Description:  input.Description,
		Location:     input.Location,
		StartsAt:     pointer.Val(input.StartsAt),
		EndsAt:       input.EndsAt,
		ImageURL:     input.ImageURL,
		DelegationID: emptyToNil(input.DelegationID),
		CreatedBy:    &createdBy,
	}
	event.IsPublic = pointer.Val(input.IsPublic)
	event.VisibleToAllRoles = pointer.Val(input.VisibleToAllRoles)
	event.RoleIDs = slice.Unique(slice.Map(pointer.Val(input.RoleIDs), uuid.Normalize))

	if err := validateEvent(event); err != nil {
		return nil, err
	}

	event.ID = uuid.New()
	if err := service.repo.Create(context, event); err != nil {
		return nil, err
	}

	service.logger.Info("event_created",
		slog.String("event_id", event.ID),
		slog.String("visibility", event.Mode()),
		slog.Int("role_grants", len(event.RoleIDs)),
	)
	return service.repo.FindByID(context, event.ID)
}

// Update applies a partial update. A non-nil RoleIDs replaces every grant and
// ClearEndsAt wins over EndsAt.
func (service *Service) Update(context context.Context, id string, input Input) (*Event, error) {
	event, err := service.GetForAdmin(context, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		event.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		event.Description = input.Description
	}
	if input.Location != nil {
		event.Location = input.Location
	}
	if input.StartsAt != nil {
		event.StartsAt = *input.StartsAt
	}
	if input.EndsAt != nil {
		event.EndsAt = input.EndsAt
	}
	if input.ClearEndsAt {
		event.EndsAt = nil
	}
	if input.ImageURL != nil {
		event.ImageURL = input.ImageURL
	}
	if input.DelegationID != nil {
		event.DelegationID = emptyToNil(input.DelegationID)
	}
	if input.IsPublic != nil {
		event.IsPublic = *input.IsPublic
	}
	if input.VisibleToAllRoles != nil {
		event.VisibleToAllRoles = *input.VisibleToAllRoles
	}
	if input.RoleIDs != nil {
		event.RoleIDs = slice.Unique(slice.Map(*input.RoleIDs, uuid.Normalize))
	}

	if err := validateEvent(event); err != nil {
		return nil, err
	}

	if err := service.repo.Update(context, event); err != nil {
		return nil, err
	}

	service.logger.Info("event_updated",
		slog.String("event_id", event.ID),
		slog.String("visibility", event.Mode()),
	)
	return service.repo.FindByID(context, event.ID)
}

// Delete removes an event.
func (service *Service) Delete(context context.Context, id string) error {
	if !uuid.IsValid(id) {
		return apperr.NotFound("Event")
	}
	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.Info("event_deleted", slog.String("event_id", id))
	return nil
}

// # Validation

func validateEvent(event *Event) error {
	validator := &validate.Validator{}
	validator.Required(FieldTitle, event.Title).MaxLen(FieldTitle, event.Title, 200)
	validator.RequiredTime(FieldStartsAt, event.StartsAt)
	validator.NotBefore(FieldEndsAt, event.EndsAt, event.StartsAt)

	if event.Description != nil {
		validator.MaxLen(FieldDescription, *event.Description, 5000)
	}
	if event.Location != nil {
		validator.MaxLen(FieldLocation, *event.Location, 300)
	}
	if event.ImageURL != nil && *event.ImageURL != "" {
		validator.URL(FieldImageURL, *event.ImageURL)
	}
	if event.DelegationID != nil {
		validator.UUID(FieldDelegationID, *event.DelegationID)
	}
	for i, roleID := range event.RoleIDs {
		validator.UUID(fmt.Sprintf("%s[%d]", FieldRoleIDs, i), roleID)
	}
	return validator.Err()
}

func validateWindow(filter Filter) error {
	if filter.From == nil || filter.To == nil {
		return nil
	}

	validator := &validate.Validator{}
	validator.Custom(FieldTo, filter.To.Before(*filter.From), "Must not be earlier than from")
	validator.Custom(FieldTo, filter.To.Sub(*filter.From) > maxWindow, "Window is too large")
	return validator.Err()
}

func emptyToNil(value *string) *string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil
	}
	return value
}
