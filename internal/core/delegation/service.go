// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package delegation

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/comunidad/internal/platform/apperr"
	"github.com/taibuivan/comunidad/internal/platform/validate"
	"github.com/taibuivan/comunidad/pkg/pointer"
	"github.com/taibuivan/comunidad/pkg/slug"
	"github.com/taibuivan/comunidad/pkg/uuid"
)

// # Service Layer

// Service handles delegation business logic.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a delegation [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// # Public Finder

// Find lists active delegations for the public finder.
func (service *Service) Find(context context.Context, filter Filter, limit, offset int) ([]*Delegation, int, error) {
	filter.Active = pointer.To(true)
	if err := validateFilter(filter); err != nil {
		return nil, 0, err
	}
	return service.repo.List(context, filter, limit, offset)
}

// GetActive returns an active delegation by slug. Inactive ones are NOT_FOUND.
func (service *Service) GetActive(context context.Context, slugValue string) (*Delegation, error) {
	item, err := service.repo.FindBySlug(context, slugValue)
	if err != nil {
		return nil, err
	}
	if !item.IsActive {
		return nil, apperr.NotFound("Delegation")
	}
	return item, nil
}

// # Administration

// List returns delegations in any state.
func (service *Service) List(context context.Context, filter Filter, limit, offset int) ([]*Delegation, int, error) {
	if err := validateFilter(filter); err != nil {
		return nil, 0, err
	}
	return service.repo.List(context, filter, limit, offset)
}

// Get returns a delegation by id.
func (service *Service) Get(context context.Context, id string) (*Delegation, error) {
	if !uuid.IsValid(id) {
		return nil, apperr.NotFound("Delegation")
	}
	return service.repo.FindByID(context, id)
}

/*
Create registers a delegation.

Description: The slug is taken from input or derived from the name. A
taken slug is a CONFLICT; delegations are few enough that admins pick
another by hand.
*/
func (service *Service) Create(context context.Context, input Input) (*Delegation, error) {
	item := &Delegation{IsActive: true}
	apply(item, input)

	if input.Slug == nil {
		item.Slug = slug.From(item.Name)
	}

	if err := validateDelegation(item); err != nil {
		return nil, err
	}

	item.ID = uuid.New()
	if err := service.repo.Create(context, item); err != nil {
		return nil, err
	}

	service.logger.Info("delegation_created",
		slog.String("delegation_id", item.ID),
		slog.String("slug", item.Slug),
	)
	return item, nil
}

// Update applies a partial update.
func (service *Service) Update(context context.Context, id string, input Input) (*Delegation, error) {
	item, err := service.Get(context, id)
	if err != nil {
		return nil, err
	}

	apply(item, input)

	if err := validateDelegation(item); err != nil {
		return nil, err
	}

	if err := service.repo.Update(context, item); err != nil {
		return nil, err
	}

	service.logger.Info("delegation_updated",
		slog.String("delegation_id", item.ID),
		slog.Bool("is_active", item.IsActive),
	)
	return item, nil
}

// Delete removes a delegation.
func (service *Service) Delete(context context.Context, id string) error {
	if !uuid.IsValid(id) {
		return apperr.NotFound("Delegation")
	}
	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.Info("delegation_deleted", slog.String("delegation_id", id))
	return nil
}

// # Helpers

// apply copies the non-nil input fields onto item. Blank optional strings
// clear the column.
func apply(item *Delegation, input Input) {
	if input.Name != nil {
		item.Name = strings.TrimSpace(*input.Name)
	}
	if input.Slug != nil {
		item.Slug = strings.TrimSpace(*input.Slug)
	}
	if input.City != nil {
		item.City = strings.TrimSpace(*input.City)
	}

	optional := []struct {
		target **string
		value  *string
	}{
		{&item.Region, input.Region},
		{&item.Address, input.Address},
		{&item.Phone, input.Phone},
		{&item.Email, input.Email},
		{&item.PastorName, input.PastorName},
		{&item.ServiceSchedule, input.ServiceSchedule},
		{&item.ImageURL, input.ImageURL},
	}
	for _, field := range optional {
		if field.value == nil {
			continue
		}
		trimmed := strings.TrimSpace(*field.value)
		if trimmed == "" {
			*field.target = nil
			continue
		}
		*field.target = &trimmed
	}

	if input.ClearCoordinates {
		item.Latitude, item.Longitude = nil, nil
	}
	if input.Latitude != nil {
		item.Latitude = input.Latitude
	}
	if input.Longitude != nil {
		item.Longitude = input.Longitude
	}
	if input.IsActive != nil {
		item.IsActive = *input.IsActive
	}
}

func validateDelegation(item *Delegation) error {
	validator := &validate.Validator{}

	validator.Required(FieldName, item.Name).MaxLen(FieldName, item.Name, 120)
	validator.Required(FieldSlug, item.Slug).Slug(FieldSlug, item.Slug).MaxLen(FieldSlug, item.Slug, 120)
	validator.Required(FieldCity, item.City).MaxLen(FieldCity, item.City, 80)

	if item.Region != nil {
		validator.MaxLen(FieldRegion, *item.Region, 80)
	}
	if item.Phone != nil {
		validator.MaxLen(FieldPhone, *item.Phone, 40)
	}
	if item.Email != nil {
		validator.Email(FieldEmail, *item.Email)
	}
	if item.ImageURL != nil {
		validator.URL(FieldImageURL, *item.ImageURL)
	}

	validator.Custom(FieldLongitude, (item.Latitude == nil) != (item.Longitude == nil),
		"Latitude and longitude must be set together")
	if item.Latitude != nil {
		validator.Custom(FieldLatitude, *item.Latitude < -90 || *item.Latitude > 90, "Must be between -90 and 90")
	}
	if item.Longitude != nil {
		validator.Custom(FieldLongitude, *item.Longitude < -180 || *item.Longitude > 180, "Must be between -180 and 180")
	}

	return validator.Err()
}

func validateFilter(filter Filter) error {
	if filter.Near == nil {
		return nil
	}
	validator := &validate.Validator{}
	validator.Custom(FieldNear, filter.Near.Lat < -90 || filter.Near.Lat > 90 ||
		filter.Near.Lng < -180 || filter.Near.Lng > 180, "Coordinates out of range")
	validator.Custom(FieldNear, filter.RadiusKm < 0, "Radius must not be negative")
	return validator.Err()
}
