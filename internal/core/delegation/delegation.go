// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package delegation manages the church's branches and the public finder.

Inactive delegations stay in the admin panel but never reach the public
routes. Coordinates are optional; a delegation without them is still
listed but is skipped by a "near" search.
*/
package delegation

import "time"

// # Domain Entities

// Delegation is one branch of the church.
type Delegation struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Slug            string    `json:"slug"`
	City            string    `json:"city"`
	Region          *string   `json:"region"`
	Address         *string   `json:"address"`
	Phone           *string   `json:"phone"`
	Email           *string   `json:"email"`
	PastorName      *string   `json:"pastor_name"`
	ServiceSchedule *string   `json:"service_schedule"`
	Latitude        *float64  `json:"latitude"`
	Longitude       *float64  `json:"longitude"`
	ImageURL        *string   `json:"image_url"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// DistanceKm is set only on "near" searches.
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

// HasCoordinates reports whether the delegation can be placed on a map.
func (delegation *Delegation) HasCoordinates() bool {
	return delegation.Latitude != nil && delegation.Longitude != nil
}

// Point is a WGS84 coordinate in degrees.
type Point struct {
	Lat float64
	Lng float64
}

// Filter narrows delegation listings.
type Filter struct {
	Query  string
	City   string
	Region string

	// Near orders by great-circle distance and drops rows without coordinates.
	Near *Point
	// RadiusKm bounds a Near search; zero means unbounded.
	RadiusKm float64

	// Active restricts on is_active; nil lists both.
	Active *bool
}

// Input carries the writable fields. On update, nil means unchanged.
type Input struct {
	Name            *string  `json:"name"`
	Slug            *string  `json:"slug"`
	City            *string  `json:"city"`
	Region          *string  `json:"region"`
	Address         *string  `json:"address"`
	Phone           *string  `json:"phone"`
	Email           *string  `json:"email"`
	PastorName      *string  `json:"pastor_name"`
	ServiceSchedule *string  `json:"service_schedule"`
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`
	ImageURL        *string  `json:"image_url"`
	IsActive        *bool    `json:"is_active"`

	// ClearCoordinates removes both coordinates on update.
	ClearCoordinates bool `json:"clear_coordinates"`
}

// EarthRadiusKm is the mean radius used for distances.
const EarthRadiusKm = 6371.0

// # Field Identifiers

const (
	FieldName      = "name"
	FieldSlug      = "slug"
	FieldCity      = "city"
	FieldRegion    = "region"
	FieldEmail     = "email"
	FieldPhone     = "phone"
	FieldImageURL  = "image_url"
	FieldLatitude  = "latitude"
	FieldLongitude = "longitude"
	FieldNear      = "near"
)
