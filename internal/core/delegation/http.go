// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package delegation

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/comunidad/internal/access"
	requestutil "github.com/taibuivan/comunidad/internal/platform/request"
	"github.com/taibuivan/comunidad/internal/platform/respond"
	"github.com/taibuivan/comunidad/internal/platform/validate"
	"github.com/taibuivan/comunidad/pkg/convert"
	"github.com/taibuivan/comunidad/pkg/pagination"
	"github.com/taibuivan/comunidad/pkg/pointer"
	"github.com/taibuivan/comunidad/pkg/query"
)

// # Handler Implementation

// Handler implements the HTTP layer for delegations.
type Handler struct {
	service *Service
	guard   *access.Guard
}

// NewHandler constructs a delegation [Handler].
func NewHandler(service *Service, guard *access.Guard) *Handler {
	return &Handler{service: service, guard: guard}
}

// Routes returns the public finder router (mounted at /delegations).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.find)
	router.Get("/{slug}", handler.getBySlug)

	return router
}

// AdminRoutes returns the /admin/delegations router, gated by delegations.manage.
func (handler *Handler) AdminRoutes() chi.Router {
	router := chi.NewRouter()
	router.Use(handler.guard.Require(access.ActionDelegationsManage))

	router.Get("/", handler.listAll)
	router.Get("/{id}", handler.getByID)
	router.Post("/", handler.create)
	router.Patch("/{id}", handler.update)
	router.Delete("/{id}", handler.delete)

	return router
}

// # Public Endpoints

/*
GET /api/v1/delegations.

Description: The public finder. Only active delegations are listed.

Request (Query):
  - q: string (name, city or address)
  - city, region: string (case-insensitive match)
  - near: "lat,lng" (orders by distance, skips rows without coordinates)
  - radius_km: float (bounds a near search)
  - page, limit: int

Response:
  - 200: Paginated []Delegation
  - 400: Malformed near
*/
func (handler *Handler) find(writer http.ResponseWriter, request *http.Request) {
	filter, err := filterFrom(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	items, total, err := handler.service.Find(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, items, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) getBySlug(writer http.ResponseWriter, request *http.Request) {
	item, err := handler.service.GetActive(request.Context(), requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, item)
}

// # Admin Endpoints

/*
GET /api/v1/admin/delegations.

Request (Query):
  - active: bool (omit for both)
  - plus every finder parameter
*/
func (handler *Handler) listAll(writer http.ResponseWriter, request *http.Request) {
	filter, err := filterFrom(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if raw := request.URL.Query().Get("active"); raw != "" {
		filter.Active = pointer.To(convert.ToBool(raw))
	}

	params := pagination.FromRequest(request)
	items, total, err := handler.service.List(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, items, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) getByID(writer http.ResponseWriter, request *http.Request) {
	item, err := handler.service.Get(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, item)
}

/*
POST /api/v1/admin/delegations.

Request (Body):
  - name, city: string
  - slug: string (optional, derived from name)
  - region, address, phone, email, pastor_name, service_schedule, image_url: optional
  - latitude, longitude: float (together or not at all)
  - is_active: bool (default true)

Response:
  - 201: Delegation
  - 400: Validation failed
  - 409: Slug taken
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	item, err := handler.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, item)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	item, err := handler.service.Update(request.Context(), requestutil.ID(request, "id"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, item)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// # Query Parsing

func filterFrom(request *http.Request) (Filter, error) {
	values := request.URL.Query()
	filter := Filter{
		Query:    values.Get("q"),
		City:     values.Get("city"),
		Region:   values.Get("region"),
		RadiusKm: convert.ToFloat64(values.Get("radius_km")),
	}

	raw := values.Get("near")
	if raw == "" {
		return filter, nil
	}

	parts := query.StringSlice(raw)
	validator := &validate.Validator{}
	if len(parts) != 2 {
		validator.Custom(FieldNear, true, "Must be \"lat,lng\"")
		return filter, validator.Err()
	}

	lat, latErr := strconv.ParseFloat(parts[0], 64)
	lng, lngErr := strconv.ParseFloat(parts[1], 64)
	validator.Custom(FieldNear, latErr != nil || lngErr != nil, "Coordinates must be decimal degrees")
	if validator.HasErrors() {
		return filter, validator.Err()
	}

	filter.Near = &Point{Lat: lat, Lng: lng}
	return filter, nil
}
