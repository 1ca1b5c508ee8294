// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package event

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/comunidad/internal/access"
	requestutil "github.com/taibuivan/comunidad/internal/platform/request"
	"github.com/taibuivan/comunidad/internal/platform/respond"
	"github.com/taibuivan/comunidad/internal/platform/validate"
	"github.com/taibuivan/comunidad/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for the calendar.
type Handler struct {
	service *Service
	guard   *access.Guard
}

// NewHandler constructs an event [Handler].
func NewHandler(service *Service, guard *access.Guard) *Handler {
	return &Handler{service: service, guard: guard}
}

// Routes returns the public calendar router (mounted at /events). The
// caller's roles are resolved when a session is present.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(handler.guard.Resolve)

	router.Get("/", handler.listCalendar)
	router.Get("/{id}", handler.getEvent)

	return router
}

// AdminRoutes returns the /admin/events router. Every route requires
// events.manage, listings included, since they reveal hidden events.
func (handler *Handler) AdminRoutes() chi.Router {
	router := chi.NewRouter()
	router.Use(handler.guard.Require(access.ActionEventsManage))

	router.Get("/", handler.listAll)
	router.Get("/{id}", handler.getForAdmin)
	router.Post("/", handler.createEvent)
	router.Patch("/{id}", handler.updateEvent)
	router.Delete("/{id}", handler.deleteEvent)

	return router
}

// # Public Endpoints

/*
GET /api/v1/events.

Description: Lists the events the caller may see, ordered by start.

Request (Query):
  - from, to: RFC 3339 timestamp or YYYY-MM-DD (default: from today)
  - delegation: string (delegation id)
  - page, limit: int

Response:
  - 200: Paginated []Event
  - 400: Invalid window
*/
func (handler *Handler) listCalendar(writer http.ResponseWriter, request *http.Request) {
	filter, err := filterFrom(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	filter.Viewer = access.PrincipalFrom(request.Context())

	params := pagination.FromRequest(request)
	events, total, err := handler.service.ListCalendar(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, events, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
GET /api/v1/events/{id}.

Response:
  - 200: Event
  - 404: Event not found or not visible to the caller
*/
func (handler *Handler) getEvent(writer http.ResponseWriter, request *http.Request) {
	viewer := access.PrincipalFrom(request.Context())

	event, err := handler.service.Get(request.Context(), viewer, requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, event)
}

// # Admin Endpoints

func (handler *Handler) listAll(writer http.ResponseWriter, request *http.Request) {
	filter, err := filterFrom(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	events, total, err := handler.service.ListAll(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, events, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) getForAdmin(writer http.ResponseWriter, request *http.Request) {
	event, err := handler.service.GetForAdmin(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, event)
}

/*
POST /api/v1/admin/events.

Description: Creates an event. Requires events.manage.

Request (Body):
  - title: string
  - starts_at: RFC 3339 timestamp
  - ends_at: RFC 3339 timestamp (optional, not before starts_at)
  - description, location, image_url, delegation_id: optional
  - is_public, visible_to_all_roles: bool
  - role_ids: []string (explicit allow-list)

Response:
  - 201: Event
  - 400: Validation failed
  - 404: Delegation or role not found
*/
func (handler *Handler) createEvent(writer http.ResponseWriter, request *http.Request) {
	actorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	event, err := handler.service.Create(request.Context(), actorID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, event)
}

func (handler *Handler) updateEvent(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	event, err := handler.service.Update(request.Context(), requestutil.ID(request, "id"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, event)
}

func (handler *Handler) deleteEvent(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// # Query Parsing

func filterFrom(request *http.Request) (Filter, error) {
	query := request.URL.Query()
	filter := Filter{DelegationID: query.Get("delegation")}

	validator := &validate.Validator{}
	filter.From = parseTime(validator, FieldFrom, query.Get("from"))
	filter.To = parseTime(validator, FieldTo, query.Get("to"))

	return filter, validator.Err()
}

// parseTime accepts RFC 3339 or a bare date; a bare date means midnight UTC.
func parseTime(validator *validate.Validator, field, raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return &parsed
		}
	}
	validator.Custom(field, true, "Must be an RFC 3339 timestamp or YYYY-MM-DD")
	return nil
}
