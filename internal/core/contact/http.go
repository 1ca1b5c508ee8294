// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package contact

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/comunidad/internal/access"
	"github.com/taibuivan/comunidad/internal/platform/constants"
	"github.com/taibuivan/comunidad/internal/platform/middleware"
	requestutil "github.com/taibuivan/comunidad/internal/platform/request"
	"github.com/taibuivan/comunidad/internal/platform/respond"
	"github.com/taibuivan/comunidad/pkg/convert"
	"github.com/taibuivan/comunidad/pkg/pagination"
	"github.com/taibuivan/comunidad/pkg/pointer"
)

// # Handler Implementation

// Handler implements the HTTP layer for the contact form and inbox.
type Handler struct {
	service *Service
	guard   *access.Guard
}

// NewHandler constructs a contact [Handler].
func NewHandler(service *Service, guard *access.Guard) *Handler {
	return &Handler{service: service, guard: guard}
}

// Routes returns the public router (mounted at /contact). Submissions are
// limited per client IP.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.With(middleware.LimitByClient(constants.ContactFormRequests, constants.ContactFormWindow)).Post("/", handler.submit)

	return router
}

// AdminRoutes returns the /admin/contact inbox router, gated by contact.read.
func (handler *Handler) AdminRoutes() chi.Router {
	router := chi.NewRouter()
	router.Use(handler.guard.Require(access.ActionContactRead))

	router.Get("/", handler.list)
	router.Get("/unread-count", handler.countUnread)
	router.Patch("/{id}", handler.setRead)
	router.Delete("/{id}", handler.delete)

	return router
}

// # Public Endpoints

/*
POST /api/v1/contact.

Request (Body):
  - name, email, message: string
  - phone, subject: string (optional)

Response:
  - 201: {"id": string}
  - 400: Validation failed
  - 429: Too many submissions from this IP
*/
func (handler *Handler) submit(writer http.ResponseWriter, request *http.Request) {
	var submission Submission
	if err := requestutil.DecodeJSON(request, &submission); err != nil {
		respond.Error(writer, request, err)
		return
	}

	message, err := handler.service.Submit(request.Context(), submission)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, map[string]string{"id": message.ID})
}

// # Inbox Endpoints

/*
GET /api/v1/admin/contact.

Request (Query):
  - unread: bool
  - page, limit: int
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	filter := Filter{UnreadOnly: convert.ToBool(request.URL.Query().Get("unread"))}

	params := pagination.FromRequest(request)
	messages, total, err := handler.service.List(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, messages, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) countUnread(writer http.ResponseWriter, request *http.Request) {
	count, err := handler.service.CountUnread(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]int{"unread": count})
}

type readRequest struct {
	IsRead *bool `json:"is_read"`
}

// PATCH /api/v1/admin/contact/{id}. An empty body marks the message read.
func (handler *Handler) setRead(writer http.ResponseWriter, request *http.Request) {
	payload := readRequest{}
	if request.ContentLength != 0 {
		if err := requestutil.DecodeJSON(request, &payload); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	message, err := handler.service.SetRead(request.Context(), requestutil.ID(request, "id"), pointer.Fallback(payload.IsRead, true))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, message)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
