// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/comunidad/internal/platform/apperr"
	"github.com/taibuivan/comunidad/internal/platform/ctxutil"
	"github.com/taibuivan/comunidad/internal/platform/middleware"
	requestutil "github.com/taibuivan/comunidad/internal/platform/request"
	"github.com/taibuivan/comunidad/internal/platform/respond"
	"github.com/taibuivan/comunidad/internal/platform/sec"
)

// Handler serves /me, the signed-in member's own account.
type Handler struct {
	accountService *Service
}

// NewHandler constructs an account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns the /me router. Every route requires a session.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/", handler.getMe)
	router.Patch("/", handler.updateMe)
	router.Delete("/", handler.deleteMe)
	router.Get("/access", handler.getAccess)

	router.Route("/sessions", func(sessions chi.Router) {
		sessions.Get("/", handler.listDevices)
		sessions.Delete("/", handler.signOutOthers)
		sessions.Delete("/{id}", handler.signOutDevice)
	})

	return router
}

// caller returns the verified token claims. RequireAuth guarantees them on
// every route of this router.
func caller(writer http.ResponseWriter, request *http.Request) (*sec.AuthClaims, bool) {
	claims := ctxutil.GetAuthUser(request.Context())
	if claims == nil {
		respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
		return nil, false
	}
	return claims, true
}

// GET /api/v1/me.
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	claims, ok := caller(writer, request)
	if !ok {
		return
	}

	user, err := handler.accountService.GetProfile(request.Context(), claims.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

/*
PATCH /api/v1/me.

Request:
  - Body: ProfilePatch (full_name, phone, avatar_url)

Response:
  - 200: User
  - 400: Validation failure
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	claims, ok := caller(writer, request)
	if !ok {
		return
	}

	var patch ProfilePatch
	if err := requestutil.DecodeJSON(request, &patch); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateProfile(request.Context(), claims.UserID, patch)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

// DELETE /api/v1/me. Soft-deletes the account and ends every session.
func (handler *Handler) deleteMe(writer http.ResponseWriter, request *http.Request) {
	claims, ok := caller(writer, request)
	if !ok {
		return
	}

	if err := handler.accountService.DeleteAccount(request.Context(), claims.UserID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

/*
GET /api/v1/me/access.

Description: Roles, primary role, capability flags, dashboard sections and
allowed admin actions of the caller. Clients use it to shape navigation; the
server still checks every request.
*/
func (handler *Handler) getAccess(writer http.ResponseWriter, request *http.Request) {
	claims, ok := caller(writer, request)
	if !ok {
		return
	}

	summary, err := handler.accountService.Access(request.Context(), claims.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, summary)
}

// # Devices

// GET /api/v1/me/sessions. is_current marks the session of the access token.
func (handler *Handler) listDevices(writer http.ResponseWriter, request *http.Request) {
	claims, ok := caller(writer, request)
	if !ok {
		return
	}

	devices, err := handler.accountService.Devices(request.Context(), claims.UserID, claims.SessionID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, devices)
}

/*
DELETE /api/v1/me/sessions/{id}.

Response:
  - 204: Revoked
  - 404: Not one of the caller's live sessions
*/
func (handler *Handler) signOutDevice(writer http.ResponseWriter, request *http.Request) {
	claims, ok := caller(writer, request)
	if !ok {
		return
	}

	if err := handler.accountService.SignOutDevice(request.Context(), claims.UserID, requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// DELETE /api/v1/me/sessions. Signs out every other device.
func (handler *Handler) signOutOthers(writer http.ResponseWriter, request *http.Request) {
	claims, ok := caller(writer, request)
	if !ok {
		return
	}

	if err := handler.accountService.SignOutOtherDevices(request.Context(), claims.UserID, claims.SessionID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
