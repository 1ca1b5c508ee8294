// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package roles

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/comunidad/internal/access"
	requestutil "github.com/taibuivan/comunidad/internal/platform/request"
	"github.com/taibuivan/comunidad/internal/platform/respond"
	"github.com/taibuivan/comunidad/pkg/pagination"
)

// # Handler Implementation

// Handler implements the admin HTTP layer for roles and assignments.
//
// Both routers are mounted under /admin, behind the panel gate; each mutating
// route adds its own action rule on top.
type Handler struct {
	service *Service
	guard   *access.Guard
}

// NewHandler constructs a roles [Handler].
func NewHandler(service *Service, guard *access.Guard) *Handler {
	return &Handler{service: service, guard: guard}
}

// Routes returns the /admin/roles router.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listRoles)
	router.Get("/{id}", handler.getRole)

	router.Group(func(manage chi.Router) {
		manage.Use(handler.guard.Require(access.ActionRolesManage))
		manage.Post("/", handler.createRole)
		manage.Patch("/{id}", handler.updateRole)
		manage.Delete("/{id}", handler.deleteRole)
	})

	return router
}

// UserRoutes returns the /admin/users router.
func (handler *Handler) UserRoutes() chi.Router {
	router := chi.NewRouter()

	router.With(handler.guard.Require(access.ActionUsersRead)).Get("/", handler.listMembers)
	router.With(handler.guard.Require(access.ActionUsersRead)).Get("/{id}/roles", handler.listUserRoles)

	router.Group(func(assign chi.Router) {
		assign.Use(handler.guard.Require(access.ActionRolesAssign))
		assign.Post("/{id}/roles", handler.assignRole)
		assign.Delete("/{id}/roles/{roleID}", handler.removeRole)
	})

	return router
}

// # Role Endpoints

/*
GET /api/v1/admin/roles.

Description: Lists every role with its number of holders.

Response:
  - 200: []Role
*/
func (handler *Handler) listRoles(writer http.ResponseWriter, request *http.Request) {
	result, err := handler.service.ListRoles(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}

/*
GET /api/v1/admin/roles/{id}.

Response:
  - 200: Role
  - 404: Role not found
*/
func (handler *Handler) getRole(writer http.ResponseWriter, request *http.Request) {
	role, err := handler.service.GetRole(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, role)
}

/*
POST /api/v1/admin/roles.

Description: Creates a role. Requires roles.manage.

Request (Body):
  - name: string (lowercase slug, unique)
  - display_name: string
  - color: string (optional, #RRGGBB)
  - description: string (optional)

Response:
  - 201: Role
  - 400: Validation failed
  - 409: Role name already exists
*/
func (handler *Handler) createRole(writer http.ResponseWriter, request *http.Request) {
	var input struct {
		Name        string  `json:"name"`
		DisplayName string  `json:"display_name"`
		Color       string  `json:"color"`
		Description *string `json:"description"`
	}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	role := &Role{
		Name:        input.Name,
		DisplayName: input.DisplayName,
		Color:       input.Color,
		Description: input.Description,
	}
	if err := handler.service.CreateRole(request.Context(), role); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, role)
}

/*
PATCH /api/v1/admin/roles/{id}.

Description: Edits a role. Renaming is refused for system roles and roles
with holders.

Response:
  - 200: Role
  - 404: Role not found
  - 409: Name frozen or already taken
*/
func (handler *Handler) updateRole(writer http.ResponseWriter, request *http.Request) {
	var patch RolePatch
	if err := requestutil.DecodeJSON(request, &patch); err != nil {
		respond.Error(writer, request, err)
		return
	}

	role, err := handler.service.UpdateRole(request.Context(), requestutil.ID(request, "id"), patch)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, role)
}

/*
DELETE /api/v1/admin/roles/{id}.

Response:
  - 204: Deleted
  - 403: SYSTEM_PROTECTED for system roles
  - 404: Role not found
*/
func (handler *Handler) deleteRole(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.DeleteRole(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// # Member Endpoints

/*
GET /api/v1/admin/users.

Request:
  - q: string (email or name contains)
  - role: string (role name)
  - page, limit: int

Response:
  - 200: []Member (paginated)
*/
func (handler *Handler) listMembers(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)
	queryParams := request.URL.Query()

	filter := MemberFilter{
		Query: queryParams.Get("q"),
		Role:  queryParams.Get("role"),
	}

	members, total, err := handler.service.ListMembers(request.Context(), filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, members, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

/*
GET /api/v1/admin/users/{id}/roles.

Response:
  - 200: []access.Role
  - 404: User not found
*/
func (handler *Handler) listUserRoles(writer http.ResponseWriter, request *http.Request) {
	result, err := handler.service.UserRoles(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}

/*
POST /api/v1/admin/users/{id}/roles.

Request (Body):
  - role_id: string (UUID)

Response:
  - 201: Assignment
  - 404: User or role not found
  - 409: User already has this role
*/
func (handler *Handler) assignRole(writer http.ResponseWriter, request *http.Request) {
	actorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input struct {
		RoleID string `json:"role_id"`
	}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	assignment, err := handler.service.AssignRole(request.Context(), requestutil.ID(request, "id"), input.RoleID, actorID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, assignment)
}

/*
DELETE /api/v1/admin/users/{id}/roles/{roleID}.

Response:
  - 204: Revoked
  - 404: Assignment not found
*/
func (handler *Handler) removeRole(writer http.ResponseWriter, request *http.Request) {
	actorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.service.RemoveRole(request.Context(), requestutil.ID(request, "id"), requestutil.Param(request, "roleID"), actorID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
