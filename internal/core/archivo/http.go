// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package archivo

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/comunidad/internal/access"
	requestutil "github.com/taibuivan/comunidad/internal/platform/request"
	"github.com/taibuivan/comunidad/internal/platform/respond"
	"github.com/taibuivan/comunidad/pkg/pagination"
	"github.com/taibuivan/comunidad/pkg/query"
	"github.com/taibuivan/comunidad/pkg/slice"
	"github.com/taibuivan/comunidad/pkg/slug"
)

// # Handler Implementation

// Handler implements the HTTP layer for the file library.
type Handler struct {
	service *Service
	guard   *access.Guard
}

// NewHandler constructs a file [Handler].
func NewHandler(service *Service, guard *access.Guard) *Handler {
	return &Handler{service: service, guard: guard}
}

// Routes returns the public library router (mounted at /files).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(handler.guard.Resolve)

	router.Get("/", handler.listFiles)
	router.Get("/folders", handler.listFolders)
	router.Get("/{id}", handler.getFile)
	router.Get("/{id}/download", handler.download)

	return router
}

// AdminRoutes returns the /admin/files router, gated by files.manage.
func (handler *Handler) AdminRoutes() chi.Router {
	router := chi.NewRouter()
	router.Use(handler.guard.Require(access.ActionFilesManage))

	router.Get("/", handler.listAll)
	router.Get("/{id}", handler.getForAdmin)
	router.Post("/", handler.createFile)
	router.Patch("/{id}", handler.updateFile)
	router.Delete("/{id}", handler.deleteFile)

	return router
}

// # Public Endpoints

/*
GET /api/v1/files.

Request (Query):
  - folder: comma separated folder names
  - q: string (name or description)
  - page, limit: int

Response:
  - 200: Paginated []Archivo the caller may see
*/
func (handler *Handler) listFiles(writer http.ResponseWriter, request *http.Request) {
	filter := filterFrom(request)
	filter.Viewer = access.PrincipalFrom(request.Context())

	params := pagination.FromRequest(request)
	files, total, err := handler.service.List(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, files, pagination.NewMeta(params.Page, params.Limit, total))
}

// GET /api/v1/files/folders.
func (handler *Handler) listFolders(writer http.ResponseWriter, request *http.Request) {
	folders, err := handler.service.Folders(request.Context(), access.PrincipalFrom(request.Context()))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, folders)
}

func (handler *Handler) getFile(writer http.ResponseWriter, request *http.Request) {
	file, err := handler.service.Get(request.Context(), access.PrincipalFrom(request.Context()), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, file)
}

/*
GET /api/v1/files/{id}/download.

Description: Signs a short-lived GET URL. The client follows it directly.

Response:
  - 200: Link
  - 404: File not found or not visible to the caller
  - 503: Storage not configured
*/
func (handler *Handler) download(writer http.ResponseWriter, request *http.Request) {
	link, err := handler.service.Download(request.Context(), access.PrincipalFrom(request.Context()), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, link)
}

// # Admin Endpoints

func (handler *Handler) listAll(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	files, total, err := handler.service.ListAll(request.Context(), filterFrom(request), params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, files, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) getForAdmin(writer http.ResponseWriter, request *http.Request) {
	file, err := handler.service.GetForAdmin(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, file)
}

/*
POST /api/v1/admin/files.

Description: Registers a file and returns a presigned PUT URL. The upload
itself goes straight to the bucket.

Request (Body):
  - file_name: string (original name, keeps the extension)
  - mime_type: string
  - size_bytes: int (at most 100 MiB)
  - name, description, folder: optional
  - is_public, visible_to_all_roles: bool
  - role_ids: []string

Response:
  - 201: Upload
  - 400: Validation failed
  - 503: Storage not configured
*/
func (handler *Handler) createFile(writer http.ResponseWriter, request *http.Request) {
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

	upload, err := handler.service.Create(request.Context(), actorID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, upload)
}

func (handler *Handler) updateFile(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	file, err := handler.service.Update(request.Context(), requestutil.ID(request, "id"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, file)
}

func (handler *Handler) deleteFile(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// # Query Parsing

func filterFrom(request *http.Request) Filter {
	values := request.URL.Query()
	return Filter{
		Folders: slice.Map(query.StringSlice(values.Get("folder")), slug.From),
		Query:   values.Get("q"),
	}
}
