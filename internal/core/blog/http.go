// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package blog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/comunidad/internal/access"
	requestutil "github.com/taibuivan/comunidad/internal/platform/request"
	"github.com/taibuivan/comunidad/internal/platform/respond"
	"github.com/taibuivan/comunidad/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for the blog.
type Handler struct {
	service *Service
	guard   *access.Guard
}

// NewHandler constructs a blog [Handler].
func NewHandler(service *Service, guard *access.Guard) *Handler {
	return &Handler{service: service, guard: guard}
}

// Routes returns the public blog router (mounted at /blog).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/categories", handler.listCategories)
	router.Get("/posts", handler.listPublished)
	router.Get("/posts/{slug}", handler.getPublished)

	return router
}

// CategoryRoutes returns the /admin/categories router.
func (handler *Handler) CategoryRoutes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listCategories)
	router.Get("/{id}", handler.getCategory)

	router.Group(func(manage chi.Router) {
		manage.Use(handler.guard.Require(access.ActionCategoriesManage))
		manage.Post("/", handler.createCategory)
		manage.Patch("/{id}", handler.updateCategory)
		manage.Delete("/{id}", handler.deleteCategory)
	})

	return router
}

// PostRoutes returns the /admin/posts router.
func (handler *Handler) PostRoutes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(write chi.Router) {
		write.Use(handler.guard.Require(access.ActionPostsWrite))
		write.Get("/", handler.listPosts)
		write.Get("/{id}", handler.getPost)
		write.Post("/", handler.createPost)
		write.Patch("/{id}", handler.updatePost)
	})

	router.With(handler.guard.Require(access.ActionPostsDelete)).Delete("/{id}", handler.deletePost)

	return router
}

// # Category Endpoints

/*
GET /api/v1/blog/categories.

Response:
  - 200: []Category
*/
func (handler *Handler) listCategories(writer http.ResponseWriter, request *http.Request) {
	result, err := handler.service.ListCategories(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}

func (handler *Handler) getCategory(writer http.ResponseWriter, request *http.Request) {
	category, err := handler.service.GetCategory(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, category)
}

/*
POST /api/v1/admin/categories.

Description: Creates a category. Requires categories.manage.

Request (Body):
  - name: string
  - slug: string (optional, derived from name)
  - description: string (optional)

Response:
  - 201: Category
  - 400: Validation failed
  - 409: Category already exists
*/
func (handler *Handler) createCategory(writer http.ResponseWriter, request *http.Request) {
	var input CategoryInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	category, err := handler.service.CreateCategory(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, category)
}

func (handler *Handler) updateCategory(writer http.ResponseWriter, request *http.Request) {
	var input CategoryInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	category, err := handler.service.UpdateCategory(request.Context(), requestutil.ID(request, "id"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, category)
}

func (handler *Handler) deleteCategory(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.DeleteCategory(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// # Public Post Endpoints

/*
GET /api/v1/blog/posts.

Description: Lists published posts, newest first.

Request (Query):
  - category: string (category slug)
  - q: string (title or excerpt)
  - page, limit: int

Response:
  - 200: Paginated []Post
*/
func (handler *Handler) listPublished(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	posts, total, err := handler.service.ListPublished(request.Context(), filterFrom(request), params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, posts, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
GET /api/v1/blog/posts/{slug}.

Response:
  - 200: Post
  - 404: Post not found (drafts included)
*/
func (handler *Handler) getPublished(writer http.ResponseWriter, request *http.Request) {
	post, err := handler.service.GetPublished(request.Context(), requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, post)
}

// # Admin Post Endpoints

// listPosts is the admin listing; drafts included, `status` narrows it.
func (handler *Handler) listPosts(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	filter := filterFrom(request)
	filter.Status = request.URL.Query().Get("status")

	posts, total, err := handler.service.ListPosts(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, posts, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) getPost(writer http.ResponseWriter, request *http.Request) {
	post, err := handler.service.GetPost(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, post)
}

/*
POST /api/v1/admin/posts.

Description: Creates a post authored by the caller. Requires posts.write.

Request (Body):
  - title: string
  - slug: string (optional; derived from the title with a numeric suffix when taken)
  - excerpt, content, cover_image_url, category_id: optional
  - status: "draft" (default) | "published"

Response:
  - 201: Post
  - 400: Validation failed
  - 404: Category not found
  - 409: Slug already exists (explicit slug only)
*/
func (handler *Handler) createPost(writer http.ResponseWriter, request *http.Request) {
	authorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input PostInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	post, err := handler.service.CreatePost(request.Context(), authorID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, post)
}

func (handler *Handler) updatePost(writer http.ResponseWriter, request *http.Request) {
	var input PostInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	post, err := handler.service.UpdatePost(request.Context(), requestutil.ID(request, "id"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, post)
}

/*
DELETE /api/v1/admin/posts/{id}.

Description: Requires posts.delete (admin only).
*/
func (handler *Handler) deletePost(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.DeletePost(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func filterFrom(request *http.Request) PostFilter {
	query := request.URL.Query()
	return PostFilter{
		CategorySlug: query.Get("category"),
		Query:        query.Get("q"),
	}
}
