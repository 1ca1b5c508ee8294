// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package blog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/comunidad/internal/platform/apperr"
	"github.com/taibuivan/comunidad/internal/platform/database/schema"
	"github.com/taibuivan/comunidad/internal/platform/dberr"
	"github.com/taibuivan/comunidad/internal/platform/validate"
	"github.com/taibuivan/comunidad/pkg/pointer"
	"github.com/taibuivan/comunidad/pkg/slug"
	"github.com/taibuivan/comunidad/pkg/uuid"
)

// # Service Layer

// Service orchestrates categories and posts.
type Service struct {
	categories CategoryRepository
	posts      PostRepository
	logger     *slog.Logger
	now        func() time.Time
}

// NewService constructs a blog [Service].
func NewService(categories CategoryRepository, posts PostRepository, logger *slog.Logger) *Service {
	return &Service{categories: categories, posts: posts, logger: logger, now: time.Now}
}

// # Categories

// ListCategories returns every category.
func (service *Service) ListCategories(context context.Context) ([]*Category, error) {
	return service.categories.List(context)
}

// GetCategory returns one category.
func (service *Service) GetCategory(context context.Context, id string) (*Category, error) {
	if !uuid.IsValid(id) {
		return nil, apperr.NotFound("Category")
	}
	return service.categories.FindByID(context, id)
}

/*
CreateCategory validates and persists a category.

Description: The slug defaults to one derived from the name. Uniqueness of
both is left to the store, so two concurrent creations of the same name
end with exactly one row and one CONFLICT.
*/
func (service *Service) CreateCategory(context context.Context, input CategoryInput) (*Category, error) {
	category := &Category{
		Name:        strings.TrimSpace(pointer.Val(input.Name)),
		Description: input.Description,
	}
	category.Slug = strings.TrimSpace(pointer.Val(input.Slug))
	if category.Slug == "" {
		category.Slug = slug.From(category.Name)
	}

	if err := validateCategory(category); err != nil {
		return nil, err
	}

	category.ID = uuid.New()
	if err := service.categories.Create(context, category); err != nil {
		return nil, err
	}

	service.logger.Info("category_created",
		slog.String("category_id", category.ID),
		slog.String("slug", category.Slug),
	)
	return category, nil
}

// UpdateCategory applies a partial update to a category.
func (service *Service) UpdateCategory(context context.Context, id string, input CategoryInput) (*Category, error) {
	category, err := service.GetCategory(context, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		category.Name = strings.TrimSpace(*input.Name)
	}
	if input.Slug != nil {
		category.Slug = strings.TrimSpace(*input.Slug)
	}
	if input.Description != nil {
		category.Description = input.Description
	}

	if err := validateCategory(category); err != nil {
		return nil, err
	}

	if err := service.categories.Update(context, category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes a category.
func (service *Service) DeleteCategory(context context.Context, id string) error {
	if !uuid.IsValid(id) {
		return apperr.NotFound("Category")
	}
	if err := service.categories.Delete(context, id); err != nil {
		return err
	}

	service.logger.Info("category_deleted", slog.String("category_id", id))
	return nil
}

func validateCategory(category *Category) error {
	validator := &validate.Validator{}
	validator.Required(FieldName, category.Name).MaxLen(FieldName, category.Name, 100)
	validator.Required(FieldSlug, category.Slug).MaxLen(FieldSlug, category.Slug, 120)
	if category.Slug != "" {
		validator.Slug(FieldSlug, category.Slug)
	}
	if category.Description != nil {
		validator.MaxLen(FieldDescription, *category.Description, 500)
	}
	return validator.Err()
}

// # Public Posts

// ListPublished returns a page of published posts.
func (service *Service) ListPublished(context context.Context, filter PostFilter, limit, offset int) ([]*Post, int, error) {
	filter.Status = StatusPublished
	return service.posts.List(context, filter, limit, offset)
}

// GetPublished returns a published post by slug. Drafts are NOT_FOUND.
func (service *Service) GetPublished(context context.Context, postSlug string) (*Post, error) {
	post, err := service.posts.FindBySlug(context, postSlug)
	if err != nil {
		return nil, err
	}
	if !post.IsPublished() {
		return nil, apperr.NotFound("Post")
	}
	return post, nil
}

// # Post Administration

// ListPosts returns a page of posts including drafts.
func (service *Service) ListPosts(context context.Context, filter PostFilter, limit, offset int) ([]*Post, int, error) {
	if filter.Status != "" && filter.Status != StatusDraft && filter.Status != StatusPublished {
		return nil, 0, validate.Invalid(FieldStatus, "Must be one of: draft, published")
	}
	return service.posts.List(context, filter, limit, offset)
}

// GetPost returns one post whatever its status.
func (service *Service) GetPost(context context.Context, id string) (*Post, error) {
	if !uuid.IsValid(id) {
		return nil, apperr.NotFound("Post")
	}
	return service.posts.FindByID(context, id)
}

/*
CreatePost validates and persists a post written by authorID.

Description: Without an explicit slug, one is derived from the title and
suffixed -2, -3, ... while the store reports it taken. An explicit slug that
is taken fails with CONFLICT straight away.

Returns:
  - *Post: The stored post
  - error: VALIDATION_ERROR, CONFLICT or NOT_FOUND (unknown category)
*/
func (service *Service) CreatePost(context context.Context, authorID string, input PostInput) (*Post, error) {
	post := &Post{
		Title:         strings.TrimSpace(pointer.Val(input.Title)),
		Slug:          strings.TrimSpace(pointer.Val(input.Slug)),
		Excerpt:       input.Excerpt,
		Content:       pointer.Val(input.Content),
		CoverImageURL: input.CoverImageURL,
		CategoryID:    input.CategoryID,
		Status:        StatusDraft,
		AuthorID:      &authorID,
	}
	if input.Status != nil {
		post.Status = *input.Status
	}
	if pointer.Val(post.CategoryID) == "" {
		post.CategoryID = nil
	}

	explicitSlug := post.Slug != ""
	if !explicitSlug {
		post.Slug = slug.From(post.Title)
		if post.Slug == "" {
			post.Slug = "post"
		}
	}

	if err := validatePost(post); err != nil {
		return nil, err
	}

	if post.IsPublished() {
		now := service.now()
		post.PublishedAt = &now
	}

	post.ID = uuid.New()
	if err := service.insertPost(context, post, explicitSlug); err != nil {
		return nil, err
	}

	service.logger.Info("post_created",
		slog.String("post_id", post.ID),
		slog.String("slug", post.Slug),
		slog.String("status", post.Status),
	)
	return post, nil
}

// insertPost creates post, walking the suffix sequence for derived slugs.
func (service *Service) insertPost(context context.Context, post *Post, explicitSlug bool) error {
	base := post.Slug

	for attempt := 1; attempt <= maxSlugAttempts; attempt++ {
		if attempt > 1 {
			post.Slug = fmt.Sprintf("%s-%d", base, attempt)
		}

		err := service.posts.Create(context, post)
		if err == nil {
			return nil
		}
		if explicitSlug || !dberr.IsUniqueViolation(err, schema.CorePost.SlugKey) {
			return err
		}
	}

	return apperr.Conflict("A post with this slug already exists; choose a slug explicitly")
}

// UpdatePost applies a partial update to a post.
func (service *Service) UpdatePost(context context.Context, id string, input PostInput) (*Post, error) {
	post, err := service.GetPost(context, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		post.Title = strings.TrimSpace(*input.Title)
	}
	if input.Slug != nil {
		post.Slug = strings.TrimSpace(*input.Slug)
	}
	if input.Excerpt != nil {
		post.Excerpt = input.Excerpt
	}
	if input.Content != nil {
		post.Content = *input.Content
	}
	if input.CoverImageURL != nil {
		post.CoverImageURL = input.CoverImageURL
	}
	if input.CategoryID != nil {
		post.CategoryID = input.CategoryID
		if *input.CategoryID == "" {
			post.CategoryID = nil
		}
		post.Category = nil
	}
	if input.Status != nil {
		post.Status = *input.Status
	}

	if err := validatePost(post); err != nil {
		return nil, err
	}

	if post.IsPublished() && post.PublishedAt == nil {
		now := service.now()
		post.PublishedAt = &now
	}

	if err := service.posts.Update(context, post); err != nil {
		return nil, err
	}

	service.logger.Info("post_updated",
		slog.String("post_id", post.ID),
		slog.String("status", post.Status),
	)
	return post, nil
}

// DeletePost removes a post.
func (service *Service) DeletePost(context context.Context, id string) error {
	if !uuid.IsValid(id) {
		return apperr.NotFound("Post")
	}
	if err := service.posts.Delete(context, id); err != nil {
		return err
	}

	service.logger.Info("post_deleted", slog.String("post_id", id))
	return nil
}

func validatePost(post *Post) error {
	validator := &validate.Validator{}
	validator.Required(FieldTitle, post.Title).MaxLen(FieldTitle, post.Title, 200)
	validator.Required(FieldSlug, post.Slug).MaxLen(FieldSlug, post.Slug, 220)
	if post.Slug != "" {
		validator.Slug(FieldSlug, post.Slug)
	}
	validator.OneOf(FieldStatus, post.Status, StatusDraft, StatusPublished)
	if post.Excerpt != nil {
		validator.MaxLen(FieldExcerpt, *post.Excerpt, 500)
	}
	if post.CoverImageURL != nil && *post.CoverImageURL != "" {
		validator.URL(FieldCoverImageURL, *post.CoverImageURL)
	}
	if post.CategoryID != nil && *post.CategoryID != "" {
		validator.UUID(FieldCategoryID, *post.CategoryID)
	}
	return validator.Err()
}
