// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package blog publishes the church's news and teachings.

# Rules

  - Category names and slugs are unique.
  - Post slugs are unique. A slug derived from the title gets a numeric
    suffix (-2, -3, ...) when it is already taken; an explicit slug that is
    taken is a conflict.
  - Anonymous readers only ever see published posts. Drafts are listed in
    the admin panel only.
  - PublishedAt is stamped the first time a post is published and kept
    when it goes back to draft.
*/
package blog

import "time"

// # Domain Entities

// Category groups posts by topic (e.g. "Predicaciones").
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description"`
	PostCount   int       `json:"post_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryRef is the compact category embedded in posts.
type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Post is a blog article.
type Post struct {
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	Slug          string       `json:"slug"`
	Excerpt       *string      `json:"excerpt"`
	Content       string       `json:"content"`
	CoverImageURL *string      `json:"cover_image_url"`
	CategoryID    *string      `json:"category_id"`
	Category      *CategoryRef `json:"category,omitempty"`
	AuthorID      *string      `json:"author_id"`
	AuthorName    *string      `json:"author_name,omitempty"`
	Status        string       `json:"status"`
	PublishedAt   *time.Time   `json:"published_at"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// IsPublished reports whether anonymous readers may see the post.
func (post *Post) IsPublished() bool {
	return post.Status == StatusPublished
}

// PostFilter narrows post listings.
type PostFilter struct {
	// Status restricts to one status; empty lists both.
	Status string
	// CategorySlug restricts to one category.
	CategorySlug string
	// Query matches title or excerpt.
	Query string
}

// PostInput carries the writable fields of a post. On update, nil means
// unchanged.
type PostInput struct {
	Title         *string `json:"title"`
	Slug          *string `json:"slug"`
	Excerpt       *string `json:"excerpt"`
	Content       *string `json:"content"`
	CoverImageURL *string `json:"cover_image_url"`
	CategoryID    *string `json:"category_id"`
	Status        *string `json:"status"`
}

// CategoryInput carries the writable fields of a category.
type CategoryInput struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
}

// # Post Status

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// maxSlugAttempts bounds the -2, -3, ... suffix search for derived slugs.
const maxSlugAttempts = 5

// # Field Identifiers

const (
	FieldTitle         = "title"
	FieldSlug          = "slug"
	FieldExcerpt       = "excerpt"
	FieldContent       = "content"
	FieldCoverImageURL = "cover_image_url"
	FieldCategoryID    = "category_id"
	FieldStatus        = "status"
	FieldName          = "name"
	FieldDescription   = "description"
)
