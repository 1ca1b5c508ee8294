// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package blog

import "context"

// # Blog Data Access

// CategoryRepository defines the data access contract for categories.
type CategoryRepository interface {
	// List returns every category with its published post count, ordered by name.
	List(context context.Context) ([]*Category, error)

	// FindByID returns one category or NOT_FOUND.
	FindByID(context context.Context, id string) (*Category, error)

	// Create inserts a category. A duplicate name or slug is a CONFLICT.
	Create(context context.Context, category *Category) error

	// Update persists name, slug and description.
	Update(context context.Context, category *Category) error

	// Delete removes a category; its posts become uncategorised.
	Delete(context context.Context, id string) error
}

// PostRepository defines the data access contract for posts.
type PostRepository interface {
	/*
		List returns a filtered, paginated slice of posts.

		Parameters:
		  - context: context.Context
		  - filter: PostFilter (status, category slug, search)
		  - limit: int
		  - offset: int

		Returns:
		  - []*Post: Posts ordered newest first
		  - int: Total count matching filters
		  - error: Database execution errors
	*/
	List(context context.Context, filter PostFilter, limit, offset int) ([]*Post, int, error)

	// FindByID returns one post whatever its status.
	FindByID(context context.Context, id string) (*Post, error)

	// FindBySlug returns one post whatever its status.
	FindBySlug(context context.Context, slug string) (*Post, error)

	/*
		Create inserts a post.

		Returns:
		  - error: CONFLICT wrapping the unique violation when the slug is taken,
		    NOT_FOUND when the category does not exist
	*/
	Create(context context.Context, post *Post) error

	// Update persists every writable column of post.
	Update(context context.Context, post *Post) error

	// Delete removes a post or returns NOT_FOUND.
	Delete(context context.Context, id string) error
}
