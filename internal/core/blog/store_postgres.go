// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package blog

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/comunidad/internal/platform/database/schema"
	"github.com/taibuivan/comunidad/internal/platform/dberr"
)

// # PostgreSQL Repositories

// PostgresCategoryRepository implements [CategoryRepository] using pgx.
type PostgresCategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository constructs a PostgreSQL backed category store.
func NewCategoryRepository(pool *pgxpool.Pool) *PostgresCategoryRepository {
	return &PostgresCategoryRepository{pool: pool}
}

// PostgresPostRepository implements [PostRepository] using pgx.
type PostgresPostRepository struct {
	pool *pgxpool.Pool
}

// NewPostRepository constructs a PostgreSQL backed post store.
func NewPostRepository(pool *pgxpool.Pool) *PostgresPostRepository {
	return &PostgresPostRepository{pool: pool}
}

const categoryConflict = "Category already exists"

// # Category Repository Implementation

var categorySelect = fmt.Sprintf(`
	SELECT c.%s, c.%s, c.%s, c.%s, c.%s, c.%s,
		(SELECT COUNT(*) FROM %s p WHERE p.%s = c.%s AND p.%s = '%s')
	FROM %s c`,
	schema.CoreCategory.ID, schema.CoreCategory.Name, schema.CoreCategory.Slug,
	schema.CoreCategory.Description, schema.CoreCategory.CreatedAt, schema.CoreCategory.UpdatedAt,
	schema.CorePost.Table, schema.CorePost.CategoryID, schema.CoreCategory.ID, schema.CorePost.Status, StatusPublished,
	schema.CoreCategory.Table,
)

func scanCategory(row pgx.Row) (*Category, error) {
	category := &Category{}
	err := row.Scan(
		&category.ID, &category.Name, &category.Slug, &category.Description,
		&category.CreatedAt, &category.UpdatedAt, &category.PostCount,
	)
	return category, err
}

// List returns all categories ordered by name.
func (repository *PostgresCategoryRepository) List(context context.Context) ([]*Category, error) {
	query := fmt.Sprintf(`%s ORDER BY c.%s ASC`, categorySelect, schema.CoreCategory.Name)

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_categories")
	}
	defer rows.Close()

	result := make([]*Category, 0)
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_category")
		}
		result = append(result, category)
	}

	return result, dberr.Wrap(rows.Err(), "iterate_categories")
}

// FindByID returns a single category.
func (repository *PostgresCategoryRepository) FindByID(context context.Context, id string) (*Category, error) {
	query := fmt.Sprintf(`%s WHERE c.%s = $1`, categorySelect, schema.CoreCategory.ID)

	category, err := scanCategory(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "find_category", dberr.Resource("Category"))
	}
	return category, nil
}

// Create inserts a category row.
func (repository *PostgresCategoryRepository) Create(context context.Context, category *Category) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		RETURNING %s, %s
	`,
		schema.CoreCategory.Table,
		schema.CoreCategory.ID, schema.CoreCategory.Name, schema.CoreCategory.Slug, schema.CoreCategory.Description,
		schema.CoreCategory.CreatedAt, schema.CoreCategory.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		category.ID, category.Name, category.Slug, category.Description,
	).Scan(&category.CreatedAt, &category.UpdatedAt)

	return dberr.Wrap(err, "create_category", dberr.OnConflict(categoryConflict))
}

// Update persists the category's fields.
func (repository *PostgresCategoryRepository) Update(context context.Context, category *Category) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = NOW()
		WHERE %s = $1
		RETURNING %s
	`,
		schema.CoreCategory.Table,
		schema.CoreCategory.Name, schema.CoreCategory.Slug, schema.CoreCategory.Description, schema.CoreCategory.UpdatedAt,
		schema.CoreCategory.ID,
		schema.CoreCategory.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		category.ID, category.Name, category.Slug, category.Description,
	).Scan(&category.UpdatedAt)

	return dberr.Wrap(err, "update_category", dberr.Resource("Category"), dberr.OnConflict(categoryConflict))
}

// Delete removes a category. Posts keep existing with a null category.
func (repository *PostgresCategoryRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CoreCategory.Table, schema.CoreCategory.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_category")
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "delete_category", dberr.Resource("Category"))
	}
	return nil
}

// # Post Repository Implementation

var postSelect = fmt.Sprintf(`
	SELECT
		p.%s, p.%s, p.%s, p.%s, p.%s, p.%s, p.%s, p.%s, p.%s, p.%s, p.%s, p.%s,
		c.%s, c.%s, a.%s`,
	schema.CorePost.ID, schema.CorePost.Title, schema.CorePost.Slug, schema.CorePost.Excerpt,
	schema.CorePost.Content, schema.CorePost.CoverImageURL, schema.CorePost.CategoryID, schema.CorePost.AuthorID,
	schema.CorePost.Status, schema.CorePost.PublishedAt, schema.CorePost.CreatedAt, schema.CorePost.UpdatedAt,
	schema.CoreCategory.Name, schema.CoreCategory.Slug, schema.UserAccount.FullName,
)

var postFrom = fmt.Sprintf(`
	FROM %s p
	LEFT JOIN %s c ON c.%s = p.%s
	LEFT JOIN %s a ON a.%s = p.%s`,
	schema.CorePost.Table,
	schema.CoreCategory.Table, schema.CoreCategory.ID, schema.CorePost.CategoryID,
	schema.UserAccount.Table, schema.UserAccount.ID, schema.CorePost.AuthorID,
)

// scanPost reads the postSelect columns plus any trailing destinations.
func scanPost(row pgx.Row, extra ...any) (*Post, error) {
	post := &Post{}
	var categoryName, categorySlug *string

	destinations := []any{
		&post.ID, &post.Title, &post.Slug, &post.Excerpt, &post.Content, &post.CoverImageURL,
		&post.CategoryID, &post.AuthorID, &post.Status, &post.PublishedAt, &post.CreatedAt, &post.UpdatedAt,
		&categoryName, &categorySlug, &post.AuthorName,
	}
	if err := row.Scan(append(destinations, extra...)...); err != nil {
		return nil, err
	}

	if post.CategoryID != nil && categoryName != nil && categorySlug != nil {
		post.Category = &CategoryRef{ID: *post.CategoryID, Name: *categoryName, Slug: *categorySlug}
	}
	return post, nil
}

/*
List returns a filtered, paginated slice of posts and the total count.

Description: COUNT(*) OVER() carries the total alongside each row so a page
costs a single round-trip.
*/
func (repository *PostgresPostRepository) List(context context.Context, filter PostFilter, limit, offset int) ([]*Post, int, error) {

	// Query build initialization
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(postSelect)
	queryBuilder.WriteString(", COUNT(*) OVER() AS total_count")
	queryBuilder.WriteString(postFrom)
	queryBuilder.WriteString(" WHERE 1=1")

	// Status Filtering
	if filter.Status != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND p.%s = $%d", schema.CorePost.Status, argID))
		args = append(args, filter.Status)
		argID++
	}

	// Category Filtering
	if filter.CategorySlug != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND c.%s = $%d", schema.CoreCategory.Slug, argID))
		args = append(args, filter.CategorySlug)
		argID++
	}

	// Search Query Filtering
	if filter.Query != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND (p.%s ILIKE $%d OR p.%s ILIKE $%d)",
			schema.CorePost.Title, argID, schema.CorePost.Excerpt, argID))
		args = append(args, "%"+filter.Query+"%")
		argID++
	}

	// Newest first; drafts have no publish date and sort by creation.
	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY COALESCE(p.%s, p.%s) DESC, p.%s DESC LIMIT $%d OFFSET $%d",
		schema.CorePost.PublishedAt, schema.CorePost.CreatedAt, schema.CorePost.ID, argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_posts")
	}
	defer rows.Close()

	total := 0
	result := make([]*Post, 0)
	for rows.Next() {
		post, err := scanPost(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_post")
		}
		result = append(result, post)
	}

	return result, total, dberr.Wrap(rows.Err(), "iterate_posts")
}

// FindByID returns a single post.
func (repository *PostgresPostRepository) FindByID(context context.Context, id string) (*Post, error) {
	query := fmt.Sprintf(`%s %s WHERE p.%s = $1`, postSelect, postFrom, schema.CorePost.ID)

	post, err := scanPost(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "find_post", dberr.Resource("Post"))
	}
	return post, nil
}

// FindBySlug returns a single post by slug.
func (repository *PostgresPostRepository) FindBySlug(context context.Context, slug string) (*Post, error) {
	query := fmt.Sprintf(`%s %s WHERE p.%s = $1`, postSelect, postFrom, schema.CorePost.Slug)

	post, err := scanPost(repository.pool.QueryRow(context, query, slug))
	if err != nil {
		return nil, dberr.Wrap(err, "find_post_by_slug", dberr.Resource("Post"))
	}
	return post, nil
}

// Create inserts a post row.
func (repository *PostgresPostRepository) Create(context context.Context, post *Post) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING %s, %s
	`,
		schema.CorePost.Table,
		schema.CorePost.ID, schema.CorePost.Title, schema.CorePost.Slug, schema.CorePost.Excerpt,
		schema.CorePost.Content, schema.CorePost.CoverImageURL, schema.CorePost.CategoryID,
		schema.CorePost.AuthorID, schema.CorePost.Status, schema.CorePost.PublishedAt,
		schema.CorePost.CreatedAt, schema.CorePost.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		post.ID, post.Title, post.Slug, post.Excerpt, post.Content, post.CoverImageURL,
		post.CategoryID, post.AuthorID, post.Status, post.PublishedAt,
	).Scan(&post.CreatedAt, &post.UpdatedAt)

	return dberr.Wrap(err, "create_post",
		dberr.OnConflict("A post with this slug already exists"),
		dberr.Reference("Category"),
	)
}

// Update persists the post's writable columns.
func (repository *PostgresPostRepository) Update(context context.Context, post *Post) error {
	query := fmt.Sprintf(`
		UPDATE %s SET
			%s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8, %s = $9, %s = NOW()
		WHERE %s = $1
		RETURNING %s
	`,
		schema.CorePost.Table,
		schema.CorePost.Title, schema.CorePost.Slug, schema.CorePost.Excerpt, schema.CorePost.Content,
		schema.CorePost.CoverImageURL, schema.CorePost.CategoryID, schema.CorePost.Status,
		schema.CorePost.PublishedAt, schema.CorePost.UpdatedAt,
		schema.CorePost.ID,
		schema.CorePost.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		post.ID, post.Title, post.Slug, post.Excerpt, post.Content, post.CoverImageURL,
		post.CategoryID, post.Status, post.PublishedAt,
	).Scan(&post.UpdatedAt)

	return dberr.Wrap(err, "update_post",
		dberr.Resource("Post"),
		dberr.OnConflict("A post with this slug already exists"),
		dberr.Reference("Category"),
	)
}

// Delete removes a post.
func (repository *PostgresPostRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CorePost.Table, schema.CorePost.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_post")
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "delete_post", dberr.Resource("Post"))
	}
	return nil
}
