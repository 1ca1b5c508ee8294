// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package blog_test

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/comunidad/internal/core/blog"
	"github.com/taibuivan/comunidad/internal/platform/database/schema"
	"github.com/taibuivan/comunidad/internal/platform/dberr"
)

// # In-Memory Repositories

// uniqueViolation reproduces what the pgx driver reports for a constraint.
func uniqueViolation(constraint, action, message string) error {
	return dberr.Wrap(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: constraint}, action, dberr.OnConflict(message))
}

type memCategories struct {
	mu   sync.Mutex
	rows map[string]*blog.Category
}

func newMemCategories() *memCategories {
	return &memCategories{rows: map[string]*blog.Category{}}
}

func (repo *memCategories) named(name string) int {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	count := 0
	for _, row := range repo.rows {
		if row.Name == name {
			count++
		}
	}
	return count
}

func (repo *memCategories) bySlug(slug string) *blog.Category {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, row := range repo.rows {
		if row.Slug == slug {
			return row
		}
	}
	return nil
}

func (repo *memCategories) List(_ context.Context) ([]*blog.Category, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	list := make([]*blog.Category, 0, len(repo.rows))
	for _, row := range repo.rows {
		copied := *row
		list = append(list, &copied)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (repo *memCategories) FindByID(_ context.Context, id string) (*blog.Category, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	row, ok := repo.rows[id]
	if !ok {
		return nil, dberr.Wrap(pgx.ErrNoRows, "find_category", dberr.Resource("Category"))
	}
	copied := *row
	return &copied, nil
}

func (repo *memCategories) Create(_ context.Context, category *blog.Category) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, row := range repo.rows {
		if row.Name == category.Name {
			return uniqueViolation("category_name_key", "create_category", "Category already exists")
		}
		if row.Slug == category.Slug {
			return uniqueViolation("category_slug_key", "create_category", "Category already exists")
		}
	}
	copied := *category
	repo.rows[category.ID] = &copied
	return nil
}

func (repo *memCategories) Update(_ context.Context, category *blog.Category) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for id, row := range repo.rows {
		if id != category.ID && (row.Name == category.Name || row.Slug == category.Slug) {
			return uniqueViolation("category_name_key", "update_category", "Category already exists")
		}
	}
	copied := *category
	repo.rows[category.ID] = &copied
	return nil
}

func (repo *memCategories) Delete(_ context.Context, id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if _, ok := repo.rows[id]; !ok {
		return dberr.Wrap(pgx.ErrNoRows, "delete_category", dberr.Resource("Category"))
	}
	delete(repo.rows, id)
	return nil
}

type memPosts struct {
	mu         sync.Mutex
	rows       []*blog.Post
	categories *memCategories
}

func (repo *memPosts) List(_ context.Context, filter blog.PostFilter, limit, offset int) ([]*blog.Post, int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	var categoryID string
	if filter.CategorySlug != "" {
		category := repo.categories.bySlug(filter.CategorySlug)
		if category == nil {
			return []*blog.Post{}, 0, nil
		}
		categoryID = category.ID
	}

	matched := make([]*blog.Post, 0)
	for _, row := range repo.rows {
		if filter.Status != "" && row.Status != filter.Status {
			continue
		}
		if categoryID != "" && (row.CategoryID == nil || *row.CategoryID != categoryID) {
			continue
		}
		if filter.Query != "" && !strings.Contains(strings.ToLower(row.Title), strings.ToLower(filter.Query)) {
			continue
		}
		copied := *row
		matched = append(matched, &copied)
	}

	total := len(matched)
	if offset >= total {
		return []*blog.Post{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (repo *memPosts) find(match func(*blog.Post) bool) (*blog.Post, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, row := range repo.rows {
		if match(row) {
			copied := *row
			return &copied, nil
		}
	}
	return nil, dberr.Wrap(pgx.ErrNoRows, "find_post", dberr.Resource("Post"))
}

func (repo *memPosts) FindByID(_ context.Context, id string) (*blog.Post, error) {
	return repo.find(func(post *blog.Post) bool { return post.ID == id })
}

func (repo *memPosts) FindBySlug(_ context.Context, slug string) (*blog.Post, error) {
	return repo.find(func(post *blog.Post) bool { return post.Slug == slug })
}

func (repo *memPosts) Create(_ context.Context, post *blog.Post) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, row := range repo.rows {
		if row.Slug == post.Slug {
			return uniqueViolation(schema.CorePost.SlugKey, "create_post", "A post with this slug already exists")
		}
	}
	copied := *post
	repo.rows = append(repo.rows, &copied)
	return nil
}

func (repo *memPosts) Update(_ context.Context, post *blog.Post) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for i, row := range repo.rows {
		if row.ID == post.ID {
			copied := *post
			repo.rows[i] = &copied
			return nil
		}
	}
	return dberr.Wrap(pgx.ErrNoRows, "update_post", dberr.Resource("Post"))
}

func (repo *memPosts) Delete(_ context.Context, id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for i, row := range repo.rows {
		if row.ID == id {
			repo.rows = append(repo.rows[:i], repo.rows[i+1:]...)
			return nil
		}
	}
	return dberr.Wrap(pgx.ErrNoRows, "delete_post", dberr.Resource("Post"))
}
