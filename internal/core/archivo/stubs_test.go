// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package archivo_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/comunidad/internal/access"
	"github.com/taibuivan/comunidad/internal/core/archivo"
	"github.com/taibuivan/comunidad/internal/platform/dberr"
)

// # In-Memory Repository

type memRepo struct {
	mu   sync.Mutex
	rows map[string]*archivo.Archivo
}

func newMemRepo() *memRepo {
	return &memRepo{rows: map[string]*archivo.Archivo{}}
}

func clone(source *archivo.Archivo) *archivo.Archivo {
	copied := *source
	copied.RoleIDs = append([]string(nil), source.RoleIDs...)
	copied.Roles = make([]archivo.RoleRef, 0, len(source.RoleIDs))
	for _, id := range source.RoleIDs {
		copied.Roles = append(copied.Roles, archivo.RoleRef{ID: id})
	}
	return &copied
}

func (repo *memRepo) matches(row *archivo.Archivo, filter archivo.Filter) bool {
	if len(filter.Folders) > 0 {
		found := false
		for _, folder := range filter.Folders {
			found = found || folder == row.Folder
		}
		if !found {
			return false
		}
	}
	if filter.Query != "" && !strings.Contains(strings.ToLower(row.Name), strings.ToLower(filter.Query)) {
		return false
	}
	return filter.Unrestricted || access.CanView(row.Visibility, filter.Viewer)
}

func (repo *memRepo) List(_ context.Context, filter archivo.Filter, limit, offset int) ([]*archivo.Archivo, int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	matched := make([]*archivo.Archivo, 0)
	for _, row := range repo.rows {
		if repo.matches(row, filter) {
			matched = append(matched, clone(row))
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })

	total := len(matched)
	if offset >= total {
		return []*archivo.Archivo{}, total, nil
	}
	if offset+limit < total {
		matched = matched[:offset+limit]
	}
	return matched[offset:], total, nil
}

func (repo *memRepo) Folders(_ context.Context, filter archivo.Filter) ([]archivo.Folder, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	counts := map[string]int{}
	for _, row := range repo.rows {
		if repo.matches(row, filter) {
			counts[row.Folder]++
		}
	}
	result := make([]archivo.Folder, 0, len(counts))
	for name, files := range counts {
		result = append(result, archivo.Folder{Name: name, Files: files})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (repo *memRepo) FindByID(_ context.Context, id string) (*archivo.Archivo, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	row, ok := repo.rows[id]
	if !ok {
		return nil, dberr.Wrap(pgx.ErrNoRows, "find_file", dberr.Resource("File"))
	}
	return clone(row), nil
}

func (repo *memRepo) Create(_ context.Context, file *archivo.Archivo) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	file.CreatedAt = time.Now()
	file.UpdatedAt = file.CreatedAt
	repo.rows[file.ID] = clone(file)
	return nil
}

func (repo *memRepo) Update(_ context.Context, file *archivo.Archivo) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if _, ok := repo.rows[file.ID]; !ok {
		return dberr.Wrap(pgx.ErrNoRows, "update_file", dberr.Resource("File"))
	}
	repo.rows[file.ID] = clone(file)
	return nil
}

func (repo *memRepo) Delete(_ context.Context, id string) (string, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	row, ok := repo.rows[id]
	if !ok {
		return "", dberr.Wrap(pgx.ErrNoRows, "delete_file", dberr.Resource("File"))
	}
	delete(repo.rows, id)
	return row.ObjectKey, nil
}

// # Fake Object Store

// fakeObjects records the keys it was asked to sign or delete.
type fakeObjects struct {
	mu         sync.Mutex
	deleted    []string
	failDelete bool
	failSign   bool
}

func (objects *fakeObjects) PresignUpload(_ context.Context, key, contentType string) (string, error) {
	if objects.failSign {
		return "", errors.New("signer misconfigured")
	}
	return "https://bucket.test/" + key + "?upload=" + contentType, nil
}

func (objects *fakeObjects) PresignDownload(_ context.Context, key, filename string) (string, error) {
	return "https://bucket.test/" + key + "?as=" + filename, nil
}

func (objects *fakeObjects) Delete(_ context.Context, key string) error {
	objects.mu.Lock()
	defer objects.mu.Unlock()
	if objects.failDelete {
		return errors.New("bucket unreachable")
	}
	objects.deleted = append(objects.deleted, key)
	return nil
}

func (objects *fakeObjects) TTL() time.Duration {
	return 15 * time.Minute
}
