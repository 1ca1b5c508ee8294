// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package delegation_test

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/comunidad/internal/core/delegation"
	"github.com/taibuivan/comunidad/internal/platform/database/schema"
	"github.com/taibuivan/comunidad/internal/platform/dberr"
)

// haversine mirrors the SQL distance expression.
func haversine(from delegation.Point, lat, lng float64) float64 {
	rad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := rad(lat - from.Lat)
	dLng := rad(lng - from.Lng)
	a := math.Pow(math.Sin(dLat/2), 2) + math.Cos(rad(from.Lat))*math.Cos(rad(lat))*math.Pow(math.Sin(dLng/2), 2)
	return delegation.EarthRadiusKm * 2 * math.Asin(math.Sqrt(a))
}

func uniqueViolation(action string) error {
	violation := &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: schema.CoreDelegation.SlugKey}
	return dberr.Wrap(violation, action, dberr.OnConflict("A delegation with this slug already exists"))
}

type memRepo struct {
	mu   sync.Mutex
	rows map[string]*delegation.Delegation
}

func newMemRepo() *memRepo {
	return &memRepo{rows: map[string]*delegation.Delegation{}}
}

func (repo *memRepo) List(_ context.Context, filter delegation.Filter, limit, offset int) ([]*delegation.Delegation, int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	matched := make([]*delegation.Delegation, 0)
	for _, row := range repo.rows {
		if filter.Active != nil && row.IsActive != *filter.Active {
			continue
		}
		if filter.City != "" && !strings.EqualFold(row.City, filter.City) {
			continue
		}
		if filter.Query != "" && !strings.Contains(strings.ToLower(row.Name+" "+row.City), strings.ToLower(filter.Query)) {
			continue
		}

		copied := *row
		if filter.Near != nil {
			if !row.HasCoordinates() {
				continue
			}
			distance := haversine(*filter.Near, *row.Latitude, *row.Longitude)
			if filter.RadiusKm > 0 && distance > filter.RadiusKm {
				continue
			}
			copied.DistanceKm = &distance
		}
		matched = append(matched, &copied)
	}

	sort.Slice(matched, func(i, j int) bool {
		if filter.Near != nil {
			return *matched[i].DistanceKm < *matched[j].DistanceKm
		}
		return matched[i].Name < matched[j].Name
	})

	total := len(matched)
	if offset >= total {
		return []*delegation.Delegation{}, total, nil
	}
	if offset+limit < total {
		matched = matched[:offset+limit]
	}
	return matched[offset:], total, nil
}

func (repo *memRepo) find(match func(*delegation.Delegation) bool) (*delegation.Delegation, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, row := range repo.rows {
		if match(row) {
			copied := *row
			return &copied, nil
		}
	}
	return nil, dberr.Wrap(pgx.ErrNoRows, "find_delegation", dberr.Resource("Delegation"))
}

func (repo *memRepo) FindByID(_ context.Context, id string) (*delegation.Delegation, error) {
	return repo.find(func(row *delegation.Delegation) bool { return row.ID == id })
}

func (repo *memRepo) FindBySlug(_ context.Context, slug string) (*delegation.Delegation, error) {
	return repo.find(func(row *delegation.Delegation) bool { return row.Slug == slug })
}

func (repo *memRepo) save(item *delegation.Delegation, action string) error {
	for _, row := range repo.rows {
		if row.ID != item.ID && row.Slug == item.Slug {
			return uniqueViolation(action)
		}
	}
	copied := *item
	repo.rows[item.ID] = &copied
	return nil
}

func (repo *memRepo) Create(_ context.Context, item *delegation.Delegation) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	return repo.save(item, "create_delegation")
}

func (repo *memRepo) Update(_ context.Context, item *delegation.Delegation) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if _, ok := repo.rows[item.ID]; !ok {
		return dberr.Wrap(pgx.ErrNoRows, "update_delegation", dberr.Resource("Delegation"))
	}
	return repo.save(item, "update_delegation")
}

func (repo *memRepo) Delete(_ context.Context, id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if _, ok := repo.rows[id]; !ok {
		return dberr.Wrap(pgx.ErrNoRows, "delete_delegation", dberr.Resource("Delegation"))
	}
	delete(repo.rows, id)
	return nil
}
