// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination reads ?page=&limit= and builds the "meta" block of
// list responses. Pages are 1-indexed.
package pagination

import (
	"net/http"

	"github.com/taibuivan/comunidad/pkg/convert"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params is a requested page.
type Params struct {
	Page  int
	Limit int
}

// Offset is the number of rows before Page.
func (p Params) Offset() int {
	return (max(p.Page, 1) - 1) * p.Limit
}

// Meta describes the page returned and the size of the whole result.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewMeta derives TotalPages from total and limit.
func NewMeta(page, limit, total int) Meta {
	meta := Meta{Page: page, Limit: limit, Total: total}
	if limit > 0 {
		meta.TotalPages = (total + limit - 1) / limit
	}
	return meta
}

// FromRequest reads page and limit. Missing, malformed or non-positive
// values fall back to the defaults; a limit above [MaxLimit] is capped.
func FromRequest(r *http.Request) Params {
	query := r.URL.Query()

	page := convert.ToIntD(query.Get("page"), DefaultPage)
	if page < 1 {
		page = DefaultPage
	}

	limit := convert.ToIntD(query.Get("limit"), DefaultLimit)
	if limit < 1 {
		limit = DefaultLimit
	}

	return Params{Page: page, Limit: min(limit, MaxLimit)}
}
