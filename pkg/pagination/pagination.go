// Copyright (c) 2026 Comiclog. All rights reserved.
// Author: dev@comiclog.app

// Package pagination provides shared types and helpers for the paginated feed.
//
// # Overview
//
// It standardizes how page-based navigation is requested via query parameters
// and how the store window for a page is derived. The feed uses offset
// pagination with a look-ahead row: a page of N items is fetched as N+1 rows,
// and the presence of the extra row decides hasNextPage without a count query.
package pagination

import (
	"net/http"
	"strconv"
)

const (
	// DefaultPageSize is the number of items per page if not configured.
	DefaultPageSize = 10
	// MaxPageSize is the upper bound for items per page to prevent system abuse.
	MaxPageSize = 100
	// DefaultPage is the starting page (1-indexed).
	DefaultPage = 1
)

// Params holds the parsed page and the configured page size.
type Params struct {
	Page     int
	PageSize int
}

// Offset returns the SQL OFFSET value derived from [Page] and [PageSize].
func (p Params) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// WindowLimit returns the SQL LIMIT for the look-ahead window: one row more
// than the page size, so the caller can detect a following page.
func (p Params) WindowLimit() int {
	return p.PageSize + 1
}

// FromRequest parses the "page" query parameter from an HTTP request and
// pairs it with the configured page size.
//
// # Clamping
//
// An absent, invalid, or sub-1 page clamps to [DefaultPage]. A pageSize
// outside [1, MaxPageSize] clamps to [DefaultPageSize].
func FromRequest(r *http.Request, pageSize int) Params {
	page := parseIntParam(r, "page", DefaultPage)
	if page < 1 {
		page = DefaultPage
	}

	return Params{Page: page, PageSize: Clamp(pageSize)}
}

// Clamp bounds a configured page size to the valid [1, MaxPageSize] range.
func Clamp(pageSize int) int {
	if pageSize < 1 || pageSize > MaxPageSize {
		return DefaultPageSize
	}
	return pageSize
}

// parseIntParam parses a single integer query parameter with a fallback default.
func parseIntParam(r *http.Request, key string, defaultVal int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultVal
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return defaultVal
	}

	return n
}
