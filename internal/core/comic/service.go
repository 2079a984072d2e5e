// Copyright (c) 2026 Comiclog. All rights reserved.
// Author: dev@comiclog.app

package comic

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/comiclog/comiclog/internal/core/feedcache"
	"github.com/comiclog/comiclog/internal/platform/apperr"
	"github.com/comiclog/comiclog/pkg/pagination"
	"github.com/comiclog/comiclog/pkg/sanitize"
)

// readRetryBackoff is the pause before the single retry of a transient
// read-path store failure.
const readRetryBackoff = 100 * time.Millisecond

// Service is the read-path query engine: it translates a (page, tag) request
// into an ordered store query, applies pagination semantics, and shapes the
// cacheable response.
type Service struct {
	repo     Repository
	cache    ResponseCache
	pageSize int
	cacheTTL time.Duration
	logger   *slog.Logger
}

func NewService(repo Repository, cache ResponseCache, pageSize int, cacheTTL time.Duration, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		cache:    cache,
		pageSize: pageSize,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// PageSize returns the configured page size.
func (service *Service) PageSize() int { return service.pageSize }

// CacheTTL returns the response cache lifetime.
func (service *Service) CacheTTL() time.Duration { return service.cacheTTL }

/*
ListComics serves one page of the reverse-chronological feed, optionally
scoped to a tag.

Pages are offset windows over the (postedtimestamp DESC, id DESC) order. The
engine fetches one row past the window; its presence sets HasNextPage without
a count query. A page below 1 is clamped to 1, and a tag with no matches
yields an empty valid page, never an error.

Responses are cached by the (page, tag) tuple. The cache is a read-through:
probe, then query-and-fill on miss. Transient store failures are retried once
before surfacing.

Parameters:
  - context: context.Context
  - page: int (1-based, clamped)
  - tag: string (raw; normalized here)

Returns:
  - *Response: items (≤ pageSize, sanitized), page, hasNextPage, tag
  - error: STORE_UNAVAILABLE after the bounded retry, INTERNAL otherwise
*/
func (service *Service) ListComics(context context.Context, page int, tag string) (*Response, error) {
	if page < 1 {
		page = 1
	}
	tag = sanitize.Tag(tag)

	cacheKey := feedcache.PageKey(page, tag)
	if cached, hit := service.cache.Get(context, cacheKey); hit {
		response := &Response{}
		if err := json.Unmarshal(cached, response); err == nil {
			return response, nil
		}
		// Unreadable entries are dropped and rebuilt from the store.
		service.cache.Del(context, cacheKey)
	}

	window := pagination.Params{Page: page, PageSize: service.pageSize}
	comics, err := service.listWindow(context, tag, window.WindowLimit(), window.Offset())
	if err != nil {
		return nil, err
	}

	hasNextPage := len(comics) > service.pageSize
	if hasNextPage {
		comics = comics[:service.pageSize]
	}

	for _, c := range comics {
		sanitizeComic(c)
	}
	if comics == nil {
		comics = []*Comic{}
	}

	response := &Response{
		Items:       comics,
		Page:        page,
		HasNextPage: hasNextPage,
		Tag:         tag,
	}

	if encoded, err := json.Marshal(response); err == nil {
		service.cache.Set(context, cacheKey, encoded, service.cacheTTL)
	}

	return response, nil
}

// GetComic looks up a single comic by id, sanitized for display.
func (service *Service) GetComic(context context.Context, id string) (*Comic, error) {
	c, err := service.repo.GetComic(context, id)
	if err != nil {
		return nil, err
	}
	sanitizeComic(c)
	return c, nil
}

// listWindow issues the ordered window query, retrying once on a transient
// store failure.
func (service *Service) listWindow(context context.Context, tag string, limit, offset int) ([]*Comic, error) {
	comics, err := service.queryWindow(context, tag, limit, offset)
	if err == nil || !apperr.IsRetryable(err) {
		return comics, err
	}

	service.logger.Warn("feed_read_retrying", slog.String("tag", tag), slog.Int("offset", offset))

	select {
	case <-context.Done():
		return nil, apperr.StoreUnavailable(context.Err())
	case <-time.After(readRetryBackoff):
	}

	return service.queryWindow(context, tag, limit, offset)
}

func (service *Service) queryWindow(context context.Context, tag string, limit, offset int) ([]*Comic, error) {
	if tag != "" {
		return service.repo.ListComicsByTag(context, tag, limit, offset)
	}
	return service.repo.ListComics(context, limit, offset)
}

// sanitizeComic strips residual markup-unsafe characters from display fields.
// Ingestion already sanitizes, so this is normally a no-op; the sanitizer is
// idempotent, making the double application safe.
func sanitizeComic(c *Comic) {
	c.Title = sanitize.UserInput(c.Title)
	c.Caption = sanitize.UserInput(c.Caption)
	for i, tag := range c.Tags {
		c.Tags[i] = sanitize.Tag(tag)
	}
	for i := range c.Images {
		if c.Images[i].AltText != nil {
			clean := sanitize.UserInput(*c.Images[i].AltText)
			c.Images[i].AltText = &clean
		}
	}
}
