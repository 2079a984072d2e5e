// Copyright (c) 2026 Comiclog. All rights reserved.
// Author: dev@comiclog.app

package comic

import (
	"context"
	"errors"
)

// ErrSlugTaken is returned by CreateComic when the slug unique index rejects
// the insert. The ingestion pipeline reacts by re-allocating once with a
// refreshed slug set.
var ErrSlugTaken = errors.New("comic: slug already exists")

// Repository is the ordered, indexed persistence capability for comics.
//
// Listings are reverse-chronological by (postedtimestamp DESC, id DESC); the
// limit/offset window is the caller's pagination concern. CreateComic is a
// conditional insert: it must fail with [ErrSlugTaken], never overwrite, when
// the slug exists by the time of the actual write.
type Repository interface {
	GetComic(context context.Context, id string) (*Comic, error)
	CreateComic(context context.Context, c *Comic) error
	ListComics(context context.Context, limit, offset int) ([]*Comic, error)
	ListComicsByTag(context context.Context, tag string, limit, offset int) ([]*Comic, error)
	ListSlugs(context context.Context) ([]string, error)
	CountComics(context context.Context) (int, error)
	CountComicsByTag(context context.Context, tag string) (int, error)
}
