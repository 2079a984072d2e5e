// Copyright (c) 2026 Comiclog. All rights reserved.
// Author: dev@comiclog.app

package comic

import (
	"strconv"

	"github.com/comiclog/comiclog/pkg/slug"
)

// Allocation is the outcome of resolving a slug for a title.
//
// IsUnique means the allocated slug equals the raw base slug derived from the
// title; a disambiguated slug ("my-comic-2") reports IsUnique = false even
// though it is, of course, unused.
type Allocation struct {
	Slug     string
	IsUnique bool
}

/*
Allocate derives a URL-safe slug for the title, resolving collisions against
the provided set of existing slugs by appending -1, -2, … until free.

Deterministic: the same title and existing set always yield the same result.
The existing set is a snapshot, not the source of truth — the storage layer's
unique index is what actually guarantees slug uniqueness at commit time, and
the ingestion pipeline retries allocation with a refreshed set on conflict.

Parameters:
  - title: string (raw comic title)
  - existing: map[string]struct{} (snapshot of slugs already committed)

Returns:
  - Allocation: the resolved slug and whether it equals the raw base slug
*/
func Allocate(title string, existing map[string]struct{}) Allocation {
	base := slug.FromTitle(title)

	if _, taken := existing[base]; !taken {
		return Allocation{Slug: base, IsUnique: true}
	}

	for suffix := 1; ; suffix++ {
		candidate := base + "-" + strconv.Itoa(suffix)
		if _, taken := existing[candidate]; !taken {
			return Allocation{Slug: candidate, IsUnique: false}
		}
	}
}

// SlugSet builds the snapshot form consumed by [Allocate].
func SlugSet(slugs []string) map[string]struct{} {
	set := make(map[string]struct{}, len(slugs))
	for _, s := range slugs {
		set[s] = struct{}{}
	}
	return set
}
