// Copyright (c) 2026 Comiclog. All rights reserved.
// Author: dev@comiclog.app

package comic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/comiclog/comiclog/internal/core/comic"
)

/*
TestAllocate checks base-slug allocation and numeric collision resolution.
*/
func TestAllocate(t *testing.T) {
	tests := []struct {
		name         string
		title        string
		existing     []string
		expectedSlug string
		isUnique     bool
	}{
		{"no_collision", "My Comic", nil, "my-comic", true},
		{"single_collision", "My Comic", []string{"my-comic"}, "my-comic-1", false},
		{"double_collision", "My Comic", []string{"my-comic", "my-comic-1"}, "my-comic-2", false},
		{"gap_in_suffixes", "My Comic", []string{"my-comic", "my-comic-2"}, "my-comic-1", false},
		{"unrelated_slugs_ignored", "My Comic", []string{"other-comic"}, "my-comic", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allocation := comic.Allocate(tt.title, comic.SlugSet(tt.existing))

			assert.Equal(t, tt.expectedSlug, allocation.Slug)
			assert.Equal(t, tt.isUnique, allocation.IsUnique)
		})
	}
}

/*
TestAllocate_Deterministic verifies the same inputs always yield the same slug.
*/
func TestAllocate_Deterministic(t *testing.T) {
	existing := comic.SlugSet([]string{"my-comic", "my-comic-1"})

	first := comic.Allocate("My Comic", existing)
	second := comic.Allocate("My Comic", existing)

	assert.Equal(t, first, second)
}
