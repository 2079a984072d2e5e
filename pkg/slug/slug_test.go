// Copyright (c) 2026 Comiclog. All rights reserved.
// Author: dev@comiclog.app

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/comiclog/comiclog/pkg/slug"
)

/*
TestFromTitle checks the title-to-slug transformation pipeline.
*/
func TestFromTitle(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		expected string
	}{
		{"simple", "My Comic", "my-comic"},
		{"already_slug", "my-comic", "my-comic"},
		{"accents_stripped", "Café Déjà Vu", "cafe-deja-vu"},
		{"punctuation_stripped", "Hello, World! (Part 2)", "hello-world-part-2"},
		{"underscores_collapse", "rainy__day___blues", "rainy-day-blues"},
		{"whitespace_collapse", "  spaced   out  ", "spaced-out"},
		{"mixed_separators", "a _ b - c", "a-b-c"},
		{"leading_trailing_hyphens", "---edge case---", "edge-case"},
		{"empty", "", ""},
		{"only_punctuation", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, slug.FromTitle(tt.title))
		})
	}
}

/*
TestFromTitle_Idempotent verifies that applying the transformation twice
yields the same result as once.
*/
func TestFromTitle_Idempotent(t *testing.T) {
	titles := []string{
		"My Comic", "Café Déjà Vu", "Hello, World!", "a _ b - c", "laundry-day",
	}

	for _, title := range titles {
		once := slug.FromTitle(title)
		twice := slug.FromTitle(once)
		assert.Equal(t, once, twice, "title %q", title)
	}
}

/*
TestIsValid checks the well-formedness predicate.
*/
func TestIsValid(t *testing.T) {
	assert.True(t, slug.IsValid("my-comic"))
	assert.True(t, slug.IsValid("my-comic-2"))
	assert.True(t, slug.IsValid("a"))
	assert.False(t, slug.IsValid(""))
	assert.False(t, slug.IsValid("-leading"))
	assert.False(t, slug.IsValid("trailing-"))
	assert.False(t, slug.IsValid("double--hyphen"))
	assert.False(t, slug.IsValid("Upper-Case"))
}
