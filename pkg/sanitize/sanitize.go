// Copyright (c) 2026 Comiclog. All rights reserved.
// Author: dev@comiclog.app

/*
Package sanitize provides pure, total normalization functions for untrusted text.

It is applied on both sides of the storage boundary: tags are normalized before
indexing so equivalent spellings collapse to one entry, and captions/titles are
scrubbed before they are placed in an API payload.

All functions are idempotent: applying one twice yields the same result as once.
*/
package sanitize

import (
	"regexp"
	"strings"
)

// maxInputRunes is the ceiling applied by [UserInput] to bound payload size.
const maxInputRunes = 1000

var (
	// markupUnsafe matches characters that could break out into markup context.
	markupUnsafe = regexp.MustCompile(`[<>"'&]`)
	// innerSpace collapses internal whitespace runs.
	innerSpace = regexp.MustCompile(`\s+`)
)

// UserInput scrubs a free-text value for safe display.
//
// # Pipeline
//
// 1. Trims surrounding whitespace.
// 2. Removes markup-unsafe characters (<, >, ", ', &).
// 3. Truncates to 1000 runes.
//
// This is a defensive strip, not an HTML encoder: the characters are removed
// entirely, so the output can be embedded in any context.
func UserInput(input string) string {
	cleaned := markupUnsafe.ReplaceAllString(strings.TrimSpace(input), "")

	runes := []rune(cleaned)
	if len(runes) > maxInputRunes {
		// Truncation can expose trailing whitespace; trim again so a second
		// application is a no-op.
		cleaned = strings.TrimSpace(string(runes[:maxInputRunes]))
	}

	return cleaned
}

// Tag normalizes a tag for indexing: trim, collapse internal whitespace,
// lowercase. "  Funny  " and "funny" collapse to the same index entry.
func Tag(tag string) string {
	return strings.ToLower(innerSpace.ReplaceAllString(strings.TrimSpace(tag), " "))
}
