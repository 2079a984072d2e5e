// Copyright (c) 2026 Comiclog. All rights reserved.
// Author: dev@comiclog.app

// Package slug generates ASCII URL slugs from arbitrary Unicode strings.
//
// # Usage
//
// Slugs are used as human-readable identifiers for comics (e.g., "laundry-day-disaster").
// This package handles normalization, accent removal, and character sanitization.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// nonWord matches characters outside word chars, whitespace, and hyphens.
	nonWord = regexp.MustCompile(`[^\w\s-]+`)
	// separators collapses runs of whitespace, underscores, and hyphens.
	separators = regexp.MustCompile(`[\s_-]+`)
	// valid matches a well-formed slug: lowercase alphanumeric runs joined by single hyphens.
	valid = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// FromTitle converts a comic title into a URL-safe ASCII slug.
//
// # Transformation Pipeline
//
// 1. Normalizes to NFD (decomposes accented chars: é → e + combining acute).
// 2. Removes combining marks (accents).
// 3. Converts to lowercase and trims surrounding whitespace.
// 4. Strips characters outside word chars, whitespace, and hyphens.
// 5. Collapses whitespace/underscore/hyphen runs into single hyphens
// and trims leading/trailing hyphens.
//
// The function is pure, deterministic, and idempotent: applying it to an
// already-valid slug returns the slug unchanged.
func FromTitle(s string) string {
	// 1. Normalize and remove accents
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn))
	result, _, _ := transform.String(t, s)

	// 2. Lowercase and trim
	result = strings.ToLower(strings.TrimSpace(result))

	// 3. Strip disallowed characters, then collapse separators
	result = nonWord.ReplaceAllString(result, "")
	result = separators.ReplaceAllString(result, "-")

	return strings.Trim(result, "-")
}

// IsValid reports whether s is a well-formed slug.
func IsValid(s string) bool {
	return valid.MatchString(s)
}

// isMn reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
