// Copyright (c) 2026 Comiclog. All rights reserved.
// Author: dev@comiclog.app

package sanitize_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/comiclog/comiclog/pkg/sanitize"
)

/*
TestUserInput checks markup stripping, trimming, and truncation.
*/
func TestUserInput(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "A quiet morning", "A quiet morning"},
		{"script_tag", `<script>alert("x")</script>`, "scriptalert(x)/script"},
		{"quotes_and_amp", `say "hi" & 'bye'`, "say hi  bye"},
		{"trimmed", "  padded  ", "padded"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitize.UserInput(tt.input))
		})
	}
}

/*
TestUserInput_Truncation verifies the 1000-rune ceiling counts runes, not bytes.
*/
func TestUserInput_Truncation(t *testing.T) {
	long := strings.Repeat("あ", 1500)
	cleaned := sanitize.UserInput(long)
	assert.Equal(t, 1000, len([]rune(cleaned)))
}

/*
TestUserInput_Idempotent verifies that sanitizing sanitized output is a no-op,
including when the rune ceiling cuts right after whitespace.
*/
func TestUserInput_Idempotent(t *testing.T) {
	inputs := []string{
		`<script>alert("x")</script>`,
		"  padded & <quoted>  ",
		strings.Repeat("x", 1500),
		// Rune 1000 of the cleaned value lands on the space, so the
		// truncated output must be re-trimmed to stay stable.
		strings.Repeat("a", 999) + " " + strings.Repeat("b", 500),
	}

	for _, input := range inputs {
		once := sanitize.UserInput(input)
		assert.Equal(t, once, sanitize.UserInput(once))
	}
}

/*
TestUserInput_TruncationBoundaryWhitespace pins the ceiling cut that exposes
a trailing space.
*/
func TestUserInput_TruncationBoundaryWhitespace(t *testing.T) {
	input := strings.Repeat("a", 999) + " " + strings.Repeat("b", 500)

	cleaned := sanitize.UserInput(input)

	assert.Equal(t, strings.Repeat("a", 999), cleaned)
}

/*
TestTag checks normalization used by the tag index.
*/
func TestTag(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercased", "Funny", "funny"},
		{"trimmed", " funny ", "funny"},
		{"inner_whitespace_collapsed", "slice  of   life", "slice of life"},
		{"equivalent_spellings_collapse", "  FUNNY  ", "funny"},
		{"empty", "", ""},
		{"whitespace_only", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitize.Tag(tt.input))
		})
	}
}

/*
TestTag_Idempotent verifies double normalization yields identical output.
*/
func TestTag_Idempotent(t *testing.T) {
	for _, input := range []string{"Funny", " Slice  Of Life ", ""} {
		once := sanitize.Tag(input)
		assert.Equal(t, once, sanitize.Tag(once))
	}
}
