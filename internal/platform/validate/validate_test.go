// Copyright (c) 2026 Comiclog. All rights reserved.
// Author: dev@comiclog.app

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comiclog/comiclog/internal/platform/apperr"
	"github.com/comiclog/comiclog/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    string
		hasError bool
	}{
		{"valid_string", "title", "Rain Check", false},
		{"empty_string", "title", "", true},
		{"whitespace_only", "title", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required(tt.field, tt.value)

			if tt.hasError {
				assert.True(t, v.HasErrors())
				err := v.Err()
				require.NotNil(t, err)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "VALIDATION_ERROR", ae.Code)
				assert.Equal(t, tt.field, ae.Details[0].Field)
			} else {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestValidator_ISODate checks the calendar date validation rule.
*/
func TestValidator_ISODate(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		isValid bool
	}{
		{"valid_date", "2026-08-29", true},
		{"leap_day", "2024-02-29", true},
		{"impossible_day", "2026-02-31", false},
		{"wrong_format", "29/08/2026", false},
		{"timestamp_not_date", "2026-08-29T10:00:00Z", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.ISODate("happenedOnDate", tt.date)

			if tt.isValid {
				assert.False(t, v.HasErrors())
			} else {
				assert.True(t, v.HasErrors())
			}
		})
	}
}

/*
TestValidator_StorageKey checks object storage key validation.
*/
func TestValidator_StorageKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		isValid bool
	}{
		{"valid_key", "uploads/rain-check/page-01.png", true},
		{"empty", "", false},
		{"absolute_path", "/uploads/page.png", false},
		{"traversal", "uploads/../secrets", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.StorageKey("images[0].key", tt.key)

			if tt.isValid {
				assert.False(t, v.HasErrors())
			} else {
				assert.True(t, v.HasErrors())
			}
		})
	}
}

/*
TestValidator_URL checks the absolute http(s) URL rule.
*/
func TestValidator_URL(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		isValid bool
	}{
		{"https", "https://cdn.comiclog.app/invalidate", true},
		{"http", "http://localhost:8787/invalidate", true},
		{"wrong_scheme", "ftp://cdn.comiclog.app", false},
		{"relative", "/invalidate", false},
		{"garbage", "not a url", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.URL("cdnEndpoint", tt.value)

			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_RFC3339 checks the timestamp validation rule.
*/
func TestValidator_RFC3339(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		isValid bool
	}{
		{"utc", "2026-08-29T10:00:00Z", true},
		{"offset", "2026-08-29T10:00:00+07:00", true},
		{"date_only", "2026-08-29", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.RFC3339("postedTimestamp", tt.value)

			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_Chain tests the fluent API (chaining multiple rules).
*/
func TestValidator_Chain(t *testing.T) {
	v := &validate.Validator{}

	// Multi-rule validation
	err := v.
		Required("title", "Rain Check").
		MinLen("title", "Rain Check", 1).
		MaxLen("title", "Rain Check", 200).
		Slug("slug", "rain-check").
		Err()

	assert.NoError(t, err)
	assert.False(t, v.HasErrors())
}

/*
TestValidator_Chain_Failure tests error accumulation in the chain.
*/
func TestValidator_Chain_Failure(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("title", "").          // Fails
		MinLen("caption", "a", 5).      // Fails
		Slug("slug", "Not A Valid 1!"). // Fails
		Err()

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)

	// Should accumulate all 3 errors
	assert.Len(t, ae.Details, 3)
}
