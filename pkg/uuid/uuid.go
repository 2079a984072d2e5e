// Copyright (c) 2026 Comiclog. All rights reserved.
// Author: dev@comiclog.app

/*
Package uuid wraps google/uuid to generate the random identifiers used as
comic primary keys.

Comic IDs are UUID v4: they are assigned once at ingestion, never reused, and
carry no ordering semantics (the feed is ordered by postedTimestamp, not by id
creation time).
*/
package uuid

import "github.com/google/uuid"

// New generates a new UUIDv4 string.
func New() string {
	return uuid.New().String()
}

// IsValid reports whether s parses as a version 4 UUID.
func IsValid(s string) bool {
	parsed, err := uuid.Parse(s)
	if err != nil {
		return false
	}
	return parsed.Version() == 4
}
