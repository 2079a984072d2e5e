// Copyright (c) 2026 Comiclog. All rights reserved.
// Author: dev@comiclog.app

// Package query provides helpers for parsing delimited request and
// environment values into clean slices.
package query

import (
	"strings"
)

// StringSlice parses a single comma-separated string
// into a trimmed slice of strings.
func StringSlice(val string) []string {
	if val == "" {
		return nil
	}
	var res []string
	for _, v := range strings.Split(val, ",") {
		clean := strings.TrimSpace(v)
		if clean != "" {
			res = append(res, clean)
		}
	}
	return res
}
