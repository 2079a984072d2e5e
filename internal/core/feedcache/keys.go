// Copyright (c) 2026 Comiclog. All rights reserved.
// Author: dev@comiclog.app

package feedcache

import (
	"net/url"
	"strconv"

	"github.com/comiclog/comiclog/internal/platform/constants"
)

// PageKey is the response cache key for one feed page.
//
// An empty tag addresses the untagged feed. The key is the identity of a
// cached read response, so the read path and the invalidation path must
// compute it the same way.
func PageKey(page int, tag string) string {
	if tag == "" {
		return constants.RedisPrefixFeed + "page:" + strconv.Itoa(page)
	}
	return constants.RedisPrefixFeed + "tag:" + tag + ":page:" + strconv.Itoa(page)
}

// PathPattern is the CDN path pattern matching the edge-cached copy of the
// same feed page.
//
// The edge caches the percent-encoded request URL, so the tag must be
// query-escaped here or multi-word tags would never match their cached entry.
func PathPattern(page int, tag string) string {
	values := url.Values{"page": {strconv.Itoa(page)}}
	if tag != "" {
		values.Set("tag", tag)
	}
	return "/api/getComics?" + values.Encode()
}
