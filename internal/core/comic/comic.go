// Copyright (c) 2026 Comiclog. All rights reserved.
// Author: dev@comiclog.app

package comic

import "time"

// ScrollStyle is the display hint telling the reader how to lay out pages.
type ScrollStyle string

const (
	// ScrollStandard is the default page-by-page presentation.
	ScrollStandard ScrollStyle = "standard"
	// ScrollLong is a single continuous vertical strip.
	ScrollLong ScrollStyle = "long"
)

// IsValid reports whether the value is a member of the enum.
func (s ScrollStyle) IsValid() bool {
	return s == ScrollStandard || s == ScrollLong
}

// IntegrationType identifies an outbound integration a comic participates in.
type IntegrationType string

const (
	IntegrationSocial      IntegrationType = "social"
	IntegrationAnalytics   IntegrationType = "analytics"
	IntegrationSyndication IntegrationType = "syndication"
)

// IsValid reports whether the value is a member of the enum.
func (t IntegrationType) IsValid() bool {
	return t == IntegrationSocial || t == IntegrationAnalytics || t == IntegrationSyndication
}

// ComicImage is one page of a comic, referencing an object in backing storage.
type ComicImage struct {
	Key     string  `json:"key"`
	AltText *string `json:"altText,omitempty"`
	Order   *int    `json:"order,omitempty"`
}

// Integration is an outbound integration toggle with opaque per-type config.
type Integration struct {
	Type   IntegrationType `json:"type"`
	Use    bool            `json:"use"`
	Config map[string]any  `json:"config,omitempty"`
}

// Comic is one published post. Immutable once committed; the read path never
// mutates it and no delete/update surface exists.
type Comic struct {
	ID              string        `json:"id"`
	Slug            string        `json:"slug"`
	Title           string        `json:"title"`
	Caption         string        `json:"caption"`
	Images          []ComicImage  `json:"images"`
	Tags            []string      `json:"tags"`
	HappenedOnDate  string        `json:"happenedOnDate"`
	PostedTimestamp time.Time     `json:"postedTimestamp"`
	UploadDate      time.Time     `json:"uploadDate"`
	ScrollStyle     ScrollStyle   `json:"scrollStyle"`
	Integrations    []Integration `json:"integrations,omitempty"`
}

// UploadMetadata is the pre-commit form of a comic, as parsed from the
// uploaded metadata document. It lacks uploadDate (server-assigned at commit)
// and any id or slug it carries is advisory only.
type UploadMetadata struct {
	ID              string        `json:"id,omitempty"`
	Slug            string        `json:"slug,omitempty"`
	Title           string        `json:"title"`
	Caption         string        `json:"caption"`
	Images          []ComicImage  `json:"images"`
	Tags            []string      `json:"tags"`
	HappenedOnDate  string        `json:"happenedOnDate"`
	PostedTimestamp time.Time     `json:"postedTimestamp"`
	ScrollStyle     ScrollStyle   `json:"scrollStyle,omitempty"`
	Integrations    []Integration `json:"integrations,omitempty"`
}

// Response is the read-path payload for one feed page.
//
// Cacheable by the (page, tag) tuple; Tag is present only on tag-scoped feeds.
type Response struct {
	Items       []*Comic `json:"items"`
	Page        int      `json:"page"`
	HasNextPage bool     `json:"hasNextPage"`
	Tag         string   `json:"tag,omitempty"`
}

// Validation bounds for the comic shapes.
const (
	TitleMaxLen   = 200
	SlugMaxLen    = 100
	CaptionMaxLen = 1000
	ImagesMax     = 20
	TagsMax       = 50
	TagMaxLen     = 100
	AltTextMaxLen = 500
	KeyMaxLen     = 1024
)

const (
	FieldID              = "id"
	FieldSlug            = "slug"
	FieldTitle           = "title"
	FieldCaption         = "caption"
	FieldImages          = "images"
	FieldTags            = "tags"
	FieldHappenedOnDate  = "happenedOnDate"
	FieldPostedTimestamp = "postedTimestamp"
	FieldUploadDate      = "uploadDate"
	FieldScrollStyle     = "scrollStyle"
	FieldIntegrations    = "integrations"
)
