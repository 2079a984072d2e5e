// Copyright (c) 2026 Comiclog. All rights reserved.
// Author: dev@comiclog.app

package comic

import (
	"fmt"
	"time"

	"github.com/comiclog/comiclog/internal/platform/apperr"
	"github.com/comiclog/comiclog/internal/platform/validate"
	"github.com/comiclog/comiclog/pkg/slug"
)

// Kind selects which shape a candidate is validated against.
type Kind string

const (
	KindComic          Kind = "Comic"
	KindUploadMetadata Kind = "UploadMetadata"
	KindComicImage     Kind = "ComicImage"
	KindAppConfig      Kind = "AppConfig"
	KindCacheConfig    Kind = "CacheConfig"
)

// Result is the outcome of validating one candidate.
//
// Errors are structural violations and make the candidate unacceptable.
// Warnings are business-rule observations and never block acceptance.
type Result struct {
	IsValid  bool
	Errors   []apperr.FieldError
	Warnings []string
}

// Err converts a failed Result into a single [apperr.AppError] carrying the
// field-level detail, or nil when the result is valid.
func (r Result) Err() error {
	if r.IsValid {
		return nil
	}
	return apperr.ValidationError("Validation failed", r.Errors...)
}

// AppConfigCandidate is the runtime configuration shape checked at startup.
type AppConfigCandidate struct {
	Environment string
	ServerPort  int
	DatabaseURL string
	RedisURL    string
	Bucket      string
	// CDNEndpoint is optional; edge invalidation is disabled when empty.
	CDNEndpoint string
}

// CacheConfigCandidate is the read-path caching configuration shape.
type CacheConfigCandidate struct {
	PageSize   int
	TTLMinutes int
}

// CacheConfig bounds.
const (
	PageSizeMin     = 1
	PageSizeMax     = 100
	PageSizeDefault = 10
	TTLMinutesMin   = 1
	TTLMinutesMax   = 10080 // one week
	TTLDefault      = 60

	// pageSizeWarnThreshold is where page weight starts hurting edge cache hit rates.
	pageSizeWarnThreshold = 50
	// ttlWarnThreshold is where short TTLs cause excessive origin traffic.
	ttlWarnThreshold = 5
)

// SchemaValidator validates candidates against a fixed set of shapes.
//
// The per-kind rules are compiled once at construction and immutable after;
// one instance is shared across the ingestion pipeline and the query engine.
// There is no package-level singleton: the composing process constructs it
// and injects it where needed.
type SchemaValidator struct {
	rules map[Kind]func(candidate any) Result
	now   func() time.Time
}

// NewSchemaValidator compiles the per-kind validation rules.
func NewSchemaValidator() *SchemaValidator {
	sv := &SchemaValidator{now: time.Now}
	sv.rules = map[Kind]func(any) Result{
		KindComic:          sv.validateComic,
		KindUploadMetadata: sv.validateUploadMetadata,
		KindComicImage:     sv.validateComicImage,
		KindAppConfig:      sv.validateAppConfig,
		KindCacheConfig:    sv.validateCacheConfig,
	}
	return sv
}

/*
Validate checks a candidate against the named shape.

Parameters:
  - kind: Kind (one of the compiled shapes)
  - candidate: any (must be the Go type matching the kind)

Returns:
  - Result: structural errors (hard) plus business-rule warnings (soft).
    An unknown kind or a mismatched candidate type is a hard failure.
*/
func (sv *SchemaValidator) Validate(kind Kind, candidate any) Result {
	rule, ok := sv.rules[kind]
	if !ok {
		return Result{Errors: []apperr.FieldError{{
			Field:   "kind",
			Message: fmt.Sprintf("Unknown schema kind: %s", kind),
		}}}
	}
	return rule(candidate)
}

func (sv *SchemaValidator) validateComic(candidate any) Result {
	c, ok := candidate.(*Comic)
	if !ok {
		return mismatch(KindComic)
	}

	v := &validate.Validator{}
	v.Required(FieldID, c.ID).UUID(FieldID, c.ID)
	v.Required(FieldSlug, c.Slug).Slug(FieldSlug, c.Slug).MaxLen(FieldSlug, c.Slug, SlugMaxLen)
	sv.checkCommon(v, c.Title, c.Caption, c.Images, c.Tags, c.HappenedOnDate, c.PostedTimestamp, c.ScrollStyle, c.Integrations)
	v.Custom(FieldUploadDate, c.UploadDate.IsZero(), "This field is required")

	result := resultOf(v)
	if !result.IsValid {
		return result
	}

	// Business rules on a structurally valid comic.
	if generated := slug.FromTitle(c.Title); c.Slug != generated {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("slug %q does not match the slug generated from the title (%q)", c.Slug, generated))
	}
	result.Warnings = append(result.Warnings, imageOrderWarnings(c.Images)...)
	return result
}

func (sv *SchemaValidator) validateUploadMetadata(candidate any) Result {
	m, ok := candidate.(*UploadMetadata)
	if !ok {
		return mismatch(KindUploadMetadata)
	}

	v := &validate.Validator{}
	sv.checkCommon(v, m.Title, m.Caption, m.Images, m.Tags, m.HappenedOnDate, m.PostedTimestamp, m.ScrollStyle, m.Integrations)

	result := resultOf(v)
	if !result.IsValid {
		return result
	}

	now := sv.now()
	if m.PostedTimestamp.After(now) {
		result.Warnings = append(result.Warnings, "postedTimestamp is in the future")
	}
	if happened, err := time.Parse("2006-01-02", m.HappenedOnDate); err == nil {
		if happened.After(now) {
			result.Warnings = append(result.Warnings, "happenedOnDate is in the future")
		}
		if happened.After(m.PostedTimestamp) {
			result.Warnings = append(result.Warnings, "happenedOnDate is after postedTimestamp")
		}
	}
	result.Warnings = append(result.Warnings, imageOrderWarnings(m.Images)...)
	return result
}

func (sv *SchemaValidator) validateComicImage(candidate any) Result {
	img, ok := candidate.(*ComicImage)
	if !ok {
		return mismatch(KindComicImage)
	}

	v := &validate.Validator{}
	checkImage(v, FieldImages, img)
	return resultOf(v)
}

func (sv *SchemaValidator) validateAppConfig(candidate any) Result {
	cfg, ok := candidate.(*AppConfigCandidate)
	if !ok {
		return mismatch(KindAppConfig)
	}

	v := &validate.Validator{}
	v.OneOf("environment", cfg.Environment, "development", "staging", "production")
	v.Range("serverPort", cfg.ServerPort, 1, 65535)
	v.Required("databaseUrl", cfg.DatabaseURL)
	v.Required("redisUrl", cfg.RedisURL)
	v.Required("bucket", cfg.Bucket)
	if cfg.CDNEndpoint != "" {
		v.URL("cdnEndpoint", cfg.CDNEndpoint)
	}
	return resultOf(v)
}

func (sv *SchemaValidator) validateCacheConfig(candidate any) Result {
	cfg, ok := candidate.(*CacheConfigCandidate)
	if !ok {
		return mismatch(KindCacheConfig)
	}

	v := &validate.Validator{}
	v.Range("pageSize", cfg.PageSize, PageSizeMin, PageSizeMax)
	v.Range("ttlMinutes", cfg.TTLMinutes, TTLMinutesMin, TTLMinutesMax)

	result := resultOf(v)
	if !result.IsValid {
		return result
	}

	if cfg.PageSize > pageSizeWarnThreshold {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("pageSize %d exceeds %d; large pages hurt edge cache efficiency", cfg.PageSize, pageSizeWarnThreshold))
	}
	if cfg.TTLMinutes < ttlWarnThreshold {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("ttlMinutes %d is below %d; short TTLs cause excessive origin traffic", cfg.TTLMinutes, ttlWarnThreshold))
	}
	return result
}

// checkCommon applies the structural rules shared by Comic and UploadMetadata.
func (sv *SchemaValidator) checkCommon(v *validate.Validator, title, caption string, images []ComicImage, tags []string, happenedOnDate string, postedTimestamp time.Time, style ScrollStyle, integrations []Integration) {
	v.Required(FieldTitle, title).MinLen(FieldTitle, title, 1).MaxLen(FieldTitle, title, TitleMaxLen)
	v.MaxLen(FieldCaption, caption, CaptionMaxLen)

	v.Custom(FieldImages, len(images) < 1, "At least one image is required")
	v.Custom(FieldImages, len(images) > ImagesMax, fmt.Sprintf("Maximum %d images", ImagesMax))
	for i := range images {
		checkImage(v, fmt.Sprintf("%s[%d]", FieldImages, i), &images[i])
	}

	v.Custom(FieldTags, len(tags) > TagsMax, fmt.Sprintf("Maximum %d tags", TagsMax))
	for i, tag := range tags {
		field := fmt.Sprintf("%s[%d]", FieldTags, i)
		v.MinLen(field, tag, 1).MaxLen(field, tag, TagMaxLen)
	}

	v.Required(FieldHappenedOnDate, happenedOnDate).ISODate(FieldHappenedOnDate, happenedOnDate)
	v.Custom(FieldPostedTimestamp, postedTimestamp.IsZero(), "This field is required")

	if style != "" {
		v.Custom(FieldScrollStyle, !style.IsValid(),
			fmt.Sprintf("Must be one of: %s, %s", ScrollStandard, ScrollLong))
	}

	for i, integration := range integrations {
		field := fmt.Sprintf("%s[%d].type", FieldIntegrations, i)
		v.Custom(field, !integration.Type.IsValid(),
			fmt.Sprintf("Must be one of: %s, %s, %s", IntegrationSocial, IntegrationAnalytics, IntegrationSyndication))
	}
}

func checkImage(v *validate.Validator, field string, img *ComicImage) {
	v.StorageKey(field+".key", img.Key).MaxLen(field+".key", img.Key, KeyMaxLen)
	if img.AltText != nil {
		v.MaxLen(field+".altText", *img.AltText, AltTextMaxLen)
	}
	if img.Order != nil {
		v.Custom(field+".order", *img.Order < 0, "Must be a non-negative integer")
	}
}

// imageOrderWarnings reports mixed explicit/implicit image ordering: if any
// image carries an order, all of them must, otherwise the sequence is ambiguous.
func imageOrderWarnings(images []ComicImage) []string {
	ordered := 0
	for i := range images {
		if images[i].Order != nil {
			ordered++
		}
	}
	if ordered > 0 && ordered < len(images) {
		return []string{fmt.Sprintf("inconsistent image ordering: %d of %d images carry an order value", ordered, len(images))}
	}
	return nil
}

func resultOf(v *validate.Validator) Result {
	return Result{IsValid: !v.HasErrors(), Errors: v.Errors()}
}

func mismatch(kind Kind) Result {
	return Result{Errors: []apperr.FieldError{{
		Field:   "candidate",
		Message: fmt.Sprintf("Candidate is not a %s", kind),
	}}}
}
