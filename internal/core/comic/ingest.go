// Copyright (c) 2026 Comiclog. All rights reserved.
// Author: dev@comiclog.app

package comic

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/comiclog/comiclog/internal/core/feedcache"
	"github.com/comiclog/comiclog/internal/platform/apperr"
	"github.com/comiclog/comiclog/pkg/sanitize"
	"github.com/comiclog/comiclog/pkg/slice"
	"github.com/comiclog/comiclog/pkg/uuid"
)

// MediaChecker resolves whether an image key exists in backing storage.
// Satisfied by the object storage client.
type MediaChecker interface {
	Exists(context context.Context, key string) (bool, error)
}

// Pipeline turns raw uploaded metadata into a committed Comic: validate,
// allocate a slug, verify referenced media, normalize, commit, then hand the
// stale cache keys to the invalidation coordinator.
//
// Every step is a hard gate. A failure anywhere leaves nothing partially
// committed.
type Pipeline struct {
	repo        Repository
	validator   *SchemaValidator
	media       MediaChecker
	coordinator *feedcache.Coordinator
	logger      *slog.Logger
	now         func() time.Time
}

func NewPipeline(repo Repository, validator *SchemaValidator, media MediaChecker, coordinator *feedcache.Coordinator, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		repo:        repo,
		validator:   validator,
		media:       media,
		coordinator: coordinator,
		logger:      logger,
		now:         time.Now,
	}
}

/*
Ingest validates and commits one uploaded comic.

Steps, each aborting the whole operation on failure:
 1. Structural validation as UploadMetadata; business-rule warnings are
    collected, never blocking.
 2. Slug resolution against a snapshot of committed slugs. The resolved slug
    overrides any client-supplied one; the id is likewise always
    server-generated.
 3. Parallel existence checks for every referenced image key; any single
    missing key aborts the ingestion.
 4. Tag normalization and input sanitization.
 5. Commit with server-assigned uploadDate and defaulted scrollStyle.

Slug uniqueness is ultimately enforced by the storage layer: if the insert
collides despite the snapshot, allocation is retried once with refreshed
slugs before surfacing SLUG_CONFLICT. A deadline that fires after the write
call is surfaced as AMBIGUOUS_WRITE — the commit may have landed, so callers
must re-check before retrying.

Invalidation dispatch is fire-and-forget: ingestion reports success once the
record is durable, even if the enqueue later fails.

Returns:
  - *Comic: the committed record
  - []string: business-rule warnings from validation
  - error: VALIDATION_ERROR, MISSING_MEDIA, SLUG_CONFLICT, STORE_UNAVAILABLE,
    or AMBIGUOUS_WRITE
*/
func (pipeline *Pipeline) Ingest(context context.Context, metadata *UploadMetadata) (*Comic, []string, error) {
	result := pipeline.validator.Validate(KindUploadMetadata, metadata)
	if !result.IsValid {
		return nil, nil, result.Err()
	}
	for _, warning := range result.Warnings {
		pipeline.logger.Warn("comic_metadata_warning", slog.String("title", metadata.Title), slog.String("warning", warning))
	}

	if err := pipeline.checkMedia(context, metadata.Images); err != nil {
		return nil, result.Warnings, err
	}

	slugs, err := pipeline.repo.ListSlugs(context)
	if err != nil {
		return nil, result.Warnings, err
	}
	allocation := Allocate(metadata.Title, SlugSet(slugs))

	// Pre-commit feed sizes drive the previously-last-page invalidation.
	candidate := pipeline.buildComic(metadata, allocation.Slug)
	prior, err := pipeline.coordinator.Snapshot(context, candidate.Tags)
	if err != nil {
		pipeline.logger.Warn("feed_snapshot_failed", slog.String("error", err.Error()))
		prior = feedcache.PriorCounts{ByTag: map[string]int{}}
	}

	err = pipeline.repo.CreateComic(context, candidate)
	if errors.Is(err, ErrSlugTaken) {
		// The snapshot went stale under us; refresh and retry exactly once.
		pipeline.logger.Info("comic_slug_collision", slog.String("slug", candidate.Slug))

		slugs, err = pipeline.repo.ListSlugs(context)
		if err != nil {
			return nil, result.Warnings, err
		}
		allocation = Allocate(metadata.Title, SlugSet(slugs))
		candidate.Slug = allocation.Slug

		err = pipeline.repo.CreateComic(context, candidate)
		if errors.Is(err, ErrSlugTaken) {
			return nil, result.Warnings, apperr.SlugConflict(candidate.Slug)
		}
	}
	if err != nil {
		if context.Err() != nil {
			return nil, result.Warnings, apperr.AmbiguousWrite(err)
		}
		return nil, result.Warnings, err
	}

	pipeline.logger.Info("comic_ingested",
		slog.String("comic_id", candidate.ID),
		slog.String("slug", candidate.Slug),
		slog.Bool("slug_unique", allocation.IsUnique),
		slog.Int("images", len(candidate.Images)),
		slog.Int("tags", len(candidate.Tags)),
	)

	pipeline.coordinator.Dispatch(withoutCancel(context), pipeline.coordinator.Stale(prior, candidate.Tags))

	return candidate, result.Warnings, nil
}

// checkMedia verifies every referenced image key concurrently. The first
// missing key or check failure cancels the remaining checks and aborts.
func (pipeline *Pipeline) checkMedia(ctx context.Context, images []ComicImage) error {
	group, groupCtx := errgroup.WithContext(ctx)

	for _, img := range images {
		key := img.Key
		group.Go(func() error {
			exists, err := pipeline.media.Exists(groupCtx, key)
			if err != nil {
				return apperr.StoreUnavailable(err)
			}
			if !exists {
				return apperr.MissingMedia(key)
			}
			return nil
		})
	}

	return group.Wait()
}

// buildComic assembles the committable record: server-generated id, resolved
// slug, sanitized display fields, normalized deduplicated tags, server
// uploadDate, defaulted scrollStyle.
func (pipeline *Pipeline) buildComic(metadata *UploadMetadata, resolvedSlug string) *Comic {
	style := metadata.ScrollStyle
	if style == "" {
		style = ScrollStandard
	}

	images := make([]ComicImage, len(metadata.Images))
	copy(images, metadata.Images)
	for i := range images {
		if images[i].AltText != nil {
			clean := sanitize.UserInput(*images[i].AltText)
			images[i].AltText = &clean
		}
	}

	seen := make(map[string]struct{}, len(metadata.Tags))
	tags := slice.Filter(slice.Map(metadata.Tags, sanitize.Tag), func(tag string) bool {
		if tag == "" {
			return false
		}
		if _, dup := seen[tag]; dup {
			return false
		}
		seen[tag] = struct{}{}
		return true
	})
	if tags == nil {
		// Stored as an empty array, not NULL: the tags column is NOT NULL.
		tags = []string{}
	}

	return &Comic{
		ID:              uuid.New(),
		Slug:            resolvedSlug,
		Title:           sanitize.UserInput(metadata.Title),
		Caption:         sanitize.UserInput(metadata.Caption),
		Images:          images,
		Tags:            tags,
		HappenedOnDate:  metadata.HappenedOnDate,
		PostedTimestamp: metadata.PostedTimestamp,
		UploadDate:      pipeline.now().UTC(),
		ScrollStyle:     style,
		Integrations:    metadata.Integrations,
	}
}

// withoutCancel detaches invalidation dispatch from the request deadline: the
// commit already succeeded, so a dying request must not lose the enqueue.
func withoutCancel(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}
