// Copyright (c) 2026 Comiclog. All rights reserved.
// Author: dev@comiclog.app

package feedcache

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/comiclog/comiclog/internal/platform/constants"
)

// Counter supplies feed sizes. Counts are read before the commit so the
// coordinator can tell which page was the last full one.
type Counter interface {
	CountComics(context context.Context) (int, error)
	CountComicsByTag(context context.Context, tag string) (int, error)
}

// Enqueuer submits tasks to the out-of-band invalidation queue.
// Satisfied by *asynq.Client.
type Enqueuer interface {
	EnqueueContext(context context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// PriorCounts is a snapshot of feed sizes taken before a comic is committed.
type PriorCounts struct {
	Feed  int
	ByTag map[string]int
}

// Invalidation is the set of stale cache identities produced by one commit:
// origin response cache keys and the matching edge path patterns.
type Invalidation struct {
	Keys  []string `json:"keys"`
	Paths []string `json:"paths"`
}

// Coordinator computes which cached feed responses a newly committed comic
// makes stale and hands them to the invalidation queue.
//
// Dispatch is fire-and-forget relative to the commit: the comic is already
// durable, and a lost invalidation is bounded by the response TTL, so enqueue
// failures are logged and swallowed.
type Coordinator struct {
	counts   Counter
	enqueuer Enqueuer
	pageSize int
	logger   *slog.Logger
}

func NewCoordinator(counts Counter, enqueuer Enqueuer, pageSize int, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		counts:   counts,
		enqueuer: enqueuer,
		pageSize: pageSize,
		logger:   logger,
	}
}

/*
Snapshot reads the pre-commit feed sizes for the untagged feed and each of
the given tags.

Concurrent ingestions may observe the same snapshot and under-invalidate a
hasNextPage flag; that is an accepted approximation, bounded by the response
TTL, in exchange for never purging the whole cache on a write.
*/
func (coordinator *Coordinator) Snapshot(context context.Context, tags []string) (PriorCounts, error) {
	prior := PriorCounts{ByTag: make(map[string]int, len(tags))}

	total, err := coordinator.counts.CountComics(context)
	if err != nil {
		return prior, err
	}
	prior.Feed = total

	for _, tag := range tags {
		count, err := coordinator.counts.CountComicsByTag(context, tag)
		if err != nil {
			return prior, err
		}
		prior.ByTag[tag] = count
	}
	return prior, nil
}

/*
Stale computes the minimal invalidation set for one new comic.

For the untagged feed and each tag the comic carries:
  - page 1 is always stale (the newest item shifts everything on it; deeper
    pages keep their membership and order).
  - the previously-last page is additionally stale iff it was exactly full
    before the write, because its hasNextPage flips from false to true.
*/
func (coordinator *Coordinator) Stale(prior PriorCounts, tags []string) Invalidation {
	var inv Invalidation

	addFeed := func(tag string, priorCount int) {
		inv.Keys = append(inv.Keys, PageKey(1, tag))
		inv.Paths = append(inv.Paths, PathPattern(1, tag))

		if priorCount > 0 && priorCount%coordinator.pageSize == 0 {
			lastPage := priorCount / coordinator.pageSize
			if lastPage > 1 {
				inv.Keys = append(inv.Keys, PageKey(lastPage, tag))
				inv.Paths = append(inv.Paths, PathPattern(lastPage, tag))
			}
		}
	}

	addFeed("", prior.Feed)
	for _, tag := range tags {
		addFeed(tag, prior.ByTag[tag])
	}
	return inv
}

// Dispatch enqueues one invalidation task for the stale set. Never returns an
// error: a failed enqueue is logged, not propagated, because the commit has
// already succeeded.
func (coordinator *Coordinator) Dispatch(context context.Context, inv Invalidation) {
	if len(inv.Keys) == 0 {
		return
	}

	task, err := NewInvalidateTask(inv)
	if err != nil {
		coordinator.logger.Error("cache_invalidation_encode_failed", slog.String("error", err.Error()))
		return
	}

	info, err := coordinator.enqueuer.EnqueueContext(context, task,
		asynq.Queue(constants.QueueInvalidation),
		asynq.MaxRetry(constants.InvalidateMaxRetry),
	)
	if err != nil {
		coordinator.logger.Error("cache_invalidation_enqueue_failed",
			slog.Int("keys", len(inv.Keys)),
			slog.String("error", err.Error()),
		)
		return
	}

	coordinator.logger.Info("cache_invalidation_enqueued",
		slog.String("task_id", info.ID),
		slog.Int("keys", len(inv.Keys)),
	)
}
