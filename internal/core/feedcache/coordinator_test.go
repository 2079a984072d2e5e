// Copyright (c) 2026 Comiclog. All rights reserved.
// Author: dev@comiclog.app

package feedcache_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comiclog/comiclog/internal/core/feedcache"
	"github.com/comiclog/comiclog/internal/platform/constants"
)

type fixedCounter struct {
	feed  int
	byTag map[string]int
}

func (counter *fixedCounter) CountComics(_ context.Context) (int, error) {
	return counter.feed, nil
}

func (counter *fixedCounter) CountComicsByTag(_ context.Context, tag string) (int, error) {
	return counter.byTag[tag], nil
}

type captureEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (enqueuer *captureEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if enqueuer.err != nil {
		return nil, enqueuer.err
	}
	enqueuer.tasks = append(enqueuer.tasks, task)
	return &asynq.TaskInfo{ID: "task-1"}, nil
}

func discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

/*
TestPageKey checks the (page, tag) response key scheme.
*/
func TestPageKey(t *testing.T) {
	assert.Equal(t, "feed:page:1", feedcache.PageKey(1, ""))
	assert.Equal(t, "feed:page:3", feedcache.PageKey(3, ""))
	assert.Equal(t, "feed:tag:funny:page:1", feedcache.PageKey(1, "funny"))
}

/*
TestPathPattern checks the matching CDN path addressing. Tags are
query-escaped so the pattern matches the percent-encoded URL the edge caches.
*/
func TestPathPattern(t *testing.T) {
	assert.Equal(t, "/api/getComics?page=1", feedcache.PathPattern(1, ""))
	assert.Equal(t, "/api/getComics?page=2&tag=funny", feedcache.PathPattern(2, "funny"))
	assert.Equal(t, "/api/getComics?page=1&tag=slice+of+life", feedcache.PathPattern(1, "slice of life"))
	assert.Equal(t, "/api/getComics?page=1&tag=tom+%26+jerry", feedcache.PathPattern(1, "tom & jerry"))
}

/*
TestCoordinator_Stale enumerates the minimal invalidation rule.
*/
func TestCoordinator_Stale(t *testing.T) {
	coordinator := feedcache.NewCoordinator(&fixedCounter{}, &captureEnqueuer{}, 10, discard())

	tests := []struct {
		name         string
		prior        feedcache.PriorCounts
		tags         []string
		expectedKeys []string
	}{
		{
			name:         "partial_first_page",
			prior:        feedcache.PriorCounts{Feed: 7},
			expectedKeys: []string{"feed:page:1"},
		},
		{
			name:         "exactly_one_full_page",
			prior:        feedcache.PriorCounts{Feed: 10},
			expectedKeys: []string{"feed:page:1"},
		},
		{
			name:         "two_full_pages_flips_last",
			prior:        feedcache.PriorCounts{Feed: 20},
			expectedKeys: []string{"feed:page:1", "feed:page:2"},
		},
		{
			name:         "last_page_partial_is_untouched",
			prior:        feedcache.PriorCounts{Feed: 25},
			expectedKeys: []string{"feed:page:1"},
		},
		{
			name:         "empty_feed",
			prior:        feedcache.PriorCounts{Feed: 0},
			expectedKeys: []string{"feed:page:1"},
		},
		{
			name:  "tags_invalidate_their_own_page_one",
			prior: feedcache.PriorCounts{Feed: 3, ByTag: map[string]int{"funny": 30, "family": 2}},
			tags:  []string{"funny", "family"},
			expectedKeys: []string{
				"feed:page:1",
				"feed:tag:funny:page:1",
				"feed:tag:funny:page:3",
				"feed:tag:family:page:1",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := coordinator.Stale(tt.prior, tt.tags)
			assert.ElementsMatch(t, tt.expectedKeys, inv.Keys)
			assert.Len(t, inv.Paths, len(inv.Keys))
		})
	}
}

/*
TestCoordinator_Snapshot reads pre-commit counts for the untagged feed and
each tag.
*/
func TestCoordinator_Snapshot(t *testing.T) {
	counter := &fixedCounter{feed: 42, byTag: map[string]int{"funny": 7}}
	coordinator := feedcache.NewCoordinator(counter, &captureEnqueuer{}, 10, discard())

	prior, err := coordinator.Snapshot(context.Background(), []string{"funny", "family"})

	require.NoError(t, err)
	assert.Equal(t, 42, prior.Feed)
	assert.Equal(t, 7, prior.ByTag["funny"])
	assert.Equal(t, 0, prior.ByTag["family"])
}

/*
TestCoordinator_Dispatch enqueues one task and swallows enqueue failures.
*/
func TestCoordinator_Dispatch(t *testing.T) {
	t.Run("enqueues_one_task", func(t *testing.T) {
		enqueuer := &captureEnqueuer{}
		coordinator := feedcache.NewCoordinator(&fixedCounter{}, enqueuer, 10, discard())

		coordinator.Dispatch(context.Background(), feedcache.Invalidation{
			Keys:  []string{"feed:page:1"},
			Paths: []string{"/api/getComics?page=1"},
		})

		require.Len(t, enqueuer.tasks, 1)
		assert.Equal(t, constants.TaskTypeInvalidate, enqueuer.tasks[0].Type())
	})

	t.Run("empty_set_is_a_noop", func(t *testing.T) {
		enqueuer := &captureEnqueuer{}
		coordinator := feedcache.NewCoordinator(&fixedCounter{}, enqueuer, 10, discard())

		coordinator.Dispatch(context.Background(), feedcache.Invalidation{})

		assert.Empty(t, enqueuer.tasks)
	})

	t.Run("enqueue_failure_is_swallowed", func(t *testing.T) {
		enqueuer := &captureEnqueuer{err: errors.New("broker down")}
		coordinator := feedcache.NewCoordinator(&fixedCounter{}, enqueuer, 10, discard())

		// Must not panic or propagate: the commit already succeeded.
		coordinator.Dispatch(context.Background(), feedcache.Invalidation{
			Keys: []string{"feed:page:1"},
		})
	})
}
