// Copyright (c) 2026 Comiclog. All rights reserved.
// Author: dev@comiclog.app

package comic_test

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comiclog/comiclog/internal/core/comic"
	"github.com/comiclog/comiclog/internal/platform/apperr"
	"github.com/comiclog/comiclog/internal/platform/dberr"
)

// fakeRepository is an in-memory Repository with the same ordering semantics
// as the Postgres implementation.
type fakeRepository struct {
	mu        sync.Mutex
	comics    []*comic.Comic
	listCalls int
	// transientFailures makes the next N list calls fail retryably.
	transientFailures int
}

func (repo *fakeRepository) ordered() []*comic.Comic {
	sorted := make([]*comic.Comic, len(repo.comics))
	copy(sorted, repo.comics)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].PostedTimestamp.Equal(sorted[j].PostedTimestamp) {
			return sorted[i].PostedTimestamp.After(sorted[j].PostedTimestamp)
		}
		return sorted[i].ID > sorted[j].ID
	})
	return sorted
}

func window(comics []*comic.Comic, limit, offset int) []*comic.Comic {
	if offset >= len(comics) {
		return nil
	}
	end := offset + limit
	if end > len(comics) {
		end = len(comics)
	}
	return comics[offset:end]
}

func (repo *fakeRepository) GetComic(_ context.Context, id string) (*comic.Comic, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, c := range repo.comics {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (repo *fakeRepository) CreateComic(_ context.Context, c *comic.Comic) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, existing := range repo.comics {
		if existing.Slug == c.Slug {
			return comic.ErrSlugTaken
		}
	}
	clone := *c
	repo.comics = append(repo.comics, &clone)
	return nil
}

func (repo *fakeRepository) ListComics(_ context.Context, limit, offset int) ([]*comic.Comic, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.listCalls++
	if repo.transientFailures > 0 {
		repo.transientFailures--
		return nil, apperr.StoreUnavailable(context.DeadlineExceeded)
	}
	return window(repo.ordered(), limit, offset), nil
}

func (repo *fakeRepository) ListComicsByTag(_ context.Context, tag string, limit, offset int) ([]*comic.Comic, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.listCalls++

	var matching []*comic.Comic
	for _, c := range repo.ordered() {
		for _, t := range c.Tags {
			if t == tag {
				matching = append(matching, c)
				break
			}
		}
	}
	return window(matching, limit, offset), nil
}

func (repo *fakeRepository) ListSlugs(_ context.Context) ([]string, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	slugs := make([]string, 0, len(repo.comics))
	for _, c := range repo.comics {
		slugs = append(slugs, c.Slug)
	}
	return slugs, nil
}

func (repo *fakeRepository) CountComics(_ context.Context) (int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	return len(repo.comics), nil
}

func (repo *fakeRepository) CountComicsByTag(_ context.Context, tag string) (int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	count := 0
	for _, c := range repo.comics {
		for _, t := range c.Tags {
			if t == tag {
				count++
				break
			}
		}
	}
	return count, nil
}

// memoryCache is a map-backed ResponseCache.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (cache *memoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	value, hit := cache.entries[key]
	return value, hit
}

func (cache *memoryCache) Set(_ context.Context, key string, value []byte, _ time.Duration) {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	cache.entries[key] = value
}

func (cache *memoryCache) Del(_ context.Context, keys ...string) {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	for _, key := range keys {
		delete(cache.entries, key)
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// seedComics inserts n comics with strictly descending recency: comic 0 is
// the newest.
func seedComics(repo *fakeRepository, n int, tags ...string) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		repo.comics = append(repo.comics, &comic.Comic{
			ID:              fmt.Sprintf("00000000-0000-4000-8000-%012d", i),
			Slug:            fmt.Sprintf("comic-%d", i),
			Title:           fmt.Sprintf("Comic %d", i),
			Images:          []comic.ComicImage{{Key: fmt.Sprintf("uploads/comic-%d/page.png", i)}},
			Tags:            append([]string{}, tags...),
			HappenedOnDate:  "2024-02-28",
			PostedTimestamp: base.Add(-time.Duration(i) * time.Hour),
			UploadDate:      base,
			ScrollStyle:     comic.ScrollStandard,
		})
	}
}

func newTestService(repo *fakeRepository, pageSize int) *comic.Service {
	return comic.NewService(repo, newMemoryCache(), pageSize, time.Minute, testLogger())
}

/*
TestService_PaginationExactness walks a 25-comic corpus at pageSize 10.
*/
func TestService_PaginationExactness(t *testing.T) {
	repo := &fakeRepository{}
	seedComics(repo, 25)
	service := newTestService(repo, 10)

	tests := []struct {
		page        int
		items       int
		hasNextPage bool
	}{
		{1, 10, true},
		{2, 10, true},
		{3, 5, false},
		{4, 0, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("page_%d", tt.page), func(t *testing.T) {
			response, err := service.ListComics(context.Background(), tt.page, "")

			require.NoError(t, err)
			assert.Len(t, response.Items, tt.items)
			assert.Equal(t, tt.page, response.Page)
			assert.Equal(t, tt.hasNextPage, response.HasNextPage)
			assert.NotNil(t, response.Items)
		})
	}
}

/*
TestService_Ordering verifies reverse-chronological order with id tie-break.
*/
func TestService_Ordering(t *testing.T) {
	repo := &fakeRepository{}
	seedComics(repo, 3)
	// Force a timestamp tie between two comics; higher id must come first.
	repo.comics[1].PostedTimestamp = repo.comics[2].PostedTimestamp
	service := newTestService(repo, 10)

	response, err := service.ListComics(context.Background(), 1, "")

	require.NoError(t, err)
	require.Len(t, response.Items, 3)
	assert.Equal(t, repo.comics[0].ID, response.Items[0].ID)
	assert.Equal(t, repo.comics[2].ID, response.Items[1].ID)
	assert.Equal(t, repo.comics[1].ID, response.Items[2].ID)
}

/*
TestService_PageClamping treats page 0 and negatives as page 1.
*/
func TestService_PageClamping(t *testing.T) {
	repo := &fakeRepository{}
	seedComics(repo, 3)
	service := newTestService(repo, 10)

	for _, page := range []int{0, -7} {
		response, err := service.ListComics(context.Background(), page, "")

		require.NoError(t, err)
		assert.Equal(t, 1, response.Page)
		assert.Len(t, response.Items, 3)
	}
}

/*
TestService_TagFiltering checks case-insensitive tag queries via normalization.
*/
func TestService_TagFiltering(t *testing.T) {
	repo := &fakeRepository{}
	seedComics(repo, 2, "funny", "family")
	seedComics(repo, 1, "serious")
	service := newTestService(repo, 10)

	t.Run("normalized_match", func(t *testing.T) {
		for _, query := range []string{"funny", "Funny", " FUNNY "} {
			response, err := service.ListComics(context.Background(), 1, query)

			require.NoError(t, err)
			assert.Len(t, response.Items, 2, "query %q", query)
			assert.Equal(t, "funny", response.Tag)
		}
	})

	t.Run("unmatched_tag_is_empty_page", func(t *testing.T) {
		response, err := service.ListComics(context.Background(), 1, "romance")

		require.NoError(t, err)
		assert.NotNil(t, response.Items)
		assert.Empty(t, response.Items)
		assert.False(t, response.HasNextPage)
	})
}

/*
TestService_CacheReadThrough serves the second identical request from the
response cache without touching the store.
*/
func TestService_CacheReadThrough(t *testing.T) {
	repo := &fakeRepository{}
	seedComics(repo, 5)
	service := newTestService(repo, 10)

	first, err := service.ListComics(context.Background(), 1, "")
	require.NoError(t, err)

	second, err := service.ListComics(context.Background(), 1, "")
	require.NoError(t, err)

	assert.Equal(t, 1, repo.listCalls)
	assert.Equal(t, first.Items[0].ID, second.Items[0].ID)
}

/*
TestService_TransientRetry retries a retryable store failure once.
*/
func TestService_TransientRetry(t *testing.T) {
	repo := &fakeRepository{transientFailures: 1}
	seedComics(repo, 2)
	service := newTestService(repo, 10)

	response, err := service.ListComics(context.Background(), 1, "")

	require.NoError(t, err)
	assert.Len(t, response.Items, 2)
	assert.Equal(t, 2, repo.listCalls)
}

/*
TestService_TransientExhausted surfaces the failure after the bounded retry.
*/
func TestService_TransientExhausted(t *testing.T) {
	repo := &fakeRepository{transientFailures: 2}
	seedComics(repo, 2)
	service := newTestService(repo, 10)

	_, err := service.ListComics(context.Background(), 1, "")

	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "STORE_UNAVAILABLE"))
}

/*
TestService_SanitizesOutput strips residual markup from stored records.
*/
func TestService_SanitizesOutput(t *testing.T) {
	repo := &fakeRepository{}
	seedComics(repo, 1)
	repo.comics[0].Title = `<script>Sneaky</script> Title`
	repo.comics[0].Caption = `say "hello"`
	service := newTestService(repo, 10)

	response, err := service.ListComics(context.Background(), 1, "")

	require.NoError(t, err)
	require.Len(t, response.Items, 1)
	assert.Equal(t, "scriptSneaky/script Title", response.Items[0].Title)
	assert.Equal(t, "say hello", response.Items[0].Caption)
}
