// Copyright (c) 2026 Comiclog. All rights reserved.
// Author: dev@comiclog.app

package feedcache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/comiclog/comiclog/internal/platform/cdn"
	"github.com/comiclog/comiclog/internal/platform/constants"
)

// NewInvalidateTask packs a stale set into an asynq task.
func NewInvalidateTask(inv Invalidation) (*asynq.Task, error) {
	payload, err := json.Marshal(inv)
	if err != nil {
		return nil, fmt.Errorf("feedcache: marshal invalidation payload: %w", err)
	}
	return asynq.NewTask(constants.TaskTypeInvalidate, payload), nil
}

// TaskHandler drains the invalidation queue: it evicts origin response cache
// keys from redis and asks the CDN to drop the matching edge copies.
//
// Errors returned here feed asynq's retry-with-backoff; after the retry
// budget is exhausted the staleness is bounded by the response TTL.
type TaskHandler struct {
	cache  *redis.Client
	cdn    *cdn.Invalidator
	logger *slog.Logger
}

func NewTaskHandler(cache *redis.Client, invalidator *cdn.Invalidator, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{
		cache:  cache,
		cdn:    invalidator,
		logger: logger,
	}
}

// HandleInvalidate processes one cache:invalidate task.
func (handler *TaskHandler) HandleInvalidate(context context.Context, task *asynq.Task) error {
	var inv Invalidation
	if err := json.Unmarshal(task.Payload(), &inv); err != nil {
		// A malformed payload will never succeed; drop it instead of retrying.
		handler.logger.Error("cache_invalidation_payload_malformed", slog.String("error", err.Error()))
		return fmt.Errorf("feedcache: unmarshal invalidation payload: %v: %w", err, asynq.SkipRetry)
	}

	if len(inv.Keys) > 0 {
		if err := handler.cache.Del(context, inv.Keys...).Err(); err != nil {
			return fmt.Errorf("feedcache: evict response cache keys: %w", err)
		}
	}

	if err := handler.cdn.Invalidate(context, inv.Paths); err != nil {
		return err
	}

	handler.logger.Info("cache_invalidation_applied",
		slog.Int("keys", len(inv.Keys)),
		slog.Int("paths", len(inv.Paths)),
	)
	return nil
}
