// Copyright (c) 2026 Comiclog. All rights reserved.
// Author: dev@comiclog.app

// Command worker drains the cache-invalidation queue.
//
// Ingestion enqueues one task per committed comic; this process evicts the
// stale response cache keys from Redis and dispatches the matching path
// patterns to the CDN invalidation API. Failed tasks are redelivered by the
// queue with exponential backoff up to the configured retry budget.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/hibiken/asynq"

	"github.com/comiclog/comiclog/internal/core/feedcache"
	"github.com/comiclog/comiclog/internal/platform/cdn"
	"github.com/comiclog/comiclog/internal/platform/config"
	"github.com/comiclog/comiclog/internal/platform/constants"
	redisstore "github.com/comiclog/comiclog/internal/platform/redis"
)

func main() {
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	log := rawLog.With(slog.String("app", "comiclog-worker"))
	slog.SetDefault(log)

	log.Info("[Comiclog] worker_initializing")

	cfg, err := config.Load()
	must(log, err, "load configuration")

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	invalidator := cdn.NewInvalidator(cfg.CDNInvalidateURL, cfg.CDNAPIToken, log)
	handler := feedcache.NewTaskHandler(rdb, invalidator, log)

	redisConn, err := asynq.ParseRedisURI(cfg.RedisURL)
	must(log, err, "parse redis uri for task queue")

	server := asynq.NewServer(redisConn, asynq.Config{
		Concurrency: 5,
		Queues: map[string]int{
			constants.QueueInvalidation: 1,
		},
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(constants.TaskTypeInvalidate, handler.HandleInvalidate)

	log.Info("worker_started", slog.String("queue", constants.QueueInvalidation))

	// Run blocks until SIGTERM/SIGINT and drains in-flight tasks on shutdown.
	if err := server.Run(mux); err != nil {
		log.Error("worker stopped with error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("worker stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
