// Copyright (c) 2026 Comiclog. All rights reserved.
// Author: dev@comiclog.app

// Command api is the entry point for the Comiclog HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables and validate it against
//     the AppConfig/CacheConfig schemas.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Connect to object storage.
//  6. Run database migrations (idempotent).
//  7. Wire the ingestion pipeline, query engine, and invalidation coordinator.
//  8. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/comiclog/comiclog/internal/api"
	"github.com/comiclog/comiclog/internal/core/comic"
	"github.com/comiclog/comiclog/internal/core/feedcache"
	"github.com/comiclog/comiclog/internal/platform/config"
	"github.com/comiclog/comiclog/internal/platform/constants"
	"github.com/comiclog/comiclog/internal/platform/migration"
	"github.com/comiclog/comiclog/internal/platform/objstore"
	pgstore "github.com/comiclog/comiclog/internal/platform/postgres"
	redisstore "github.com/comiclog/comiclog/internal/platform/redis"
	"github.com/comiclog/comiclog/pkg/convert"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "comiclog"))
	slog.SetDefault(log)

	log.Info("[Comiclog] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "comiclog"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	validator := comic.NewSchemaValidator()
	validateConfig(log, validator, cfg)

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.Int("page_size", cfg.PageSize),
		slog.Int("cache_ttl_minutes", cfg.CacheTTLMinutes),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Object Storage ─────────────────────────────────────────────────
	store, err := objstore.New(startupCtx, objstore.Config{
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Bucket:    cfg.S3Bucket,
		Region:    cfg.S3Region,
		UseSSL:    cfg.S3UseSSL,
	}, log)
	must(log, err, "connect to object storage")

	// ── 6. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 7. Invalidation Queue Producer ────────────────────────────────────
	redisConn, err := asynq.ParseRedisURI(cfg.RedisURL)
	must(log, err, "parse redis uri for task queue")
	queueClient := asynq.NewClient(redisConn)
	defer func() {
		if cerr := queueClient.Close(); cerr != nil {
			log.Error("task queue close error", slog.Any("error", cerr))
		}
	}()

	// ── 8. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
		CheckObjectStore: func() error {
			return store.Ping(context.Background())
		},
	}, log)

	// ── 9. Domain Wiring ──────────────────────────────────────────────────
	repository := comic.NewPostgresRepository(pool)
	coordinator := feedcache.NewCoordinator(repository, queueClient, cfg.PageSize, log)
	cacheTTL := time.Duration(cfg.CacheTTLMinutes) * time.Minute

	service := comic.NewService(repository, comic.NewRedisResponseCache(rdb), cfg.PageSize, cacheTTL, log)
	pipeline := comic.NewPipeline(repository, validator, store, coordinator, log)
	comicHandler := comic.NewHandler(service, pipeline, store)

	// ── 10. HTTP Server ───────────────────────────────────────────────────
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Comic:     comicHandler,
	}

	server := api.NewServer(serverCtx, cfg, log, handlers)

	// ── 11. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// validateConfig runs the loaded configuration through the schema validator.
// Structural failures are fatal; warnings (oversized pages, aggressive TTLs)
// are logged and tolerated.
func validateConfig(log *slog.Logger, validator *comic.SchemaValidator, cfg *config.Config) {
	appResult := validator.Validate(comic.KindAppConfig, &comic.AppConfigCandidate{
		Environment: cfg.Environment,
		ServerPort:  convert.ToInt(cfg.ServerPort),
		DatabaseURL: cfg.DatabaseURL,
		RedisURL:    cfg.RedisURL,
		Bucket:      cfg.S3Bucket,
		CDNEndpoint: cfg.CDNInvalidateURL,
	})
	cacheResult := validator.Validate(comic.KindCacheConfig, &comic.CacheConfigCandidate{
		PageSize:   cfg.PageSize,
		TTLMinutes: cfg.CacheTTLMinutes,
	})

	for _, result := range []comic.Result{appResult, cacheResult} {
		for _, fieldError := range result.Errors {
			log.Error("configuration_invalid",
				slog.String("field", fieldError.Field),
				slog.String("reason", fieldError.Message),
			)
		}
		for _, warning := range result.Warnings {
			log.Warn("configuration_warning", slog.String("warning", warning))
		}
	}

	if !appResult.IsValid || !cacheResult.IsValid {
		os.Exit(1)
	}
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
