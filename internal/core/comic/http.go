// Copyright (c) 2026 Comiclog. All rights reserved.
// Author: dev@comiclog.app

package comic

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/comiclog/comiclog/internal/platform/constants"
	requestutil "github.com/comiclog/comiclog/internal/platform/request"
	"github.com/comiclog/comiclog/internal/platform/respond"
	"github.com/comiclog/comiclog/internal/platform/validate"
	"github.com/comiclog/comiclog/pkg/pagination"
)

// MetadataFetcher retrieves an uploaded metadata document from object storage.
// Satisfied by the object storage client.
type MetadataFetcher interface {
	Fetch(context context.Context, key string) ([]byte, error)
}

type Handler struct {
	service  *Service
	pipeline *Pipeline
	fetcher  MetadataFetcher
}

func NewHandler(service *Service, pipeline *Pipeline, fetcher MetadataFetcher) *Handler {
	return &Handler{service: service, pipeline: pipeline, fetcher: fetcher}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	// Public, CDN-fronted
	router.Get("/getComics", handler.getComics)
	router.Get("/comics/{id}", handler.getComic)

	// Object-storage notification webhook
	router.Post("/hooks/upload", handler.uploadNotification)
}

// getComics serves one feed page. Absent or invalid page defaults to 1.
func (handler *Handler) getComics(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request, handler.service.PageSize())
	tag := requestutil.Query(request, "tag")

	response, err := handler.service.ListComics(request.Context(), params.Page, tag)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Cacheable(writer, response, handler.service.CacheTTL())
}

func (handler *Handler) getComic(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.ID(request, "id")

	c, err := handler.service.GetComic(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, c)
}

// uploadNotification is the S3-style object-created event payload.
type uploadNotification struct {
	Records []uploadRecord `json:"records"`
}

type uploadRecord struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

// ingestedSummary reports one committed comic back to the notifier.
type ingestedSummary struct {
	ID       string   `json:"id"`
	Slug     string   `json:"slug"`
	Warnings []string `json:"warnings,omitempty"`
}

// uploadNotification handles an object-created event: it filters keys to the
// upload prefix or metadata suffix, fetches each matching document, and runs
// it through the ingestion pipeline. The first failing record aborts the
// request with that record's error.
func (handler *Handler) uploadNotification(writer http.ResponseWriter, request *http.Request) {
	var notification uploadNotification
	if err := requestutil.DecodeJSON(request, &notification); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var ingested []ingestedSummary
	skipped := 0

	for _, record := range notification.Records {
		if !isUploadKey(record.Key) {
			skipped++
			continue
		}

		raw, err := handler.fetcher.Fetch(request.Context(), record.Key)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		metadata := &UploadMetadata{}
		if err := decodeMetadata(raw, metadata); err != nil {
			respond.Error(writer, request, err)
			return
		}

		c, warnings, err := handler.pipeline.Ingest(request.Context(), metadata)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		ingested = append(ingested, ingestedSummary{ID: c.ID, Slug: c.Slug, Warnings: warnings})
	}

	summary := map[string]any{
		"ingested": ingested,
		"skipped":  skipped,
	}
	if len(ingested) > 0 {
		respond.Created(writer, summary)
		return
	}
	respond.OK(writer, summary)
}

// decodeMetadata parses a fetched metadata document.
func decodeMetadata(raw []byte, target *UploadMetadata) error {
	if err := json.Unmarshal(raw, target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

// isUploadKey reports whether an object key should trigger ingestion.
func isUploadKey(key string) bool {
	return strings.HasPrefix(key, constants.UploadKeyPrefix) ||
		strings.HasSuffix(key, constants.MetadataKeySuffix)
}
