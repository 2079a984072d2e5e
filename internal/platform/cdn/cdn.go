// Copyright (c) 2026 Comiclog. All rights reserved.
// Author: dev@comiclog.app

/*
Package cdn provides the client for the edge cache invalidation API.

The CDN control plane accepts a list of path patterns and evicts the matching
cached responses at the edge. Invalidation here is best-effort by design:
commits are durable before any invalidation is attempted, and a bounded
Cache-Control max-age caps staleness even when an invalidation is lost.
*/
package cdn

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// requestTimeout bounds a single invalidation API call.
const requestTimeout = 10 * time.Second

// Invalidator submits path-pattern invalidation requests to the CDN API.
type Invalidator struct {
	endpoint string
	apiToken string
	client   *http.Client
	logger   *slog.Logger
}

// invalidateRequest is the wire format accepted by the CDN control plane.
type invalidateRequest struct {
	Paths []string `json:"paths"`
}

// NewInvalidator constructs a CDN [Invalidator].
//
// An empty endpoint yields a disabled invalidator whose [Invalidator.Invalidate]
// is a logged no-op — useful in development where no CDN fronts the API.
func NewInvalidator(endpoint, apiToken string, logger *slog.Logger) *Invalidator {
	return &Invalidator{
		endpoint: endpoint,
		apiToken: apiToken,
		client:   &http.Client{Timeout: requestTimeout},
		logger:   logger,
	}
}

// Invalidate asks the CDN to evict the cached responses matching the given
// path patterns.
//
// The error return feeds the out-of-band retry loop; it never reaches the
// ingestion caller.
func (inv *Invalidator) Invalidate(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	if inv.endpoint == "" {
		inv.logger.Debug("cdn_invalidation_skipped_no_endpoint", slog.Int("paths", len(paths)))
		return nil
	}

	body, err := json.Marshal(invalidateRequest{Paths: paths})
	if err != nil {
		return fmt.Errorf("cdn: marshal invalidation request: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, inv.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("cdn: build invalidation request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")
	if inv.apiToken != "" {
		request.Header.Set("Authorization", "Bearer "+inv.apiToken)
	}

	response, err := inv.client.Do(request)
	if err != nil {
		return fmt.Errorf("cdn: invalidation call failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode >= 300 {
		return fmt.Errorf("cdn: invalidation rejected with status %d", response.StatusCode)
	}

	inv.logger.Info("cdn_invalidation_dispatched", slog.Int("paths", len(paths)))
	return nil
}
