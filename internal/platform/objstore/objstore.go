// Copyright (c) 2026 Comiclog. All rights reserved.
// Author: dev@comiclog.app

/*
Package objstore provides a managed client for S3-compatible object storage.

Uploads land here before ingestion: the browser writes image objects and a
metadata.json document under an uploads/ prefix, and the ingestion pipeline
reads them back. The read path never touches this package — published images
are served by the CDN directly from the bucket.

Core Responsibilities:

  - Existence: HEAD-equivalent checks used by the referenced-media gate.
  - Retrieval: Fetching raw metadata documents named by upload notifications.
  - Safety: Connection validation at startup.
*/
package objstore

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Config holds the connection settings for the object storage client.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

// Client wraps a minio client scoped to the single Comiclog media bucket.
type Client struct {
	client *minio.Client
	bucket string
}

// New constructs and validates an object storage [Client].
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("objstore: failed to create client: %w", err)
	}

	// Validate connectivity and bucket presence immediately at startup.
	exists, err := mc.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("objstore: failed to check bucket: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("objstore: bucket %q does not exist", cfg.Bucket)
	}

	logger.Info("objstore client connected",
		slog.String("endpoint", cfg.Endpoint),
		slog.String("bucket", cfg.Bucket),
	)

	return &Client{client: mc, bucket: cfg.Bucket}, nil
}

// Exists reports whether the object with the given key is present in the
// bucket. A missing object is (false, nil); any other failure is an error.
func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	_, err := c.client.StatObject(ctx, c.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		response := minio.ToErrorResponse(err)
		if response.StatusCode == http.StatusNotFound {
			return false, nil
		}
		return false, fmt.Errorf("objstore: stat %q: %w", key, err)
	}
	return true, nil
}

// Fetch reads the full contents of the object with the given key.
func (c *Client) Fetch(ctx context.Context, key string) ([]byte, error) {
	object, err := c.client.GetObject(ctx, c.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("objstore: get %q: %w", key, err)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		return nil, fmt.Errorf("objstore: read %q: %w", key, err)
	}

	return data, nil
}

// Ping verifies that the object storage endpoint is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.client.BucketExists(ctx, c.bucket); err != nil {
		return fmt.Errorf("objstore: ping failed: %w", err)
	}
	return nil
}

// Bucket returns the configured bucket name.
func (c *Client) Bucket() string {
	return c.bucket
}
