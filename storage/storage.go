// Package storage keeps uploaded media blobs on local disk or in an S3
// compatible bucket.
package storage

import (
	"context"
	"fmt"
	"io"

	"news-portal/config"
)

// Store writes and removes blobs addressed by key.
type Store interface {
	// Put stores r under key and returns the public URL of the blob.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// New picks the backend named by cfg.MediaBackend.
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.MediaBackend {
	case "local":
		return NewLocalStore(cfg.UploadDir, "/uploads")
	case "s3":
		client, err := NewS3Client(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return NewS3Store(client, cfg.S3Bucket, publicBase(cfg)), nil
	}
	return nil, fmt.Errorf("unknown media backend %q", cfg.MediaBackend)
}

func publicBase(cfg *config.Config) string {
	if cfg.S3PublicURL != "" {
		return cfg.S3PublicURL
	}
	if cfg.S3Endpoint != "" {
		return cfg.S3Endpoint + "/" + cfg.S3Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, cfg.S3Region)
}
