// Package uploader pushes report directories to cloud storage.
package uploader

import (
	"context"

	"nl2sqleval/internal/config"
)

// Uploader uploads a report directory and returns its remote location.
type Uploader interface {
	Enabled() bool
	UploadDir(ctx context.Context, dir string) (string, error)
}

// NoopUploader is used when no storage backend is configured.
type NoopUploader struct{}

// Enabled always reports false.
func (n NoopUploader) Enabled() bool {
	return false
}

// UploadDir does nothing.
func (n NoopUploader) UploadDir(ctx context.Context, dir string) (string, error) {
	return "", nil
}

// ForConfig selects the configured storage backend. S3 wins when both are
// enabled; without any backend a NoopUploader is returned.
func ForConfig(cfg config.StorageConfig) (Uploader, error) {
	if cfg.S3.Enabled {
		return NewS3(cfg.S3)
	}
	if cfg.GCS.Enabled {
		return NewGCS(cfg.GCS)
	}
	return NoopUploader{}, nil
}
