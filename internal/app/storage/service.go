/*
Package storage wraps the S3-compatible object store that holds product images.
*/
package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"teslo/internal/configs"
)

// ErrNotConfigured is returned by NewStorageService when no bucket is configured.
var ErrNotConfigured = errors.New("object storage is not configured")

// ServiceConfig holds the configuration required to connect to the storage service.
type ServiceConfig struct {
	S3BucketName      string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string

	// PublicURL, when set, is the base URL objects are publicly served from.
	PublicURL string
}

// ConfigFrom extracts the storage settings from the application config.
func ConfigFrom(cfg *configs.AppConfig) ServiceConfig {
	return ServiceConfig{
		S3BucketName:      cfg.S3BucketName,
		S3Endpoint:        cfg.S3Endpoint,
		S3AccessKeyID:     cfg.S3AccessKeyID,
		S3SecretAccessKey: cfg.S3SecretAccessKey,
		PublicURL:         cfg.S3PublicURL,
	}
}

// StorageService defines the public interface for the file storage service.
type StorageService interface {
	// Upload streams body to key.
	Upload(ctx context.Context, key string, mimeType string, body io.Reader) error

	// PresignDownload generates a pre-signed URL for downloading a file.
	PresignDownload(ctx context.Context, key string, duration time.Duration) (string, error)

	// Delete removes the file specified by the given key.
	Delete(ctx context.Context, key string) error

	// PublicURL returns the public address of key, or "" when objects are private.
	PublicURL(key string) string
}

// NewStorageService is the factory function for StorageService.
func NewStorageService(ctx context.Context, cfg ServiceConfig) (StorageService, error) {
	if cfg.S3BucketName == "" || cfg.S3Endpoint == "" {
		return nil, ErrNotConfigured
	}
	return newS3Client(ctx, cfg)
}

func publicURL(base, key string) string {
	if base == "" {
		return ""
	}
	return strings.TrimSuffix(base, "/") + "/" + key
}
