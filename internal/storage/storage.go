// Package storage abstracts where profiler inputs are fetched from and
// where converted outputs can be stored: the local filesystem or a
// Tencent COS bucket.
package storage

import (
	"context"
	"io"

	"github.com/stackfold/pkg/config"
	apperrors "github.com/stackfold/pkg/errors"
)

// Storage is the object store seen by the converters.
type Storage interface {
	// Fetch opens the object at key for reading.
	Fetch(ctx context.Context, key string) (io.ReadCloser, error)

	// Store writes the reader's content to key.
	Store(ctx context.Context, key string, reader io.Reader) error

	// Exists reports whether an object exists at key.
	Exists(ctx context.Context, key string) (bool, error)

	// URL returns the location of key for display purposes.
	URL(key string) string
}

// Type selects the storage backend.
type Type string

const (
	TypeLocal Type = "local"
	TypeCOS   Type = "cos"
)

// New creates a Storage from the configuration. An empty type selects
// local storage.
func New(cfg *config.StorageConfig) (Storage, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	switch Type(cfg.Type) {
	case TypeCOS:
		return NewCOSStorage(&COSConfig{
			Bucket:    cfg.Bucket,
			Region:    cfg.Region,
			SecretID:  cfg.SecretID,
			SecretKey: cfg.SecretKey,
			Domain:    cfg.Domain,
			Scheme:    cfg.Scheme,
		})
	default:
		return NewLocalStorage(cfg.LocalPath)
	}
}

func validateConfig(cfg *config.StorageConfig) error {
	if cfg == nil {
		return apperrors.New(apperrors.CodeConfigError, "storage config is nil")
	}

	switch Type(cfg.Type) {
	case "", TypeLocal:
		return nil
	case TypeCOS:
		if cfg.Bucket == "" || cfg.Region == "" {
			return apperrors.New(apperrors.CodeConfigError, "cos storage needs bucket and region")
		}
		if cfg.SecretID == "" || cfg.SecretKey == "" {
			return apperrors.New(apperrors.CodeConfigError, "cos storage needs credentials")
		}
		return nil
	default:
		return apperrors.Newf(apperrors.CodeConfigError, "unsupported storage type: %s", cfg.Type)
	}
}
