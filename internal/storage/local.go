package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	apperrors "github.com/stackfold/pkg/errors"
)

// LocalStorage serves objects from a directory on the local filesystem.
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a LocalStorage rooted at basePath, creating
// the directory if needed. An empty path defaults to the current
// directory.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if basePath == "" {
		basePath = "."
	}

	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorageError, "creating storage directory", err)
	}

	return &LocalStorage{basePath: basePath}, nil
}

// Fetch opens the file at key.
func (s *LocalStorage) Fetch(ctx context.Context, key string) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	file, err := os.Open(s.fullPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Newf(apperrors.CodeStorageError, "input not found: %s", key)
		}
		return nil, apperrors.Wrap(apperrors.CodeStorageError, "opening input", err)
	}
	return file, nil
}

// Store writes the reader's content to the file at key.
func (s *LocalStorage) Store(ctx context.Context, key string, reader io.Reader) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	fullPath := s.fullPath(key)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return apperrors.Wrap(apperrors.CodeStorageError, "creating output directory", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStorageError, "creating output file", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		return apperrors.Wrap(apperrors.CodeStorageError, "writing output file", err)
	}
	return nil
}

// Exists reports whether the file at key exists.
func (s *LocalStorage) Exists(ctx context.Context, key string) (bool, error) {
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	default:
	}

	_, err := os.Stat(s.fullPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat %s: %w", key, err)
	}
	return true, nil
}

// URL returns the filesystem path for key.
func (s *LocalStorage) URL(key string) string {
	return s.fullPath(key)
}

// BasePath returns the storage root directory.
func (s *LocalStorage) BasePath() string {
	return s.basePath
}

func (s *LocalStorage) fullPath(key string) string {
	return filepath.Join(s.basePath, key)
}
