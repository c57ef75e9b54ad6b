package storage

import (
	"context"
	"errors"
	"io"
)

var (
	ErrInvalidKey  = errors.New("invalid storage key")
	ErrFileMissing = errors.New("file not found")
)

// ImageStore keeps material images and builds the public URLs they are served from.
type ImageStore interface {
	// Save writes the content under key and returns its public URL.
	Save(ctx context.Context, key string, r io.Reader) (string, error)

	// Open returns the stored content of key.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes key. Missing files are not an error.
	Delete(ctx context.Context, key string) error

	PublicURL(key string) string

	// KeyFromURL reverses PublicURL and reports false for foreign URLs.
	KeyFromURL(url string) (string, bool)
}
