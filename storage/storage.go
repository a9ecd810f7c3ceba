package storage

import (
	"context"
	"io"
)

// Storage is an object store addressed by slash-separated keys.
type Storage interface {
	// Upload writes the object at key, replacing any previous one.
	Upload(ctx context.Context, key string, body io.ReadSeeker, contentType string) error

	// Download returns the object at key. Missing objects yield a NOT_FOUND
	// AppError. The caller closes the reader.
	Download(ctx context.Context, key string) (io.ReadCloser, error)
}
