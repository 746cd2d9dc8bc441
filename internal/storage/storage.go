package storage

import (
	"context"
	"io"
)

// Interface is the object-storage contract: binary blobs addressed by path.
type Interface interface {
	// Upload writes the blob at path, replacing any existing object
	Upload(ctx context.Context, path string, contentType string, r io.Reader) error

	// Download opens the blob at path for reading
	Download(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes the blob at path
	Delete(ctx context.Context, path string) error

	// Exists reports whether a blob is present at path
	Exists(ctx context.Context, path string) (bool, error)
}
