package storage

import (
	"context"
	"io"
	"time"
)

// DefaultPresignedURLExpiry applies when no expiry is configured.
const DefaultPresignedURLExpiry = 15 * time.Minute

// FileStorage holds progress image objects. Keys are opaque to the backend.
type FileStorage interface {
	// PutObject uploads size bytes from body under objectKey.
	PutObject(ctx context.Context, objectKey, contentType string, body io.Reader, size int64) error

	// GeneratePresignedDownloadURL returns a time-limited GET URL for the object.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// DeleteObject removes the object. Deleting a missing key is not an error.
	DeleteObject(ctx context.Context, objectKey string) error
}
