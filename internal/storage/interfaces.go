// Package storage defines interfaces for image blob storage backends.
// The storage layer is responsible for persisting and retrieving raw image bytes;
// metadata lives in the repositories.
package storage

import (
	"context"
)

// Backend defines the interface for blob storage backends.
// Implementations include the local filesystem and S3-compatible object stores.
// Implementations must be safe for concurrent use.
type Backend interface {
	// Store writes data under key, creating any parent directories, and returns
	// the path the bytes can later be retrieved from.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeouts
	//   - key: Relative location, as produced by ImageKey
	//   - data: The bytes to persist
	//
	// Returns:
	//   - path: Backend-specific location recorded in image metadata
	//   - err: An error matching domain.ErrFileAccess if the write fails
	Store(ctx context.Context, key string, data []byte) (path string, err error)

	// Retrieve reads back the bytes stored at path.
	//
	// Returns:
	//   - []byte: The stored content
	//   - err: domain.ErrImageFileMissing if nothing is stored at path,
	//     domain.ErrImageFileUnreadable for any other read failure
	Retrieve(ctx context.Context, path string) ([]byte, error)

	// GetPath returns the path Store would return for key.
	GetPath(key string) string
}
