// Package filesystem provides a storage.Backend that keeps image files on local disk.
// Files are laid out as <root>/<authorID>/<postID>/<file name>.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/prn-tf/photofeed/internal/domain"
	"github.com/prn-tf/photofeed/internal/storage"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Backend stores blobs as plain files under a root directory.
type Backend struct {
	root   string
	logger zerolog.Logger
}

// New creates a filesystem backend rooted at root. The directory is created
// if it does not exist yet.
func New(root string, logger zerolog.Logger) (*Backend, error) {
	if root == "" {
		return nil, errors.New("filesystem backend: root directory is required")
	}
	if err := os.MkdirAll(root, dirPerm); err != nil {
		return nil, fmt.Errorf("filesystem backend: create root %s: %w", root, err)
	}

	return &Backend{
		root:   root,
		logger: logger.With().Str("storage", "filesystem").Logger(),
	}, nil
}

// Root returns the directory all blobs are stored under.
func (b *Backend) Root() string {
	return b.root
}

// GetPath returns the absolute-or-relative file path for key under the root.
func (b *Backend) GetPath(key string) string {
	return filepath.Join(b.root, filepath.FromSlash(key))
}

// Store writes data to <root>/<key>.
func (b *Backend) Store(ctx context.Context, key string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !filepath.IsLocal(filepath.FromSlash(key)) {
		return "", domain.NewDomainError(domain.ErrImageFileWrite, "key escapes storage root", key)
	}

	path := b.GetPath(key)
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, dirPerm); err != nil {
		b.logger.Error().Err(err).Str("dir", dir).Msg("failed to create image directory")
		return "", domain.NewDomainError(domain.ErrImageFileWrite, err.Error(), dir)
	}

	if err := os.WriteFile(path, data, filePerm); err != nil {
		b.logger.Error().Err(err).Str("path", path).Msg("failed to write image file")
		return "", domain.NewDomainError(domain.ErrImageFileWrite, err.Error(), path)
	}

	b.logger.Debug().Str("path", path).Int("size", len(data)).Msg("image file stored")
	return path, nil
}

// Retrieve reads the file at path.
func (b *Backend) Retrieve(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.NewDomainError(domain.ErrImageFileMissing, "no file at path", path)
		}
		b.logger.Error().Err(err).Str("path", path).Msg("failed to read image file")
		return nil, domain.NewDomainError(domain.ErrImageFileUnreadable, err.Error(), path)
	}

	return data, nil
}

// Ensure Backend implements storage.Backend.
var _ storage.Backend = (*Backend)(nil)
