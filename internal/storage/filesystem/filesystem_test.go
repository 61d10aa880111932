package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/prn-tf/photofeed/internal/domain"
	"github.com/prn-tf/photofeed/internal/storage"
)

func newTestBackend(t *testing.T) *Backend {
	t.Helper()
	b, err := New(filepath.Join(t.TempDir(), "images"), zerolog.Nop())
	require.NoError(t, err)
	return b
}

func TestNew(t *testing.T) {
	_, err := New("", zerolog.Nop())
	require.Error(t, err)

	b := newTestBackend(t)
	info, err := os.Stat(b.Root())
	require.NoError(t, err)
	require.True(t, info.IsDir())
}

func TestStoreAndRetrieve(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	key := storage.ImageKey(7, 42, "1700000000000-abc.png")
	path, err := b.Store(ctx, key, []byte("hello"))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(b.Root(), "7", "42", "1700000000000-abc.png"), path)
	require.Equal(t, path, b.GetPath(key))

	data, err := b.Retrieve(ctx, path)
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), data)
}

func TestStore_RejectsEscapingKey(t *testing.T) {
	b := newTestBackend(t)

	_, err := b.Store(context.Background(), "../outside.png", []byte("x"))
	require.ErrorIs(t, err, domain.ErrImageFileWrite)
}

func TestStore_DirectoryCreationFails(t *testing.T) {
	b := newTestBackend(t)

	// A regular file where the author directory should be.
	require.NoError(t, os.WriteFile(filepath.Join(b.Root(), "7"), []byte("blocker"), 0o644))

	_, err := b.Store(context.Background(), storage.ImageKey(7, 1, "a.png"), []byte("x"))
	require.ErrorIs(t, err, domain.ErrImageFileWrite)
	require.ErrorIs(t, err, domain.ErrFileAccess)
}

func TestRetrieve_Errors(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	_, err := b.Retrieve(ctx, filepath.Join(b.Root(), "missing.png"))
	require.ErrorIs(t, err, domain.ErrImageFileMissing)

	// Reading a directory fails with something other than not-exist.
	_, err = b.Retrieve(ctx, b.Root())
	require.ErrorIs(t, err, domain.ErrImageFileUnreadable)
}

func TestStore_CanceledContext(t *testing.T) {
	b := newTestBackend(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := b.Store(ctx, "1/1/a.png", []byte("x"))
	require.ErrorIs(t, err, context.Canceled)
}
