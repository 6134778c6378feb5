package blobstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"

	"github.com/dmitrijs2005/fitroom/internal/storage"
)

func TestStore_FileRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "images")

	s, err := OpenDir(ctx, dir)
	require.NoError(t, err)
	defer s.Close()

	key := storage.OutfitImageKey("u1", "o1")
	require.NoError(t, s.Put(ctx, key, []byte("jpeg"), "image/jpeg"))

	got, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg"), got)

	path := s.Path(key)
	assert.Equal(t, filepath.Join(dir, "users", "u1", "outfits", "o1.jpg"), path)
	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg"), onDisk)

	u, err := s.URL(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "file://"+filepath.ToSlash(dir)+"/"+key, u)

	require.NoError(t, s.Delete(ctx, key))
	_, err = s.Get(ctx, key)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_Memory(t *testing.T) {
	ctx := context.Background()
	s := New(memblob.OpenBucket(nil), "mem://")
	defer s.Close()

	require.NoError(t, s.Put(ctx, "a/b.png", []byte{1, 2, 3}, "image/png"))

	got, err := s.Get(ctx, "a/b.png")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, got)
	assert.Empty(t, s.Path("a/b.png"))

	err = s.Delete(ctx, "missing")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestOpen_MemURL(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, "mem://")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Put(ctx, "k", []byte("v"), ""))
	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}
