// Package blobstore implements storage.ImageStore on a gocloud.dev bucket
// (file:// for local runs, mem:// in tests).
package blobstore

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
	"gocloud.dev/gcerrors"

	"github.com/dmitrijs2005/fitroom/internal/filex"
	"github.com/dmitrijs2005/fitroom/internal/storage"
)

type Store struct {
	bucket *blob.Bucket
	base   string
	dir    string
}

// Open opens bucketURL. For file:// URLs the directory is created first and
// Path reports on-disk locations.
func Open(ctx context.Context, bucketURL string) (*Store, error) {
	u, err := url.Parse(bucketURL)
	if err != nil {
		return nil, fmt.Errorf("parse bucket url: %w", err)
	}

	var dir string
	if u.Scheme == "file" {
		dir, err = filex.EnsureDir(filepath.FromSlash(u.Path))
		if err != nil {
			return nil, err
		}
		u.Path = filepath.ToSlash(dir)
		bucketURL = u.String()
	}

	b, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, fmt.Errorf("open bucket: %w", err)
	}

	u.RawQuery = ""
	return &Store{bucket: b, base: strings.TrimRight(u.String(), "/"), dir: dir}, nil
}

// OpenDir opens a file-backed store rooted at dir.
func OpenDir(ctx context.Context, dir string) (*Store, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, err
	}
	return Open(ctx, "file://"+filepath.ToSlash(abs))
}

// New wraps an already opened bucket.
func New(b *blob.Bucket, base string) *Store {
	return &Store{bucket: b, base: strings.TrimRight(base, "/")}
}

func (s *Store) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if err := s.bucket.WriteAll(ctx, key, data, &blob.WriterOptions{ContentType: contentType}); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.bucket.ReadAll(ctx, key)
	if err != nil {
		return nil, mapError(key, err)
	}
	return data, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.bucket.Delete(ctx, key); err != nil {
		return mapError(key, err)
	}
	return nil
}

// URL returns a signed URL when the driver supports signing and the bucket
// address joined with key otherwise.
func (s *Store) URL(ctx context.Context, key string) (string, error) {
	signed, err := s.bucket.SignedURL(ctx, key, nil)
	if err == nil {
		return signed, nil
	}
	if gcerrors.Code(err) != gcerrors.Unimplemented {
		return "", mapError(key, err)
	}
	return s.base + "/" + key, nil
}

// Path is the on-disk location of key, or "" for non-file buckets.
func (s *Store) Path(key string) string {
	if s.dir == "" {
		return ""
	}
	return filepath.Join(s.dir, filepath.FromSlash(key))
}

func (s *Store) Close() error {
	return s.bucket.Close()
}

func mapError(key string, err error) error {
	if gcerrors.Code(err) == gcerrors.NotFound {
		return fmt.Errorf("%s: %w", key, storage.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", key, err)
}

var _ storage.ImageStore = (*Store)(nil)
