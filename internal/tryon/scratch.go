package tryon

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/fitroom/internal/storage/blobstore"
)

// GeneratedImage is the handle returned for a finished try-on result.
type GeneratedImage struct {
	TaskID string `json:"task_id"`
	Key    string `json:"key"`
	// Path is the on-disk location for file-backed scratch buckets.
	Path string `json:"path,omitempty"`
	Size int    `json:"size"`
	URL  string `json:"url"`
}

// Scratch keeps downloaded results in a blob bucket.
type Scratch struct {
	store *blobstore.Store
}

func NewScratch(store *blobstore.Store) *Scratch {
	return &Scratch{store: store}
}

func ResultKey(taskID string) string {
	return fmt.Sprintf("virtual_tryon_%s.jpg", taskID)
}

func (s *Scratch) Save(ctx context.Context, taskID string, data []byte) (*GeneratedImage, error) {
	key := ResultKey(taskID)
	if err := s.store.Put(ctx, key, data, "image/jpeg"); err != nil {
		return nil, fmt.Errorf("save result: %w", err)
	}

	url, err := s.store.URL(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("result url: %w", err)
	}

	return &GeneratedImage{
		TaskID: taskID,
		Key:    key,
		Path:   s.store.Path(key),
		Size:   len(data),
		URL:    url,
	}, nil
}

func (s *Scratch) Read(ctx context.Context, key string) ([]byte, error) {
	return s.store.Get(ctx, key)
}

func (s *Scratch) Remove(ctx context.Context, key string) error {
	return s.store.Delete(ctx, key)
}
