package outfits

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/fitroom/internal/logging"
	"github.com/dmitrijs2005/fitroom/internal/storage"
)

// Service is the outfit save/list flow. Reads go through the Cache; every
// successful write invalidates the owner's entry. A write made by another
// process is not seen until this process invalidates or restarts.
type Service struct {
	docs     DocStore
	images   storage.ImageStore
	cache    *Cache
	analyzer Analyzer
	log      logging.Logger
	now      func() time.Time
}

// NewService wires the collaborators; analyzer may be nil.
func NewService(docs DocStore, images storage.ImageStore, cache *Cache, analyzer Analyzer, log logging.Logger) *Service {
	if log == nil {
		log = logging.Nop()
	}
	if cache == nil {
		cache = NewCache()
	}
	return &Service{
		docs:     docs,
		images:   images,
		cache:    cache,
		analyzer: analyzer,
		log:      log,
		now:      time.Now,
	}
}

// List returns the user's outfits, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]Record, error) {
	records, ok := s.cache.Get(userID)
	if ok {
		s.log.Debug(ctx, "outfit cache hit", "user_id", userID, "count", len(records))
		return s.withURLs(ctx, records), nil
	}

	records, err := s.docs.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	s.cache.Put(userID, records)
	s.log.Debug(ctx, "outfits loaded", "user_id", userID, "count", len(records))

	return s.withURLs(ctx, records), nil
}

// withURLs refreshes image URLs, which may be short-lived presigned links.
func (s *Service) withURLs(ctx context.Context, records []Record) []Record {
	for i := range records {
		if records[i].ImageKey == "" {
			continue
		}
		u, err := s.images.URL(ctx, records[i].ImageKey)
		if err != nil {
			s.log.Warn(ctx, "image url unavailable", "outfit_id", records[i].ID, "error", err)
			continue
		}
		records[i].ImageURL = u
	}
	return records
}

// Save uploads image, stores the outfit document and returns the new record.
func (s *Service) Save(ctx context.Context, userID, name string, image []byte) (Record, error) {
	if len(image) == 0 {
		return Record{}, errors.New("outfit image is empty")
	}

	id := uuid.NewString()
	key := storage.OutfitImageKey(userID, id)

	if err := s.images.Put(ctx, key, image, "image/jpeg"); err != nil {
		return Record{}, fmt.Errorf("upload outfit image: %w", err)
	}

	rec := Record{
		ID:        id,
		Name:      name,
		ImageKey:  key,
		CreatedAt: s.now().UTC(),
		Metadata:  s.analyze(ctx, id, image),
	}

	if u, err := s.images.URL(ctx, key); err == nil {
		rec.ImageURL = u
	}

	if err := s.docs.Create(ctx, userID, rec); err != nil {
		if derr := s.images.Delete(ctx, key); derr != nil {
			s.log.Warn(ctx, "orphaned outfit image", "key", key, "error", derr)
		}
		return Record{}, err
	}

	s.cache.Invalidate(userID)
	s.log.Info(ctx, "outfit saved", "user_id", userID, "outfit_id", id)

	return rec, nil
}

func (s *Service) analyze(ctx context.Context, id string, image []byte) *Metadata {
	if s.analyzer == nil {
		return nil
	}
	m, err := s.analyzer.Analyze(ctx, image)
	if err != nil {
		s.log.Warn(ctx, "outfit analysis failed", "outfit_id", id, "error", err)
		return nil
	}
	return m
}

// Delete removes the document first, then its image. A leftover image is
// logged, not returned: the document is what makes an outfit exist.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	rec, err := s.docs.Get(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.docs.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.cache.Invalidate(userID)

	key := rec.ImageKey
	if key == "" {
		key = storage.OutfitImageKey(userID, id)
	}
	if err := s.images.Delete(ctx, key); err != nil && !errors.Is(err, storage.ErrNotFound) {
		s.log.Warn(ctx, "outfit image not deleted", "key", key, "error", err)
	}

	s.log.Info(ctx, "outfit deleted", "user_id", userID, "outfit_id", id)
	return nil
}

// ToggleFavorite sets the favorite flag and returns the stored value.
func (s *Service) ToggleFavorite(ctx context.Context, userID, id string, favorite bool) (bool, error) {
	if err := s.docs.SetFavorite(ctx, userID, id, favorite); err != nil {
		return false, err
	}
	s.cache.Invalidate(userID)
	return favorite, nil
}

// ClearCache drops the cached list for userID, or every list when userID
// is empty.
func (s *Service) ClearCache(userID string) {
	if userID == "" {
		s.cache.Clear()
		return
	}
	s.cache.Invalidate(userID)
}
