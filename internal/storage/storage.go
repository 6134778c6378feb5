// Package storage defines the object store used for outfit images and
// generated results.
package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("object not found")

// ImageStore keeps image bytes under slash-separated keys.
type ImageStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	// URL returns an address the image can be fetched from. It may expire.
	URL(ctx context.Context, key string) (string, error)
}

// OutfitImageKey is where a saved outfit's image lives.
func OutfitImageKey(userID, outfitID string) string {
	return "users/" + userID + "/outfits/" + outfitID + ".jpg"
}
