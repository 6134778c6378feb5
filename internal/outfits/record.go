// Package outfits keeps a user's saved try-on results: documents in a
// docstore collection, images in an object store, and a per-user list cache
// in front of both.
package outfits

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("outfit not found")

// Metadata is the optional AI-produced description of an outfit.
type Metadata struct {
	Description string `docstore:"description" json:"description"`
	Occasion    string `docstore:"occasion" json:"occasion"`
	Color       string `docstore:"color" json:"color"`
	Style       string `docstore:"style" json:"style"`
}

type Record struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	ImageKey   string    `json:"-"`
	ImageURL   string    `json:"image_url"`
	CreatedAt  time.Time `json:"created_at"`
	IsFavorite bool      `json:"is_favorite"`
	Metadata   *Metadata `json:"metadata,omitempty"`
}

func (r Record) clone() Record {
	if r.Metadata != nil {
		m := *r.Metadata
		r.Metadata = &m
	}
	return r
}

func cloneAll(rs []Record) []Record {
	out := make([]Record, len(rs))
	for i, r := range rs {
		out[i] = r.clone()
	}
	return out
}
