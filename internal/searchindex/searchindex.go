// Package searchindex builds the compact JSON index the site's client-side
// search loads. Regenerated from the photo store after every merge.
package searchindex

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sablewood-photography/curator/internal/gallery"
)

// Entry is one searchable photo.
type Entry struct {
	ID          string   `json:"id"`
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Filters     []string `json:"filters,omitempty"`
	Species     string   `json:"species,omitempty"`
	Location    string   `json:"location,omitempty"`
	Description string   `json:"description,omitempty"`
}

// Build maps the photo list onto index entries, preserving store order.
func Build(photos []gallery.Photo) []Entry {
	entries := make([]Entry, 0, len(photos))
	for _, p := range photos {
		entries = append(entries, Entry{
			ID:          p.ID,
			Slug:        p.Slug,
			Title:       p.Title,
			Category:    string(p.Category),
			Filters:     p.Filters,
			Species:     p.Species,
			Location:    p.Location,
			Description: p.Description,
		})
	}
	return entries
}

// Write renders the index to path.
func Write(path string, photos []gallery.Photo) error {
	data, err := json.Marshal(Build(photos))
	if err != nil {
		return fmt.Errorf("failed to marshal search index: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write search index: %w", err)
	}

	return nil
}
