package searchindex

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sablewood-photography/curator/internal/gallery"
)

func TestBuild(t *testing.T) {
	photos := []gallery.Photo{
		{
			ID:          "bird-001",
			Slug:        "heron-at-dawn",
			Title:       "Heron at Dawn",
			Category:    gallery.CategoryBirds,
			Species:     "Great Blue Heron",
			Description: "A heron wading at first light.",
			Width:       3200,
		},
		{
			ID:       "landscape-001",
			Slug:     "misty-peaks",
			Title:    "Misty Peaks",
			Category: gallery.CategoryLandscapes,
			Filters:  []string{"mountains"},
		},
	}

	entries := Build(photos)
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}

	if entries[0].ID != "bird-001" || entries[0].Species != "Great Blue Heron" {
		t.Errorf("Unexpected first entry: %+v", entries[0])
	}
	if entries[1].Filters[0] != "mountains" {
		t.Errorf("Expected filters carried over, got %+v", entries[1])
	}
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "search-index.json")

	photos := []gallery.Photo{{ID: "bird-001", Slug: "heron", Title: "Heron", Category: gallery.CategoryBirds}}
	if err := Write(path, photos); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read index: %v", err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatalf("Index is not valid JSON: %v", err)
	}
	if len(entries) != 1 || entries[0].Slug != "heron" {
		t.Errorf("Unexpected index contents: %+v", entries)
	}
}
