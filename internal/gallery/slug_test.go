package gallery

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		expected string
	}{
		{
			name:     "simple title",
			title:    "Sunset View",
			expected: "sunset-view",
		},
		{
			name:     "punctuation collapses to single hyphens",
			title:    "Heron, at dawn!",
			expected: "heron-at-dawn",
		},
		{
			name:     "leading and trailing junk trimmed",
			title:    "  --Misty Peaks--  ",
			expected: "misty-peaks",
		},
		{
			name:     "digits preserved",
			title:    "Route 66 Overlook",
			expected: "route-66-overlook",
		},
		{
			name:     "empty title falls back",
			title:    "!!!",
			expected: "photo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Slugify(tt.title)
			if result != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestSlugifyTruncates(t *testing.T) {
	long := strings.Repeat("alpenglow ", 20)
	slug := Slugify(long)

	if len(slug) > 50 {
		t.Errorf("Expected slug of at most 50 chars, got %d: %q", len(slug), slug)
	}
	if strings.HasSuffix(slug, "-") {
		t.Errorf("Expected no trailing hyphen after truncation, got %q", slug)
	}
}

func TestUniqueSlug(t *testing.T) {
	taken := map[string]struct{}{
		"sunset-view":   {},
		"sunset-view-2": {},
	}

	if got := UniqueSlug("misty-peaks", taken); got != "misty-peaks" {
		t.Errorf("Expected free slug unchanged, got %q", got)
	}

	if got := UniqueSlug("sunset-view", taken); got != "sunset-view-3" {
		t.Errorf("Expected sunset-view-3, got %q", got)
	}
}

func TestUniqueSlugPairwiseDistinct(t *testing.T) {
	// Two photos in one batch sharing a generated title must end up with
	// distinct slugs.
	taken := map[string]struct{}{}

	first := UniqueSlug(Slugify("Sunset View"), taken)
	taken[first] = struct{}{}
	second := UniqueSlug(Slugify("Sunset View"), taken)

	if first != "sunset-view" {
		t.Errorf("Expected sunset-view, got %q", first)
	}
	if second != "sunset-view-2" {
		t.Errorf("Expected sunset-view-2, got %q", second)
	}
}
