package classify

import (
	"context"
	"fmt"
	"testing"

	"github.com/sablewood-photography/curator/internal/gallery"
	"github.com/sablewood-photography/curator/internal/providers"
)

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected Classification
		fallback bool
	}{
		{
			name: "valid bird",
			text: `{"category": "birds", "species": "Great Blue Heron"}`,
			expected: Classification{
				Category: gallery.CategoryBirds,
				Species:  "Great Blue Heron",
			},
		},
		{
			name: "landscape with filter",
			text: `{"category": "landscapes", "filter": "mountains", "location": "Dolomites"}`,
			expected: Classification{
				Category: gallery.CategoryLandscapes,
				Filter:   "mountains",
				Location: "Dolomites",
			},
		},
		{
			name: "json embedded in prose",
			text: "Here's my classification:\n```json\n{\"category\": \"wildlife\", \"species\": \"Red Fox\"}\n```\nHope that helps!",
			expected: Classification{
				Category: gallery.CategoryWildlife,
				Species:  "Red Fox",
			},
		},
		{
			name: "filter on non-landscape is dropped",
			text: `{"category": "birds", "filter": "mountains"}`,
			expected: Classification{
				Category: gallery.CategoryBirds,
			},
		},
		{
			name: "unknown filter is dropped",
			text: `{"category": "landscapes", "filter": "deserts"}`,
			expected: Classification{
				Category: gallery.CategoryLandscapes,
			},
		},
		{
			name: "category is case-normalized",
			text: `{"category": "Birds"}`,
			expected: Classification{
				Category: gallery.CategoryBirds,
			},
		},
		{
			name:     "invalid category falls back",
			text:     `{"category": "sunsets"}`,
			fallback: true,
		},
		{
			name:     "no json falls back",
			text:     "I am unable to classify this image.",
			fallback: true,
		},
		{
			name:     "malformed json falls back",
			text:     `{"category": birds}`,
			fallback: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := ParseResponse(tt.text)

			if outcome.Fallback != tt.fallback {
				t.Fatalf("Expected fallback=%v, got %v (reason %q)", tt.fallback, outcome.Fallback, outcome.Reason)
			}

			if tt.fallback {
				if outcome.Classification.Category != gallery.CategoryFloraMacro {
					t.Errorf("Expected flora-macro fallback, got %s", outcome.Classification.Category)
				}
				if outcome.Classification.Filter != "" {
					t.Errorf("Expected null filter on fallback, got %q", outcome.Classification.Filter)
				}
				if outcome.Reason == "" {
					t.Error("Expected fallback reason to be recorded")
				}
				return
			}

			if outcome.Classification != tt.expected {
				t.Errorf("Expected %+v, got %+v", tt.expected, outcome.Classification)
			}
		})
	}
}

type stubProvider struct {
	text string
	err  error
}

func (s *stubProvider) Generate(ctx context.Context, config providers.Config) (providers.Result, error) {
	if s.err != nil {
		return providers.Result{}, s.err
	}
	return providers.Result{
		Text:  s.text,
		Usage: providers.Usage{InputTokens: 100, OutputTokens: 20},
	}, nil
}

func TestClassifyReportsUsage(t *testing.T) {
	c := New(&stubProvider{text: `{"category": "birds"}`}, "test-model", 0.2)

	outcome, usage := c.Classify(context.Background(), "heron.jpg")
	if outcome.Fallback {
		t.Fatalf("Unexpected fallback: %s", outcome.Reason)
	}
	if usage.InputTokens != 100 || usage.OutputTokens != 20 {
		t.Errorf("Expected usage to pass through, got %+v", usage)
	}
}

func TestClassifyTransportErrorFallsBack(t *testing.T) {
	c := New(&stubProvider{err: fmt.Errorf("connection refused")}, "test-model", 0.2)

	outcome, usage := c.Classify(context.Background(), "heron.jpg")
	if !outcome.Fallback {
		t.Fatal("Expected fallback on transport error")
	}
	if outcome.Classification.Category != gallery.CategoryFloraMacro {
		t.Errorf("Expected flora-macro, got %s", outcome.Classification.Category)
	}
	if usage.InputTokens != 0 || usage.OutputTokens != 0 {
		t.Errorf("Expected zero usage on failed call, got %+v", usage)
	}
}
