package progress

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/sablewood-photography/curator/internal/providers"
)

func TestTrackerResume(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")

	tracker, err := Load(path)
	if err != nil {
		t.Fatalf("Load on missing file failed: %v", err)
	}

	tracker.MarkSuccess("202401/a.jpg")
	tracker.MarkFailure("202401/b.jpg", "model returned garbage")
	if err := tracker.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Failed photos are NOT retried: processed is checked regardless of
	// outcome.
	if !reloaded.Seen("202401/a.jpg") {
		t.Error("Expected successful path to be seen")
	}
	if !reloaded.Seen("202401/b.jpg") {
		t.Error("Expected failed path to be seen")
	}
	if reloaded.Seen("202401/c.jpg") {
		t.Error("Expected unknown path to be unseen")
	}

	state := reloaded.State()
	if state.Successful != 1 || state.Failed != 1 {
		t.Errorf("Expected 1 success / 1 failure, got %d/%d", state.Successful, state.Failed)
	}
	if len(state.Errors) != 1 || state.Errors[0].Path != "202401/b.jpg" {
		t.Errorf("Unexpected error log: %+v", state.Errors)
	}
}

func TestTrackerFilter(t *testing.T) {
	tracker, err := Load(filepath.Join(t.TempDir(), "progress.json"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	tracker.MarkSuccess("202401/a.jpg")

	remaining := tracker.Filter([]string{"202401/a.jpg", "202401/b.jpg", "202402/c.jpg"})
	if len(remaining) != 2 {
		t.Fatalf("Expected 2 remaining, got %d", len(remaining))
	}
	if remaining[0] != "202401/b.jpg" || remaining[1] != "202402/c.jpg" {
		t.Errorf("Unexpected remaining set: %v", remaining)
	}
}

func TestMarkIsAppendOnly(t *testing.T) {
	tracker, err := Load(filepath.Join(t.TempDir(), "progress.json"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	tracker.MarkSuccess("a.jpg")
	tracker.MarkSuccess("a.jpg")

	if got := len(tracker.State().Processed); got != 1 {
		t.Errorf("Expected processed list without duplicates, got %d entries", got)
	}
}

func TestCost(t *testing.T) {
	tests := []struct {
		name     string
		model    string
		usage    providers.Usage
		expected float64
	}{
		{
			name:     "gpt-4o",
			model:    "gpt-4o",
			usage:    providers.Usage{InputTokens: 1000, OutputTokens: 500},
			expected: (1000*2.50 + 500*10.00) / 1e6,
		},
		{
			name:     "gemini flash",
			model:    "gemini-1.5-flash",
			usage:    providers.Usage{InputTokens: 2000, OutputTokens: 100},
			expected: (2000*0.075 + 100*0.30) / 1e6,
		},
		{
			name:     "unknown local model is free",
			model:    "qwen2.5vl:7b",
			usage:    providers.Usage{InputTokens: 99999, OutputTokens: 99999},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Cost(tt.model, tt.usage)
			if math.Abs(result-tt.expected) > 1e-12 {
				t.Errorf("Expected %f, got %f", tt.expected, result)
			}
		})
	}
}

func TestAddUsageAccumulates(t *testing.T) {
	tracker, err := Load(filepath.Join(t.TempDir(), "progress.json"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	tracker.AddUsage("gpt-4o-mini", providers.Usage{InputTokens: 100, OutputTokens: 50})
	tracker.AddUsage("gpt-4o-mini", providers.Usage{InputTokens: 200, OutputTokens: 100})

	state := tracker.State()
	if state.Tokens.Input != 300 || state.Tokens.Output != 150 {
		t.Errorf("Unexpected token totals: %+v", state.Tokens)
	}

	expected := (300*0.15 + 150*0.60) / 1e6
	if math.Abs(state.Cost-expected) > 1e-12 {
		t.Errorf("Expected cost %f, got %f", expected, state.Cost)
	}
}
