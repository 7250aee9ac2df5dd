package progress

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sablewood-photography/curator/internal/providers"
)

// ProcessingError records one per-photo failure or fallback.
type ProcessingError struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// Tokens is the cumulative token usage across a run.
type Tokens struct {
	Input  int `json:"input"`
	Output int `json:"output"`
}

// State is the durable progress record. It is rewritten wholesale after
// every photo so an interruption loses at most the in-flight photo.
type State struct {
	Processed  []string          `json:"processed"`
	Successful int               `json:"successful"`
	Failed     int               `json:"failed"`
	Errors     []ProcessingError `json:"errors,omitempty"`
	Tokens     Tokens            `json:"tokens"`
	Cost       float64           `json:"cost"`
	StartedAt  string            `json:"started_at"`
	UpdatedAt  string            `json:"updated_at"`
}

// Tracker owns the progress file. The processed list is append-only: once a
// path is present it is never reprocessed, success or failure alike, until
// it is manually removed from the file.
type Tracker struct {
	path  string
	state State
	seen  map[string]struct{}
}

// Load reads the progress file at path, or starts fresh when it is missing.
func Load(path string) (*Tracker, error) {
	t := &Tracker{
		path: path,
		seen: make(map[string]struct{}),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.state.StartedAt = time.Now().UTC().Format(time.RFC3339)
			return t, nil
		}
		return nil, fmt.Errorf("failed to read progress file: %w", err)
	}

	if err := json.Unmarshal(data, &t.state); err != nil {
		return nil, fmt.Errorf("failed to parse progress file: %w", err)
	}
	if t.state.StartedAt == "" {
		t.state.StartedAt = time.Now().UTC().Format(time.RFC3339)
	}

	for _, p := range t.state.Processed {
		t.seen[p] = struct{}{}
	}

	return t, nil
}

// Seen reports whether the relative path has already been processed in any
// prior run, regardless of whether that attempt succeeded.
func (t *Tracker) Seen(rel string) bool {
	_, ok := t.seen[rel]
	return ok
}

// Filter returns the candidates not yet present in the processed set.
func (t *Tracker) Filter(candidates []string) []string {
	var remaining []string
	for _, c := range candidates {
		if !t.Seen(c) {
			remaining = append(remaining, c)
		}
	}
	return remaining
}

func (t *Tracker) mark(rel string) {
	if t.Seen(rel) {
		return
	}
	t.state.Processed = append(t.state.Processed, rel)
	t.seen[rel] = struct{}{}
}

// MarkSuccess records a completed photo.
func (t *Tracker) MarkSuccess(rel string) {
	t.mark(rel)
	t.state.Successful++
}

// MarkFailure records a failed photo along with its error.
func (t *Tracker) MarkFailure(rel string, errMsg string) {
	t.mark(rel)
	t.state.Failed++
	t.state.Errors = append(t.state.Errors, ProcessingError{Path: rel, Error: errMsg})
}

// RecordError logs a non-fatal fallback (bad model response, failed upload)
// without changing the success/failure counters.
func (t *Tracker) RecordError(rel string, errMsg string) {
	t.state.Errors = append(t.state.Errors, ProcessingError{Path: rel, Error: errMsg})
}

// AddUsage accumulates token usage and the estimated cost for the model.
func (t *Tracker) AddUsage(model string, u providers.Usage) {
	t.state.Tokens.Input += u.InputTokens
	t.state.Tokens.Output += u.OutputTokens
	t.state.Cost += Cost(model, u)
}

// Save rewrites the progress file. Called after every photo, not batched.
func (t *Tracker) Save() error {
	t.state.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(&t.state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal progress: %w", err)
	}

	if err := os.WriteFile(t.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write progress file: %w", err)
	}

	return nil
}

// State returns a copy of the current progress state.
func (t *Tracker) State() State {
	return t.state
}
