package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sablewood-photography/curator/internal/classify"
	"github.com/sablewood-photography/curator/internal/importer"
)

// Stage file names under the content directory. The four-stage pipeline
// hands work between invocations through these files; merge consumes and
// deletes all of them.
const (
	PendingFile    = "pending-import.json"
	ClassifiedFile = "classified.json"
	CaptionedFile  = "captioned.json"
)

// ClassifiedPhoto is a pending photo plus its classification outcome.
type ClassifiedPhoto struct {
	importer.PendingPhoto
	Classification classify.Classification `json:"classification"`
	Fallback       bool                    `json:"fallback,omitempty"`
	FallbackReason string                  `json:"fallback_reason,omitempty"`
}

// CaptionedPhoto is a classified photo plus its generated copy.
type CaptionedPhoto struct {
	ClassifiedPhoto
	Title       string `json:"title"`
	Description string `json:"description"`
}

// StagePath returns the path of a stage file under the content directory.
func StagePath(contentDir, name string) string {
	return filepath.Join(contentDir, name)
}

// ReadStage loads a JSON stage file into out.
func ReadStage(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read stage file %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse stage file %s: %w", filepath.Base(path), err)
	}
	return nil
}

// WriteStage renders a stage file.
func WriteStage(path string, in interface{}) error {
	data, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal stage file %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write stage file %s: %w", filepath.Base(path), err)
	}
	return nil
}

// RemoveStages deletes the intermediate files after a successful merge.
// Missing files are fine: the batch path never creates them.
func RemoveStages(contentDir string) {
	for _, name := range []string{PendingFile, ClassifiedFile, CaptionedFile} {
		_ = os.Remove(StagePath(contentDir, name))
	}
}
