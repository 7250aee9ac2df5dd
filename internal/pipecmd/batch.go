package pipecmd

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/sablewood-photography/curator/internal/config"
	"github.com/sablewood-photography/curator/internal/importer"
	"github.com/sablewood-photography/curator/internal/pipeline"
	"github.com/sablewood-photography/curator/internal/progress"
	"github.com/sablewood-photography/curator/internal/searchindex"
	"github.com/spf13/cobra"
)

// NewBatchCmd creates the batch command: the resumable single-pass mode that
// classifies, captions, and merges in one model call per photo.
func NewBatchCmd() *cobra.Command {
	var batchSize int
	var folder string
	var dryRun bool
	var status bool

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Process photos from the photos directory in resumable batches",
		Long: `Batch walks the photos directory (one subfolder per month, YYYYMM), skips
everything already recorded in the progress file, and processes up to
batch-size photos in a single combined classify+caption call each. Progress
is written after every photo, so an interrupted run resumes where it left
off. Previously failed photos are not retried automatically; remove their
paths from the progress file to retry them.`,
		Example: `  # Process the next 25 unprocessed photos
  curator batch --batch-size 25

  # Restrict to one month's folder
  curator batch --folder 202401

  # See what would be processed
  curator batch --dry-run

  # Show progress and cost so far
  curator batch --status`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return executeBatch(cmd, cfg, batchSize, folder, dryRun, status)
		},
	}

	cmd.Flags().IntVar(&batchSize, "batch-size", 25, "Maximum photos to process this run")
	cmd.Flags().StringVar(&folder, "folder", "", "Restrict to one subfolder of the photos directory (e.g. 202401)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List the photos that would be processed and exit")
	cmd.Flags().BoolVar(&status, "status", false, "Print progress and cost so far and exit")

	return cmd
}

func executeBatch(cmd *cobra.Command, cfg config.Config, batchSize int, folder string, dryRun, status bool) error {
	tracker, err := progress.Load(cfg.ProgressPath)
	if err != nil {
		return err
	}

	candidates, err := collectPhotos(cfg.PhotosDir, folder)
	if err != nil {
		return err
	}
	remaining := tracker.Filter(candidates)

	if status {
		printStatus(tracker.State(), len(remaining))
		return nil
	}

	batch := remaining
	if batchSize > 0 && len(batch) > batchSize {
		batch = batch[:batchSize]
	}

	if dryRun {
		fmt.Printf("Would process %d of %d remaining photos:\n", len(batch), len(remaining))
		for _, rel := range batch {
			fmt.Printf("  %s\n", rel)
		}
		return nil
	}

	if len(batch) == 0 {
		fmt.Println("Nothing left to process.")
		return nil
	}

	lock, err := acquireLock(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			slog.Warn("Failed to release lock", "error", err)
		}
	}()

	store, merger, err := openMerger(cfg)
	if err != nil {
		return err
	}

	runner, err := pipeline.NewRunner(cfg, merger, tracker)
	if err != nil {
		return err
	}
	runner.Combined = true

	slog.Info("Starting batch", "photos", len(batch), "provider", cfg.Provider, "model", cfg.Model)

	ok, failed := 0, 0
	for i, rel := range batch {
		slog.Info("Processing photo", "path", rel, "progress", fmt.Sprintf("%d/%d", i+1, len(batch)))

		pending := importer.PendingPhoto{
			Filename: filepath.Base(rel),
			DestPath: filepath.Join(cfg.PhotosDir, filepath.FromSlash(rel)),
		}

		_, _, err := runner.ProcessOne(cmd.Context(), rel, pending)
		if err != nil {
			slog.Error("Photo failed", "path", rel, "error", err)
			failed++
		} else {
			ok++
			// The store is rewritten per photo so an interruption never
			// strands a moved image without its record.
			if err := store.Save(); err != nil {
				return err
			}
		}

		if i < len(batch)-1 {
			runner.Pause()
		}
	}

	if err := searchindex.Write(cfg.SearchIndexPath, store.Photos); err != nil {
		return err
	}

	state := tracker.State()
	fmt.Printf("\nBatch complete: %d ok, %d failed, %d remaining. Total cost so far: $%.4f\n",
		ok, failed, len(remaining)-len(batch), state.Cost)
	return nil
}

// collectPhotos walks the photos directory (or one subfolder of it) and
// returns slash-normalized relative paths in sorted order.
func collectPhotos(photosDir, folder string) ([]string, error) {
	root := photosDir
	if folder != "" {
		root = filepath.Join(photosDir, folder)
	}

	var rels []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !importer.SupportedImage(d.Name()) {
			return nil
		}
		rels = append(rels, pipeline.RelKey(photosDir, path))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk photos directory: %w", err)
	}

	sort.Strings(rels)
	return rels, nil
}

func printStatus(state progress.State, remaining int) {
	rows := [][]string{
		{"Processed", fmt.Sprintf("%d", len(state.Processed))},
		{"Successful", fmt.Sprintf("%d", state.Successful)},
		{"Failed", fmt.Sprintf("%d", state.Failed)},
		{"Remaining", fmt.Sprintf("%d", remaining)},
		{"Input tokens", fmt.Sprintf("%d", state.Tokens.Input)},
		{"Output tokens", fmt.Sprintf("%d", state.Tokens.Output)},
		{"Estimated cost", fmt.Sprintf("$%.4f", state.Cost)},
	}
	if state.StartedAt != "" {
		rows = append(rows, []string{"Started", state.StartedAt})
	}
	if state.UpdatedAt != "" {
		rows = append(rows, []string{"Updated", state.UpdatedAt})
	}

	fmt.Println(renderTable([]string{"Metric", "Value"}, rows, map[int]bool{1: true}))

	if len(state.Errors) > 0 {
		fmt.Printf("\n%d recorded errors, most recent first:\n", len(state.Errors))
		shown := state.Errors
		if len(shown) > 10 {
			shown = shown[len(shown)-10:]
		}
		for i := len(shown) - 1; i >= 0; i-- {
			fmt.Printf("  %s: %s\n", shown[i].Path, shown[i].Error)
		}
	}
}
