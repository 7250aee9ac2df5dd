package pipecmd

import (
	"fmt"
	"log/slog"

	"github.com/sablewood-photography/curator/internal/caption"
	"github.com/sablewood-photography/curator/internal/config"
	"github.com/sablewood-photography/curator/internal/merge"
	"github.com/sablewood-photography/curator/internal/pipeline"
	"github.com/sablewood-photography/curator/internal/searchindex"
	"github.com/spf13/cobra"
)

// NewMergeCmd creates the merge command, the last pipeline stage: persist
// captioned photos into the store and the gallery image tree.
func NewMergeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge captioned photos into the photo store",
		Long: `Merge reads the captioned manifest, allocates each photo its ID and slug,
moves the image out of the pending area into its category directory, writes a
thumbnail, optionally uploads to the CDN, and appends the record to the photo
store. The search index is regenerated and the intermediate manifests are
removed.

Photos whose filename already exists in the store are skipped, never
re-added.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return executeMerge(cmd, cfg)
		},
	}

	return cmd
}

func executeMerge(cmd *cobra.Command, cfg config.Config) error {
	var captioned []pipeline.CaptionedPhoto
	if err := pipeline.ReadStage(pipeline.StagePath(cfg.ContentDir, pipeline.CaptionedFile), &captioned); err != nil {
		return fmt.Errorf("no captioned photos; run curator caption first: %w", err)
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

	added, skipped := 0, 0
	for _, photo := range captioned {
		description := photo.Description
		if description == "" {
			description = caption.FallbackDescription(photo.Classification.Category)
		}

		_, accepted, err := merger.Merge(cmd.Context(), merge.Input{
			Filename:         photo.Filename,
			SourcePath:       photo.DestPath,
			Classification:   photo.Classification,
			Title:            photo.Title,
			Description:      description,
			InstagramCaption: photo.Caption,
			DateTaken:        photo.DateTaken,
		})
		if err != nil {
			return fmt.Errorf("failed to merge %s: %w", photo.Filename, err)
		}
		if accepted {
			added++
		} else {
			skipped++
		}
	}

	if err := store.Save(); err != nil {
		return err
	}
	if err := searchindex.Write(cfg.SearchIndexPath, store.Photos); err != nil {
		return err
	}
	pipeline.RemoveStages(cfg.ContentDir)

	slog.Info("Merge complete", "added", added, "skipped", skipped, "total", len(store.Photos))
	fmt.Printf("Merged %d photos (%d duplicates skipped). Store now holds %d photos.\n", added, skipped, len(store.Photos))
	return nil
}
