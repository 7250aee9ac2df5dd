package pipecmd

import (
	"fmt"
	"log/slog"

	"github.com/sablewood-photography/curator/internal/classify"
	"github.com/sablewood-photography/curator/internal/config"
	"github.com/sablewood-photography/curator/internal/importer"
	"github.com/sablewood-photography/curator/internal/pipeline"
	"github.com/sablewood-photography/curator/internal/progress"
	"github.com/spf13/cobra"
)

// NewClassifyCmd creates the classify command: run the vision model over
// every staged photo and record the category verdicts.
func NewClassifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify staged photos into gallery categories",
		Long: `Classify reads the pending-import manifest written by process, sends each
photo to the configured vision model, and writes the classified manifest for
the caption step.

A photo whose response cannot be parsed falls back to the flora-macro category
with the reason recorded; no single bad answer stops the run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return executeClassify(cmd, cfg)
		},
	}

	return cmd
}

func executeClassify(cmd *cobra.Command, cfg config.Config) error {
	var pending []importer.PendingPhoto
	if err := pipeline.ReadStage(pipeline.StagePath(cfg.ContentDir, pipeline.PendingFile), &pending); err != nil {
		return fmt.Errorf("no staged photos; run curator process first: %w", err)
	}

	provider, err := pipeline.NewProvider(cfg.Provider)
	if err != nil {
		return err
	}
	classifier := classify.New(provider, cfg.Model, cfg.Temperature)

	tracker, err := progress.Load(cfg.ProgressPath)
	if err != nil {
		return err
	}

	slog.Info("Classifying staged photos", "count", len(pending), "provider", cfg.Provider, "model", cfg.Model)

	classified := make([]pipeline.ClassifiedPhoto, 0, len(pending))
	for i, photo := range pending {
		outcome, usage := classifier.Classify(cmd.Context(), photo.DestPath)
		tracker.AddUsage(cfg.Model, usage)
		if outcome.Fallback {
			tracker.RecordError(photo.Filename, "classification fallback: "+outcome.Reason)
		}

		classified = append(classified, pipeline.ClassifiedPhoto{
			PendingPhoto:   photo,
			Classification: outcome.Classification,
			Fallback:       outcome.Fallback,
			FallbackReason: outcome.Reason,
		})

		slog.Info("Classified photo",
			"filename", photo.Filename,
			"category", outcome.Classification.Category,
			"progress", fmt.Sprintf("%d/%d", i+1, len(pending)))

		if i < len(pending)-1 {
			pause(cfg.RequestDelay)
		}
	}

	if err := pipeline.WriteStage(pipeline.StagePath(cfg.ContentDir, pipeline.ClassifiedFile), classified); err != nil {
		return err
	}
	if err := tracker.Save(); err != nil {
		return err
	}

	fmt.Printf("Classified %d photos. Next: curator caption\n", len(classified))
	return nil
}
