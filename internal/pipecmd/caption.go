package pipecmd

import (
	"fmt"
	"log/slog"

	"github.com/sablewood-photography/curator/internal/caption"
	"github.com/sablewood-photography/curator/internal/config"
	"github.com/sablewood-photography/curator/internal/pipeline"
	"github.com/sablewood-photography/curator/internal/progress"
	"github.com/spf13/cobra"
)

// NewCaptionCmd creates the caption command: generate gallery titles and
// descriptions for every classified photo.
func NewCaptionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "caption",
		Short: "Generate titles and descriptions for classified photos",
		Long: `Caption reads the classified manifest, asks the model for a title and
description per photo, and writes the captioned manifest for the merge step.

When a photo carries a substantial original Instagram caption the model is
told to clean and condense it rather than invent new copy. Failed or
unparseable responses fall back to a species- or filename-derived title.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return executeCaption(cmd, cfg)
		},
	}

	return cmd
}

func executeCaption(cmd *cobra.Command, cfg config.Config) error {
	var classified []pipeline.ClassifiedPhoto
	if err := pipeline.ReadStage(pipeline.StagePath(cfg.ContentDir, pipeline.ClassifiedFile), &classified); err != nil {
		return fmt.Errorf("no classified photos; run curator classify first: %w", err)
	}

	provider, err := pipeline.NewProvider(cfg.Provider)
	if err != nil {
		return err
	}
	generator := caption.New(provider, cfg.Model, cfg.Temperature)

	tracker, err := progress.Load(cfg.ProgressPath)
	if err != nil {
		return err
	}

	slog.Info("Captioning classified photos", "count", len(classified), "provider", cfg.Provider, "model", cfg.Model)

	captioned := make([]pipeline.CaptionedPhoto, 0, len(classified))
	for i, photo := range classified {
		outcome, usage := generator.Generate(cmd.Context(), photo.DestPath, photo.Classification, photo.Caption)
		tracker.AddUsage(cfg.Model, usage)
		if outcome.Fallback {
			tracker.RecordError(photo.Filename, "caption fallback: "+outcome.Reason)
		}

		captioned = append(captioned, pipeline.CaptionedPhoto{
			ClassifiedPhoto: photo,
			Title:           outcome.Result.Title,
			Description:     outcome.Result.Description,
		})

		slog.Info("Captioned photo",
			"filename", photo.Filename,
			"title", outcome.Result.Title,
			"progress", fmt.Sprintf("%d/%d", i+1, len(classified)))

		if i < len(classified)-1 {
			pause(cfg.RequestDelay)
		}
	}

	if err := pipeline.WriteStage(pipeline.StagePath(cfg.ContentDir, pipeline.CaptionedFile), captioned); err != nil {
		return err
	}
	if err := tracker.Save(); err != nil {
		return err
	}

	fmt.Printf("Captioned %d photos. Next: curator merge\n", len(captioned))
	return nil
}
