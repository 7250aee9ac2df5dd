package pipecmd

import (
	"fmt"
	"log/slog"

	"github.com/sablewood-photography/curator/internal/config"
	"github.com/sablewood-photography/curator/internal/importer"
	"github.com/sablewood-photography/curator/internal/pipeline"
	"github.com/spf13/cobra"
)

// NewProcessCmd creates the process command, the first of the four pipeline
// stages: stage an Instagram export into the pending area.
func NewProcessCmd() *cobra.Command {
	var metadataPath string

	cmd := &cobra.Command{
		Use:   "process <export-path>",
		Short: "Stage an Instagram export for the pipeline",
		Long: `Process walks an Instagram data export (a directory or a .zip), copies every
supported image into the pending area, matches each file to its export caption
and timestamp, and writes the pending-import manifest for the classify step.

Files already present in the pending area are skipped, so re-running process
over the same export stages nothing twice.`,
		Example: `  # Stage an unpacked export
  curator process ~/Downloads/instagram-export/

  # Stage a zip without unpacking, with an explicit posts file
  curator process export.zip --metadata ./posts_1.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return executeProcess(cfg, args[0], metadataPath)
		},
	}

	cmd.Flags().StringVar(&metadataPath, "metadata", "", "Path to the export's posts JSON (default: probed inside the export)")

	return cmd
}

func executeProcess(cfg config.Config, exportPath, metadataPath string) error {
	manifest, err := importer.BuildManifest(exportPath, metadataPath, cfg.PendingDir)
	if err != nil {
		return fmt.Errorf("failed to build import manifest: %w", err)
	}

	if len(manifest) == 0 {
		fmt.Println("Nothing new to stage.")
		return nil
	}

	stagePath := pipeline.StagePath(cfg.ContentDir, pipeline.PendingFile)
	if err := pipeline.WriteStage(stagePath, manifest); err != nil {
		return err
	}

	slog.Info("Staged export", "photos", len(manifest), "manifest", stagePath)
	fmt.Printf("Staged %d photos. Next: curator classify\n", len(manifest))
	return nil
}
