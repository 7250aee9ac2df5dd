package cmd

import (
	"github.com/joho/godotenv"
	"github.com/sablewood-photography/curator/internal/pipecmd"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "curator",
		Short: "Photography portfolio pipeline with LLM-powered classification and captioning",
		Long: `Curator imports photos from an Instagram export, classifies them into
gallery categories with a vision model, generates portfolio titles and
descriptions, and merges the results into the site's photo store.

It can run as four explicit stages (process, classify, caption, merge) or as
a resumable single-pass batch over the photos directory.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	// Add subcommands
	cmd.AddCommand(pipecmd.NewProcessCmd())
	cmd.AddCommand(pipecmd.NewClassifyCmd())
	cmd.AddCommand(pipecmd.NewCaptionCmd())
	cmd.AddCommand(pipecmd.NewMergeCmd())
	cmd.AddCommand(pipecmd.NewBatchCmd())
	cmd.AddCommand(pipecmd.NewPhotosCmd())
	cmd.AddCommand(pipecmd.NewExportCmd())

	return cmd
}
