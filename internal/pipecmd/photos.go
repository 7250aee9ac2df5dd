package pipecmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sablewood-photography/curator/internal/config"
	"github.com/sablewood-photography/curator/internal/gallery"
	"github.com/sablewood-photography/curator/internal/searchindex"
	"github.com/spf13/cobra"
)

// NewPhotosCmd creates the photos command group for inspecting and editing
// the store outside a pipeline run.
func NewPhotosCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "photos",
		Short: "Inspect and edit the photo store",
	}

	cmd.AddCommand(newPhotosListCmd())
	cmd.AddCommand(newPhotosSetPrintCmd())

	return cmd
}

func newPhotosListCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the photos in the store",
		Example: `  curator photos list
  curator photos list --category birds`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return executePhotosList(cfg, category)
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Only show one category (birds, wildlife, landscapes, flora-macro)")

	return cmd
}

func executePhotosList(cfg config.Config, category string) error {
	store, err := gallery.LoadStore(cfg.StorePath)
	if err != nil {
		return err
	}

	if category != "" && !gallery.Category(category).Valid() {
		return fmt.Errorf("unknown category: %s", category)
	}

	var rows [][]string
	for _, p := range store.Photos {
		if category != "" && string(p.Category) != category {
			continue
		}
		print := "no"
		if p.AvailableForPrint {
			print = "yes"
		}
		rows = append(rows, []string{
			p.ID,
			trimCell(p.Title, 32),
			string(p.Category),
			trimCell(p.Species, 24),
			p.DateTaken,
			print,
		})
	}

	if len(rows) == 0 {
		fmt.Println("No photos.")
		return nil
	}

	fmt.Println(renderTable([]string{"ID", "Title", "Category", "Species", "Date", "Print"}, rows, nil))
	fmt.Printf("%d photos\n", len(rows))
	return nil
}

func newPhotosSetPrintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-print <id> <true|false>",
		Short: "Set a photo's print availability",
		Example: `  curator photos set-print bird-001 false`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return executePhotosSetPrint(cfg, args[0], args[1])
		},
	}

	return cmd
}

func executePhotosSetPrint(cfg config.Config, id, value string) error {
	available, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("expected true or false, got %q", value)
	}

	store, err := gallery.LoadStore(cfg.StorePath)
	if err != nil {
		return err
	}

	photo := store.FindByID(id)
	if photo == nil {
		return fmt.Errorf("no photo with id %s", id)
	}

	photo.AvailableForPrint = available
	if err := store.Save(); err != nil {
		return err
	}
	if err := searchindex.Write(cfg.SearchIndexPath, store.Photos); err != nil {
		return err
	}

	fmt.Printf("%s: available_for_print = %t\n", id, available)
	return nil
}

// trimCell shortens long values so the table stays readable.
func trimCell(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return strings.TrimSpace(s[:max-1]) + "…"
}
