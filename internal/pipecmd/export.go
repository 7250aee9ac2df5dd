package pipecmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/parquet-go/parquet-go"
	"github.com/sablewood-photography/curator/internal/config"
	"github.com/sablewood-photography/curator/internal/gallery"
	"github.com/spf13/cobra"
)

// exportRecord is the flat row schema for catalog exports. Filters collapse
// to a comma-joined string so the row stays scalar.
type exportRecord struct {
	ID                string `json:"id" parquet:"id"`
	Filename          string `json:"filename" parquet:"filename"`
	Slug              string `json:"slug" parquet:"slug"`
	Category          string `json:"category" parquet:"category"`
	Filters           string `json:"filters,omitempty" parquet:"filters"`
	Species           string `json:"species,omitempty" parquet:"species"`
	Location          string `json:"location,omitempty" parquet:"location"`
	Title             string `json:"title" parquet:"title"`
	Description       string `json:"description,omitempty" parquet:"description"`
	DateTaken         string `json:"date_taken,omitempty" parquet:"date_taken"`
	AvailableForPrint bool   `json:"available_for_print" parquet:"available_for_print"`
	CloudinaryID      string `json:"cloudinary_id,omitempty" parquet:"cloudinary_id"`
	Width             int32  `json:"width,omitempty" parquet:"width"`
	Height            int32  `json:"height,omitempty" parquet:"height"`
}

// NewExportCmd creates the export command: dump the photo store as a flat
// dataset for analysis outside the site.
func NewExportCmd() *cobra.Command {
	var format string
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the photo store as a jsonl or parquet dataset",
		Example: `  curator export --format jsonl --output photos.jsonl
  curator export --format parquet --output photos.parquet`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return executeExport(cfg, format, output)
		},
	}

	cmd.Flags().StringVar(&format, "format", "jsonl", "Output format: jsonl or parquet")
	cmd.Flags().StringVar(&output, "output", "", "Output file (default: photos.<format>)")

	return cmd
}

func executeExport(cfg config.Config, format, output string) error {
	store, err := gallery.LoadStore(cfg.StorePath)
	if err != nil {
		return err
	}

	records := make([]exportRecord, 0, len(store.Photos))
	for _, p := range store.Photos {
		records = append(records, exportRecord{
			ID:                p.ID,
			Filename:          p.Filename,
			Slug:              p.Slug,
			Category:          string(p.Category),
			Filters:           strings.Join(p.Filters, ","),
			Species:           p.Species,
			Location:          p.Location,
			Title:             p.Title,
			Description:       p.Description,
			DateTaken:         p.DateTaken,
			AvailableForPrint: p.AvailableForPrint,
			CloudinaryID:      p.CloudinaryID,
			Width:             int32(p.Width),
			Height:            int32(p.Height),
		})
	}

	if output == "" {
		output = "photos." + format
	}

	switch format {
	case "jsonl":
		err = writeJSONL(output, records)
	case "parquet":
		err = writeParquet(output, records)
	default:
		return fmt.Errorf("unsupported format: %s (supported: jsonl, parquet)", format)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Exported %d photos to %s\n", len(records), output)
	return nil
}

func writeJSONL(path string, records []exportRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to encode record %s: %w", r.ID, err)
		}
	}
	return nil
}

func writeParquet(path string, records []exportRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	writer := parquet.NewGenericWriter[exportRecord](f)
	if _, err := writer.Write(records); err != nil {
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}
