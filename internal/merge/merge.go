package merge

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/sablewood-photography/curator/internal/classify"
	"github.com/sablewood-photography/curator/internal/cloudinary"
	"github.com/sablewood-photography/curator/internal/gallery"
	"github.com/sablewood-photography/curator/internal/images"
)

// Input is one classified and captioned photo ready to be persisted.
type Input struct {
	Filename         string
	SourcePath       string
	Classification   classify.Classification
	Title            string
	Description      string
	InstagramCaption string
	DateTaken        string
}

// Merger turns pipeline output into persisted photo records and applies the
// per-photo side effects: slug and ID allocation, the move into the category
// directory, the thumbnail, and the optional CDN upload. The store itself is
// written once by the caller at the end of the run.
type Merger struct {
	store     *gallery.Store
	imagesDir string
	thumbsDir string
	uploader  *cloudinary.Client // nil when the CDN is not configured

	slugs map[string]struct{} // persisted ∪ added this run
	added []gallery.Photo
}

// New builds a merger over the loaded store. uploader may be nil.
func New(store *gallery.Store, imagesDir, thumbsDir string, uploader *cloudinary.Client) *Merger {
	return &Merger{
		store:     store,
		imagesDir: imagesDir,
		thumbsDir: thumbsDir,
		uploader:  uploader,
		slugs:     store.SlugSet(),
	}
}

// Added returns the records accepted so far in this run.
func (m *Merger) Added() []gallery.Photo {
	return m.added
}

// Merge persists one photo. The second return is false when the photo's
// filename already exists in the store: the photo is skipped entirely, not
// re-added and not re-uploaded.
func (m *Merger) Merge(ctx context.Context, in Input) (gallery.Photo, bool, error) {
	if m.store.HasFilename(in.Filename) {
		slog.Info("Skipping duplicate photo", "filename", in.Filename)
		return gallery.Photo{}, false, nil
	}

	category := in.Classification.Category

	slug := gallery.UniqueSlug(gallery.Slugify(in.Title), m.slugs)

	// ID sequences scan both persisted and in-batch records so a large run
	// stays gapless and collision-free.
	seq := gallery.MaxSequence(m.store.Photos, category)
	if batchMax := gallery.MaxSequence(m.added, category); batchMax > seq {
		seq = batchMax
	}
	id := gallery.FormatID(category, seq+1)

	destDir := filepath.Join(m.imagesDir, string(category))
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return gallery.Photo{}, false, fmt.Errorf("failed to create category directory: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(in.Filename))
	destPath := filepath.Join(destDir, slug+ext)

	// A single rename, not copy+delete: the image never exists twice. If
	// the process dies between this rename and the store write, the moved
	// file is an orphan needing manual reconciliation.
	if err := os.Rename(in.SourcePath, destPath); err != nil {
		return gallery.Photo{}, false, fmt.Errorf("failed to move image into gallery: %w", err)
	}

	photo := gallery.Photo{
		ID:                id,
		Filename:          in.Filename,
		Slug:              slug,
		Category:          category,
		Species:           in.Classification.Species,
		Location:          in.Classification.Location,
		Title:             in.Title,
		Description:       in.Description,
		InstagramCaption:  in.InstagramCaption,
		DateTaken:         in.DateTaken,
		AvailableForPrint: true,
	}
	if in.Classification.Filter != "" {
		photo.Filters = []string{in.Classification.Filter}
	}

	if w, h, err := images.Dimensions(destPath); err != nil {
		slog.Warn("Failed to read image dimensions", "filename", in.Filename, "error", err)
	} else {
		photo.Width = w
		photo.Height = h
	}

	if m.thumbsDir != "" {
		thumbPath := filepath.Join(m.thumbsDir, string(category), slug+ext)
		if err := images.WriteThumbnail(destPath, thumbPath); err != nil {
			slog.Warn("Failed to write thumbnail", "filename", in.Filename, "error", err)
		}
	}

	// Upload only after the local move succeeded. Failure means no CDN id,
	// never a rejected record.
	if m.uploader != nil {
		folder := "portfolio/" + string(category)
		publicID, err := m.uploader.Upload(ctx, destPath, folder, slug)
		if err != nil {
			slog.Warn("CDN upload failed, keeping record without cloudinary_id", "filename", in.Filename, "error", err)
		} else {
			photo.CloudinaryID = publicID
		}
	}

	m.slugs[slug] = struct{}{}
	m.added = append(m.added, photo)
	m.store.Append(photo)

	slog.Info("Merged photo", "id", id, "slug", slug, "category", category)
	return photo, true, nil
}
