// Package images wraps the local image operations the merge step needs:
// probing dimensions for the store record and writing the gallery thumbnail.
package images

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// thumbWidth is the masonry grid's display width; height follows the aspect
// ratio.
const thumbWidth = 640

// Dimensions returns the pixel width and height of the image at path.
func Dimensions(path string) (int, int, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to open image: %w", err)
	}
	bounds := img.Bounds()
	return bounds.Dx(), bounds.Dy(), nil
}

// WriteThumbnail renders a fixed-width thumbnail of src at dst, creating the
// destination directory as needed.
func WriteThumbnail(src, dst string) error {
	img, err := imaging.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create thumbnail directory: %w", err)
	}

	thumb := imaging.Resize(img, thumbWidth, 0, imaging.Lanczos)
	if err := imaging.Save(thumb, dst); err != nil {
		return fmt.Errorf("failed to save thumbnail: %w", err)
	}

	return nil
}
