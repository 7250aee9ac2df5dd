package importer

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// supportedExts are the image types the pipeline accepts from an export.
var supportedExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".heic": true,
}

// SupportedImage reports whether the filename has a supported image
// extension.
func SupportedImage(name string) bool {
	return supportedExts[strings.ToLower(filepath.Ext(name))]
}

// PendingPhoto is one staged import awaiting classification and merge. The
// record is created here and deleted by the merge step.
type PendingPhoto struct {
	Filename    string `json:"filename"`
	SourcePath  string `json:"source_path"`
	DestPath    string `json:"dest_path"`
	Caption     string `json:"instagram_caption,omitempty"`
	DateTaken   string `json:"date_taken,omitempty"`
	Location    string `json:"location,omitempty"`
	ProcessedAt string `json:"processed_at"`
}

// BuildManifest walks an Instagram export (directory or .zip), matches media
// files to export metadata, copies them into the pending area, and returns
// one record per newly staged file. A file whose pending destination already
// exists is skipped entirely: not re-copied and not re-added. This is the
// at-most-once-per-filename guarantee for repeated imports.
func BuildManifest(exportPath, metadataPath, pendingDir string) ([]PendingPhoto, error) {
	if err := os.MkdirAll(pendingDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create pending directory: %w", err)
	}

	if strings.EqualFold(filepath.Ext(exportPath), ".zip") {
		return buildFromZip(exportPath, metadataPath, pendingDir)
	}
	return buildFromDir(exportPath, metadataPath, pendingDir)
}

func buildFromDir(exportDir, metadataPath, pendingDir string) ([]PendingPhoto, error) {
	if metadataPath == "" {
		metadataPath = findMetadataFile(exportDir)
	}
	index := LoadMetadata(metadataPath)

	var manifest []PendingPhoto
	err := filepath.WalkDir(exportDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !SupportedImage(d.Name()) {
			return nil
		}

		record, staged, err := stageFile(path, d.Name(), index, pendingDir)
		if err != nil {
			return err
		}
		if staged {
			manifest = append(manifest, record)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk export directory: %w", err)
	}

	slog.Info("Built import manifest", "export", exportDir, "staged", len(manifest))
	return manifest, nil
}

func buildFromZip(zipPath, metadataPath, pendingDir string) ([]PendingPhoto, error) {
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open export zip: %w", err)
	}
	defer zr.Close()

	index := MetadataIndex{}
	if metadataPath != "" {
		index = LoadMetadata(metadataPath)
	} else if meta := findZipMetadata(&zr.Reader); meta != nil {
		index = meta
	}

	var manifest []PendingPhoto
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !SupportedImage(f.Name) {
			continue
		}

		name := filepath.Base(f.Name)
		destPath := filepath.Join(pendingDir, name)
		if fileExists(destPath) {
			slog.Debug("Skipping already-staged file", "filename", name)
			continue
		}

		if err := extractZipFile(f, destPath); err != nil {
			return nil, fmt.Errorf("failed to extract %s: %w", f.Name, err)
		}

		manifest = append(manifest, newPendingPhoto(name, zipPath+"!"+f.Name, destPath, index))
	}

	slog.Info("Built import manifest", "export", zipPath, "staged", len(manifest))
	return manifest, nil
}

// stageFile copies one media file into the pending area unless it is already
// there.
func stageFile(srcPath, name string, index MetadataIndex, pendingDir string) (PendingPhoto, bool, error) {
	destPath := filepath.Join(pendingDir, name)
	if fileExists(destPath) {
		slog.Debug("Skipping already-staged file", "filename", name)
		return PendingPhoto{}, false, nil
	}

	if err := copyFile(srcPath, destPath); err != nil {
		return PendingPhoto{}, false, fmt.Errorf("failed to stage %s: %w", name, err)
	}

	return newPendingPhoto(name, srcPath, destPath, index), true, nil
}

func newPendingPhoto(name, srcPath, destPath string, index MetadataIndex) PendingPhoto {
	meta := index[name]

	record := PendingPhoto{
		Filename:    name,
		SourcePath:  srcPath,
		DestPath:    destPath,
		Caption:     meta.Caption,
		DateTaken:   NormalizeTimestamp(meta.Timestamp),
		Location:    meta.Location,
		ProcessedAt: time.Now().UTC().Format(time.RFC3339),
	}

	// No export timestamp; fall back to the EXIF capture date.
	if record.DateTaken == "" {
		if date, ok := ExifDate(destPath); ok {
			record.DateTaken = date
		}
	}

	return record
}

// findMetadataFile probes the well-known posts JSON locations inside an
// unpacked export.
func findMetadataFile(exportDir string) string {
	candidates := []string{
		filepath.Join(exportDir, "content", "posts_1.json"),
		filepath.Join(exportDir, "posts_1.json"),
		filepath.Join(exportDir, "posts.json"),
	}
	for _, c := range candidates {
		if fileExists(c) {
			return c
		}
	}
	return filepath.Join(exportDir, "content", "posts_1.json")
}

func findZipMetadata(zr *zip.Reader) MetadataIndex {
	for _, f := range zr.File {
		base := filepath.Base(f.Name)
		if base != "posts_1.json" && base != "posts.json" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			continue
		}
		posts, err := parsePosts(data)
		if err != nil {
			slog.Warn("Failed to parse export metadata in zip, continuing without captions", "entry", f.Name, "error", err)
			return nil
		}
		return buildIndex(posts)
	}
	return nil
}

func extractZipFile(f *zip.File, destPath string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, rc)
	return err
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
