package importer

import (
	"os"
	"path/filepath"
	"testing"
)

func writeExport(t *testing.T, dir string, names ...string) {
	t.Helper()
	mediaDir := filepath.Join(dir, "media", "posts", "202401")
	if err := os.MkdirAll(mediaDir, 0755); err != nil {
		t.Fatalf("Failed to create export tree: %v", err)
	}
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(mediaDir, name), []byte("jpegdata"), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
}

func TestBuildManifest(t *testing.T) {
	exportDir := t.TempDir()
	pendingDir := filepath.Join(t.TempDir(), "pending")

	writeExport(t, exportDir, "a.jpg", "b.png", "notes.txt")

	metaPath := filepath.Join(exportDir, "content", "posts_1.json")
	if err := os.MkdirAll(filepath.Dir(metaPath), 0755); err != nil {
		t.Fatalf("Failed to create content dir: %v", err)
	}
	meta := `[{"title": "Heron at dawn #birds #nature", "creation_timestamp": 1705190400, "media": [{"uri": "media/posts/202401/a.jpg"}]}]`
	if err := os.WriteFile(metaPath, []byte(meta), 0644); err != nil {
		t.Fatalf("Failed to write metadata: %v", err)
	}

	manifest, err := BuildManifest(exportDir, "", pendingDir)
	if err != nil {
		t.Fatalf("BuildManifest failed: %v", err)
	}

	if len(manifest) != 2 {
		t.Fatalf("Expected 2 staged photos (txt skipped), got %d", len(manifest))
	}

	byName := map[string]PendingPhoto{}
	for _, p := range manifest {
		byName[p.Filename] = p
		if _, err := os.Stat(p.DestPath); err != nil {
			t.Errorf("Expected staged file at %s: %v", p.DestPath, err)
		}
	}

	a := byName["a.jpg"]
	if a.Caption != "Heron at dawn #birds #nature" {
		t.Errorf("Expected caption from metadata, got %q", a.Caption)
	}
	if a.DateTaken != "2024-01-14" {
		t.Errorf("Expected normalized date, got %q", a.DateTaken)
	}

	if b := byName["b.png"]; b.Caption != "" {
		t.Errorf("Expected empty caption for unmatched media, got %q", b.Caption)
	}
}

func TestBuildManifestIdempotent(t *testing.T) {
	exportDir := t.TempDir()
	pendingDir := filepath.Join(t.TempDir(), "pending")

	writeExport(t, exportDir, "a.jpg")

	first, err := BuildManifest(exportDir, "", pendingDir)
	if err != nil {
		t.Fatalf("BuildManifest failed: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("Expected 1 staged photo, got %d", len(first))
	}

	// Second pass over the same export: destination exists, nothing staged.
	second, err := BuildManifest(exportDir, "", pendingDir)
	if err != nil {
		t.Fatalf("BuildManifest failed on rerun: %v", err)
	}
	if len(second) != 0 {
		t.Errorf("Expected 0 staged photos on rerun, got %d", len(second))
	}
}

func TestBuildManifestMissingMetadataIsNonFatal(t *testing.T) {
	exportDir := t.TempDir()
	pendingDir := filepath.Join(t.TempDir(), "pending")

	writeExport(t, exportDir, "a.jpg")

	manifest, err := BuildManifest(exportDir, "", pendingDir)
	if err != nil {
		t.Fatalf("BuildManifest failed without metadata: %v", err)
	}
	if len(manifest) != 1 {
		t.Fatalf("Expected 1 staged photo, got %d", len(manifest))
	}
	if manifest[0].Caption != "" || manifest[0].Location != "" {
		t.Errorf("Expected empty metadata fields, got %+v", manifest[0])
	}
}

func TestSupportedImage(t *testing.T) {
	tests := []struct {
		name     string
		expected bool
	}{
		{"photo.jpg", true},
		{"photo.JPEG", true},
		{"photo.webp", true},
		{"photo.heic", true},
		{"clip.mp4", false},
		{"posts_1.json", false},
	}

	for _, tt := range tests {
		if got := SupportedImage(tt.name); got != tt.expected {
			t.Errorf("SupportedImage(%q) = %v, expected %v", tt.name, got, tt.expected)
		}
	}
}
