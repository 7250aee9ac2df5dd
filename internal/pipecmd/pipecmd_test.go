package pipecmd

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/sablewood-photography/curator/internal/config"
	"github.com/sablewood-photography/curator/internal/gallery"
	"github.com/sablewood-photography/curator/internal/importer"
	"github.com/sablewood-photography/curator/internal/pipeline"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
}

func TestCollectPhotos(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "202401", "b.jpg"))
	touch(t, filepath.Join(dir, "202401", "a.jpg"))
	touch(t, filepath.Join(dir, "202402", "c.png"))
	touch(t, filepath.Join(dir, "202402", "notes.txt"))

	all, err := collectPhotos(dir, "")
	if err != nil {
		t.Fatalf("collectPhotos failed: %v", err)
	}
	want := []string{"202401/a.jpg", "202401/b.jpg", "202402/c.png"}
	if !reflect.DeepEqual(all, want) {
		t.Errorf("Expected %v, got %v", want, all)
	}

	month, err := collectPhotos(dir, "202402")
	if err != nil {
		t.Fatalf("collectPhotos with folder failed: %v", err)
	}
	if !reflect.DeepEqual(month, []string{"202402/c.png"}) {
		t.Errorf("Expected only 202402 photos, got %v", month)
	}
}

func TestExecuteProcessWritesManifest(t *testing.T) {
	dir := t.TempDir()
	export := filepath.Join(dir, "export")
	touch(t, filepath.Join(export, "media", "posts", "a.jpg"))
	touch(t, filepath.Join(export, "media", "posts", "b.jpg"))

	cfg := config.Config{
		ContentDir: filepath.Join(dir, "content"),
		PendingDir: filepath.Join(dir, "content", "pending"),
	}
	if err := os.MkdirAll(cfg.ContentDir, 0755); err != nil {
		t.Fatalf("Failed to create content dir: %v", err)
	}

	if err := executeProcess(cfg, export, ""); err != nil {
		t.Fatalf("executeProcess failed: %v", err)
	}

	var pending []importer.PendingPhoto
	if err := pipeline.ReadStage(pipeline.StagePath(cfg.ContentDir, pipeline.PendingFile), &pending); err != nil {
		t.Fatalf("Expected pending manifest: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("Expected 2 staged photos, got %d", len(pending))
	}
	for _, p := range pending {
		if _, err := os.Stat(p.DestPath); err != nil {
			t.Errorf("Expected staged copy at %s: %v", p.DestPath, err)
		}
	}
}

func TestWriteJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photos.jsonl")
	records := []exportRecord{
		{ID: "bird-001", Title: "Heron at Dawn", Category: "birds"},
		{ID: "landscape-001", Title: "Misty Peaks", Category: "landscapes", Filters: "mountains"},
	}

	if err := writeJSONL(path, records); err != nil {
		t.Fatalf("writeJSONL failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open export: %v", err)
	}
	defer f.Close()

	var lines []exportRecord
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var r exportRecord
		if err := json.Unmarshal(scanner.Bytes(), &r); err != nil {
			t.Fatalf("Invalid JSONL line: %v", err)
		}
		lines = append(lines, r)
	}
	if len(lines) != 2 || lines[0].ID != "bird-001" || lines[1].Filters != "mountains" {
		t.Errorf("Unexpected export contents: %+v", lines)
	}
}

func TestExecutePhotosSetPrint(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Config{
		StorePath:       filepath.Join(dir, "photos.yaml"),
		SearchIndexPath: filepath.Join(dir, "search-index.json"),
	}

	store, err := gallery.LoadStore(cfg.StorePath)
	if err != nil {
		t.Fatalf("LoadStore failed: %v", err)
	}
	store.Append(gallery.Photo{
		ID:                "bird-001",
		Filename:          "a.jpg",
		Slug:              "heron",
		Category:          gallery.CategoryBirds,
		Title:             "Heron",
		AvailableForPrint: true,
	})
	if err := store.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := executePhotosSetPrint(cfg, "bird-001", "false"); err != nil {
		t.Fatalf("executePhotosSetPrint failed: %v", err)
	}

	reloaded, err := gallery.LoadStore(cfg.StorePath)
	if err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if reloaded.Photos[0].AvailableForPrint {
		t.Error("Expected available_for_print to be false after set-print")
	}

	if err := executePhotosSetPrint(cfg, "bird-999", "true"); err == nil {
		t.Error("Expected error for unknown id")
	}
	if err := executePhotosSetPrint(cfg, "bird-001", "maybe"); err == nil {
		t.Error("Expected error for non-boolean value")
	}
}

func TestTrimCell(t *testing.T) {
	if got := trimCell("short", 10); got != "short" {
		t.Errorf("Expected unchanged, got %q", got)
	}
	if got := trimCell("a very long title indeed", 10); len([]rune(got)) > 10 {
		t.Errorf("Expected trimmed cell, got %q", got)
	}
}
