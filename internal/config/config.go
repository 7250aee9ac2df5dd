package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config is the environment-supplied configuration for a pipeline run. It is
// resolved once at process start; a missing required credential is fatal
// before any batch work begins.
type Config struct {
	// Provider is one of ollama, openai, gemini.
	Provider    string
	Model       string
	Temperature float64

	ContentDir      string
	StorePath       string
	PendingDir      string
	ImagesDir       string
	ThumbsDir       string
	PhotosDir       string
	ProgressPath    string
	SearchIndexPath string
	LockPath        string

	// RequestDelay is the fixed pause after each model call, to stay under
	// provider quotas.
	RequestDelay time.Duration
}

// Load resolves the runtime configuration from the environment and validates
// that the selected provider's credentials are present.
func Load() (Config, error) {
	cfg := Config{
		Provider:     envOr("CURATOR_PROVIDER", "ollama"),
		Temperature:  0.2,
		ContentDir:   envOr("CURATOR_CONTENT_DIR", "content"),
		ImagesDir:    envOr("CURATOR_IMAGES_DIR", filepath.Join("static", "images")),
		PhotosDir:    envOr("CURATOR_PHOTOS_DIR", "photos"),
		RequestDelay: 2 * time.Second,
	}

	cfg.Model = defaultModel(cfg.Provider)
	cfg.StorePath = filepath.Join(cfg.ContentDir, "photos.yaml")
	cfg.PendingDir = filepath.Join(cfg.ContentDir, "pending")
	cfg.ThumbsDir = filepath.Join(cfg.ImagesDir, "thumbs")
	cfg.ProgressPath = filepath.Join(cfg.ContentDir, "progress.json")
	cfg.SearchIndexPath = filepath.Join(cfg.ContentDir, "search-index.json")
	cfg.LockPath = filepath.Join(cfg.ContentDir, ".curator.lock")

	switch cfg.Provider {
	case "ollama":
		// Local inference, no credential required.
	case "openai":
		if os.Getenv("OPENAI_API_KEY") == "" {
			return cfg, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "gemini":
		if os.Getenv("GEMINI_API_KEY") == "" {
			return cfg, fmt.Errorf("GEMINI_API_KEY environment variable not set")
		}
	default:
		return cfg, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}

	return cfg, nil
}

// defaultModel resolves the model for a provider, honoring per-provider
// environment overrides the way the rest of the tooling does.
func defaultModel(provider string) string {
	switch provider {
	case "openai":
		return envOr("OPENAI_MODEL", "gpt-4o")
	case "gemini":
		return envOr("GEMINI_MODEL", "gemini-1.5-flash")
	default:
		return envOr("OLLAMA_MODEL", "qwen2.5vl:7b")
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
