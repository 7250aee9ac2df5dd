package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CURATOR_PROVIDER", "")
	t.Setenv("OLLAMA_MODEL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Provider != "ollama" {
		t.Errorf("Expected default provider ollama, got %s", cfg.Provider)
	}
	if cfg.Model != "qwen2.5vl:7b" {
		t.Errorf("Expected default ollama model, got %s", cfg.Model)
	}
	if cfg.StorePath != "content/photos.yaml" {
		t.Errorf("Unexpected store path %s", cfg.StorePath)
	}
}

func TestLoadMissingCredentialIsFatal(t *testing.T) {
	t.Setenv("CURATOR_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Error("Expected error for missing OPENAI_API_KEY, got nil")
	}
}

func TestLoadUnsupportedProvider(t *testing.T) {
	t.Setenv("CURATOR_PROVIDER", "anthropic-magic")

	if _, err := Load(); err == nil {
		t.Error("Expected error for unsupported provider, got nil")
	}
}

func TestModelOverride(t *testing.T) {
	t.Setenv("CURATOR_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("GEMINI_MODEL", "gemini-1.5-pro")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Model != "gemini-1.5-pro" {
		t.Errorf("Expected gemini-1.5-pro, got %s", cfg.Model)
	}
}
