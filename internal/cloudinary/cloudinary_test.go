package cloudinary

import (
	"testing"
)

func TestSignatureIsDeterministicAndSorted(t *testing.T) {
	params := map[string]string{
		"timestamp": "1705190400",
		"folder":    "portfolio/birds",
		"public_id": "heron-at-dawn",
	}

	first := signature(params, "secret")
	second := signature(params, "secret")
	if first != second {
		t.Errorf("Expected deterministic signature, got %q and %q", first, second)
	}

	// SHA-1 of "folder=portfolio/birds&public_id=heron-at-dawn&timestamp=1705190400secret"
	if len(first) != 40 {
		t.Errorf("Expected 40-char hex SHA-1, got %d chars", len(first))
	}

	if first == signature(params, "other-secret") {
		t.Error("Expected secret to change the signature")
	}
}

func TestURL(t *testing.T) {
	tests := []struct {
		name      string
		transform string
		expected  string
	}{
		{
			name:      "plain",
			transform: "",
			expected:  "https://res.cloudinary.com/sablewood/image/upload/portfolio/birds/heron-at-dawn",
		},
		{
			name:      "with transform",
			transform: "w_640,q_auto,f_auto",
			expected:  "https://res.cloudinary.com/sablewood/image/upload/w_640,q_auto,f_auto/portfolio/birds/heron-at-dawn",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := URL("sablewood", "portfolio/birds/heron-at-dawn", tt.transform)
			if result != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestNewFromEnvUnconfigured(t *testing.T) {
	t.Setenv("CLOUDINARY_CLOUD_NAME", "")
	t.Setenv("CLOUDINARY_API_KEY", "")
	t.Setenv("CLOUDINARY_API_SECRET", "")

	if _, ok := NewFromEnv(); ok {
		t.Error("Expected NewFromEnv to report unconfigured")
	}
}

func TestNewFromEnvConfigured(t *testing.T) {
	t.Setenv("CLOUDINARY_CLOUD_NAME", "sablewood")
	t.Setenv("CLOUDINARY_API_KEY", "key")
	t.Setenv("CLOUDINARY_API_SECRET", "secret")

	client, ok := NewFromEnv()
	if !ok {
		t.Fatal("Expected NewFromEnv to succeed")
	}
	if client.CloudName != "sablewood" {
		t.Errorf("Unexpected cloud name %q", client.CloudName)
	}
}
