package providers

import (
	"context"
)

// Config represents one generation request to a vision-capable LLM provider.
type Config struct {
	Model       string
	Temperature float64
	Prompt      string
	// ImagePath, when set, attaches the image at that path to the request.
	ImagePath string
	MaxTokens int
}

// Usage is the token accounting reported by a provider. Local models that do
// not report usage leave both counts at zero.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Add accumulates another usage sample.
func (u *Usage) Add(other Usage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
}

// Result is the provider's text response plus its token usage.
type Result struct {
	Text  string
	Usage Usage
}

// Provider defines the interface for a vision-capable LLM provider.
type Provider interface {
	Generate(ctx context.Context, config Config) (Result, error)
}
