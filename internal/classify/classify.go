package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sablewood-photography/curator/internal/gallery"
	"github.com/sablewood-photography/curator/internal/providers"
)

// Classification is the model's verdict for one photo.
type Classification struct {
	Category gallery.Category `json:"category"`
	Filter   string           `json:"filter,omitempty"`
	Species  string           `json:"species,omitempty"`
	Location string           `json:"location,omitempty"`
}

// Outcome makes the failure path explicit: every input yields exactly one
// outcome, either a parsed classification or the flora-macro fallback with
// the reason recorded. Nothing here ever halts a batch.
type Outcome struct {
	Classification Classification
	Fallback       bool
	Reason         string
}

// fallbackOutcome is the graceful default when the model's answer is missing
// or invalid.
func fallbackOutcome(reason string) Outcome {
	return Outcome{
		Classification: Classification{Category: gallery.CategoryFloraMacro},
		Fallback:       true,
		Reason:         reason,
	}
}

// Classifier asks a vision model which gallery bucket a photo belongs in.
type Classifier struct {
	provider    providers.Provider
	model       string
	temperature float64
}

// New returns a classifier bound to a provider and model.
func New(p providers.Provider, model string, temperature float64) *Classifier {
	return &Classifier{provider: p, model: model, temperature: temperature}
}

// Classify sends one image to the model. Transport errors and unparseable
// responses both produce the fallback outcome; usage is zero when the call
// never completed.
func (c *Classifier) Classify(ctx context.Context, imagePath string) (Outcome, providers.Usage) {
	result, err := c.provider.Generate(ctx, providers.Config{
		Model:       c.model,
		Temperature: c.temperature,
		Prompt:      buildClassificationPrompt(),
		ImagePath:   imagePath,
		MaxTokens:   300,
	})
	if err != nil {
		slog.Warn("Classification request failed, using fallback", "image", imagePath, "error", err)
		return fallbackOutcome(fmt.Sprintf("request failed: %v", err)), providers.Usage{}
	}

	outcome := ParseResponse(result.Text)
	if outcome.Fallback {
		slog.Warn("Classification response invalid, using fallback", "image", imagePath, "reason", outcome.Reason)
	}
	return outcome, result.Usage
}

// ParseResponse extracts the first balanced JSON object from the model's
// text and validates it against the fixed category and filter enumerations.
func ParseResponse(text string) Outcome {
	raw, ok := providers.ExtractJSONObject(text)
	if !ok {
		return fallbackOutcome("no JSON object in model response")
	}

	var parsed struct {
		Category string `json:"category"`
		Filter   string `json:"filter"`
		Species  string `json:"species"`
		Location string `json:"location"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return fallbackOutcome(fmt.Sprintf("invalid JSON: %v", err))
	}

	category := gallery.Category(strings.ToLower(strings.TrimSpace(parsed.Category)))
	if !category.Valid() {
		return fallbackOutcome(fmt.Sprintf("invalid category %q", parsed.Category))
	}

	cls := Classification{
		Category: category,
		Species:  strings.TrimSpace(parsed.Species),
		Location: strings.TrimSpace(parsed.Location),
	}

	// Filters only exist for landscapes; anything else is dropped rather
	// than failing the whole classification.
	filter := strings.ToLower(strings.TrimSpace(parsed.Filter))
	if filter != "" && gallery.ValidFilter(category, filter) {
		cls.Filter = filter
	}

	return Outcome{Classification: cls}
}

// buildClassificationPrompt asks for a strict single-object JSON answer so
// ParseResponse has something to latch onto even when the model pads the
// reply with prose.
func buildClassificationPrompt() string {
	return `You are an expert wildlife and nature photography curator organizing a portfolio gallery.

Your task is to classify the attached photograph into exactly one gallery category.

CATEGORIES:
- "birds": any photograph where a bird is the primary subject
- "wildlife": mammals, reptiles, amphibians, or other non-bird animals as the primary subject
- "landscapes": wide scenic views where the land, water, or sky is the subject
- "flora-macro": plants, flowers, fungi, insects, or close-up macro photography

ADDITIONAL FIELDS:
- "filter": ONLY when category is "landscapes", optionally one of "mountains", "waterfalls", "cityscapes". Omit otherwise.
- "species": the common name of the animal or plant if you can identify it with confidence, otherwise omit.
- "location": the place shown if it is recognizable with confidence, otherwise omit.

OUTPUT FORMAT:
Respond with ONLY a JSON object:

{
  "category": "birds",
  "filter": null,
  "species": "Great Blue Heron",
  "location": null
}

Do not invent a species or location you are not confident about. Respond with the JSON object and nothing else.`
}
