package caption

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/sablewood-photography/curator/internal/classify"
	"github.com/sablewood-photography/curator/internal/gallery"
	"github.com/sablewood-photography/curator/internal/providers"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// minCaptionLength is the threshold below which an original Instagram
// caption is treated as noise (a lone emoji, a bare hashtag) and ignored.
const minCaptionLength = 10

// Result is a generated title/description pair for one photo.
type Result struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Outcome mirrors the classifier's explicit failure path: a failed or
// unparseable call yields the deterministic fallback, never a batch abort.
type Outcome struct {
	Result   Result
	Fallback bool
	Reason   string
}

// Generator produces portfolio titles and descriptions from an image, its
// classification, and (when present) the original Instagram caption.
type Generator struct {
	provider    providers.Provider
	model       string
	temperature float64
}

// New returns a generator bound to a provider and model.
func New(p providers.Provider, model string, temperature float64) *Generator {
	return &Generator{provider: p, model: model, temperature: temperature}
}

// Generate asks the model for a title and description. When the original
// caption is substantial the model is told to clean and condense it rather
// than invent content.
func (g *Generator) Generate(ctx context.Context, imagePath string, cls classify.Classification, originalCaption string) (Outcome, providers.Usage) {
	result, err := g.provider.Generate(ctx, providers.Config{
		Model:       g.model,
		Temperature: g.temperature,
		Prompt:      buildCaptionPrompt(cls, originalCaption),
		ImagePath:   imagePath,
		MaxTokens:   400,
	})
	if err != nil {
		slog.Warn("Caption request failed, using fallback", "image", imagePath, "error", err)
		return fallbackOutcome(imagePath, cls, fmt.Sprintf("request failed: %v", err)), providers.Usage{}
	}

	outcome := parseResponse(result.Text, imagePath, cls)
	if outcome.Fallback {
		slog.Warn("Caption response invalid, using fallback", "image", imagePath, "reason", outcome.Reason)
	}
	return outcome, result.Usage
}

// ParseResult parses a model response carrying title/description fields,
// with the same fallback behavior as Generate. The batch mode's combined
// call reuses it on its single JSON answer.
func ParseResult(text, imagePath string, cls classify.Classification) Outcome {
	return parseResponse(text, imagePath, cls)
}

func parseResponse(text, imagePath string, cls classify.Classification) Outcome {
	raw, ok := providers.ExtractJSONObject(text)
	if !ok {
		return fallbackOutcome(imagePath, cls, "no JSON object in model response")
	}

	var parsed Result
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return fallbackOutcome(imagePath, cls, fmt.Sprintf("invalid JSON: %v", err))
	}

	parsed.Title = strings.TrimSpace(parsed.Title)
	parsed.Description = strings.TrimSpace(parsed.Description)
	if parsed.Title == "" {
		return fallbackOutcome(imagePath, cls, "model returned empty title")
	}
	if parsed.Description == "" {
		parsed.Description = FallbackDescription(cls.Category)
	}

	return Outcome{Result: parsed}
}

func fallbackOutcome(imagePath string, cls classify.Classification, reason string) Outcome {
	return Outcome{
		Result: Result{
			Title:       FallbackTitle(cls.Species, imagePath),
			Description: FallbackDescription(cls.Category),
		},
		Fallback: true,
		Reason:   reason,
	}
}

// FallbackTitle prefers the identified species; otherwise it title-cases the
// filename stem.
func FallbackTitle(species, imagePath string) string {
	if species != "" {
		return species
	}

	name := filepath.Base(imagePath)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.NewReplacer("-", " ", "_", " ", ".", " ").Replace(name)
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return "Untitled Photo"
	}
	return cases.Title(language.English).String(name)
}

// categorySentences are the generic per-category fallback descriptions.
var categorySentences = map[gallery.Category]string{
	gallery.CategoryBirds:      "A bird photographed in its natural habitat.",
	gallery.CategoryWildlife:   "Wildlife photographed in its natural habitat.",
	gallery.CategoryLandscapes: "A landscape captured in natural light.",
	gallery.CategoryFloraMacro: "A close-up study of natural detail.",
}

// FallbackDescription returns the generic sentence for a category.
func FallbackDescription(c gallery.Category) string {
	if s, ok := categorySentences[c]; ok {
		return s
	}
	return categorySentences[gallery.CategoryFloraMacro]
}

var (
	hashtagPattern  = regexp.MustCompile(`#\w+`)
	mentionPattern  = regexp.MustCompile(`@[\w.]+`)
	multiSpaceSplit = regexp.MustCompile(`\s+`)
)

// CleanCaption strips hashtags and mentions from an Instagram caption and
// collapses the leftover whitespace, preserving the prose.
func CleanCaption(caption string) string {
	cleaned := hashtagPattern.ReplaceAllString(caption, "")
	cleaned = mentionPattern.ReplaceAllString(cleaned, "")
	cleaned = multiSpaceSplit.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

// HasSubstantialCaption reports whether the cleaned caption is long enough
// to be worth preserving.
func HasSubstantialCaption(caption string) bool {
	return len(CleanCaption(caption)) >= minCaptionLength
}

func buildCaptionPrompt(cls classify.Classification, originalCaption string) string {
	context := fmt.Sprintf("The photo has been classified as category %q.", cls.Category)
	if cls.Filter != "" {
		context += fmt.Sprintf(" Sub-tag: %s.", cls.Filter)
	}
	if cls.Species != "" {
		context += fmt.Sprintf(" Identified species: %s.", cls.Species)
	}
	if cls.Location != "" {
		context += fmt.Sprintf(" Location: %s.", cls.Location)
	}

	if HasSubstantialCaption(originalCaption) {
		return fmt.Sprintf(`You are a photography curator writing gallery copy for a portfolio website.

%s

The photographer's original Instagram caption was:

%s

Your task is to clean and condense this caption, NOT to invent new content:
1. Remove all hashtags, mentions, and emoji.
2. Preserve the meaning, any story, and any factual details the photographer wrote.
3. Derive a short evocative title (2-6 words) from the caption and the image.
4. Write a description of one to three sentences based on the cleaned caption.

OUTPUT FORMAT:
Respond with ONLY a JSON object:

{
  "title": "...",
  "description": "..."
}`, context, originalCaption)
	}

	return fmt.Sprintf(`You are a photography curator writing gallery copy for a portfolio website.

%s

There is no usable original caption, so write from what you see in the image:
1. A short evocative title (2-6 words). No punctuation-heavy clickbait.
2. A description of one to three sentences covering the subject, light, and mood.

OUTPUT FORMAT:
Respond with ONLY a JSON object:

{
  "title": "...",
  "description": "..."
}`, context)
}
