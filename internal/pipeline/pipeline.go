// Package pipeline is the shared classify+caption+merge routine behind both
// the four-stage commands and the single-pass batch mode. The stages differ
// only in resume granularity: per-file intermediate JSON versus the in-memory
// batch loop with the progress tracker.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/sablewood-photography/curator/internal/caption"
	"github.com/sablewood-photography/curator/internal/classify"
	"github.com/sablewood-photography/curator/internal/config"
	"github.com/sablewood-photography/curator/internal/gallery"
	"github.com/sablewood-photography/curator/internal/gemini"
	"github.com/sablewood-photography/curator/internal/importer"
	"github.com/sablewood-photography/curator/internal/merge"
	"github.com/sablewood-photography/curator/internal/ollama"
	"github.com/sablewood-photography/curator/internal/openai"
	"github.com/sablewood-photography/curator/internal/progress"
	"github.com/sablewood-photography/curator/internal/providers"
)

// NewProvider resolves a provider name to its implementation.
func NewProvider(name string) (providers.Provider, error) {
	switch name {
	case "ollama":
		return ollama.New(), nil
	case "openai":
		return openai.New(), nil
	case "gemini":
		return gemini.New(), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", name)
	}
}

// Runner holds the pieces one photo flows through. Combined selects the
// single classify+caption model call the batch mode uses; the staged
// commands make two calls through the same Classifier and Captioner.
type Runner struct {
	Provider   providers.Provider
	Model      string
	Classifier *classify.Classifier
	Captioner  *caption.Generator
	Merger     *merge.Merger
	Tracker    *progress.Tracker
	Combined   bool
	Delay      time.Duration
}

// NewRunner wires a runner from the loaded configuration.
func NewRunner(cfg config.Config, merger *merge.Merger, tracker *progress.Tracker) (*Runner, error) {
	provider, err := NewProvider(cfg.Provider)
	if err != nil {
		return nil, err
	}

	return &Runner{
		Provider:   provider,
		Model:      cfg.Model,
		Classifier: classify.New(provider, cfg.Model, cfg.Temperature),
		Captioner:  caption.New(provider, cfg.Model, cfg.Temperature),
		Merger:     merger,
		Tracker:    tracker,
		Delay:      cfg.RequestDelay,
	}, nil
}

// Annotate produces the classification and caption for one image, combined
// or staged depending on the runner. Usage covers every call made.
func (r *Runner) Annotate(ctx context.Context, imagePath, originalCaption string) (classify.Outcome, caption.Outcome, providers.Usage) {
	if r.Combined {
		return r.annotateCombined(ctx, imagePath, originalCaption)
	}

	clsOutcome, usage := r.Classifier.Classify(ctx, imagePath)
	r.pause()

	capOutcome, capUsage := r.Captioner.Generate(ctx, imagePath, clsOutcome.Classification, originalCaption)
	usage.Add(capUsage)

	return clsOutcome, capOutcome, usage
}

// ProcessOne runs one photo end to end and durably records the outcome
// before returning. rel is the progress-tracking key.
func (r *Runner) ProcessOne(ctx context.Context, rel string, pending importer.PendingPhoto) (gallery.Photo, bool, error) {
	clsOutcome, capOutcome, usage := r.Annotate(ctx, pending.DestPath, pending.Caption)

	r.Tracker.AddUsage(r.Model, usage)
	if clsOutcome.Fallback {
		r.Tracker.RecordError(rel, "classification fallback: "+clsOutcome.Reason)
	}
	if capOutcome.Fallback {
		r.Tracker.RecordError(rel, "caption fallback: "+capOutcome.Reason)
	}

	in := merge.Input{
		Filename:         pending.Filename,
		SourcePath:       pending.DestPath,
		Classification:   clsOutcome.Classification,
		Title:            capOutcome.Result.Title,
		Description:      capOutcome.Result.Description,
		InstagramCaption: pending.Caption,
		DateTaken:        pending.DateTaken,
	}
	if in.Description == "" {
		in.Description = caption.FallbackDescription(in.Classification.Category)
	}

	photo, accepted, err := r.Merger.Merge(ctx, in)
	if err != nil {
		r.Tracker.MarkFailure(rel, err.Error())
		if saveErr := r.Tracker.Save(); saveErr != nil {
			return gallery.Photo{}, false, saveErr
		}
		return gallery.Photo{}, false, err
	}

	r.Tracker.MarkSuccess(rel)
	if err := r.Tracker.Save(); err != nil {
		return gallery.Photo{}, false, err
	}

	return photo, accepted, nil
}

func (r *Runner) annotateCombined(ctx context.Context, imagePath, originalCaption string) (classify.Outcome, caption.Outcome, providers.Usage) {
	result, err := r.Provider.Generate(ctx, providers.Config{
		Model:       r.Model,
		Temperature: 0.2,
		Prompt:      buildCombinedPrompt(originalCaption),
		ImagePath:   imagePath,
		MaxTokens:   500,
	})
	if err != nil {
		clsOutcome := classify.ParseResponse("") // deterministic fallback
		clsOutcome.Reason = fmt.Sprintf("request failed: %v", err)
		capOutcome := caption.Outcome{
			Result: caption.Result{
				Title:       caption.FallbackTitle("", imagePath),
				Description: caption.FallbackDescription(clsOutcome.Classification.Category),
			},
			Fallback: true,
			Reason:   clsOutcome.Reason,
		}
		return clsOutcome, capOutcome, providers.Usage{}
	}

	return parseCombined(result.Text, imagePath, result.Usage)
}

// parseCombined splits one JSON answer into the classification and caption
// outcomes, falling back independently per half.
func parseCombined(text, imagePath string, usage providers.Usage) (classify.Outcome, caption.Outcome, providers.Usage) {
	clsOutcome := classify.ParseResponse(text)

	var capOutcome caption.Outcome
	raw, ok := providers.ExtractJSONObject(text)
	if ok {
		capOutcome = caption.ParseResult(raw, imagePath, clsOutcome.Classification)
	} else {
		capOutcome = caption.Outcome{
			Result: caption.Result{
				Title:       caption.FallbackTitle(clsOutcome.Classification.Species, imagePath),
				Description: caption.FallbackDescription(clsOutcome.Classification.Category),
			},
			Fallback: true,
			Reason:   "no JSON object in model response",
		}
	}

	return clsOutcome, capOutcome, usage
}

func (r *Runner) pause() {
	if r.Delay > 0 {
		time.Sleep(r.Delay)
	}
}

// Pause waits the fixed inter-photo delay. Exposed so the batch loop can
// throttle between photos the same way the staged loops do.
func (r *Runner) Pause() {
	r.pause()
}

// RelKey normalizes a photo path into the progress key: the path relative to
// the photos root, folder prefix included.
func RelKey(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.Base(path)
	}
	return filepath.ToSlash(rel)
}

func buildCombinedPrompt(originalCaption string) string {
	base := `You are an expert wildlife and nature photography curator organizing a portfolio gallery.

Classify the attached photograph AND write its gallery copy in a single answer.

CATEGORIES (choose exactly one):
- "birds": any photograph where a bird is the primary subject
- "wildlife": mammals, reptiles, amphibians, or other non-bird animals as the primary subject
- "landscapes": wide scenic views where the land, water, or sky is the subject
- "flora-macro": plants, flowers, fungi, insects, or close-up macro photography

FIELDS:
- "filter": ONLY when category is "landscapes", optionally one of "mountains", "waterfalls", "cityscapes". Omit otherwise.
- "species": common name if identifiable with confidence, otherwise omit.
- "location": the place shown if recognizable with confidence, otherwise omit.
- "title": a short evocative title (2-6 words).
- "description": one to three sentences covering subject, light, and mood.`

	if caption.HasSubstantialCaption(originalCaption) {
		base += fmt.Sprintf(`

The photographer's original caption was:

%s

Derive the title and description by cleaning and condensing this caption (remove hashtags, mentions, and emoji; preserve the meaning). Do not invent content.`, originalCaption)
	}

	return base + `

OUTPUT FORMAT:
Respond with ONLY a JSON object:

{
  "category": "birds",
  "filter": null,
  "species": "Great Blue Heron",
  "location": null,
  "title": "Heron at Dawn",
  "description": "..."
}`
}
