package translate

import (
	"context"

	"github.com/subtitle-flow/backend/internal/subtitle"
)

// TranslatedCue is one backend result, correlated to its source cue by id.
type TranslatedCue struct {
	ID             string `json:"id"`
	TranslatedText string `json:"translated_text"`
}

// Translator is the boundary to the external translation backend. The
// backend owns model selection and per-call size limits; the orchestrator
// never retries a failed call.
type Translator interface {
	// TranslateBatch translates one batch of cues and returns one result per
	// input cue id. Results may be a subset on a lenient backend; the
	// orchestrator's merge falls back to original text for missing ids.
	TranslateBatch(ctx context.Context, cues []subtitle.Cue, sourceLanguage, targetLanguage string) ([]TranslatedCue, error)
	// Name returns the backend name, used in logs and metrics labels.
	Name() string
}
