package translate

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/subtitle-flow/backend/internal/subtitle"
)

// Progress is one observable snapshot of an orchestration run.
type Progress struct {
	Translated   int `json:"translated"`
	Total        int `json:"total"`
	CurrentBatch int `json:"current_batch"`
	TotalBatches int `json:"total_batches"`
}

// ProgressFunc observes progress events. It is decoupled from the transport:
// the orchestrator publishes to it before any network activity, after every
// batch, and once more at completion.
type ProgressFunc func(Progress)

// Orchestrator drives batch-by-batch translation calls against a backend and
// merges results back by cue identity. Batching is enforced here, one backend
// call per planned batch, so progress is a true incremental signal. The
// orchestrator never retries: retry policy belongs to the backend.
type Orchestrator struct {
	translator Translator
	logger     *logrus.Logger
}

func NewOrchestrator(translator Translator, logger *logrus.Logger) *Orchestrator {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Orchestrator{translator: translator, logger: logger}
}

// Translate runs the full batch plan. A failed batch fails the whole
// invocation atomically: no partial cue set is ever merged. On success every
// cue either carries its translation or falls back to the original text
// (exposed as an absent TranslatedText).
func (o *Orchestrator) Translate(ctx context.Context, cues []subtitle.Cue, sourceLanguage, targetLanguage string, batchSize int, onProgress ProgressFunc) ([]subtitle.Cue, error) {
	if onProgress == nil {
		onProgress = func(Progress) {}
	}

	batches := subtitle.PlanBatches(cues, batchSize)
	total := len(cues)

	o.logger.WithFields(logrus.Fields{
		"backend": o.translator.Name(),
		"cues":    total,
		"batches": len(batches),
		"source":  sourceLanguage,
		"target":  targetLanguage,
	}).Info("starting subtitle translation")

	onProgress(Progress{Translated: 0, Total: total, CurrentBatch: 1, TotalBatches: len(batches)})

	// Duplicate cue ids resolve first-occurrence-wins, so the map is only
	// written for ids it does not already hold.
	translations := make(map[string]string, total)
	done := 0

	for _, batch := range batches {
		started := time.Now()
		results, err := o.translator.TranslateBatch(ctx, batch.Cues, sourceLanguage, targetLanguage)
		recordBatch(o.translator.Name(), time.Since(started), err)
		if err != nil {
			terr := AsError(err)
			o.logger.WithFields(logrus.Fields{
				"backend": o.translator.Name(),
				"batch":   batch.Index,
				"code":    terr.Code,
			}).WithError(err).Error("translation batch failed")
			recordRun(o.translator.Name(), terr)
			return nil, terr
		}

		for _, result := range results {
			if result.TranslatedText == "" {
				continue
			}
			if _, exists := translations[result.ID]; !exists {
				translations[result.ID] = result.TranslatedText
			}
		}

		done += len(batch.Cues)
		onProgress(Progress{
			Translated:   done,
			Total:        total,
			CurrentBatch: batch.Index,
			TotalBatches: batch.Total,
		})
	}

	merged := make([]subtitle.Cue, len(cues))
	fallback := 0
	for i, cue := range cues {
		merged[i] = cue
		if text, ok := translations[cue.ID]; ok {
			merged[i].TranslatedText = text
		} else {
			// Best-effort per cue: a missing result keeps the original text.
			merged[i].TranslatedText = ""
			fallback++
		}
	}

	recordMerge(o.translator.Name(), len(cues)-fallback, fallback)
	recordRun(o.translator.Name(), nil)

	if fallback > 0 {
		o.logger.WithFields(logrus.Fields{
			"backend":  o.translator.Name(),
			"fallback": fallback,
			"total":    total,
		}).Warn("some cues kept their original text")
	}

	onProgress(Progress{
		Translated:   total,
		Total:        total,
		CurrentBatch: len(batches),
		TotalBatches: len(batches),
	})

	o.logger.WithFields(logrus.Fields{
		"backend": o.translator.Name(),
		"cues":    total,
	}).Info("subtitle translation complete")

	return merged, nil
}
