package translate_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/subtitle-flow/backend/internal/subtitle"
	"github.com/subtitle-flow/backend/internal/translate"
)

type fakeTranslator struct {
	calls   int
	failOn  int // 1-based call number to fail on; 0 never fails
	skipIDs map[string]bool
	prefix  string
}

func (f *fakeTranslator) Name() string { return "fake" }

func (f *fakeTranslator) TranslateBatch(ctx context.Context, cues []subtitle.Cue, source, target string) ([]translate.TranslatedCue, error) {
	f.calls++
	if f.failOn != 0 && f.calls == f.failOn {
		return nil, errors.New("backend blew up")
	}

	var results []translate.TranslatedCue
	for _, cue := range cues {
		if f.skipIDs[cue.ID] {
			continue
		}
		results = append(results, translate.TranslatedCue{
			ID:             cue.ID,
			TranslatedText: f.prefix + cue.Text,
		})
	}
	return results, nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func makeCues(n int) []subtitle.Cue {
	cues := make([]subtitle.Cue, n)
	for i := range cues {
		cues[i] = subtitle.Cue{
			ID:        fmt.Sprintf("%d", i+1),
			StartTime: float64(i),
			EndTime:   float64(i) + 0.5,
			Text:      fmt.Sprintf("line %d", i+1),
		}
	}
	return cues
}

func TestTranslateMergesByID(t *testing.T) {
	fake := &fakeTranslator{prefix: "X "}
	o := translate.NewOrchestrator(fake, quietLogger())

	cues := makeCues(60)
	merged, err := o.Translate(context.Background(), cues, "English", "Spanish", 25, nil)
	if err != nil {
		t.Fatalf("Translate returned error: %v", err)
	}

	if fake.calls != 3 {
		t.Fatalf("backend called %d times, want 3 (client-side batching)", fake.calls)
	}
	if len(merged) != 60 {
		t.Fatalf("merged %d cues, want 60", len(merged))
	}
	for i, cue := range merged {
		if cue.TranslatedText != "X "+cues[i].Text {
			t.Fatalf("cue %d translated text = %q", i, cue.TranslatedText)
		}
		if cue.ID != cues[i].ID || cue.StartTime != cues[i].StartTime || cue.EndTime != cues[i].EndTime {
			t.Fatalf("cue %d identity/timing changed: %+v", i, cue)
		}
	}
}

func TestTranslateFallsBackForMissingIDs(t *testing.T) {
	fake := &fakeTranslator{prefix: "X ", skipIDs: map[string]bool{"2": true, "5": true}}
	o := translate.NewOrchestrator(fake, quietLogger())

	cues := makeCues(6)
	merged, err := o.Translate(context.Background(), cues, "English", "Spanish", 3, nil)
	if err != nil {
		t.Fatalf("Translate returned error: %v", err)
	}

	for i, cue := range merged {
		if cue.ID == "2" || cue.ID == "5" {
			if cue.TranslatedText != "" {
				t.Fatalf("cue %s should fall back to original text, got %q", cue.ID, cue.TranslatedText)
			}
			if cue.Text != cues[i].Text {
				t.Fatalf("cue %s original text changed", cue.ID)
			}
		} else if cue.TranslatedText == "" {
			t.Fatalf("cue %s missing translation", cue.ID)
		}
	}
}

func TestTranslateFailsAtomically(t *testing.T) {
	fake := &fakeTranslator{prefix: "X ", failOn: 2}
	o := translate.NewOrchestrator(fake, quietLogger())

	merged, err := o.Translate(context.Background(), makeCues(60), "English", "Spanish", 25, nil)
	if err == nil {
		t.Fatal("expected a terminal error")
	}
	if merged != nil {
		t.Fatal("no partial cue set may be returned from a failed run")
	}

	terr := translate.AsError(err)
	if terr.Code != translate.CodeTranslationError {
		t.Fatalf("code = %q, want %q", terr.Code, translate.CodeTranslationError)
	}
}

func TestTranslateProgressEvents(t *testing.T) {
	fake := &fakeTranslator{prefix: "X "}
	o := translate.NewOrchestrator(fake, quietLogger())

	var events []translate.Progress
	_, err := o.Translate(context.Background(), makeCues(60), "English", "Spanish", 25,
		func(p translate.Progress) { events = append(events, p) })
	if err != nil {
		t.Fatalf("Translate returned error: %v", err)
	}

	if len(events) < 2 {
		t.Fatalf("expected at least initial and final events, got %d", len(events))
	}

	first := events[0]
	if first.Translated != 0 || first.Total != 60 || first.CurrentBatch != 1 {
		t.Fatalf("unexpected initial event: %+v", first)
	}

	last := events[len(events)-1]
	if last.Translated != 60 || last.Total != 60 || last.CurrentBatch != 3 || last.TotalBatches != 3 {
		t.Fatalf("unexpected final event: %+v", last)
	}

	for i := 1; i < len(events); i++ {
		if events[i].Translated < events[i-1].Translated {
			t.Fatalf("progress went backwards: %+v then %+v", events[i-1], events[i])
		}
	}
}

func TestTranslateDuplicateIDsFirstWins(t *testing.T) {
	fake := &fakeTranslator{prefix: "X "}
	o := translate.NewOrchestrator(fake, quietLogger())

	cues := []subtitle.Cue{
		{ID: "dup", StartTime: 0, EndTime: 1, Text: "first"},
		{ID: "dup", StartTime: 2, EndTime: 3, Text: "second"},
	}
	merged, err := o.Translate(context.Background(), cues, "English", "Spanish", 25, nil)
	if err != nil {
		t.Fatalf("Translate returned error: %v", err)
	}

	// Both cues share the first occurrence's translation.
	if merged[0].TranslatedText != "X first" || merged[1].TranslatedText != "X first" {
		t.Fatalf("duplicate id merge not first-wins: %q, %q", merged[0].TranslatedText, merged[1].TranslatedText)
	}
}

func TestAsError(t *testing.T) {
	if translate.AsError(nil) != nil {
		t.Fatal("AsError(nil) should be nil")
	}

	wrapped := &translate.Error{Code: translate.CodeBackendError, Message: "boom"}
	if got := translate.AsError(wrapped); got != wrapped {
		t.Fatal("AsError should pass through taxonomy errors")
	}

	generic := translate.AsError(errors.New("odd"))
	if generic.Code != translate.CodeTranslationError || generic.Message != "odd" {
		t.Fatalf("unexpected normalization: %+v", generic)
	}
}
