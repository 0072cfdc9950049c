package session_test

import (
	"errors"
	"testing"

	"github.com/subtitle-flow/backend/internal/session"
	"github.com/subtitle-flow/backend/internal/subtitle"
	"github.com/subtitle-flow/backend/internal/translate"
)

func parsedFile() *subtitle.File {
	return subtitle.NewFile("movie.srt", subtitle.FormatSRT, []subtitle.Cue{
		{ID: "1", StartTime: 1, EndTime: 4, Text: "Hello"},
		{ID: "2", StartTime: 5, EndTime: 7, Text: "Goodbye"},
	}, 64)
}

func mustTransition(t *testing.T, s session.State, cmd session.Command) session.State {
	t.Helper()
	next, err := session.Transition(s, cmd)
	if err != nil {
		t.Fatalf("Transition(%T) refused: %v", cmd, err)
	}
	return next
}

func TestHappyPathTransitions(t *testing.T) {
	s := session.State{Status: session.StatusIdle}

	s = mustTransition(t, s, session.BeginParse{})
	if s.Status != session.StatusParsing {
		t.Fatalf("status = %s, want parsing", s.Status)
	}

	s = mustTransition(t, s, session.AttachFile{File: parsedFile()})
	if s.Status != session.StatusIdle || s.File == nil {
		t.Fatalf("after attach: status=%s file=%v", s.Status, s.File)
	}

	s = mustTransition(t, s, session.BeginTranslation{SourceLanguage: "English", TargetLanguage: "Spanish", BatchSize: 25})
	if s.Status != session.StatusTranslating {
		t.Fatalf("status = %s, want translating", s.Status)
	}
	if s.Progress.Total != 2 {
		t.Fatalf("progress total = %d, want 2", s.Progress.Total)
	}

	s = mustTransition(t, s, session.ReportProgress{Progress: translate.Progress{Translated: 1, Total: 2, CurrentBatch: 1, TotalBatches: 1}})
	if s.Progress.Translated != 1 {
		t.Fatalf("progress not applied: %+v", s.Progress)
	}

	merged := parsedFile().Cues
	merged[0].TranslatedText = "Hola"
	merged[1].TranslatedText = "Adiós"
	s = mustTransition(t, s, session.CompleteTranslation{Cues: merged})
	if s.Status != session.StatusCompleted {
		t.Fatalf("status = %s, want completed", s.Status)
	}
	if s.File.Cues[0].TranslatedText != "Hola" {
		t.Fatalf("merged cues not attached: %+v", s.File.Cues[0])
	}
}

func TestUploadRefusedWhileTranslating(t *testing.T) {
	s := session.State{Status: session.StatusTranslating, File: parsedFile()}

	if _, err := session.Transition(s, session.BeginParse{}); !errors.Is(err, session.ErrCommandRefused) {
		t.Fatalf("err = %v, want ErrCommandRefused", err)
	}
	if _, err := session.Transition(s, session.BeginTranslation{}); !errors.Is(err, session.ErrCommandRefused) {
		t.Fatalf("err = %v, want ErrCommandRefused", err)
	}
}

func TestTranslationRequiresFile(t *testing.T) {
	s := session.State{Status: session.StatusIdle}
	if _, err := session.Transition(s, session.BeginTranslation{}); !errors.Is(err, session.ErrCommandRefused) {
		t.Fatalf("err = %v, want ErrCommandRefused", err)
	}
}

func TestFailTranslationRetainsFileAndAllowsRetry(t *testing.T) {
	s := session.State{Status: session.StatusTranslating, File: parsedFile(),
		SourceLanguage: "English", TargetLanguage: "Spanish"}

	s = mustTransition(t, s, session.FailTranslation{Failure: session.Failure{
		Code: translate.CodeBackendError, Message: "backend down"}})
	if s.Status != session.StatusError {
		t.Fatalf("status = %s, want error", s.Status)
	}
	if s.File == nil || len(s.File.Cues) != 2 {
		t.Fatal("failure must retain the parsed file unchanged")
	}
	if s.Failure == nil || s.Failure.Code != translate.CodeBackendError {
		t.Fatalf("failure payload = %+v", s.Failure)
	}

	// Retry without re-uploading.
	s = mustTransition(t, s, session.BeginTranslation{SourceLanguage: "English", TargetLanguage: "Spanish"})
	if s.Status != session.StatusTranslating || s.Failure != nil {
		t.Fatalf("retry state: status=%s failure=%+v", s.Status, s.Failure)
	}
}

func TestEditCueOnlyWhenCompleted(t *testing.T) {
	s := session.State{Status: session.StatusIdle, File: parsedFile()}
	if _, err := session.Transition(s, session.EditCue{CueID: "1", TranslatedText: "Hola"}); !errors.Is(err, session.ErrCommandRefused) {
		t.Fatalf("err = %v, want ErrCommandRefused", err)
	}

	s.Status = session.StatusCompleted
	s = mustTransition(t, s, session.EditCue{CueID: "1", TranslatedText: "Hola"})
	if s.Status != session.StatusCompleted {
		t.Fatalf("edit changed status to %s", s.Status)
	}
	if s.File.Cues[0].TranslatedText != "Hola" {
		t.Fatalf("edit not applied: %+v", s.File.Cues[0])
	}

	if _, err := session.Transition(s, session.EditCue{CueID: "missing", TranslatedText: "x"}); !errors.Is(err, session.ErrCommandRefused) {
		t.Fatalf("err = %v, want ErrCommandRefused for unknown cue", err)
	}
}

func TestResetFromAnyState(t *testing.T) {
	for _, s := range []session.State{
		{Status: session.StatusIdle},
		{Status: session.StatusParsing},
		{Status: session.StatusTranslating, File: parsedFile()},
		{Status: session.StatusCompleted, File: parsedFile()},
		{Status: session.StatusError, Failure: &session.Failure{Code: "x"}},
	} {
		next, err := session.Transition(s, session.Reset{})
		if err != nil {
			t.Fatalf("Reset refused from %s: %v", s.Status, err)
		}
		if next.Status != session.StatusIdle || next.File != nil || next.Failure != nil {
			t.Fatalf("Reset from %s left state %+v", s.Status, next)
		}
	}
}
