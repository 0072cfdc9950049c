package session

import (
	"errors"
	"fmt"

	"github.com/subtitle-flow/backend/internal/subtitle"
	"github.com/subtitle-flow/backend/internal/translate"
)

// Status is the session's position in its lifecycle.
type Status string

const (
	StatusIdle        Status = "idle"
	StatusParsing     Status = "parsing"
	StatusTranslating Status = "translating"
	StatusCompleted   Status = "completed"
	StatusError       Status = "error"
)

// Failure is the terminal error payload exposed to the caller.
type Failure struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// State is the full session state. Transition is the only way to produce a
// new one; callers issue commands and either get the next state or a refusal.
// "Has file" is tracked independently of Status: an idle state with a file is
// ready to translate, an idle state without one is pristine.
type State struct {
	Status         Status
	File           *subtitle.File
	SourceLanguage string
	TargetLanguage string
	BatchSize      int
	Progress       translate.Progress
	Failure        *Failure
}

// ErrCommandRefused marks a command rejected by the state machine. The
// session state is unchanged when it is returned.
var ErrCommandRefused = errors.New("command refused")

func refuse(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrCommandRefused, fmt.Sprintf(format, args...))
}

// Command is a request to advance the state machine. The command set is
// closed: only types in this package can implement it.
type Command interface {
	isCommand()
}

// BeginParse starts processing a new upload. The previous file, progress and
// error state are dropped: the cue collection is replaced wholesale on
// re-upload.
type BeginParse struct{}

// AttachFile records a successful parse, leaving the session ready to
// translate.
type AttachFile struct {
	File *subtitle.File
}

// FailParse records a parse failure.
type FailParse struct {
	Failure Failure
}

// BeginTranslation moves a session holding a file into the translating state.
type BeginTranslation struct {
	SourceLanguage string
	TargetLanguage string
	BatchSize      int
}

// ReportProgress publishes an orchestrator progress event into the state.
type ReportProgress struct {
	Progress translate.Progress
}

// CompleteTranslation attaches the merged cue set and completes the session.
type CompleteTranslation struct {
	Cues []subtitle.Cue
}

// FailTranslation records a terminal orchestration failure. The parsed file
// is retained unchanged so the caller can retry without re-uploading.
type FailTranslation struct {
	Failure Failure
}

// EditCue overwrites one cue's translated text while completed. The status
// does not change.
type EditCue struct {
	CueID          string
	TranslatedText string
}

// Reset returns the session to the initial file-less idle state.
type Reset struct{}

func (BeginParse) isCommand()          {}
func (AttachFile) isCommand()          {}
func (FailParse) isCommand()           {}
func (BeginTranslation) isCommand()    {}
func (ReportProgress) isCommand()      {}
func (CompleteTranslation) isCommand() {}
func (FailTranslation) isCommand()     {}
func (EditCue) isCommand()             {}
func (Reset) isCommand()               {}

// Transition is the pure step function of the session state machine. It
// returns the next state, or ErrCommandRefused leaving the input untouched.
func Transition(s State, cmd Command) (State, error) {
	switch c := cmd.(type) {
	case BeginParse:
		if s.Status == StatusParsing || s.Status == StatusTranslating {
			return s, refuse("cannot upload while %s", s.Status)
		}
		return State{Status: StatusParsing}, nil

	case AttachFile:
		if s.Status != StatusParsing {
			return s, refuse("attach_file requires parsing, current status is %s", s.Status)
		}
		if c.File == nil || len(c.File.Cues) == 0 {
			return s, refuse("attach_file requires a file with cues")
		}
		return State{Status: StatusIdle, File: c.File}, nil

	case FailParse:
		if s.Status != StatusParsing {
			return s, refuse("fail_parse requires parsing, current status is %s", s.Status)
		}
		failure := c.Failure
		return State{Status: StatusError, Failure: &failure}, nil

	case BeginTranslation:
		if s.Status == StatusParsing || s.Status == StatusTranslating {
			return s, refuse("cannot translate while %s", s.Status)
		}
		if s.File == nil {
			return s, refuse("no subtitle file uploaded")
		}
		next := s
		next.Status = StatusTranslating
		next.SourceLanguage = c.SourceLanguage
		next.TargetLanguage = c.TargetLanguage
		next.BatchSize = c.BatchSize
		next.Failure = nil
		next.Progress = translate.Progress{Total: len(s.File.Cues)}
		return next, nil

	case ReportProgress:
		if s.Status != StatusTranslating {
			return s, refuse("report_progress requires translating, current status is %s", s.Status)
		}
		next := s
		next.Progress = c.Progress
		return next, nil

	case CompleteTranslation:
		if s.Status != StatusTranslating {
			return s, refuse("complete_translation requires translating, current status is %s", s.Status)
		}
		next := s
		next.Status = StatusCompleted
		next.File = subtitle.NewFile(s.File.FileName, s.File.Format, c.Cues, s.File.Metadata.ByteSize)
		return next, nil

	case FailTranslation:
		if s.Status != StatusTranslating {
			return s, refuse("fail_translation requires translating, current status is %s", s.Status)
		}
		failure := c.Failure
		next := s
		next.Status = StatusError
		next.Failure = &failure
		return next, nil

	case EditCue:
		if s.Status != StatusCompleted {
			return s, refuse("cue edits require a completed session, current status is %s", s.Status)
		}
		cues := make([]subtitle.Cue, len(s.File.Cues))
		copy(cues, s.File.Cues)
		found := false
		for i := range cues {
			if cues[i].ID == c.CueID {
				cues[i].TranslatedText = c.TranslatedText
				found = true
				break
			}
		}
		if !found {
			return s, refuse("unknown cue id %q", c.CueID)
		}
		next := s
		next.File = subtitle.NewFile(s.File.FileName, s.File.Format, cues, s.File.Metadata.ByteSize)
		return next, nil

	case Reset:
		return State{Status: StatusIdle}, nil
	}

	return s, refuse("unknown command %T", cmd)
}
