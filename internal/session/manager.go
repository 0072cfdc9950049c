package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"

	"github.com/subtitle-flow/backend/internal/subtitle"
	"github.com/subtitle-flow/backend/internal/translate"
)

// ErrNotFound reports an unknown session id.
var ErrNotFound = errors.New("session not found")

var activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "subtitle_sessions_active",
	Help: "Number of live translation sessions",
})

// ValidationFailedError carries the full issue list of a rejected operation
// so callers can display every problem at once.
type ValidationFailedError struct {
	Issues []subtitle.Issue
}

func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("validation failed with %d issue(s)", len(e.Issues))
}

// Snapshot is a caller-facing copy of a session. Mutating it has no effect
// on the live session.
type Snapshot struct {
	ID             string             `json:"id"`
	Status         Status             `json:"status"`
	File           *subtitle.File     `json:"file,omitempty"`
	SourceLanguage string             `json:"source_language,omitempty"`
	TargetLanguage string             `json:"target_language,omitempty"`
	Progress       translate.Progress `json:"progress"`
	EstimatedSecs  int                `json:"estimated_seconds,omitempty"`
	Error          *Failure           `json:"error,omitempty"`
	Issues         []subtitle.Issue   `json:"issues,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

type record struct {
	id    string
	state State
	// gen identifies the current run. It advances on Translate and Reset so
	// outcomes of an orphaned run are dropped instead of being applied to a
	// newer run.
	gen       uint64
	issues    []subtitle.Issue
	createdAt time.Time
	updatedAt time.Time
}

// Manager is the in-memory session registry. Sessions are ephemeral: nothing
// is persisted, and each session accepts one command at a time with the state
// machine refusing commands while a translation is in flight.
type Manager struct {
	mu           sync.RWMutex
	sessions     map[string]*record
	orchestrator *translate.Orchestrator
	limits       subtitle.Limits
	batchSize    int
	logger       *logrus.Logger
}

func NewManager(orchestrator *translate.Orchestrator, limits subtitle.Limits, batchSize int, logger *logrus.Logger) *Manager {
	if batchSize <= 0 {
		batchSize = subtitle.DefaultBatchSize
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Manager{
		sessions:     make(map[string]*record),
		orchestrator: orchestrator,
		limits:       limits,
		batchSize:    batchSize,
		logger:       logger,
	}
}

// Create registers a new pristine session and returns its snapshot.
func (m *Manager) Create() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	rec := &record{
		id:        uuid.New().String(),
		state:     State{Status: StatusIdle},
		createdAt: now,
		updatedAt: now,
	}
	m.sessions[rec.id] = rec
	activeSessions.Set(float64(len(m.sessions)))

	m.logger.WithField("session", rec.id).Info("session created")
	return snapshot(rec)
}

// Get returns a snapshot of a session.
func (m *Manager) Get(id string) (Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.sessions[id]
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	return snapshot(rec), nil
}

// Delete removes a session entirely.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, id)
	activeSessions.Set(float64(len(m.sessions)))
	return nil
}

// Upload validates, detects, parses and attaches a subtitle file. File-level
// validation failures reject the upload before the session enters parsing;
// parse failures move the session to the error state.
func (m *Manager) Upload(id, fileName string, raw []byte) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.sessions[id]
	if !ok {
		return Snapshot{}, ErrNotFound
	}

	if issues := subtitle.ValidateUpload(fileName, int64(len(raw)), m.limits); len(issues) > 0 {
		rec.issues = issues
		rec.updatedAt = time.Now()
		return Snapshot{}, &ValidationFailedError{Issues: issues}
	}

	next, err := Transition(rec.state, BeginParse{})
	if err != nil {
		return Snapshot{}, err
	}
	rec.state = next
	rec.issues = nil
	rec.updatedAt = time.Now()

	content := string(raw)
	format := subtitle.Detect(content)
	if format == subtitle.FormatUnknown {
		return m.failParse(rec, CodeParseError, "unrecognized subtitle format, expected SRT or VTT")
	}

	cues, err := subtitle.Parse(content, format)
	if err != nil {
		return m.failParse(rec, CodeParseError, err.Error())
	}

	file := subtitle.NewFile(fileName, format, cues, len(raw))
	next, err = Transition(rec.state, AttachFile{File: file})
	if err != nil {
		return Snapshot{}, err
	}
	rec.state = next
	rec.issues = subtitle.ValidateFile(file, m.limits)
	rec.updatedAt = time.Now()

	m.logger.WithFields(logrus.Fields{
		"session": rec.id,
		"file":    fileName,
		"format":  format,
		"cues":    len(cues),
	}).Info("subtitle file parsed")

	return snapshot(rec), nil
}

// failParse is called with m.mu held and the session in the parsing state.
func (m *Manager) failParse(rec *record, code, message string) (Snapshot, error) {
	next, err := Transition(rec.state, FailParse{Failure: Failure{Code: code, Message: message}})
	if err != nil {
		return Snapshot{}, err
	}
	rec.state = next
	rec.updatedAt = time.Now()
	m.logger.WithFields(logrus.Fields{
		"session": rec.id,
		"code":    code,
	}).Warn("parse failed: " + message)
	return snapshot(rec), nil
}

// CodeParseError is the stable code for upload/parse failures.
const CodeParseError = "parse_error"

// Translate validates the request and launches the orchestration run
// asynchronously. The caller polls Get for progress and the terminal state.
// An in-flight run has no cancellation handle: it settles exactly once.
func (m *Manager) Translate(id, sourceLanguage, targetLanguage string, batchSize int) (Snapshot, error) {
	if batchSize <= 0 {
		batchSize = m.batchSize
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.sessions[id]
	if !ok {
		return Snapshot{}, ErrNotFound
	}

	issues := subtitle.ValidateRequest(sourceLanguage, targetLanguage)
	if rec.state.File != nil {
		issues = append(issues, subtitle.ValidateFile(rec.state.File, m.limits)...)
	}
	if len(issues) > 0 {
		rec.issues = issues
		return Snapshot{}, &ValidationFailedError{Issues: issues}
	}

	next, err := Transition(rec.state, BeginTranslation{
		SourceLanguage: sourceLanguage,
		TargetLanguage: targetLanguage,
		BatchSize:      batchSize,
	})
	if err != nil {
		return Snapshot{}, err
	}
	rec.state = next
	rec.issues = nil
	rec.gen++
	rec.updatedAt = time.Now()

	cues := rec.state.File.Cues

	go m.runTranslation(rec.id, rec.gen, cues, sourceLanguage, targetLanguage, batchSize)

	return snapshot(rec), nil
}

// runTranslation executes one orchestration run and applies its terminal
// outcome to the session. The run is stamped with the generation it was
// started under; a Reset or a newer run advances the generation and orphans
// this one.
func (m *Manager) runTranslation(id string, gen uint64, cues []subtitle.Cue, sourceLanguage, targetLanguage string, batchSize int) {
	onProgress := func(p translate.Progress) {
		m.apply(id, gen, ReportProgress{Progress: p})
	}

	merged, err := m.orchestrator.Translate(context.Background(), cues, sourceLanguage, targetLanguage, batchSize, onProgress)
	if err != nil {
		terr := translate.AsError(err)
		m.apply(id, gen, FailTranslation{Failure: Failure{Code: terr.Code, Message: terr.Message}})
		return
	}

	m.apply(id, gen, CompleteTranslation{Cues: merged})
}

// apply advances a session through the state machine. Commands from a run
// whose generation no longer matches are dropped: their session was reset or
// restarted and the outcome belongs to nobody.
func (m *Manager) apply(id string, gen uint64, cmd Command) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.sessions[id]
	if !ok {
		return
	}
	if rec.gen != gen {
		m.logger.WithFields(logrus.Fields{
			"session": id,
			"run":     gen,
			"current": rec.gen,
		}).Debug("dropped command from orphaned run")
		return
	}
	next, err := Transition(rec.state, cmd)
	if err != nil {
		m.logger.WithField("session", id).WithError(err).Debug("dropped state machine command")
		return
	}
	rec.state = next
	rec.updatedAt = time.Now()
}

// Download renders the session's file in the requested format. An empty
// format keeps the original.
func (m *Manager) Download(id string, format subtitle.Format) (string, []byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.sessions[id]
	if !ok {
		return "", nil, ErrNotFound
	}
	if rec.state.File == nil {
		return "", nil, errors.New("no subtitle file uploaded")
	}

	if format == subtitle.FormatUnknown {
		format = rec.state.File.Format
	}
	content, name, err := subtitle.Render(rec.state.File, format)
	if err != nil {
		return "", nil, err
	}
	return name, []byte(content), nil
}

// EditCue applies a manual translated-text correction to a completed session.
func (m *Manager) EditCue(id, cueID, translatedText string) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.sessions[id]
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	next, err := Transition(rec.state, EditCue{CueID: cueID, TranslatedText: translatedText})
	if err != nil {
		return Snapshot{}, err
	}
	rec.state = next
	rec.updatedAt = time.Now()
	return snapshot(rec), nil
}

// Reset returns the session to its initial file-less state.
func (m *Manager) Reset(id string) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.sessions[id]
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	next, err := Transition(rec.state, Reset{})
	if err != nil {
		return Snapshot{}, err
	}
	rec.state = next
	rec.issues = nil
	rec.gen++
	rec.updatedAt = time.Now()
	return snapshot(rec), nil
}

func snapshot(rec *record) Snapshot {
	snap := Snapshot{
		ID:             rec.id,
		Status:         rec.state.Status,
		SourceLanguage: rec.state.SourceLanguage,
		TargetLanguage: rec.state.TargetLanguage,
		Progress:       rec.state.Progress,
		Error:          rec.state.Failure,
		CreatedAt:      rec.createdAt,
		UpdatedAt:      rec.updatedAt,
	}

	if len(rec.issues) > 0 {
		snap.Issues = make([]subtitle.Issue, len(rec.issues))
		copy(snap.Issues, rec.issues)
	}

	if f := rec.state.File; f != nil {
		cues := make([]subtitle.Cue, len(f.Cues))
		copy(cues, f.Cues)
		fileCopy := *f
		fileCopy.Cues = cues
		snap.File = &fileCopy

		batchSize := rec.state.BatchSize
		snap.EstimatedSecs = subtitle.EstimateSeconds(len(f.Cues), batchSize)
	}

	return snap
}
