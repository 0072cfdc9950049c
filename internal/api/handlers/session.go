package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/subtitle-flow/backend/internal/session"
	"github.com/subtitle-flow/backend/internal/subtitle"
)

// SessionHandler exposes the translation session lifecycle: create, upload,
// translate, poll, edit, download, reset.
type SessionHandler struct {
	manager        *session.Manager
	maxUploadBytes int64
}

func NewSessionHandler(manager *session.Manager, maxUploadBytes int64) *SessionHandler {
	return &SessionHandler{manager: manager, maxUploadBytes: maxUploadBytes}
}

// Create registers a new empty session.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	snap := h.manager.Create()
	writeJSON(w, http.StatusCreated, snap)
}

// Get returns the session snapshot, including progress while translating.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	snap, err := h.manager.Get(chi.URLParam(r, "id"))
	if err != nil {
		jsonError(w, "session not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// Delete discards a session.
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.manager.Delete(chi.URLParam(r, "id")); err != nil {
		jsonError(w, "session not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Upload accepts the raw subtitle bytes. The filename travels in the
// X-File-Name header (or ?filename=) and is used to derive the download name.
func (h *SessionHandler) Upload(w http.ResponseWriter, r *http.Request) {
	fileName := r.Header.Get("X-File-Name")
	if fileName == "" {
		fileName = r.URL.Query().Get("filename")
	}
	if fileName == "" {
		jsonError(w, "filename is required", http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxUploadBytes))
	if err != nil {
		jsonError(w, fmt.Sprintf("upload exceeds %d bytes", h.maxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	snap, err := h.manager.Upload(chi.URLParam(r, "id"), fileName, body)
	if err != nil {
		h.writeManagerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

type translateRequest struct {
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language"`
	BatchSize      int    `json:"batch_size"`
}

// Translate kicks off an asynchronous orchestration run; the caller polls
// Get for progress and the terminal outcome.
func (h *SessionHandler) Translate(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	snap, err := h.manager.Translate(chi.URLParam(r, "id"), req.SourceLanguage, req.TargetLanguage, req.BatchSize)
	if err != nil {
		h.writeManagerError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, snap)
}

type editCueRequest struct {
	TranslatedText string `json:"translated_text"`
}

// EditCue overwrites one cue's translated text on a completed session.
func (h *SessionHandler) EditCue(w http.ResponseWriter, r *http.Request) {
	var req editCueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	snap, err := h.manager.EditCue(chi.URLParam(r, "id"), chi.URLParam(r, "cueID"), req.TranslatedText)
	if err != nil {
		h.writeManagerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// Reset drops the session back to its pristine state.
func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	snap, err := h.manager.Reset(chi.URLParam(r, "id"))
	if err != nil {
		h.writeManagerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// Download streams the rendered subtitle file in the original or requested
// format.
func (h *SessionHandler) Download(w http.ResponseWriter, r *http.Request) {
	var format subtitle.Format
	switch r.URL.Query().Get("format") {
	case "srt":
		format = subtitle.FormatSRT
	case "vtt":
		format = subtitle.FormatVTT
	case "":
		format = subtitle.FormatUnknown // keep the original
	default:
		jsonError(w, "format must be srt or vtt", http.StatusBadRequest)
		return
	}

	name, content, err := h.manager.Download(chi.URLParam(r, "id"), format)
	if err != nil {
		h.writeManagerError(w, err)
		return
	}

	contentType := "application/x-subrip; charset=utf-8"
	if format == subtitle.FormatVTT || (format == subtitle.FormatUnknown && len(content) >= len("WEBVTT") && string(content[:len("WEBVTT")]) == "WEBVTT") {
		contentType = "text/vtt; charset=utf-8"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Write(content)
}

func (h *SessionHandler) writeManagerError(w http.ResponseWriter, err error) {
	var vfe *session.ValidationFailedError
	switch {
	case errors.Is(err, session.ErrNotFound):
		jsonError(w, "session not found", http.StatusNotFound)
	case errors.As(err, &vfe):
		jsonIssues(w, vfe.Issues)
	case errors.Is(err, session.ErrCommandRefused):
		jsonError(w, err.Error(), http.StatusConflict)
	default:
		jsonError(w, err.Error(), http.StatusBadRequest)
	}
}
