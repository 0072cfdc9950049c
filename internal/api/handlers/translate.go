package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/subtitle-flow/backend/internal/translate"
)

// TranslateHandler exposes the plain-text translation and language detection
// endpoints backed by the same Gemini client the orchestrator uses.
type TranslateHandler struct {
	gemini *translate.GeminiTranslator
}

func NewTranslateHandler(gemini *translate.GeminiTranslator) *TranslateHandler {
	return &TranslateHandler{gemini: gemini}
}

type textTranslationRequest struct {
	Text           string `json:"text"`
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language"`
}

type textTranslationResponse struct {
	Success        bool   `json:"success"`
	TranslatedText string `json:"translated_text,omitempty"`
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language"`
	ErrorMessage   string `json:"error_message,omitempty"`
}

// TranslateText translates a plain text passage. The translation outcome is
// reported in the body rather than the HTTP status, matching the subtitle
// collaborator contract.
func (h *TranslateHandler) TranslateText(w http.ResponseWriter, r *http.Request) {
	var req textTranslationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		jsonError(w, "text is required", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.TargetLanguage) == "" {
		jsonError(w, "target_language is required", http.StatusBadRequest)
		return
	}
	if req.SourceLanguage == "" {
		req.SourceLanguage = "Auto-detect"
	}

	resp := textTranslationResponse{
		SourceLanguage: req.SourceLanguage,
		TargetLanguage: req.TargetLanguage,
	}

	translated, err := h.gemini.TranslateText(r.Context(), req.Text, req.SourceLanguage, req.TargetLanguage)
	if err != nil {
		resp.ErrorMessage = translate.AsError(err).Message
		writeJSON(w, http.StatusOK, resp)
		return
	}

	resp.Success = true
	resp.TranslatedText = translated
	writeJSON(w, http.StatusOK, resp)
}

type languageDetectionRequest struct {
	Text string `json:"text"`
}

type languageDetectionResponse struct {
	Success          bool    `json:"success"`
	DetectedLanguage string  `json:"detected_language,omitempty"`
	Confidence       float64 `json:"confidence,omitempty"`
	ErrorMessage     string  `json:"error_message,omitempty"`
}

// DetectLanguage identifies the language of the given text.
func (h *TranslateHandler) DetectLanguage(w http.ResponseWriter, r *http.Request) {
	var req languageDetectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		jsonError(w, "text is required", http.StatusBadRequest)
		return
	}

	language, confidence, err := h.gemini.DetectLanguage(r.Context(), req.Text)
	if err != nil {
		writeJSON(w, http.StatusOK, languageDetectionResponse{
			ErrorMessage: translate.AsError(err).Message,
		})
		return
	}

	writeJSON(w, http.StatusOK, languageDetectionResponse{
		Success:          true,
		DetectedLanguage: language,
		Confidence:       confidence,
	})
}
