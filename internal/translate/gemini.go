package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/subtitle-flow/backend/internal/subtitle"
)

const (
	geminiAPIBase      = "https://generativelanguage.googleapis.com/v1beta/models"
	defaultGeminiModel = "gemini-2.5-flash-lite"
)

// GeminiTranslator talks to the Google Gemini API. It is the concrete
// translation backend: prompts request a JSON array of translated strings in
// input order, which is then correlated back to cue ids.
type GeminiTranslator struct {
	apiKey     string
	model      string
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewGeminiTranslator(apiKey, model string, timeout time.Duration, logger *logrus.Logger) *GeminiTranslator {
	if model == "" {
		model = defaultGeminiModel
	}
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &GeminiTranslator{
		apiKey: apiKey,
		model:  model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

func (g *GeminiTranslator) Name() string {
	return "gemini"
}

// TranslateBatch sends one batch of cues to Gemini and maps the returned
// strings back to cue ids by position.
func (g *GeminiTranslator) TranslateBatch(ctx context.Context, cues []subtitle.Cue, sourceLanguage, targetLanguage string) ([]TranslatedCue, error) {
	if g.apiKey == "" {
		return nil, backendError("Gemini API key not configured", nil)
	}

	texts := make([]string, len(cues))
	for i, cue := range cues {
		texts[i] = cue.Text
	}

	raw, err := g.generate(ctx, buildBatchPrompt(texts, sourceLanguage, targetLanguage))
	if err != nil {
		return nil, err
	}

	translations, err := parseStringArray(raw)
	if err != nil {
		return nil, translationError("unparseable translation response", err)
	}

	if len(translations) != len(cues) {
		g.logger.WithFields(logrus.Fields{
			"expected": len(cues),
			"got":      len(translations),
		}).Warn("gemini returned a different translation count")
	}

	results := make([]TranslatedCue, 0, len(cues))
	for i, cue := range cues {
		if i >= len(translations) || strings.TrimSpace(translations[i]) == "" {
			continue
		}
		results = append(results, TranslatedCue{
			ID:             cue.ID,
			TranslatedText: translations[i],
		})
	}

	return results, nil
}

// TranslateText translates a plain text passage. A sourceLanguage of
// "Auto-detect" lets the model infer the source.
func (g *GeminiTranslator) TranslateText(ctx context.Context, text, sourceLanguage, targetLanguage string) (string, error) {
	if g.apiKey == "" {
		return "", backendError("Gemini API key not configured", nil)
	}

	sourceInstruction := ""
	if sourceLanguage != "" && sourceLanguage != "Auto-detect" {
		sourceInstruction = fmt.Sprintf("from %s ", sourceLanguage)
	}

	prompt := fmt.Sprintf(`You are a professional translator. Translate the following text %sto %s.

INSTRUCTIONS:
- Provide ONLY the translated text, nothing else
- Preserve the original formatting (paragraphs, line breaks)
- Keep the same tone and style
- Do NOT add explanations, notes, or comments

Text to translate:
%s`, sourceInstruction, targetLanguage, text)

	raw, err := g.generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(raw), nil
}

// DetectLanguage identifies the language of a text passage, returning the
// full English language name and a 0-1 confidence.
func (g *GeminiTranslator) DetectLanguage(ctx context.Context, text string) (string, float64, error) {
	if g.apiKey == "" {
		return "", 0, backendError("Gemini API key not configured", nil)
	}

	prompt := fmt.Sprintf(`You are a language identification expert. Detect the language of the following text.

INSTRUCTIONS:
- Return ONLY a JSON object with two keys: "language" and "confidence"
- "language" should be the full English name of the language (e.g. "Spanish", "Japanese")
- "confidence" should be a float between 0 and 1 indicating how confident you are
- Do NOT add any explanation or text outside the JSON

Text:
%s`, text)

	raw, err := g.generate(ctx, prompt)
	if err != nil {
		return "", 0, err
	}

	var detection struct {
		Language   string  `json:"language"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(stripFences(raw)), &detection); err != nil {
		return "", 0, translationError("unparseable detection response", err)
	}
	if detection.Language == "" {
		return "", 0, translationError("detection response missing language", nil)
	}

	return detection.Language, detection.Confidence, nil
}

// generate issues one generateContent call and returns the response text.
func (g *GeminiTranslator) generate(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"temperature": 0.3,
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", translationError("encode request", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent", geminiAPIBase, g.model)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonBody))
	if err != nil {
		return "", translationError("build request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return "", networkError("Gemini API unreachable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", networkError("read Gemini response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", backendError(fmt.Sprintf("Gemini API error (status %d)", resp.StatusCode),
			fmt.Errorf("%s", strings.TrimSpace(string(body))))
	}

	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
			FinishReason string `json:"finishReason"`
		} `json:"candidates"`
		PromptFeedback struct {
			BlockReason string `json:"blockReason"`
		} `json:"promptFeedback"`
	}
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", translationError("parse Gemini response", err)
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		if geminiResp.PromptFeedback.BlockReason != "" {
			return "", backendError("Gemini blocked the request: "+geminiResp.PromptFeedback.BlockReason, nil)
		}
		return "", backendError("empty Gemini response", nil)
	}

	if fr := geminiResp.Candidates[0].FinishReason; fr != "" && fr != "STOP" {
		g.logger.WithField("finish_reason", fr).Warn("gemini finished abnormally")
	}

	return geminiResp.Candidates[0].Content.Parts[0].Text, nil
}

func buildBatchPrompt(texts []string, sourceLanguage, targetLanguage string) string {
	encoded, _ := json.Marshal(texts)

	var sb strings.Builder
	fmt.Fprintf(&sb, "You are a professional subtitle translator. Translate the following subtitle texts from %s to %s.\n\n",
		sourceLanguage, targetLanguage)
	sb.WriteString("CRITICAL INSTRUCTIONS:\n")
	sb.WriteString("- Translate ONLY the text content\n")
	sb.WriteString("- Maintain the EXACT same number of lines as the original\n")
	sb.WriteString("- Preserve line breaks within each subtitle\n")
	sb.WriteString("- Keep the same tone and context\n")
	sb.WriteString("- Do NOT add explanations or comments\n")
	sb.WriteString("- Return ONLY a JSON array of translated strings\n\n")
	fmt.Fprintf(&sb, "Input (%d subtitles):\n%s\n\n", len(texts), encoded)
	fmt.Fprintf(&sb, "Return a JSON array with %d translated strings in the same order.\n\n", len(texts))
	sb.WriteString(`Example:
["Translated text 1", "Translated text 2", ...]`)

	return sb.String()
}

// parseStringArray decodes a JSON array of strings from a model response,
// tolerating markdown code fences and surrounding prose.
func parseStringArray(raw string) ([]string, error) {
	cleaned := stripFences(raw)

	var translations []string
	if err := json.Unmarshal([]byte(cleaned), &translations); err == nil {
		return translations, nil
	}

	start := strings.Index(cleaned, "[")
	end := strings.LastIndex(cleaned, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON array in response")
	}
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &translations); err != nil {
		return nil, err
	}
	return translations, nil
}

// stripFences removes a wrapping markdown code block, if present.
func stripFences(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	}
	return strings.TrimSpace(cleaned)
}
