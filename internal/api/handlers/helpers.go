package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/subtitle-flow/backend/internal/subtitle"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}

// jsonIssues reports every validation problem at once so a caller can render
// them all in one pass.
func jsonIssues(w http.ResponseWriter, issues []subtitle.Issue) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
		"error":  "validation failed",
		"valid":  false,
		"issues": issues,
	})
}
