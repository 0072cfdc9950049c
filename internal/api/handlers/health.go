package handlers

import "net/http"

const apiVersion = "1.1.0"

// Health reports service liveness.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": apiVersion,
		"message": "Subtitle translation API is running",
	})
}
