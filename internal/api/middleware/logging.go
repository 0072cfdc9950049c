package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

type wrappedWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *wrappedWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

// Session status is polled while a translation is in flight; those requests
// and other high-frequency endpoints are only logged on errors.
func isSilent(r *http.Request) bool {
	if r.URL.Path == "/api/health" || r.URL.Path == "/metrics" {
		return true
	}
	return r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/api/sessions/")
}

func Logger(logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &wrappedWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)
			if isSilent(r) && wrapped.statusCode < 400 {
				return
			}
			logger.WithFields(logrus.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   wrapped.statusCode,
				"duration": time.Since(start).String(),
			}).Info("request")
		})
	}
}
