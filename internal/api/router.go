package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/subtitle-flow/backend/internal/api/handlers"
	"github.com/subtitle-flow/backend/internal/api/middleware"
	"github.com/subtitle-flow/backend/internal/config"
	"github.com/subtitle-flow/backend/internal/session"
	"github.com/subtitle-flow/backend/internal/translate"
)

func NewRouter(cfg *config.Config, manager *session.Manager, gemini *translate.GeminiTranslator, logger *logrus.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(cors.Handler(middleware.CORSHandler(cfg.CORSOrigins)))

	// Handlers
	sessionHandler := handlers.NewSessionHandler(manager, cfg.MaxUploadBytes)
	translateHandler := handlers.NewTranslateHandler(gemini)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		// Sessions: upload carries raw subtitle bytes and gets its own limit;
		// everything else is small JSON.
		r.Route("/sessions", func(r chi.Router) {
			r.Use(middleware.MaxBodySize(cfg.MaxUploadBytes))

			r.Post("/", sessionHandler.Create)
			r.Get("/{id}", sessionHandler.Get)
			r.Delete("/{id}", sessionHandler.Delete)
			r.Post("/{id}/upload", sessionHandler.Upload)
			r.Post("/{id}/translate", sessionHandler.Translate)
			r.Post("/{id}/reset", sessionHandler.Reset)
			r.Put("/{id}/cues/{cueID}", sessionHandler.EditCue)
			r.Get("/{id}/download", sessionHandler.Download)
		})

		// Plain text translation and detection hit the external API once per
		// request, so they get per-IP rate limiting on top of the body limit.
		r.Group(func(r chi.Router) {
			r.Use(middleware.MaxBodySize(64 * 1024))
			r.Use(middleware.NewRateLimiter(cfg.TextRateLimit, time.Minute).Handler)
			r.Post("/translate/text", translateHandler.TranslateText)
			r.Post("/detect/language", translateHandler.DetectLanguage)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
