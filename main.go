package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/subtitle-flow/backend/internal/api"
	"github.com/subtitle-flow/backend/internal/config"
	"github.com/subtitle-flow/backend/internal/session"
	"github.com/subtitle-flow/backend/internal/subtitle"
	"github.com/subtitle-flow/backend/internal/translate"
)

func main() {
	cfg := config.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.GeminiAPIKey == "" {
		logger.Warn("GEMINI_API_KEY not set, translation calls will fail")
	}

	// Translation backend + orchestrator
	gemini := translate.NewGeminiTranslator(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.TranslateTimeout, logger)
	orchestrator := translate.NewOrchestrator(gemini, logger)

	// In-memory session registry; nothing is persisted
	limits := subtitle.Limits{
		MaxFileBytes: cfg.MaxUploadBytes,
		MaxCues:      cfg.MaxCues,
		SampleCues:   subtitle.DefaultLimits.SampleCues,
	}
	manager := session.NewManager(orchestrator, limits, cfg.DefaultBatchSize, logger)

	router := api.NewRouter(cfg, manager, gemini, logger)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.WithFields(logrus.Fields{
		"addr":  addr,
		"model": cfg.GeminiModel,
	}).Info("starting subtitle translation server")

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutting down")
		os.Exit(0)
	}()

	if err := http.ListenAndServe(addr, router); err != nil {
		logger.WithError(err).Fatal("server failed")
	}
}
