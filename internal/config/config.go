package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port             int
	LogLevel         string
	CORSOrigins      []string
	GeminiAPIKey     string
	GeminiModel      string
	MaxUploadBytes   int64
	MaxCues          int
	DefaultBatchSize int
	TextRateLimit    int
	TranslateTimeout time.Duration
}

func Load() *Config {
	port, _ := strconv.Atoi(getEnv("PORT", "8080"))
	maxUpload, _ := strconv.ParseInt(getEnv("MAX_UPLOAD_BYTES", "1048576"), 10, 64)
	maxCues, _ := strconv.Atoi(getEnv("MAX_CUES", "1000"))
	batchSize, _ := strconv.Atoi(getEnv("DEFAULT_BATCH_SIZE", "25"))
	textRateLimit, _ := strconv.Atoi(getEnv("TEXT_RATE_LIMIT", "30"))

	timeout, err := time.ParseDuration(getEnv("TRANSLATE_TIMEOUT", "5m"))
	if err != nil {
		timeout = 5 * time.Minute
	}

	// CORS origins: comma-separated list or "*" (default)
	corsOrigins := []string{"*"}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		origins := strings.Split(v, ",")
		corsOrigins = make([]string, 0, len(origins))
		for _, o := range origins {
			o = strings.TrimSpace(o)
			if o != "" {
				corsOrigins = append(corsOrigins, o)
			}
		}
	}

	return &Config{
		Port:             port,
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		CORSOrigins:      corsOrigins,
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModel:      getEnv("GEMINI_MODEL", "gemini-2.5-flash-lite"),
		MaxUploadBytes:   maxUpload,
		MaxCues:          maxCues,
		DefaultBatchSize: batchSize,
		TextRateLimit:    textRateLimit,
		TranslateTimeout: timeout,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
