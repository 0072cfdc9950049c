package translate

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	translationBatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subtitle_translation_batches_total",
			Help: "Total number of translation batch calls",
		},
		[]string{"backend", "status"},
	)

	translationBatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "subtitle_translation_batch_duration_seconds",
			Help:    "Duration of translation batch calls in seconds",
			Buckets: []float64{0.5, 1.0, 2.0, 5.0, 10.0, 30.0, 60.0, 120.0},
		},
		[]string{"backend", "status"},
	)

	translationCuesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subtitle_translation_cues_total",
			Help: "Total cues processed, by merge outcome",
		},
		[]string{"backend", "outcome"},
	)

	translationRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subtitle_translation_runs_total",
			Help: "Total orchestration runs by terminal outcome",
		},
		[]string{"backend", "status"},
	)
)

func recordBatch(backend string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	translationBatchesTotal.WithLabelValues(backend, status).Inc()
	translationBatchDuration.WithLabelValues(backend, status).Observe(duration.Seconds())
}

func recordMerge(backend string, translated, fallback int) {
	translationCuesTotal.WithLabelValues(backend, "translated").Add(float64(translated))
	translationCuesTotal.WithLabelValues(backend, "fallback").Add(float64(fallback))
}

func recordRun(backend string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	translationRunsTotal.WithLabelValues(backend, status).Inc()
}
