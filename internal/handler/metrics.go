package handler

import (
	"fmt"
	"net/http"

	"github.com/brewlog/brewlog/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "brewlog_beans_created_total %d\n", snap.BeansCreated)
	writeMetric(w, "brewlog_recipes_created_total %d\n", snap.RecipesCreated)

	writeMetric(w, "brewlog_predictions_requested_total %d\n", snap.PredictionsRequested)
	writeMetric(w, "brewlog_predictions_total{status=\"success\"} %d\n", snap.PredictionsSucceeded)
	writeMetric(w, "brewlog_predictions_total{status=\"rejected\"} %d\n", snap.PredictionsRejected)
	writeMetric(w, "brewlog_predictions_total{status=\"unavailable\"} %d\n", snap.PredictionsUnavailable)

	writeMetric(w, "brewlog_weather_readings_total{source=\"live\"} %d\n", snap.WeatherLiveReadings)
	writeMetric(w, "brewlog_weather_readings_total{source=\"fallback\"} %d\n", snap.WeatherFallbacks)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
