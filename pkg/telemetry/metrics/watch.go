package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/oracle-Solution/hl7/pkg/config"
)

// WatchMetrics tracks the directory watcher.
//
//   - hl7_editor_watch_events_total{op}
//   - hl7_editor_watched_files
type WatchMetrics struct {
	events *prometheus.CounterVec
	files  prometheus.Gauge
}

// NewWatchMetrics creates and registers watcher metrics.
func NewWatchMetrics(cfg config.MetricsConfig, registry *prometheus.Registry) *WatchMetrics {
	wm := &WatchMetrics{
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "watch_events_total",
				Help:      "Total number of file events handled by the watcher",
			},
			[]string{"op"},
		),
		files: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "watched_files",
				Help:      "Number of message files tracked by the watcher",
			},
		),
	}

	registry.MustRegister(wm.events, wm.files)
	return wm
}

// RecordEvent counts one file event.
func (wm *WatchMetrics) RecordEvent(op string) {
	wm.events.WithLabelValues(op).Inc()
}

// SetFiles sets the tracked file count.
func (wm *WatchMetrics) SetFiles(n int) {
	wm.files.Set(float64(n))
}
