package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/oracle-Solution/hl7/pkg/config"
)

// OperationMetrics tracks editor operations.
//
//   - hl7_editor_operations_total{operation,status}
//   - hl7_editor_operation_duration_seconds{operation}
//   - hl7_editor_message_bytes{operation}
//   - hl7_editor_parse_failures_total{reason}
type OperationMetrics struct {
	total         *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	messageBytes  *prometheus.HistogramVec
	parseFailures *prometheus.CounterVec
}

// NewOperationMetrics creates and registers operation metrics.
func NewOperationMetrics(cfg config.MetricsConfig, registry *prometheus.Registry) *OperationMetrics {
	om := &OperationMetrics{
		total: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "operations_total",
				Help:      "Total number of editor operations",
			},
			[]string{"operation", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "operation_duration_seconds",
				Help:      "Duration of editor operations in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8), // 100µs to ~1.6s
			},
			[]string{"operation"},
		),
		messageBytes: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "message_bytes",
				Help:      "Size of processed HL7 messages in bytes",
				Buckets:   prometheus.ExponentialBuckets(256, 4, 8), // 256B to 4MB
			},
			[]string{"operation"},
		),
		parseFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "parse_failures_total",
				Help:      "Total number of messages that failed to parse",
			},
			[]string{"reason"},
		),
	}

	registry.MustRegister(om.total, om.duration, om.messageBytes, om.parseFailures)
	return om
}

// Record records a completed operation.
func (om *OperationMetrics) Record(operation, status string, duration time.Duration, size int) {
	om.total.WithLabelValues(operation, status).Inc()
	om.duration.WithLabelValues(operation).Observe(duration.Seconds())
	if size > 0 {
		om.messageBytes.WithLabelValues(operation).Observe(float64(size))
	}
}

// RecordParseFailure counts a parse failure.
func (om *OperationMetrics) RecordParseFailure(reason string) {
	om.parseFailures.WithLabelValues(reason).Inc()
}
