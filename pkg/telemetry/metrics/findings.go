package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/oracle-Solution/hl7/pkg/config"
)

// FindingMetrics tracks validation results.
//
//   - hl7_editor_findings_total{severity,rule}
//   - hl7_editor_messages_validated_total{result}
type FindingMetrics struct {
	findings  *prometheus.CounterVec
	validated *prometheus.CounterVec
}

// NewFindingMetrics creates and registers validation metrics.
func NewFindingMetrics(cfg config.MetricsConfig, registry *prometheus.Registry) *FindingMetrics {
	fm := &FindingMetrics{
		findings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "findings_total",
				Help:      "Total number of validation findings",
			},
			[]string{"severity", "rule"},
		),
		validated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "messages_validated_total",
				Help:      "Total number of validated messages by result",
			},
			[]string{"result"},
		),
	}

	registry.MustRegister(fm.findings, fm.validated)
	return fm
}

// RecordFinding counts one finding.
func (fm *FindingMetrics) RecordFinding(severity, rule string) {
	fm.findings.WithLabelValues(severity, rule).Inc()
}

// RecordValidation counts one validated message.
func (fm *FindingMetrics) RecordValidation(result string) {
	fm.validated.WithLabelValues(result).Inc()
}
