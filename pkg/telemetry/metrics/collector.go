package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/oracle-Solution/hl7/pkg/config"
)

// Collector owns the Prometheus metrics of the editor. A nil Collector, or
// one built from a disabled configuration, records nothing.
type Collector struct {
	config   config.MetricsConfig
	registry *prometheus.Registry

	operations *OperationMetrics
	findings   *FindingMetrics
	watch      *WatchMetrics

	// rules bounds the rule label; custom rule sets could otherwise grow it
	// without limit.
	rules *CardinalityLimiter
}

// NewCollector creates a collector registering its metrics in registry. If
// registry is nil a fresh one is created.
//
//	collector := metrics.NewCollector(cfg.Telemetry.Metrics, nil)
//	http.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
func NewCollector(cfg config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}

	return &Collector{
		config:     cfg,
		registry:   registry,
		operations: NewOperationMetrics(cfg, registry),
		findings:   NewFindingMetrics(cfg, registry),
		watch:      NewWatchMetrics(cfg, registry),
		rules:      NewCardinalityLimiter(200),
	}
}

func (c *Collector) enabled() bool {
	return c != nil && c.config.Enabled
}

// RecordOperation records one editor operation.
//
//   - operation: "inspect", "set", "validate" or "lookup"
//   - status: "ok" or an error class such as "malformed" or "invalid_path"
//   - size: length of the message text in bytes
func (c *Collector) RecordOperation(operation, status string, duration time.Duration, size int) {
	if !c.enabled() {
		return
	}
	c.operations.Record(operation, status, duration, size)
}

// RecordParseFailure records a message that could not be parsed.
func (c *Collector) RecordParseFailure(reason string) {
	if !c.enabled() {
		return
	}
	c.operations.RecordParseFailure(reason)
}

// RecordFinding records one validation finding.
func (c *Collector) RecordFinding(severity, rule string) {
	if !c.enabled() {
		return
	}
	if !c.rules.Allow(rule) {
		rule = "other"
	}
	c.findings.RecordFinding(severity, rule)
}

// RecordValidation records the outcome of validating one message: "valid",
// "invalid" (has errors) or "malformed".
func (c *Collector) RecordValidation(result string) {
	if !c.enabled() {
		return
	}
	c.findings.RecordValidation(result)
}

// RecordWatchEvent records a file event seen by the watcher.
func (c *Collector) RecordWatchEvent(op string) {
	if !c.enabled() {
		return
	}
	c.watch.RecordEvent(op)
}

// SetWatchedFiles sets the number of files currently tracked by the watcher.
func (c *Collector) SetWatchedFiles(n int) {
	if !c.enabled() {
		return
	}
	c.watch.SetFiles(n)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CardinalityLimiter caps the number of distinct label values.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a limiter admitting up to maxCardinality
// distinct values.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow reports whether value is already known or still fits under the cap.
func (cl *CardinalityLimiter) Allow(value string) bool {
	cl.mu.RLock()
	_, exists := cl.current[value]
	cl.mu.RUnlock()
	if exists {
		return true
	}

	cl.mu.Lock()
	defer cl.mu.Unlock()

	if _, exists := cl.current[value]; exists {
		return true
	}
	if len(cl.current) >= cl.maxCardinality {
		return false
	}
	cl.current[value] = struct{}{}
	return true
}

// Count returns the number of admitted values.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
