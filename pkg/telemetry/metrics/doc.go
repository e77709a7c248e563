// Package metrics provides Prometheus metrics for the HL7 editor.
//
// The Collector records editor operations (count, duration, message size),
// parse failures, validation findings by severity and rule, and watcher
// activity. Metric names are prefixed with the configured namespace and
// subsystem, hl7_editor_ by default.
//
//	collector := metrics.NewCollector(cfg.Telemetry.Metrics, nil)
//	collector.RecordOperation("inspect", "ok", time.Since(start), len(text))
//
// A nil *Collector is valid and records nothing, so library code can take
// one optionally.
package metrics
