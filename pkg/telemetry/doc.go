// Package telemetry wires logging, Prometheus metrics, OpenTelemetry tracing
// and health probes for the HL7 editing tools.
//
//	tel, err := telemetry.New(ctx, cfg.Telemetry, version, os.Stderr)
//	defer tel.Shutdown(context.Background())
//
//	tel.Logger().Info("validated", "file", name, "errors", n)
//	tel.Metrics().RecordOperation("validate", "ok", time.Since(start), len(text))
//
// Long-running modes expose the metrics and probes over HTTP with Serve.
// Patient data is redacted from logs by default; spans and metrics never
// carry field values.
package telemetry
