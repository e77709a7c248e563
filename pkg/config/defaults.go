package config

import "time"

// Default values used by ApplyDefaults and NewDefaultConfig.
const (
	DefaultVersion         = "2.5"
	DefaultUnits           = "bytes"
	DefaultTerminator      = "cr"
	DefaultMaxMessageBytes = 1 << 20
	DefaultConcurrency     = 4

	DefaultDebounceInterval = 250 * time.Millisecond

	DefaultLoggingLevel  = "info"
	DefaultLoggingFormat = "text"
	DefaultRedactPHI     = true

	DefaultMetricsNamespace = "hl7"
	DefaultMetricsSubsystem = "editor"
	DefaultMetricsPath      = "/metrics"

	DefaultTracingServiceName = "hl7edit"
	DefaultTracingEndpoint    = "localhost:4317"
	DefaultTracingSampler     = "ratio"
	DefaultTracingSampleRatio = 1.0
)

// DefaultExtensions are the file extensions the watcher validates.
var DefaultExtensions = []string{".hl7", ".txt"}

// NewDefaultConfig returns a configuration with every default applied. It is
// also the starting point of LoadConfig, so boolean defaults such as
// RedactPHI survive a file that does not mention them.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	cfg.Telemetry.Logging.RedactPHI = DefaultRedactPHI
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills every zero-valued setting with its default.
func ApplyDefaults(cfg *Config) {
	if cfg.Editor.DefaultVersion == "" {
		cfg.Editor.DefaultVersion = DefaultVersion
	}
	if cfg.Editor.Units == "" {
		cfg.Editor.Units = DefaultUnits
	}
	if cfg.Editor.Terminator == "" {
		cfg.Editor.Terminator = DefaultTerminator
	}
	if cfg.Editor.MaxMessageBytes == 0 {
		cfg.Editor.MaxMessageBytes = DefaultMaxMessageBytes
	}
	if cfg.Editor.Concurrency == 0 {
		cfg.Editor.Concurrency = DefaultConcurrency
	}

	if cfg.Watch.DebounceInterval == 0 {
		cfg.Watch.DebounceInterval = DefaultDebounceInterval
	}
	if len(cfg.Watch.Extensions) == 0 {
		cfg.Watch.Extensions = append([]string(nil), DefaultExtensions...)
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}

	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}

	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultTracingServiceName
	}
	if cfg.Telemetry.Tracing.Endpoint == "" {
		cfg.Telemetry.Tracing.Endpoint = DefaultTracingEndpoint
	}
	if cfg.Telemetry.Tracing.Sampler == "" {
		cfg.Telemetry.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Telemetry.Tracing.SampleRatio == 0 {
		cfg.Telemetry.Tracing.SampleRatio = DefaultTracingSampleRatio
	}
}
