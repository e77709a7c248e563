package config

import "time"

// Config is the root configuration of the HL7 editing tools. It is loaded
// from YAML by LoadConfig and may be overridden by HL7_* environment
// variables.
type Config struct {
	// Editor controls how messages are parsed, addressed and validated.
	Editor EditorConfig `yaml:"editor"`

	// Dictionary lists additional dictionary files layered over the
	// built-in HL7 versions.
	Dictionary DictionaryConfig `yaml:"dictionary"`

	// Watch configures the directory watcher used by "hl7edit watch".
	Watch WatchConfig `yaml:"watch"`

	// Telemetry configures logging, metrics and tracing.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// EditorConfig contains editing and validation settings.
type EditorConfig struct {
	// DefaultVersion is the HL7 version used when a request names none and
	// MSH-12 is empty. Default: "2.5"
	DefaultVersion string `yaml:"default_version"`

	// Units selects how caret offsets are counted: "bytes" or "utf16".
	// Default: "bytes"
	Units string `yaml:"units"`

	// Strict reports every finding as an error.
	// Default: false
	Strict bool `yaml:"strict"`

	// Terminator is the segment terminator written on output: "cr" or "lf".
	// Messages are always parsed with CR.
	// Default: "cr"
	Terminator string `yaml:"terminator"`

	// MaxMessageBytes rejects larger messages before parsing.
	// Default: 1048576 (1 MiB)
	MaxMessageBytes int `yaml:"max_message_bytes"`

	// Concurrency bounds the number of files validated in parallel.
	// Default: 4
	Concurrency int `yaml:"concurrency"`
}

// DictionaryConfig points at site dictionary files (YAML or TOML).
type DictionaryConfig struct {
	// Paths are loaded in order on top of the built-in dictionaries.
	Paths []string `yaml:"paths"`
}

// WatchConfig contains settings for watching a directory of messages.
type WatchConfig struct {
	// DebounceInterval coalesces bursts of file events.
	// Default: 250ms
	DebounceInterval time.Duration `yaml:"debounce_interval"`

	// Extensions selects the files that are validated.
	// Default: [".hl7", ".txt"]
	Extensions []string `yaml:"extensions"`

	// IncludeHidden also validates dot files.
	// Default: false
	IncludeHidden bool `yaml:"include_hidden"`
}

// TelemetryConfig contains observability settings.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Level is the minimum level: "debug", "info", "warn" or "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is "json", "text" or "console".
	// Default: "text"
	Format string `yaml:"format"`

	// AddSource adds file and line to log records.
	// Default: false
	AddSource bool `yaml:"add_source"`

	// RedactPHI masks patient data (names, identifiers, field values) in
	// log records.
	// Default: true
	RedactPHI bool `yaml:"redact_phi"`

	// RedactPatterns are additional regular expressions to mask.
	RedactPatterns []RedactPattern `yaml:"redact_patterns"`
}

// RedactPattern is a custom redaction rule.
type RedactPattern struct {
	Name        string `yaml:"name"`
	Pattern     string `yaml:"pattern"`
	Replacement string `yaml:"replacement"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled turns on metric collection.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Namespace prefixes every metric name.
	// Default: "hl7"
	Namespace string `yaml:"namespace"`

	// Subsystem is the second part of every metric name.
	// Default: "editor"
	Subsystem string `yaml:"subsystem"`

	// ListenAddress serves the metrics endpoint when set, e.g. ":9464".
	ListenAddress string `yaml:"listen_address"`

	// Path is the HTTP path of the metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	// Enabled turns on span export. A no-op tracer is used otherwise.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// ServiceName is the service.name resource attribute.
	// Default: "hl7edit"
	ServiceName string `yaml:"service_name"`

	// Endpoint is the OTLP gRPC collector address.
	// Default: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// Sampler is "always", "never" or "ratio".
	// Default: "ratio"
	Sampler string `yaml:"sampler"`

	// SampleRatio is used by the ratio sampler.
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// Insecure disables TLS to the collector.
	// Default: false
	Insecure bool `yaml:"insecure"`
}
