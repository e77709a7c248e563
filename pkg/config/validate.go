package config

import (
	"fmt"
	"regexp"
	"strings"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "editor.units").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

var (
	versionPattern    = regexp.MustCompile(`^[0-9]+(\.[0-9]+)*$`)
	metricNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
)

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. All errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateEditor(&cfg.Editor)...)
	errs = append(errs, validateDictionary(&cfg.Dictionary)...)
	errs = append(errs, validateWatch(&cfg.Watch)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateEditor(cfg *EditorConfig) []FieldError {
	var errs []FieldError

	if !versionPattern.MatchString(cfg.DefaultVersion) {
		errs = append(errs, FieldError{
			Field:   "editor.default_version",
			Message: fmt.Sprintf("invalid HL7 version %q, expected a dotted number such as 2.5", cfg.DefaultVersion),
		})
	}
	if cfg.Units != "bytes" && cfg.Units != "utf16" {
		errs = append(errs, FieldError{
			Field:   "editor.units",
			Message: fmt.Sprintf("invalid units %q, must be bytes or utf16", cfg.Units),
		})
	}
	if cfg.Terminator != "cr" && cfg.Terminator != "lf" {
		errs = append(errs, FieldError{
			Field:   "editor.terminator",
			Message: fmt.Sprintf("invalid terminator %q, must be cr or lf", cfg.Terminator),
		})
	}
	if cfg.MaxMessageBytes <= 0 {
		errs = append(errs, FieldError{
			Field:   "editor.max_message_bytes",
			Message: "must be positive",
		})
	}
	if cfg.Concurrency <= 0 || cfg.Concurrency > 256 {
		errs = append(errs, FieldError{
			Field:   "editor.concurrency",
			Message: "must be between 1 and 256",
		})
	}
	return errs
}

func validateDictionary(cfg *DictionaryConfig) []FieldError {
	var errs []FieldError
	for i, p := range cfg.Paths {
		if strings.TrimSpace(p) == "" {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("dictionary.paths[%d]", i),
				Message: "path is empty",
			})
		}
	}
	return errs
}

func validateWatch(cfg *WatchConfig) []FieldError {
	var errs []FieldError
	if cfg.DebounceInterval < 0 {
		errs = append(errs, FieldError{
			Field:   "watch.debounce_interval",
			Message: "must not be negative",
		})
	}
	for i, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("watch.extensions[%d]", i),
				Message: fmt.Sprintf("invalid extension %q, must start with a dot", ext),
			})
		}
	}
	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid level %q, must be one of debug, info, warn, error", cfg.Logging.Level),
		})
	}
	switch cfg.Logging.Format {
	case "json", "text", "console":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid format %q, must be json, text or console", cfg.Logging.Format),
		})
	}
	for i, p := range cfg.Logging.RedactPatterns {
		field := fmt.Sprintf("telemetry.logging.redact_patterns[%d]", i)
		if p.Pattern == "" {
			errs = append(errs, FieldError{Field: field + ".pattern", Message: "pattern is required"})
			continue
		}
		if _, err := regexp.Compile(p.Pattern); err != nil {
			errs = append(errs, FieldError{Field: field + ".pattern", Message: fmt.Sprintf("invalid regular expression: %v", err)})
		}
	}

	if !metricNamePattern.MatchString(cfg.Metrics.Namespace) {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.namespace",
			Message: fmt.Sprintf("invalid metric namespace %q", cfg.Metrics.Namespace),
		})
	}
	if !metricNamePattern.MatchString(cfg.Metrics.Subsystem) {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.subsystem",
			Message: fmt.Sprintf("invalid metric subsystem %q", cfg.Metrics.Subsystem),
		})
	}
	if !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: "must start with /",
		})
	}

	switch cfg.Tracing.Sampler {
	case "always", "never", "ratio":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sampler",
			Message: fmt.Sprintf("invalid sampler %q, must be always, never or ratio", cfg.Tracing.Sampler),
		})
	}
	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1 {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sample_ratio",
			Message: "must be between 0 and 1",
		})
	}
	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.endpoint",
			Message: "endpoint is required when tracing is enabled",
		})
	}
	return errs
}
