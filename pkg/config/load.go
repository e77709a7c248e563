package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// Settings the file leaves out keep their defaults. The result is validated;
// environment variables are not consulted, see LoadConfigWithEnvOverrides.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg := NewDefaultConfig()
	// Lists replace the defaults instead of merging with them.
	cfg.Watch.Extensions = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Variables follow the naming convention
// HL7_SECTION_FIELD (e.g., HL7_EDITOR_DEFAULT_VERSION) and always take
// precedence over the file. An empty path skips the file and starts from
// the defaults.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg := NewDefaultConfig()
	if path != "" {
		var err error
		if cfg, err = LoadConfig(path); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies HL7_* environment variables. Values that do not
// parse are ignored.
func applyEnvOverrides(cfg *Config) {
	// Editor overrides
	setString("HL7_EDITOR_DEFAULT_VERSION", &cfg.Editor.DefaultVersion)
	setString("HL7_EDITOR_UNITS", &cfg.Editor.Units)
	setBool("HL7_EDITOR_STRICT", &cfg.Editor.Strict)
	setString("HL7_EDITOR_TERMINATOR", &cfg.Editor.Terminator)
	setInt("HL7_EDITOR_MAX_MESSAGE_BYTES", &cfg.Editor.MaxMessageBytes)
	setInt("HL7_EDITOR_CONCURRENCY", &cfg.Editor.Concurrency)

	// Dictionary overrides
	if val := os.Getenv("HL7_DICTIONARY_PATHS"); val != "" {
		cfg.Dictionary.Paths = splitList(val)
	}

	// Watch overrides
	setDuration("HL7_WATCH_DEBOUNCE_INTERVAL", &cfg.Watch.DebounceInterval)
	if val := os.Getenv("HL7_WATCH_EXTENSIONS"); val != "" {
		cfg.Watch.Extensions = splitList(val)
	}
	setBool("HL7_WATCH_INCLUDE_HIDDEN", &cfg.Watch.IncludeHidden)

	// Telemetry overrides
	setString("HL7_TELEMETRY_LOGGING_LEVEL", &cfg.Telemetry.Logging.Level)
	setString("HL7_TELEMETRY_LOGGING_FORMAT", &cfg.Telemetry.Logging.Format)
	setBool("HL7_TELEMETRY_LOGGING_ADD_SOURCE", &cfg.Telemetry.Logging.AddSource)
	setBool("HL7_TELEMETRY_LOGGING_REDACT_PHI", &cfg.Telemetry.Logging.RedactPHI)

	setBool("HL7_TELEMETRY_METRICS_ENABLED", &cfg.Telemetry.Metrics.Enabled)
	setString("HL7_TELEMETRY_METRICS_NAMESPACE", &cfg.Telemetry.Metrics.Namespace)
	setString("HL7_TELEMETRY_METRICS_SUBSYSTEM", &cfg.Telemetry.Metrics.Subsystem)
	setString("HL7_TELEMETRY_METRICS_LISTEN_ADDRESS", &cfg.Telemetry.Metrics.ListenAddress)
	setString("HL7_TELEMETRY_METRICS_PATH", &cfg.Telemetry.Metrics.Path)

	setBool("HL7_TELEMETRY_TRACING_ENABLED", &cfg.Telemetry.Tracing.Enabled)
	setString("HL7_TELEMETRY_TRACING_SERVICE_NAME", &cfg.Telemetry.Tracing.ServiceName)
	setString("HL7_TELEMETRY_TRACING_ENDPOINT", &cfg.Telemetry.Tracing.Endpoint)
	setString("HL7_TELEMETRY_TRACING_SAMPLER", &cfg.Telemetry.Tracing.Sampler)
	if val := os.Getenv("HL7_TELEMETRY_TRACING_SAMPLE_RATIO"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Telemetry.Tracing.SampleRatio = f
		}
	}
	setBool("HL7_TELEMETRY_TRACING_INSECURE", &cfg.Telemetry.Tracing.Insecure)
}

func setString(key string, dst *string) {
	if val := os.Getenv(key); val != "" {
		*dst = val
	}
}

func setBool(key string, dst *bool) {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}

func setInt(key string, dst *int) {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			*dst = i
		}
	}
}

func setDuration(key string, dst *time.Duration) {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			*dst = d
		}
	}
}

// splitList splits a comma-separated value, dropping empty entries.
func splitList(val string) []string {
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
