// Package config provides configuration management for the HL7 editing
// tools.
//
// Configuration is loaded from a YAML file, layered over defaults and
// optionally overridden by environment variables.
//
// # Configuration Loading
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("hl7edit.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("hl7edit.yaml")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention HL7_SECTION_FIELD:
//
//   - HL7_EDITOR_DEFAULT_VERSION overrides editor.default_version
//   - HL7_DICTIONARY_PATHS overrides dictionary.paths (comma-separated)
//   - HL7_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// # Configuration Precedence
//
//  1. Default values (defined in defaults.go)
//  2. Values from the YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Example Configuration
//
//	editor:
//	  default_version: "2.5.1"
//	  units: utf16
//	  strict: false
//
//	dictionary:
//	  paths:
//	    - ./site-zsegments.yaml
//
//	watch:
//	  debounce_interval: 500ms
//	  extensions: [".hl7"]
//
//	telemetry:
//	  logging:
//	    level: debug
//	    format: json
//	  metrics:
//	    enabled: true
//	    listen_address: ":9464"
//
// There is no process-wide configuration. Each command loads a *Config once
// and passes it to the packages it builds.
package config
