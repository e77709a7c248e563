package cli

import (
	"errors"
	"fmt"

	hl7errors "github.com/oracle-Solution/hl7/pkg/hl7/errors"
)

// Process exit codes of hl7edit.
const (
	ExitOK       = 0 // success, no ERROR findings
	ExitFindings = 1 // at least one message has ERROR findings
	ExitFailure  = 2 // the command failed
	ExitConfig   = 3 // the configuration is invalid
	ExitInput    = 4 // a message could not be parsed or a path is invalid
)

// ConfigError represents an error in configuration.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
}

// CommandError represents an error from a command execution.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// FindingsError reports that validation produced ERROR findings. The
// findings have already been printed; only the exit code is left to set.
type FindingsError struct {
	Messages int // messages with at least one ERROR finding
	Errors   int // ERROR findings in total
}

func (e *FindingsError) Error() string {
	return fmt.Sprintf("%d error(s) in %d message(s)", e.Errors, e.Messages)
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Message: message,
	}
}

// NewCommandError creates a new CommandError.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Err:     err,
	}
}

// ExitCode maps a command error to the process exit code.
func ExitCode(err error) int {
	var (
		cfgErr      *ConfigError
		findingsErr *FindingsError
	)
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &findingsErr):
		return ExitFindings
	case errors.As(err, &cfgErr):
		return ExitConfig
	case hl7errors.IsStructural(err):
		return ExitInput
	default:
		return ExitFailure
	}
}
