package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for errors.Is checks. Every concrete error type in this
// package matches exactly one of them.
var (
	// ErrMalformedMessage is matched by *MalformedMessageError.
	ErrMalformedMessage = errors.New("malformed message")

	// ErrInvalidPath is matched by *InvalidPathError.
	ErrInvalidPath = errors.New("invalid path")

	// ErrInvalidPosition is matched by *InvalidPositionError.
	ErrInvalidPosition = errors.New("invalid position")
)

// MalformedMessageError reports raw text that cannot be parsed into a message
// at all. It is fatal for the current operation: no position mapping or
// validation can run against a tree that does not exist.
type MalformedMessageError struct {
	Message string // What is wrong
	Segment int    // 1-based segment number, 0 when not tied to a segment
	Offset  int    // Byte offset in the raw text, -1 when unknown
}

// Error implements the error interface.
func (e *MalformedMessageError) Error() string {
	var sb strings.Builder
	sb.WriteString("malformed message: ")
	sb.WriteString(e.Message)
	if e.Segment > 0 {
		sb.WriteString(fmt.Sprintf(" (segment %d", e.Segment))
		if e.Offset >= 0 {
			sb.WriteString(fmt.Sprintf(", offset %d", e.Offset))
		}
		sb.WriteString(")")
	}
	return sb.String()
}

// Is reports whether target is ErrMalformedMessage.
func (e *MalformedMessageError) Is(target error) bool {
	return target == ErrMalformedMessage
}

// NewMalformed creates a MalformedMessageError not tied to a segment.
func NewMalformed(format string, args ...any) *MalformedMessageError {
	return &MalformedMessageError{
		Message: fmt.Sprintf(format, args...),
		Offset:  -1,
	}
}

// InvalidPathError reports an accessor path that is syntactically wrong or
// references a coordinate outside the current message shape. It indicates a
// caller mistake, not a content problem, and is therefore never downgraded to
// a validation finding.
type InvalidPathError struct {
	Path       string // The offending path
	Reason     string // Why it was rejected
	Suggestion string // Suggested fix (optional)
}

// Error implements the error interface.
func (e *InvalidPathError) Error() string {
	msg := fmt.Sprintf("invalid path %q: %s", e.Path, e.Reason)
	if e.Suggestion != "" {
		msg += " (" + e.Suggestion + ")"
	}
	return msg
}

// Is reports whether target is ErrInvalidPath.
func (e *InvalidPathError) Is(target error) bool {
	return target == ErrInvalidPath
}

// NewInvalidPath creates an InvalidPathError.
func NewInvalidPath(path, format string, args ...any) *InvalidPathError {
	return &InvalidPathError{
		Path:   path,
		Reason: fmt.Sprintf(format, args...),
	}
}

// InvalidPositionError reports a structured position that does not exist in
// the current message shape, or that cannot be written.
type InvalidPositionError struct {
	Position string // Rendered position
	Reason   string
}

// Error implements the error interface.
func (e *InvalidPositionError) Error() string {
	return fmt.Sprintf("invalid position %s: %s", e.Position, e.Reason)
}

// Is reports whether target is ErrInvalidPosition.
func (e *InvalidPositionError) Is(target error) bool {
	return target == ErrInvalidPosition
}

// NewInvalidPosition creates an InvalidPositionError.
func NewInvalidPosition(position fmt.Stringer, format string, args ...any) *InvalidPositionError {
	return &InvalidPositionError{
		Position: position.String(),
		Reason:   fmt.Sprintf(format, args...),
	}
}

// IsStructural reports whether err is one of the structural failures of this
// package. Callers keep their previous text untouched when it is.
func IsStructural(err error) bool {
	return errors.Is(err, ErrMalformedMessage) ||
		errors.Is(err, ErrInvalidPath) ||
		errors.Is(err, ErrInvalidPosition)
}
