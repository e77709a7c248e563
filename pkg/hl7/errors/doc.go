// Package errors provides the structural error types of the HL7 editing core.
//
// # Error Types
//
// MalformedMessageError: raw text that cannot be parsed into a message at all
// (empty input, a segment without a type code).
//
// InvalidPathError: an accessor path that is syntactically wrong or points
// outside the message shape allowed for the version.
//
// InvalidPositionError: a structured position that does not exist in the
// current message, or that addresses a read-only unit.
//
// Content problems in a parseable message are never errors; they are reported
// as validation findings by the validator package.
//
// # Basic Usage
//
// Match errors by category with errors.Is:
//
//	msg, err := message.Parse(text, set)
//	if errors.Is(err, hl7errors.ErrMalformedMessage) {
//	    // show err.Error() and keep the previous text
//	}
//
// or inspect details with errors.As:
//
//	var pathErr *hl7errors.InvalidPathError
//	if errors.As(err, &pathErr) {
//	    fmt.Println(pathErr.Path, pathErr.Suggestion)
//	}
//
// # Suggestions
//
// Suggest uses Levenshtein distance to propose a close segment or field name:
//
//	hint := hl7errors.Suggest("PDI", []string{"PID", "PV1", "MSH"})
//	// Returns: "Did you mean 'PID'?"
package errors
