package hl7

import (
	"context"
	"sync"

	"github.com/oracle-Solution/hl7/pkg/hl7/editor"
	"github.com/oracle-Solution/hl7/pkg/hl7/validator"
)

var (
	defaultOnce    sync.Once
	defaultService *editor.Service
)

// Default returns the shared editor service over the built-in dictionaries.
// Offsets are byte offsets.
func Default() *editor.Service {
	defaultOnce.Do(func() {
		defaultService = editor.New(nil)
	})
	return defaultService
}

// ParseAndValidate parses text as a message of version and returns its
// findings, sorted by span.
func ParseAndValidate(text, version string) ([]validator.Finding, error) {
	return Default().Validate(context.Background(), text, version)
}

// Inspect returns the findings of text and the unit at the byte offset caret.
func Inspect(text, version string, caret int) (*editor.Inspection, error) {
	return Default().Inspect(context.Background(), editor.Request{Text: text, Version: version, Caret: caret})
}

// Get returns the value at path.
func Get(text, version, path string) (string, error) {
	res, err := Default().Lookup(context.Background(), editor.LookupRequest{Text: text, Version: version, Path: path})
	if err != nil {
		return "", err
	}
	return res.Value, nil
}

// SetValue stores value at path and returns the re-encoded text with the
// caret placed at the start of the edited unit.
func SetValue(text, version, path, value string) (*editor.SetResult, error) {
	return Default().SetValue(context.Background(), editor.SetRequest{Text: text, Version: version, Path: path, Value: value})
}
