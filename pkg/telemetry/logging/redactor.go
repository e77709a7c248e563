package logging

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/oracle-Solution/hl7/pkg/config"
)

// Redactor masks protected health information in log fields. Patterns run
// in a fixed order so overlapping matches redact the same way every time.
type Redactor struct {
	patterns []redactPattern
}

type redactPattern struct {
	name        string
	regex       *regexp.Regexp
	replacement string
}

// Built-in pattern names.
const (
	PatternSegment = "hl7_segment"
	PatternSSN     = "ssn"
	PatternEmail   = "email"
	PatternPhone   = "phone"
)

var defaultPatterns = []struct {
	name, regex, replacement string
}{
	// Whole patient-bearing segments inside logged message text.
	{PatternSegment, `\b(PID|PD1|NK1|GT1|IN1|IN2|PV1|PV2|MRG|ROL)\|[^\r\n]*`, "$1|***"},
	{PatternSSN, `\b\d{3}-\d{2}-\d{4}\b`, "***-**-****"},
	{PatternEmail, `[a-zA-Z0-9._%+-]+@([a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`, "***@$1"},
	{PatternPhone, `\(?\b\d{3}\)?[-.\s]\d{3}[-.\s]\d{4}\b`, "***-***-****"},
}

// sensitiveKeys name log fields whose values are always masked.
var sensitiveKeys = []string{
	"value", "text", "patient", "ssn", "address",
	"dob", "birth", "phone", "email", "mrn",
}

// NewRedactor creates a Redactor with the built-in patterns followed by the
// custom ones.
func NewRedactor(custom []config.RedactPattern) (*Redactor, error) {
	r := &Redactor{}
	for _, p := range defaultPatterns {
		r.patterns = append(r.patterns, redactPattern{
			name:        p.name,
			regex:       regexp.MustCompile(p.regex),
			replacement: p.replacement,
		})
	}

	for _, p := range custom {
		regex, err := regexp.Compile(p.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid redact pattern %q: %w", p.Name, err)
		}
		replacement := p.Replacement
		if replacement == "" {
			replacement = "***"
		}
		r.patterns = append(r.patterns, redactPattern{name: p.Name, regex: regex, replacement: replacement})
	}
	return r, nil
}

// RedactString applies every pattern to value.
func (r *Redactor) RedactString(value string) string {
	if value == "" {
		return value
	}
	for _, p := range r.patterns {
		value = p.regex.ReplaceAllString(value, p.replacement)
	}
	return value
}

// RedactArgs redacts variadic log arguments of the form key1, value1, ...
// Values under sensitive keys are masked entirely; other string values and
// errors are scrubbed with the patterns.
func (r *Redactor) RedactArgs(args ...any) []any {
	if len(args) == 0 {
		return args
	}

	out := make([]any, len(args))
	copy(out, args)

	for i := 1; i < len(out); i += 2 {
		if key, ok := out[i-1].(string); ok && IsSensitiveKey(key) {
			out[i] = maskValue(out[i])
			continue
		}
		switch v := out[i].(type) {
		case string:
			out[i] = r.RedactString(v)
		case error:
			out[i] = r.RedactString(v.Error())
		}
	}
	return out
}

// IsSensitiveKey reports whether a log key names patient data.
func IsSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

// maskValue hides a value but keeps its size, which is often enough to
// debug an edit.
func maskValue(v any) any {
	s, ok := v.(string)
	if !ok {
		return "[redacted]"
	}
	if s == "" {
		return ""
	}
	return fmt.Sprintf("[redacted %d bytes]", len(s))
}
