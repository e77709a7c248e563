package validator

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/oracle-Solution/hl7/pkg/hl7/message"
)

// Severity classifies a finding.
type Severity int

const (
	// SeverityError marks a violation of the standard.
	SeverityError Severity = iota
	// SeverityInfo marks something unusual that is not strictly wrong.
	SeverityInfo
)

// String returns "ERROR" or "INFO".
func (s Severity) String() string {
	if s == SeverityInfo {
		return "INFO"
	}
	return "ERROR"
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	switch strings.ToUpper(string(text)) {
	case "ERROR":
		*s = SeverityError
	case "INFO":
		*s = SeverityInfo
	default:
		return fmt.Errorf("unknown severity %q", string(text))
	}
	return nil
}

// Finding is one validation result. Findings are plain data: every
// validation pass produces a fresh list.
type Finding struct {
	Severity Severity         `json:"severity"`
	Rule     string           `json:"rule"`
	Message  string           `json:"message"`
	Position message.Position `json:"position"`
	Span     message.Span     `json:"span"`
}

// String renders the finding on one line.
func (f Finding) String() string {
	return fmt.Sprintf("%s %s %s [%s]: %s", f.Severity, f.Span, f.Position, f.Rule, f.Message)
}

// Sort orders findings by ascending span start, then span end, then errors
// before infos, then document order of the position, then rule name.
func Sort(findings []Finding) {
	slices.SortStableFunc(findings, compare)
}

func compare(a, b Finding) int {
	if c := cmp.Compare(a.Span.Start, b.Span.Start); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Span.End, b.Span.End); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Severity, b.Severity); c != 0 {
		return c
	}
	if c := a.Position.Compare(b.Position); c != 0 {
		return c
	}
	return cmp.Compare(a.Rule, b.Rule)
}

// FindingAt returns the first finding whose position equals pos. A
// segment-level pos only matches segment-level findings.
func FindingAt(findings []Finding, pos message.Position) (Finding, bool) {
	for _, f := range findings {
		if pos.Field == 0 && f.Position.Field != 0 {
			continue
		}
		if f.Position.Equal(pos) {
			return f, true
		}
	}
	return Finding{}, false
}

// Count returns the number of errors and infos in findings.
func Count(findings []Finding) (errors, infos int) {
	for _, f := range findings {
		if f.Severity == SeverityError {
			errors++
		} else {
			infos++
		}
	}
	return errors, infos
}

// HasErrors reports whether any finding is an error.
func HasErrors(findings []Finding) bool {
	errs, _ := Count(findings)
	return errs > 0
}
