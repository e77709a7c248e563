package separator

import (
	"errors"
	"fmt"
	"strings"
)

// Level identifies a structural level of an HL7 v2 message, from the
// outermost (segment) to the innermost (subcomponent).
type Level int

const (
	LevelSegment Level = iota
	LevelField
	LevelRepetition
	LevelComponent
	LevelSubcomponent
)

// String returns the lowercase level name.
func (l Level) String() string {
	switch l {
	case LevelSegment:
		return "segment"
	case LevelField:
		return "field"
	case LevelRepetition:
		return "repetition"
	case LevelComponent:
		return "component"
	case LevelSubcomponent:
		return "subcomponent"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Set is the delimiter table for one message. It is a value type and is never
// mutated after it has been resolved for a version or detected from a header.
type Set struct {
	Segment      byte // segment terminator (CR on the wire)
	Field        byte
	Repetition   byte
	Component    byte
	Subcomponent byte
	Escape       byte
}

// Standard is the delimiter table defined by every HL7 v2 version.
var Standard = Set{
	Segment:      '\r',
	Field:        '|',
	Repetition:   '~',
	Component:    '^',
	Subcomponent: '&',
	Escape:       '\\',
}

// Delimiter returns the delimiter that separates units of the given level.
func (s Set) Delimiter(level Level) byte {
	switch level {
	case LevelSegment:
		return s.Segment
	case LevelField:
		return s.Field
	case LevelRepetition:
		return s.Repetition
	case LevelComponent:
		return s.Component
	case LevelSubcomponent:
		return s.Subcomponent
	default:
		return 0
	}
}

// EncodingCharacters returns the MSH-2 value for this set: component,
// repetition, escape and subcomponent characters in that order.
func (s Set) EncodingCharacters() string {
	return string([]byte{s.Component, s.Repetition, s.Escape, s.Subcomponent})
}

// IsSegmentTerminator reports whether b ends a segment. Both CR and LF are
// accepted because editing surfaces show each segment on its own line.
func (s Set) IsSegmentTerminator(b byte) bool {
	return b == s.Segment || b == '\r' || b == '\n'
}

// IsDelimiter reports whether b is any field-level or deeper delimiter, or the
// escape character.
func (s Set) IsDelimiter(b byte) bool {
	return b == s.Field || b == s.Repetition || b == s.Component ||
		b == s.Subcomponent || b == s.Escape
}

// Validate checks the invariants of the table: every delimiter is set, all
// delimiters are distinct, the escape character differs from every delimiter
// and none of them is alphanumeric.
func (s Set) Validate() error {
	chars := []struct {
		name string
		c    byte
	}{
		{"segment", s.Segment},
		{"field", s.Field},
		{"repetition", s.Repetition},
		{"component", s.Component},
		{"subcomponent", s.Subcomponent},
		{"escape", s.Escape},
	}

	seen := make(map[byte]string, len(chars))
	for _, ch := range chars {
		if ch.c == 0 {
			return fmt.Errorf("%s delimiter is not set", ch.name)
		}
		if isAlphanumeric(ch.c) {
			return fmt.Errorf("%s delimiter %q must not be alphanumeric", ch.name, ch.c)
		}
		if other, dup := seen[ch.c]; dup {
			return fmt.Errorf("%s delimiter %q duplicates the %s delimiter", ch.name, ch.c, other)
		}
		seen[ch.c] = ch.name
	}
	return nil
}

// String renders the set as it would appear at the start of an MSH segment.
func (s Set) String() string {
	var sb strings.Builder
	sb.WriteByte(s.Field)
	sb.WriteString(s.EncodingCharacters())
	return sb.String()
}

// Detect resolves the separator set for raw message text. When the text
// starts with an MSH header, the field separator is the byte following "MSH"
// and MSH-2 supplies the encoding characters; any encoding character missing
// from a short MSH-2 falls back to the version default. Text without a header
// uses the version default. A header that ends right after "MSH" has no field
// separator and is an error.
func Detect(text, version string) (Set, error) {
	set, err := ForVersion(version)
	if err != nil {
		return Set{}, err
	}

	if len(text) < 4 || !strings.HasPrefix(text, "MSH") {
		return set, nil
	}

	if set.IsSegmentTerminator(text[3]) {
		return Set{}, errors.New("MSH segment ends before the field separator")
	}
	set.Field = text[3]
	enc := make([]byte, 0, 4)
	for i := 4; i < len(text) && len(enc) < 4; i++ {
		c := text[i]
		if c == set.Field || set.IsSegmentTerminator(c) {
			break
		}
		enc = append(enc, c)
	}

	if len(enc) > 0 {
		set.Component = enc[0]
	}
	if len(enc) > 1 {
		set.Repetition = enc[1]
	}
	if len(enc) > 2 {
		set.Escape = enc[2]
	}
	if len(enc) > 3 {
		set.Subcomponent = enc[3]
	}

	if err := set.Validate(); err != nil {
		return Set{}, fmt.Errorf("invalid MSH encoding characters %q: %w", string(enc), err)
	}
	return set, nil
}

func isAlphanumeric(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
