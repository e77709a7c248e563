package message

import (
	"strings"

	"github.com/oracle-Solution/hl7/pkg/hl7/separator"
)

// Encode renders the message as raw text. Segments are joined with the
// message terminator in their original order, with no trailing terminator.
// Trailing empty fields, repetitions, components and subcomponents are
// dropped at every level, so encoding a parsed message is idempotent.
func Encode(m *Message) string {
	term := m.Terminator
	if term == 0 {
		term = '\r'
	}

	var sb strings.Builder
	for i, s := range m.Segments {
		if i > 0 {
			sb.WriteByte(term)
		}
		s.encode(&sb, m.Separators)
	}
	return sb.String()
}

func (s *Segment) encode(sb *strings.Builder, set separator.Set) {
	sb.WriteString(s.Name)

	fields := s.Fields
	if s.IsHeader() {
		enc := set.EncodingCharacters()
		if f := s.Field(2); f != nil {
			enc = f.leafValue()
		}
		sb.WriteByte(set.Field)
		sb.WriteString(enc)
		if len(fields) > 2 {
			fields = fields[2:]
		} else {
			fields = nil
		}
	}

	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f.Encode(set)
	}
	for _, p := range trimTrailingEmpty(parts) {
		sb.WriteByte(set.Field)
		sb.WriteString(p)
	}
}

// Encode renders the field with the given separators, dropping trailing
// empty units.
func (f *Field) Encode(set separator.Set) string {
	if f == nil {
		return ""
	}
	parts := make([]string, len(f.Repetitions))
	for i, r := range f.Repetitions {
		parts[i] = r.Encode(set)
	}
	return strings.Join(trimTrailingEmpty(parts), string(set.Repetition))
}

// Encode renders the repetition with the given separators.
func (r *Repetition) Encode(set separator.Set) string {
	if r == nil {
		return ""
	}
	parts := make([]string, len(r.Components))
	for i, c := range r.Components {
		parts[i] = c.Encode(set)
	}
	return strings.Join(trimTrailingEmpty(parts), string(set.Component))
}

// Encode renders the component with the given separators.
func (c *Component) Encode(set separator.Set) string {
	if c == nil {
		return ""
	}
	parts := make([]string, len(c.Subcomponents))
	for i, s := range c.Subcomponents {
		parts[i] = s.Value
	}
	return strings.Join(trimTrailingEmpty(parts), string(set.Subcomponent))
}

// leafValue returns the raw value of the first leaf.
func (f *Field) leafValue() string {
	if sc := f.Repetition(1).Component(1).Subcomponent(1); sc != nil {
		return sc.Value
	}
	return ""
}

func trimTrailingEmpty(parts []string) []string {
	n := len(parts)
	for n > 0 && parts[n-1] == "" {
		n--
	}
	return parts[:n]
}
