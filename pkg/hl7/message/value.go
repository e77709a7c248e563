package message

import (
	"slices"

	hl7errors "github.com/oracle-Solution/hl7/pkg/hl7/errors"
)

// GetValue returns the unescaped value at pos. Unspecified levels below the
// field default to their first unit. A coordinate beyond the current shape of
// an existing segment reads as the empty string; a segment occurrence that
// does not exist is an *errors.InvalidPositionError. A segment-level position
// has no value and reads as empty.
//
// The header fields MSH-1 and MSH-2 are returned verbatim.
func GetValue(m *Message, pos Position) (string, error) {
	pos = pos.Normalize()
	if !pos.valid() {
		return "", hl7errors.NewInvalidPosition(pos, "not a valid position")
	}

	seg := m.Segment(pos.Segment, pos.Occurrence)
	if seg == nil {
		return "", hl7errors.NewInvalidPosition(pos, "segment %s occurrence %d does not exist",
			pos.Segment, pos.Occurrence)
	}
	if pos.Field == 0 {
		return "", nil
	}

	leaf := seg.Field(pos.Field).
		Repetition(pos.Repetition).
		Component(max(pos.Component, 1)).
		Subcomponent(max(pos.Subcomponent, 1))
	if leaf == nil {
		return "", nil
	}
	if seg.IsHeader() && pos.Field <= 2 {
		return leaf.Value, nil
	}
	return m.Separators.UnescapeValue(leaf.Value), nil
}

// SetValue returns a copy of m with the leaf at pos replaced by the escaped
// value. Unspecified levels below the field default to their first unit.
// Missing segment occurrences, fields, repetitions, components and
// subcomponents are created empty on the way; a new segment occurrence is
// inserted after the last existing occurrence of its type, or appended to the
// message. No other leaf changes. m itself is never modified.
//
// The header fields MSH-1 and MSH-2 define the separators and are read-only.
func SetValue(m *Message, pos Position, value string) (*Message, error) {
	pos = pos.Normalize()
	if !pos.valid() {
		return nil, hl7errors.NewInvalidPosition(pos, "not a valid position")
	}
	if pos.Field == 0 {
		return nil, hl7errors.NewInvalidPosition(pos, "a segment has no value of its own")
	}
	if IsHeader(pos.Segment) && pos.Field <= 2 {
		return nil, hl7errors.NewInvalidPosition(pos, "%s-%d holds the separators and is read-only",
			pos.Segment, pos.Field)
	}

	out := m.Clone()
	seg := out.ensureSegment(pos.Segment, pos.Occurrence)

	for len(seg.Fields) < pos.Field {
		seg.Fields = append(seg.Fields, newField())
	}
	f := seg.Fields[pos.Field-1]

	for len(f.Repetitions) < pos.Repetition {
		f.Repetitions = append(f.Repetitions, newRepetition())
	}
	r := f.Repetitions[pos.Repetition-1]

	comp := max(pos.Component, 1)
	for len(r.Components) < comp {
		r.Components = append(r.Components, newComponent())
	}
	c := r.Components[comp-1]

	sub := max(pos.Subcomponent, 1)
	for len(c.Subcomponents) < sub {
		c.Subcomponents = append(c.Subcomponents, &Subcomponent{})
	}
	c.Subcomponents[sub-1].Value = out.Separators.EscapeValue(value)

	return out, nil
}

// ensureSegment returns occurrence occ of the named segment, creating empty
// occurrences as needed.
func (m *Message) ensureSegment(name string, occ int) *Segment {
	for m.Occurrences(name) < occ {
		seg := &Segment{Name: name}
		if IsHeader(name) {
			seg.Fields = []*Field{
				atomicField(string(m.Separators.Field), Span{}),
				atomicField(m.Separators.EncodingCharacters(), Span{}),
			}
		}

		last := -1
		for i, s := range m.Segments {
			if s.Name == name {
				last = i
			}
		}
		if last < 0 {
			m.Segments = append(m.Segments, seg)
		} else {
			m.Segments = slices.Insert(m.Segments, last+1, seg)
		}
	}
	return m.Segment(name, occ)
}

func newField() *Field {
	return &Field{Repetitions: []*Repetition{newRepetition()}}
}

func newRepetition() *Repetition {
	return &Repetition{Components: []*Component{newComponent()}}
}

func newComponent() *Component {
	return &Component{Subcomponents: []*Subcomponent{{}}}
}
