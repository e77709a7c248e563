package message

import (
	"github.com/oracle-Solution/hl7/pkg/hl7/separator"
)

// Message is a parsed HL7 v2 message: an ordered list of segment occurrences.
// Segments of the same type may repeat and are never reordered.
//
// Spans on every node describe the text the message was parsed from. Nodes
// created by SetValue carry zero spans, and spans of a modified message are
// stale until it is encoded and parsed again.
type Message struct {
	Separators separator.Set
	Terminator byte // Segment terminator used by Encode, '\r' or '\n'
	Segments   []*Segment
}

// Segment is one segment occurrence. Fields[i] holds field number i+1.
//
// Header segments (MSH, BHS, FHS) use the special form: field 1 is the field
// separator itself and field 2 holds the encoding characters as one atomic
// value.
type Segment struct {
	Name   string
	Fields []*Field
	Span   Span
}

// Field is one field slot with its repetitions.
type Field struct {
	Repetitions []*Repetition
	Span        Span
}

// Repetition is one occurrence of a repeating field.
type Repetition struct {
	Components []*Component
	Span       Span
}

// Component is one component of a repetition.
type Component struct {
	Subcomponents []*Subcomponent
	Span          Span
}

// Subcomponent is a leaf. Value holds the raw, still escaped text.
type Subcomponent struct {
	Value string
	Span  Span
}

// headerSegments use the MSH field layout.
var headerSegments = map[string]bool{
	"MSH": true,
	"BHS": true,
	"FHS": true,
}

// IsHeader reports whether name is a header segment type whose first two
// fields are the field separator and the encoding characters.
func IsHeader(name string) bool {
	return headerSegments[name]
}

// IsHeader reports whether s uses the header field layout.
func (s *Segment) IsHeader() bool {
	return IsHeader(s.Name)
}

// Field returns field n (1-based), or nil if the segment has fewer fields.
func (s *Segment) Field(n int) *Field {
	if n < 1 || n > len(s.Fields) {
		return nil
	}
	return s.Fields[n-1]
}

// Repetition returns repetition n (1-based), or nil.
func (f *Field) Repetition(n int) *Repetition {
	if f == nil || n < 1 || n > len(f.Repetitions) {
		return nil
	}
	return f.Repetitions[n-1]
}

// IsEmpty reports whether the field holds no text in any repetition.
func (f *Field) IsEmpty() bool {
	if f == nil {
		return true
	}
	for _, r := range f.Repetitions {
		if !r.IsEmpty() {
			return false
		}
	}
	return true
}

// Component returns component n (1-based), or nil.
func (r *Repetition) Component(n int) *Component {
	if r == nil || n < 1 || n > len(r.Components) {
		return nil
	}
	return r.Components[n-1]
}

// IsEmpty reports whether the repetition holds no text.
func (r *Repetition) IsEmpty() bool {
	if r == nil {
		return true
	}
	for _, c := range r.Components {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}

// Subcomponent returns subcomponent n (1-based), or nil.
func (c *Component) Subcomponent(n int) *Subcomponent {
	if c == nil || n < 1 || n > len(c.Subcomponents) {
		return nil
	}
	return c.Subcomponents[n-1]
}

// IsEmpty reports whether the component holds no text.
func (c *Component) IsEmpty() bool {
	if c == nil {
		return true
	}
	for _, s := range c.Subcomponents {
		if s.Value != "" {
			return false
		}
	}
	return true
}

// Segment returns occurrence occ (1-based) of the named segment type, or nil.
func (m *Message) Segment(name string, occ int) *Segment {
	if i := m.SegmentIndex(name, occ); i >= 0 {
		return m.Segments[i]
	}
	return nil
}

// SegmentIndex returns the index in Segments of occurrence occ of the named
// segment type, or -1.
func (m *Message) SegmentIndex(name string, occ int) int {
	if occ < 1 {
		occ = 1
	}
	seen := 0
	for i, s := range m.Segments {
		if s.Name != name {
			continue
		}
		seen++
		if seen == occ {
			return i
		}
	}
	return -1
}

// Occurrences returns how many segments of the named type the message holds.
func (m *Message) Occurrences(name string) int {
	n := 0
	for _, s := range m.Segments {
		if s.Name == name {
			n++
		}
	}
	return n
}

// OccurrenceAt returns the occurrence number of the segment at index i.
func (m *Message) OccurrenceAt(i int) int {
	if i < 0 || i >= len(m.Segments) {
		return 0
	}
	n := 0
	for _, s := range m.Segments[:i+1] {
		if s.Name == m.Segments[i].Name {
			n++
		}
	}
	return n
}

// SegmentPosition returns the segment-level position of the segment at
// index i.
func (m *Message) SegmentPosition(i int) Position {
	if i < 0 || i >= len(m.Segments) {
		return Position{}
	}
	return Position{Segment: m.Segments[i].Name, Occurrence: m.OccurrenceAt(i)}
}

// WalkFields calls fn for every field slot present in the message, in
// document order, with a field-level position. Walking stops when fn returns
// false.
func (m *Message) WalkFields(fn func(pos Position, f *Field) bool) {
	counts := make(map[string]int)
	for _, s := range m.Segments {
		counts[s.Name]++
		for i, f := range s.Fields {
			pos := Position{Segment: s.Name, Occurrence: counts[s.Name], Field: i + 1}
			if !fn(pos, f) {
				return
			}
		}
	}
}

// WalkLeaves calls fn for every subcomponent in the message, in document
// order, with a fully specified position. Walking stops when fn returns
// false.
func (m *Message) WalkLeaves(fn func(pos Position, leaf *Subcomponent) bool) {
	m.WalkFields(func(fp Position, f *Field) bool {
		for ri, r := range f.Repetitions {
			for ci, c := range r.Components {
				for si, sc := range c.Subcomponents {
					pos := fp
					pos.Repetition, pos.Component, pos.Subcomponent = ri+1, ci+1, si+1
					if !fn(pos, sc) {
						return false
					}
				}
			}
		}
		return true
	})
}

// Clone returns a deep copy of the message.
func (m *Message) Clone() *Message {
	out := &Message{
		Separators: m.Separators,
		Terminator: m.Terminator,
		Segments:   make([]*Segment, len(m.Segments)),
	}
	for i, s := range m.Segments {
		out.Segments[i] = s.clone()
	}
	return out
}

func (s *Segment) clone() *Segment {
	out := &Segment{Name: s.Name, Span: s.Span, Fields: make([]*Field, len(s.Fields))}
	for i, f := range s.Fields {
		out.Fields[i] = f.clone()
	}
	return out
}

func (f *Field) clone() *Field {
	out := &Field{Span: f.Span, Repetitions: make([]*Repetition, len(f.Repetitions))}
	for i, r := range f.Repetitions {
		out.Repetitions[i] = r.clone()
	}
	return out
}

func (r *Repetition) clone() *Repetition {
	out := &Repetition{Span: r.Span, Components: make([]*Component, len(r.Components))}
	for i, c := range r.Components {
		out.Components[i] = c.clone()
	}
	return out
}

func (c *Component) clone() *Component {
	out := &Component{Span: c.Span, Subcomponents: make([]*Subcomponent, len(c.Subcomponents))}
	for i, s := range c.Subcomponents {
		cp := *s
		out.Subcomponents[i] = &cp
	}
	return out
}
