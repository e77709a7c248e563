package mapper

import (
	"fmt"

	hl7errors "github.com/oracle-Solution/hl7/pkg/hl7/errors"
	"github.com/oracle-Solution/hl7/pkg/hl7/message"
	"github.com/oracle-Solution/hl7/pkg/hl7/separator"
)

// Caret is a caret placement result. Move is false when the requested
// position no longer exists, in which case Offset is meaningless and the
// caller keeps its caret where it is. Offset 0 is a legitimate placement.
type Caret struct {
	Offset int  `json:"offset"`
	Move   bool `json:"move"`
}

// NoMove tells the caller to leave the caret unchanged.
var NoMove = Caret{}

// At returns a caret placement at offset.
func At(offset int) Caret {
	return Caret{Offset: offset, Move: true}
}

// String returns the offset, or "no move".
func (c Caret) String() string {
	if !c.Move {
		return "no move"
	}
	return fmt.Sprintf("%d", c.Offset)
}

// Mapper translates between byte offsets in one text and positions in the
// message parsed from it. All offset arithmetic of the editing core lives
// here; callers only ever deal in positions and spans.
type Mapper struct {
	text string
	msg  *message.Message
}

// New parses text and returns a mapper over it.
func New(text string, set separator.Set) (*Mapper, error) {
	msg, err := message.Parse(text, set)
	if err != nil {
		return nil, err
	}
	return &Mapper{text: text, msg: msg}, nil
}

// Message returns the parsed message. Its spans describe the mapper's text.
func (m *Mapper) Message() *message.Message {
	return m.msg
}

// Text returns the text the mapper was built from.
func (m *Mapper) Text() string {
	return m.text
}

// End returns the offset right after the last byte of the last segment.
func (m *Mapper) End() int {
	return m.msg.Segments[len(m.msg.Segments)-1].Span.End
}

// Clamp limits offset to [0, End()]. Offsets inside trailing terminators
// fall back to the end of the last segment, and an offset between the CR and
// LF of a terminator pair falls back to the end of the segment before it.
func (m *Mapper) Clamp(offset int) int {
	if offset < 0 {
		return 0
	}
	if end := m.End(); offset > end {
		return end
	}
	if offset > 0 && offset < len(m.text) && m.text[offset-1] == '\r' && m.text[offset] == '\n' {
		return offset - 1
	}
	return offset
}

// OffsetToPosition returns the position of the unit a caret at offset sits
// in. A caret belongs to the unit containing the byte before it, unless that
// byte is a delimiter, in which case it belongs to the unit the delimiter
// starts.
//
// A caret on a segment type code yields a segment-level position. Inside a
// field the position always carries the field and repetition; the component
// is added when the repetition has several components or the component has
// subcomponents, and the subcomponent when the component has several.
func (m *Mapper) OffsetToPosition(offset int) message.Position {
	o := m.Clamp(offset)

	segIdx := 0
	for i, s := range m.msg.Segments {
		if s.Span.Start <= o {
			segIdx = i
		}
	}
	seg := m.msg.Segments[segIdx]
	pos := m.msg.SegmentPosition(segIdx)

	if o <= seg.Span.Start+len(seg.Name) || len(seg.Fields) == 0 {
		return pos
	}

	fieldIdx := lastStartingAtOrBefore(len(seg.Fields), o, func(i int) int { return seg.Fields[i].Span.Start })
	f := seg.Fields[fieldIdx]
	pos.Field = fieldIdx + 1

	repIdx := lastStartingAtOrBefore(len(f.Repetitions), o, func(i int) int { return f.Repetitions[i].Span.Start })
	r := f.Repetitions[repIdx]
	pos.Repetition = repIdx + 1

	compIdx := lastStartingAtOrBefore(len(r.Components), o, func(i int) int { return r.Components[i].Span.Start })
	c := r.Components[compIdx]
	if len(r.Components) > 1 || len(c.Subcomponents) > 1 {
		pos.Component = compIdx + 1
	}

	if len(c.Subcomponents) > 1 {
		subIdx := lastStartingAtOrBefore(len(c.Subcomponents), o, func(i int) int { return c.Subcomponents[i].Span.Start })
		pos.Subcomponent = subIdx + 1
	}
	return pos
}

// PositionToSpan returns the exact range covered by the unit at pos and
// everything nested in it. A field position without a repetition or
// component covers all repetitions of the field; a component without a
// repetition is read from the first repetition. It fails with an
// *errors.InvalidPositionError when pos does not exist in the text.
func (m *Mapper) PositionToSpan(pos message.Position) (message.Span, error) {
	span, depth := m.resolve(pos)
	if depth < depthOf(pos) {
		return message.Span{}, hl7errors.NewInvalidPosition(pos, "does not exist in the current text")
	}
	return span, nil
}

// NearestSpan returns the span of pos if it exists, otherwise the span of its
// deepest existing ancestor. A missing segment anchors at the start of the
// text.
func (m *Mapper) NearestSpan(pos message.Position) message.Span {
	span, _ := m.resolve(pos)
	return span
}

// PositionToOffset returns the caret placement for pos: the start of its
// span, or NoMove when pos no longer exists.
func (m *Mapper) PositionToOffset(pos message.Position) Caret {
	span, err := m.PositionToSpan(pos)
	if err != nil {
		return NoMove
	}
	return At(span.Start)
}

// resolve walks pos down the tree as far as it exists and returns the span
// reached together with how many levels were matched.
func (m *Mapper) resolve(pos message.Position) (message.Span, int) {
	wholeField := isWholeField(pos)
	pos = pos.Normalize()
	if pos.IsZero() {
		return message.Span{}, 0
	}

	seg := m.msg.Segment(pos.Segment, pos.Occurrence)
	if seg == nil {
		return message.Span{}, 0
	}
	if pos.Field == 0 {
		return seg.Span, 1
	}

	f := seg.Field(pos.Field)
	if f == nil {
		return seg.Span, 1
	}
	if wholeField {
		return f.Span, 2
	}

	r := f.Repetition(pos.Repetition)
	if r == nil {
		return f.Span, 2
	}
	if pos.Component == 0 {
		return r.Span, 3
	}

	c := r.Component(pos.Component)
	if c == nil {
		return r.Span, 3
	}
	if pos.Subcomponent == 0 {
		return c.Span, 4
	}

	sc := c.Subcomponent(pos.Subcomponent)
	if sc == nil {
		return c.Span, 4
	}
	return sc.Span, 5
}

// depthOf returns how many levels resolve must match for pos to exist.
func depthOf(pos message.Position) int {
	wholeField := isWholeField(pos)
	pos = pos.Normalize()
	switch {
	case pos.IsZero():
		return 1
	case pos.Field == 0:
		return 1
	case wholeField:
		return 2
	case pos.Component == 0:
		return 3
	case pos.Subcomponent == 0:
		return 4
	default:
		return 5
	}
}

// isWholeField reports whether pos names a field with no repetition or
// component below it.
func isWholeField(pos message.Position) bool {
	return pos.Field > 0 && pos.Repetition == 0 && pos.Component == 0
}

// lastStartingAtOrBefore returns the largest index i in [0, n) whose start is
// at or before o. Starts are ascending.
func lastStartingAtOrBefore(n, o int, start func(int) int) int {
	idx := 0
	for i := 0; i < n; i++ {
		if start(i) > o {
			break
		}
		idx = i
	}
	return idx
}

// OffsetToPosition parses text and maps a caret offset to a position.
func OffsetToPosition(text string, set separator.Set, offset int) (message.Position, error) {
	m, err := New(text, set)
	if err != nil {
		return message.Position{}, err
	}
	return m.OffsetToPosition(offset), nil
}

// PositionToSpan parses text and returns the span of pos.
func PositionToSpan(text string, set separator.Set, pos message.Position) (message.Span, error) {
	m, err := New(text, set)
	if err != nil {
		return message.Span{}, err
	}
	return m.PositionToSpan(pos)
}

// NearestSpan parses text and returns the span of pos or of its deepest
// existing ancestor. Unparseable text yields an empty span at offset 0.
func NearestSpan(text string, set separator.Set, pos message.Position) message.Span {
	m, err := New(text, set)
	if err != nil {
		return message.Span{}
	}
	return m.NearestSpan(pos)
}

// PositionToOffset parses text and returns the caret placement for pos.
// Unparseable text and dangling positions both yield NoMove.
func PositionToOffset(text string, set separator.Set, pos message.Position) Caret {
	m, err := New(text, set)
	if err != nil {
		return NoMove
	}
	return m.PositionToOffset(pos)
}
