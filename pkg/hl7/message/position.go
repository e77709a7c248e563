package message

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/oracle-Solution/hl7/pkg/hl7/separator"
)

// Position is a structured coordinate inside a message. Every index is
// 1-based; zero means the coordinate is unspecified, and so is every
// coordinate below it. A Position with an empty Segment is the zero Position
// and addresses nothing.
//
// Positions are plain values. They never reference the message they were
// derived from and stay valid (though possibly dangling) across edits.
type Position struct {
	Segment      string // Segment type code, e.g. "PID"
	Occurrence   int    // Occurrence of the segment type in the message
	Field        int
	Repetition   int
	Component    int
	Subcomponent int
}

// IsZero reports whether p addresses nothing.
func (p Position) IsZero() bool {
	return p.Segment == ""
}

// Level returns the deepest level p specifies.
func (p Position) Level() separator.Level {
	switch {
	case p.Field == 0:
		return separator.LevelSegment
	case p.Repetition == 0:
		return separator.LevelField
	case p.Component == 0:
		return separator.LevelRepetition
	case p.Subcomponent == 0:
		return separator.LevelComponent
	default:
		return separator.LevelSubcomponent
	}
}

// Normalize fills the implicit first occurrence and first repetition and
// clears any coordinate that sits below an unspecified one.
func (p Position) Normalize() Position {
	if p.Segment == "" {
		return Position{}
	}
	if p.Occurrence == 0 {
		p.Occurrence = 1
	}
	if p.Field == 0 {
		p.Repetition, p.Component, p.Subcomponent = 0, 0, 0
		return p
	}
	if p.Repetition == 0 {
		p.Repetition = 1
	}
	if p.Component == 0 {
		p.Subcomponent = 0
	}
	return p
}

// Equal reports whether p and other address the same unit, comparing
// coordinates top-down until either side stops being specified. Segment and
// occurrence must always match, so "PID-5" equals "PID-5-1" but not "PID-6".
func (p Position) Equal(other Position) bool {
	a, b := p.Normalize(), other.Normalize()
	if a.Segment != b.Segment || a.Occurrence != b.Occurrence {
		return false
	}
	pairs := [][2]int{
		{a.Field, b.Field},
		{a.Repetition, b.Repetition},
		{a.Component, b.Component},
		{a.Subcomponent, b.Subcomponent},
	}
	for _, pair := range pairs {
		if pair[0] == 0 || pair[1] == 0 {
			return true
		}
		if pair[0] != pair[1] {
			return false
		}
	}
	return true
}

// Parent returns the position one level up. A field and its repetition are
// one step, since a normalized field position always carries a repetition.
// The parent of a segment-level position is the zero Position.
func (p Position) Parent() Position {
	p = p.Normalize()
	switch p.Level() {
	case separator.LevelSubcomponent:
		p.Subcomponent = 0
	case separator.LevelComponent:
		p.Component = 0
	case separator.LevelRepetition, separator.LevelField:
		p.Field, p.Repetition = 0, 0
	default:
		return Position{}
	}
	return p
}

// Compare orders positions by segment type, then numerically by each
// coordinate top-down. An unspecified coordinate sorts before a specified one,
// so a unit sorts before everything nested inside it. Within one segment
// occurrence this is document order.
func (p Position) Compare(other Position) int {
	a, b := p.Normalize(), other.Normalize()
	if c := strings.Compare(a.Segment, b.Segment); c != 0 {
		return c
	}
	for _, pair := range [][2]int{
		{a.Occurrence, b.Occurrence},
		{a.Field, b.Field},
		{a.Repetition, b.Repetition},
		{a.Component, b.Component},
		{a.Subcomponent, b.Subcomponent},
	} {
		if c := cmp.Compare(pair[0], pair[1]); c != 0 {
			return c
		}
	}
	return 0
}

// String renders the position with 1-based indices, showing occurrence and
// repetition only when they are not the first, e.g. "PID-5-1" or
// "OBX[2]-5[3]-1".
func (p Position) String() string {
	if p.Segment == "" {
		return "<none>"
	}
	p = p.Normalize()

	var sb strings.Builder
	sb.WriteString(p.Segment)
	if p.Occurrence > 1 {
		fmt.Fprintf(&sb, "[%d]", p.Occurrence)
	}
	if p.Field == 0 {
		return sb.String()
	}
	fmt.Fprintf(&sb, "-%d", p.Field)
	if p.Repetition > 1 {
		fmt.Fprintf(&sb, "[%d]", p.Repetition)
	}
	if p.Component > 0 {
		fmt.Fprintf(&sb, "-%d", p.Component)
		if p.Subcomponent > 0 {
			fmt.Fprintf(&sb, "-%d", p.Subcomponent)
		}
	}
	return sb.String()
}

// valid reports whether every specified coordinate is positive.
func (p Position) valid() bool {
	return p.Occurrence >= 0 && p.Field >= 0 && p.Repetition >= 0 &&
		p.Component >= 0 && p.Subcomponent >= 0 && isTypeCode(p.Segment)
}
