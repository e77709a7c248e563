package message

import "fmt"

// Span is a half-open byte range [Start, End) in encoded message text.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Contains reports whether a caret at offset o lies inside the span. A caret
// sits between characters, so a caret at End (right after the last byte of
// the unit) is still inside it. This is how an empty unit is addressed.
func (s Span) Contains(o int) bool {
	return s.Start <= o && o <= s.End
}

// Covers reports whether other lies entirely within s.
func (s Span) Covers(other Span) bool {
	return s.Start <= other.Start && other.End <= s.End
}

// Text returns the slice of text covered by the span, clamped to its bounds.
func (s Span) Text(text string) string {
	start, end := s.Start, s.End
	if start < 0 {
		start = 0
	}
	if end > len(text) {
		end = len(text)
	}
	if start >= end {
		return ""
	}
	return text[start:end]
}

// String returns "[start,end)".
func (s Span) String() string {
	return fmt.Sprintf("[%d,%d)", s.Start, s.End)
}
