package message

import (
	"fmt"

	hl7errors "github.com/oracle-Solution/hl7/pkg/hl7/errors"
	"github.com/oracle-Solution/hl7/pkg/hl7/separator"
)

// Parse parses raw message text using the given separator set.
//
// Both CR and LF terminate segments, a CR LF pair counts as one terminator
// and trailing terminators are ignored.
// Parse fails only when the text cannot form a message at all: empty input,
// a segment without a type code (which includes a blank line between
// segments), a type code that is not alphanumeric, or an invalid separator
// set. Unusual content such as missing fields or ragged repetitions is
// accepted and left to validation.
//
// Every node of the returned message carries the span it was parsed from.
func Parse(text string, set separator.Set) (*Message, error) {
	if err := set.Validate(); err != nil {
		return nil, hl7errors.NewMalformed("invalid separators: %v", err)
	}

	end := len(text)
	for end > 0 && set.IsSegmentTerminator(text[end-1]) {
		end--
	}
	if end == 0 {
		return nil, hl7errors.NewMalformed("empty input")
	}

	msg := &Message{
		Separators: set,
		Terminator: detectTerminator(text, set),
	}

	start := 0
	for {
		lineEnd := start
		for lineEnd < end && !set.IsSegmentTerminator(text[lineEnd]) {
			lineEnd++
		}

		seg, err := parseSegment(text, start, lineEnd, set, len(msg.Segments)+1)
		if err != nil {
			return nil, err
		}
		msg.Segments = append(msg.Segments, seg)

		if lineEnd >= end {
			break
		}
		start = lineEnd + 1
		if text[lineEnd] == '\r' && start < end && text[start] == '\n' {
			start++
		}
	}

	return msg, nil
}

// ParseWithVersion detects the separators of text for the given version and
// parses it. A separator detection failure is reported as a malformed
// message.
func ParseWithVersion(text, version string) (*Message, error) {
	set, err := separator.Detect(text, version)
	if err != nil {
		return nil, hl7errors.NewMalformed("%v", err)
	}
	return Parse(text, set)
}

func parseSegment(text string, start, end int, set separator.Set, n int) (*Segment, error) {
	nameEnd := start
	for nameEnd < end && text[nameEnd] != set.Field {
		nameEnd++
	}

	name := text[start:nameEnd]
	if name == "" {
		return nil, &hl7errors.MalformedMessageError{
			Message: "segment has no type code",
			Segment: n,
			Offset:  start,
		}
	}
	if !isTypeCode(name) {
		return nil, &hl7errors.MalformedMessageError{
			Message: fmt.Sprintf("segment type code %q is not alphanumeric", name),
			Segment: n,
			Offset:  start,
		}
	}

	seg := &Segment{Name: name, Span: Span{Start: start, End: end}}
	pos := nameEnd
	if pos >= end {
		return seg, nil
	}

	if IsHeader(name) {
		// MSH-1 is the separator byte itself, MSH-2 is never split.
		seg.Fields = append(seg.Fields, atomicField(string(set.Field), Span{Start: pos, End: pos + 1}))

		encEnd := pos + 1
		for encEnd < end && text[encEnd] != set.Field {
			encEnd++
		}
		seg.Fields = append(seg.Fields, atomicField(text[pos+1:encEnd], Span{Start: pos + 1, End: encEnd}))
		pos = encEnd
	}

	for pos < end {
		fieldStart := pos + 1
		fieldEnd := fieldStart
		for fieldEnd < end && text[fieldEnd] != set.Field {
			fieldEnd++
		}
		seg.Fields = append(seg.Fields, parseField(text, fieldStart, fieldEnd, set))
		pos = fieldEnd
	}

	return seg, nil
}

func parseField(text string, start, end int, set separator.Set) *Field {
	f := &Field{Span: Span{Start: start, End: end}}
	for _, rs := range split(text, start, end, set.Repetition) {
		r := &Repetition{Span: rs}
		for _, cs := range split(text, rs.Start, rs.End, set.Component) {
			c := &Component{Span: cs}
			for _, ss := range split(text, cs.Start, cs.End, set.Subcomponent) {
				c.Subcomponents = append(c.Subcomponents, &Subcomponent{
					Value: text[ss.Start:ss.End],
					Span:  ss,
				})
			}
			r.Components = append(r.Components, c)
		}
		f.Repetitions = append(f.Repetitions, r)
	}
	return f
}

// atomicField builds a field holding value as a single leaf.
func atomicField(value string, span Span) *Field {
	return &Field{
		Span: span,
		Repetitions: []*Repetition{{
			Span: span,
			Components: []*Component{{
				Span:          span,
				Subcomponents: []*Subcomponent{{Value: value, Span: span}},
			}},
		}},
	}
}

// split returns the spans between occurrences of delim in text[start:end].
// It always returns at least one span.
func split(text string, start, end int, delim byte) []Span {
	var spans []Span
	from := start
	for i := start; i < end; i++ {
		if text[i] == delim {
			spans = append(spans, Span{Start: from, End: i})
			from = i + 1
		}
	}
	return append(spans, Span{Start: from, End: end})
}

// detectTerminator returns the first segment terminator found in text, or
// the set's terminator when the text is a single segment.
func detectTerminator(text string, set separator.Set) byte {
	for i := 0; i < len(text); i++ {
		if set.IsSegmentTerminator(text[i]) {
			return text[i]
		}
	}
	return set.Segment
}

func isTypeCode(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if !((c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')) {
			return false
		}
	}
	return true
}
