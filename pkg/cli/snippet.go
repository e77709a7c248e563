package cli

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/oracle-Solution/hl7/pkg/hl7/message"
)

// DefaultSnippetWidth is the display width snippets are cut to.
const DefaultSnippetWidth = 100

const ellipsis = "..."

// Snippet is the segment line around a span with a marker underneath.
type Snippet struct {
	// Line is the 1-based segment line of the span start.
	Line int
	// Column is the 1-based display column of the span start.
	Column int
	// Text is the segment line, cut around the span when it is too wide.
	Text string
	// Marker underlines the span as ^~~~.
	Marker string
}

// NewSnippet renders the segment line holding span.Start. Spans are byte
// offsets into text. A width of zero or less disables cutting.
func NewSnippet(text string, span message.Span, width int) Snippet {
	start := min(max(span.Start, 0), len(text))
	end := min(max(span.End, start), len(text))

	lineStart := strings.LastIndexAny(text[:start], "\r\n") + 1
	lineEnd := len(text)
	if i := strings.IndexAny(text[start:], "\r\n"); i >= 0 {
		lineEnd = start + i
	}
	end = min(end, lineEnd)

	prefix := text[lineStart:start]
	unit := text[start:end]
	suffix := text[end:lineEnd]

	s := Snippet{
		Line:   lineNumber(text[:lineStart]),
		Column: runewidth.StringWidth(prefix) + 1,
	}

	if width > 0 && runewidth.StringWidth(prefix+unit+suffix) > width {
		if lead := width / 4; runewidth.StringWidth(prefix) > lead {
			prefix = ellipsis + tail(prefix, lead-len(ellipsis))
		}
	}

	at := runewidth.StringWidth(prefix)
	n := max(runewidth.StringWidth(unit), 1)
	s.Text = prefix + unit + suffix
	if width > 0 && runewidth.StringWidth(s.Text) > width {
		s.Text = runewidth.Truncate(s.Text, width, ellipsis)
		if at+n > width {
			n = max(width-at, 1)
		}
	}
	s.Marker = strings.Repeat(" ", at) + "^" + strings.Repeat("~", n-1)
	return s
}

// String renders the snippet as two indented lines.
func (s Snippet) String() string {
	return "  " + s.Text + "\n  " + s.Marker
}

// lineNumber counts segment terminators before a line. CR LF counts once.
func lineNumber(before string) int {
	n := 1
	for i := 0; i < len(before); i++ {
		switch before[i] {
		case '\r':
			n++
			if i+1 < len(before) && before[i+1] == '\n' {
				i++
			}
		case '\n':
			n++
		}
	}
	return n
}

// tail returns the longest suffix of s at most cells wide.
func tail(s string, cells int) string {
	w := 0
	for i := len(s); i > 0; {
		r, size := utf8.DecodeLastRuneInString(s[:i])
		rw := runewidth.RuneWidth(r)
		if w+rw > cells {
			return s[i:]
		}
		w += rw
		i -= size
	}
	return s
}
