package mapper

import (
	"errors"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"

	hl7errors "github.com/oracle-Solution/hl7/pkg/hl7/errors"
	"github.com/oracle-Solution/hl7/pkg/hl7/message"
	"github.com/oracle-Solution/hl7/pkg/hl7/separator"
)

const sampleText = "MSH|^~\\&|APP|FAC\rPID|1||123^^^H~456&x&y"

func mustNew(t *testing.T, text string) *Mapper {
	t.Helper()
	m, err := New(text, separator.Standard)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return m
}

func TestOffsetToPosition(t *testing.T) {
	m := mustNew(t, sampleText)

	tests := []struct {
		name     string
		offset   int
		wantPos  message.Position
		wantSpan message.Span
	}{
		{"start of header type code", 0, message.Position{Segment: "MSH", Occurrence: 1}, message.Span{Start: 0, End: 16}},
		{"before field separator", 3, message.Position{Segment: "MSH", Occurrence: 1}, message.Span{Start: 0, End: 16}},
		{"encoding characters", 4, message.Position{Segment: "MSH", Occurrence: 1, Field: 2, Repetition: 1}, message.Span{Start: 4, End: 8}},
		{"inside encoding characters", 6, message.Position{Segment: "MSH", Occurrence: 1, Field: 2, Repetition: 1}, message.Span{Start: 4, End: 8}},
		{"sending application", 9, message.Position{Segment: "MSH", Occurrence: 1, Field: 3, Repetition: 1}, message.Span{Start: 9, End: 12}},
		{"before terminator", 16, message.Position{Segment: "MSH", Occurrence: 1, Field: 4, Repetition: 1}, message.Span{Start: 13, End: 16}},
		{"after terminator", 17, message.Position{Segment: "PID", Occurrence: 1}, message.Span{Start: 17, End: 39}},
		{"set id", 21, message.Position{Segment: "PID", Occurrence: 1, Field: 1, Repetition: 1}, message.Span{Start: 21, End: 22}},
		{"empty field", 23, message.Position{Segment: "PID", Occurrence: 1, Field: 2, Repetition: 1}, message.Span{Start: 23, End: 23}},
		{"first component", 24, message.Position{Segment: "PID", Occurrence: 1, Field: 3, Repetition: 1, Component: 1}, message.Span{Start: 24, End: 27}},
		{"fourth component", 30, message.Position{Segment: "PID", Occurrence: 1, Field: 3, Repetition: 1, Component: 4}, message.Span{Start: 30, End: 31}},
		{"before repetition separator", 31, message.Position{Segment: "PID", Occurrence: 1, Field: 3, Repetition: 1, Component: 4}, message.Span{Start: 30, End: 31}},
		{"subcomponent 1", 32, message.Position{Segment: "PID", Occurrence: 1, Field: 3, Repetition: 2, Component: 1, Subcomponent: 1}, message.Span{Start: 32, End: 35}},
		{"subcomponent 2", 36, message.Position{Segment: "PID", Occurrence: 1, Field: 3, Repetition: 2, Component: 1, Subcomponent: 2}, message.Span{Start: 36, End: 37}},
		{"end of text", 39, message.Position{Segment: "PID", Occurrence: 1, Field: 3, Repetition: 2, Component: 1, Subcomponent: 3}, message.Span{Start: 38, End: 39}},
		{"past end clamps", 100, message.Position{Segment: "PID", Occurrence: 1, Field: 3, Repetition: 2, Component: 1, Subcomponent: 3}, message.Span{Start: 38, End: 39}},
		{"negative clamps", -5, message.Position{Segment: "MSH", Occurrence: 1}, message.Span{Start: 0, End: 16}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := m.OffsetToPosition(tt.offset)
			if diff := cmp.Diff(tt.wantPos, pos); diff != "" {
				t.Fatalf("OffsetToPosition(%d) mismatch (-want +got):\n%s", tt.offset, diff)
			}
			span, err := m.PositionToSpan(pos)
			if err != nil {
				t.Fatalf("PositionToSpan(%s) error = %v", pos, err)
			}
			if span != tt.wantSpan {
				t.Errorf("PositionToSpan(%s) = %v, want %v", pos, span, tt.wantSpan)
			}
		})
	}
}

func TestContainmentLaw(t *testing.T) {
	corpus := []string{
		sampleText,
		"A|1^2|B||C",
		"A",
		"A|",
		"MSH||",
		"MSH|^~\\&|||\nEVN\nPID|||^^&&~~|\n\n",
		"Z1|é^😀&x~y|||\rZ1|\\F\\|",
		"MSH|^~\\&|A\r\nPID|1^2\r\n",
	}

	for _, text := range corpus {
		m := mustNew(t, text)
		for o := -2; o <= len(text)+2; o++ {
			pos := m.OffsetToPosition(o)
			span, err := m.PositionToSpan(pos)
			if err != nil {
				t.Fatalf("%q: PositionToSpan(OffsetToPosition(%d) = %s) error = %v", text, o, pos, err)
			}
			if c := m.Clamp(o); !span.Contains(c) {
				t.Errorf("%q: span %v of %s does not contain offset %d", text, span, pos, c)
			}
		}
	}
}

func TestPositionToSpan(t *testing.T) {
	m := mustNew(t, sampleText)

	tests := []struct {
		name    string
		pos     message.Position
		want    message.Span
		wantErr bool
	}{
		{"whole field", message.Position{Segment: "PID", Field: 3}, message.Span{Start: 24, End: 39}, false},
		{"one repetition", message.Position{Segment: "PID", Field: 3, Repetition: 2}, message.Span{Start: 32, End: 39}, false},
		{"field separator", message.Position{Segment: "MSH", Field: 1}, message.Span{Start: 3, End: 4}, false},
		{"segment", message.Position{Segment: "MSH"}, message.Span{Start: 0, End: 16}, false},
		{"missing field", message.Position{Segment: "PID", Field: 9}, message.Span{}, true},
		{"missing segment", message.Position{Segment: "PV1"}, message.Span{}, true},
		{"missing component", message.Position{Segment: "PID", Field: 1, Component: 2}, message.Span{}, true},
		{"zero position", message.Position{}, message.Span{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.PositionToSpan(tt.pos)
			if (err != nil) != tt.wantErr {
				t.Fatalf("PositionToSpan() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, hl7errors.ErrInvalidPosition) {
					t.Errorf("PositionToSpan() error = %v, want invalid position", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("PositionToSpan() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNearestSpan(t *testing.T) {
	m := mustNew(t, sampleText)

	tests := []struct {
		name string
		pos  message.Position
		want message.Span
	}{
		{"existing", message.Position{Segment: "PID", Field: 1}, message.Span{Start: 21, End: 22}},
		{"missing field anchors at segment", message.Position{Segment: "PID", Field: 9}, message.Span{Start: 17, End: 39}},
		{"missing repetition anchors at field", message.Position{Segment: "PID", Field: 3, Repetition: 5}, message.Span{Start: 24, End: 39}},
		{"missing component anchors at repetition", message.Position{Segment: "PID", Field: 3, Repetition: 2, Component: 9}, message.Span{Start: 32, End: 39}},
		{"missing segment anchors at start", message.Position{Segment: "OBX", Field: 1}, message.Span{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.NearestSpan(tt.pos); got != tt.want {
				t.Errorf("NearestSpan(%s) = %v, want %v", tt.pos, got, tt.want)
			}
		})
	}
}

func TestPositionToOffset(t *testing.T) {
	m := mustNew(t, "A|1|2|3")

	if got := m.PositionToOffset(message.Position{Segment: "A", Field: 2}); got != At(4) {
		t.Errorf("PositionToOffset(A-2) = %v, want 4", got)
	}
	if got := m.PositionToOffset(message.Position{Segment: "A"}); got != At(0) {
		t.Errorf("PositionToOffset(A) = %v, want 0", got)
	}
	if got := m.PositionToOffset(message.Position{Segment: "A", Field: 7}); got != NoMove {
		t.Errorf("PositionToOffset(A-7) = %v, want no move", got)
	}
}

func TestOffsetToPosition_CRLF(t *testing.T) {
	m := mustNew(t, "A|1\r\nB|2")

	tests := []struct {
		name     string
		offset   int
		wantPos  message.Position
		wantSpan message.Span
	}{
		{"before terminator", 3, message.Position{Segment: "A", Occurrence: 1, Field: 1, Repetition: 1}, message.Span{Start: 2, End: 3}},
		{"inside terminator", 4, message.Position{Segment: "A", Occurrence: 1, Field: 1, Repetition: 1}, message.Span{Start: 2, End: 3}},
		{"after terminator", 5, message.Position{Segment: "B", Occurrence: 1}, message.Span{Start: 5, End: 8}},
		{"second segment field", 8, message.Position{Segment: "B", Occurrence: 1, Field: 1, Repetition: 1}, message.Span{Start: 7, End: 8}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := m.OffsetToPosition(tt.offset)
			if diff := cmp.Diff(tt.wantPos, pos); diff != "" {
				t.Fatalf("OffsetToPosition(%d) mismatch (-want +got):\n%s", tt.offset, diff)
			}
			span, err := m.PositionToSpan(pos)
			if err != nil {
				t.Fatalf("PositionToSpan() error = %v", err)
			}
			if span != tt.wantSpan {
				t.Errorf("PositionToSpan() = %v, want %v", span, tt.wantSpan)
			}
		})
	}

	if got := m.PositionToOffset(message.Position{Segment: "B", Field: 1}); got != At(7) {
		t.Errorf("PositionToOffset(B-1) = %v, want 7", got)
	}
}

func TestPositionToSpan_ComponentWithoutRepetition(t *testing.T) {
	m := mustNew(t, "A|1^2|B||C")

	tests := []struct {
		name      string
		pos       message.Position
		wantSpan  message.Span
		wantCaret Caret
		wantErr   bool
	}{
		{"whole field", message.Position{Segment: "A", Field: 1}, message.Span{Start: 2, End: 5}, At(2), false},
		{"second component", message.Position{Segment: "A", Field: 1, Component: 2}, message.Span{Start: 4, End: 5}, At(4), false},
		{"subcomponent of first component", message.Position{Segment: "A", Field: 1, Component: 1, Subcomponent: 1}, message.Span{Start: 2, End: 3}, At(2), false},
		{"missing component", message.Position{Segment: "A", Field: 1, Component: 7}, message.Span{}, NoMove, true},
		{"missing subcomponent", message.Position{Segment: "A", Field: 1, Component: 2, Subcomponent: 3}, message.Span{}, NoMove, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.PositionToSpan(tt.pos)
			if (err != nil) != tt.wantErr {
				t.Fatalf("PositionToSpan() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.wantSpan {
				t.Errorf("PositionToSpan(%s) = %v, want %v", tt.pos, got, tt.wantSpan)
			}
			if caret := m.PositionToOffset(tt.pos); caret != tt.wantCaret {
				t.Errorf("PositionToOffset(%s) = %v, want %v", tt.pos, caret, tt.wantCaret)
			}
		})
	}
}

func TestPositionToOffset_AfterShrink(t *testing.T) {
	text := "A|1|2|3"
	pos := message.Position{Segment: "A", Field: 3}

	msg, err := message.Parse(text, separator.Standard)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	updated, err := message.SetValue(msg, pos, "")
	if err != nil {
		t.Fatalf("SetValue() error = %v", err)
	}

	newText := message.Encode(updated)
	if newText != "A|1|2" {
		t.Fatalf("Encode() = %q, want %q", newText, "A|1|2")
	}
	if got := PositionToOffset(newText, separator.Standard, pos); got.Move {
		t.Errorf("PositionToOffset() = %v, want no move", got)
	}
	if got := PositionToOffset("", separator.Standard, pos); got.Move {
		t.Errorf("PositionToOffset(empty text) = %v, want no move", got)
	}
}

func TestEditRoundTrip(t *testing.T) {
	text := "A|1^2|B||C"

	pos, err := OffsetToPosition(text, separator.Standard, 4)
	if err != nil {
		t.Fatalf("OffsetToPosition() error = %v", err)
	}
	want := message.Position{Segment: "A", Occurrence: 1, Field: 1, Repetition: 1, Component: 2}
	if diff := cmp.Diff(want, pos); diff != "" {
		t.Fatalf("OffsetToPosition() mismatch (-want +got):\n%s", diff)
	}

	span, err := PositionToSpan(text, separator.Standard, pos)
	if err != nil || span != (message.Span{Start: 4, End: 5}) {
		t.Fatalf("PositionToSpan() = %v, %v, want [4,5)", span, err)
	}

	msg, _ := message.Parse(text, separator.Standard)
	updated, err := message.SetValue(msg, pos, "9")
	if err != nil {
		t.Fatalf("SetValue() error = %v", err)
	}
	newText := message.Encode(updated)
	if newText != "A|1^9|B||C" {
		t.Fatalf("Encode() = %q, want %q", newText, "A|1^9|B||C")
	}

	if got := PositionToOffset(newText, separator.Standard, pos); got != At(4) {
		t.Errorf("PositionToOffset() = %v, want 4", got)
	}
}

func TestPackageFunctions_Malformed(t *testing.T) {
	if _, err := OffsetToPosition("", separator.Standard, 0); !errors.Is(err, hl7errors.ErrMalformedMessage) {
		t.Errorf("OffsetToPosition() error = %v, want malformed", err)
	}
	if _, err := PositionToSpan("", separator.Standard, message.Position{Segment: "A"}); !errors.Is(err, hl7errors.ErrMalformedMessage) {
		t.Errorf("PositionToSpan() error = %v, want malformed", err)
	}
	if got := NearestSpan("", separator.Standard, message.Position{Segment: "A"}); got != (message.Span{}) {
		t.Errorf("NearestSpan() = %v, want empty", got)
	}
}

func TestUTF16(t *testing.T) {
	text := "A|é^😀^x"

	tests := []struct {
		byteOff  int
		utf16Off int
	}{
		{0, 0},
		{2, 2},
		{4, 3},
		{5, 4},
		{9, 6},
		{10, 7},
		{11, 8},
	}

	for _, tt := range tests {
		if got := ToUTF16(text, tt.byteOff); got != tt.utf16Off {
			t.Errorf("ToUTF16(%d) = %d, want %d", tt.byteOff, got, tt.utf16Off)
		}
		if got := FromUTF16(text, tt.utf16Off); got != tt.byteOff {
			t.Errorf("FromUTF16(%d) = %d, want %d", tt.utf16Off, got, tt.byteOff)
		}
	}

	if got := FromUTF16(text, 5); got != 9 {
		t.Errorf("FromUTF16 inside surrogate pair = %d, want 9", got)
	}
	if got := ToUTF16(text, 3); got != 3 {
		t.Errorf("ToUTF16 inside é = %d, want 3", got)
	}
	if got := FromUTF16(text, 100); got != len(text) {
		t.Errorf("FromUTF16 past end = %d, want %d", got, len(text))
	}
}

func TestUTF16_RoundTrip(t *testing.T) {
	text := "PID|1||Zoë^😀^Łódź~x"
	for b := 0; b <= len(text); b++ {
		if b < len(text) && !utf8.RuneStart(text[b]) {
			continue
		}
		if got := FromUTF16(text, ToUTF16(text, b)); got != b {
			t.Errorf("FromUTF16(ToUTF16(%d)) = %d", b, got)
		}
	}
}

func TestUnits(t *testing.T) {
	tests := []struct {
		in      string
		want    Units
		wantErr bool
	}{
		{"bytes", UnitsBytes, false},
		{"", UnitsBytes, false},
		{"UTF16", UnitsUTF16, false},
		{"utf-16", UnitsUTF16, false},
		{"runes", UnitsBytes, true},
	}
	for _, tt := range tests {
		got, err := ParseUnits(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseUnits(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseUnits(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	text := "A|😀^x"
	span := UnitsUTF16.Span(text, message.Span{Start: 7, End: 8})
	if span != (message.Span{Start: 5, End: 6}) {
		t.Errorf("UnitsUTF16.Span() = %v, want [5,6)", span)
	}
	if got := UnitsUTF16.ToBytes(text, 5); got != 7 {
		t.Errorf("UnitsUTF16.ToBytes(5) = %d, want 7", got)
	}
	if got := UnitsBytes.ToBytes(text, 5); got != 5 {
		t.Errorf("UnitsBytes.ToBytes(5) = %d, want 5", got)
	}
	if got := UnitsUTF16.Caret(text, NoMove); got.Move {
		t.Errorf("UnitsUTF16.Caret(NoMove) = %v, want no move", got)
	}
}
