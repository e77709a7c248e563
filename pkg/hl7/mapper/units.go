package mapper

import (
	"fmt"
	"strings"

	"github.com/oracle-Solution/hl7/pkg/hl7/message"
)

// Units selects the code unit callers use for carets and spans.
type Units int

const (
	// UnitsBytes counts UTF-8 bytes, the native unit of the core.
	UnitsBytes Units = iota
	// UnitsUTF16 counts UTF-16 code units, as most text widgets do.
	UnitsUTF16
)

// ParseUnits parses "bytes" or "utf16".
func ParseUnits(s string) (Units, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "bytes", "utf8", "utf-8":
		return UnitsBytes, nil
	case "utf16", "utf-16":
		return UnitsUTF16, nil
	default:
		return UnitsBytes, fmt.Errorf("unknown offset units %q (expected bytes or utf16)", s)
	}
}

// String returns the unit name.
func (u Units) String() string {
	if u == UnitsUTF16 {
		return "utf16"
	}
	return "bytes"
}

// ToBytes converts an offset expressed in u to a byte offset in text.
func (u Units) ToBytes(text string, offset int) int {
	if u == UnitsUTF16 {
		return FromUTF16(text, offset)
	}
	return offset
}

// FromBytes converts a byte offset in text to an offset expressed in u.
func (u Units) FromBytes(text string, offset int) int {
	if u == UnitsUTF16 {
		return ToUTF16(text, offset)
	}
	return offset
}

// Span converts a byte span in text to a span expressed in u.
func (u Units) Span(text string, span message.Span) message.Span {
	return message.Span{Start: u.FromBytes(text, span.Start), End: u.FromBytes(text, span.End)}
}

// Caret converts a byte caret placement in text to one expressed in u.
func (u Units) Caret(text string, c Caret) Caret {
	if !c.Move {
		return c
	}
	return At(u.FromBytes(text, c.Offset))
}

// ToUTF16 converts a byte offset in text to a UTF-16 code unit offset. An
// offset inside a multi-byte character maps past the character.
func ToUTF16(text string, byteOffset int) int {
	if byteOffset <= 0 {
		return 0
	}

	utf16Off := 0
	for i, r := range text {
		if i >= byteOffset {
			return utf16Off
		}
		utf16Off += utf16Len(r)
	}
	return utf16Off
}

// FromUTF16 converts a UTF-16 code unit offset to a byte offset in text. An
// offset between the halves of a surrogate pair maps to the byte after the
// character.
func FromUTF16(text string, utf16Offset int) int {
	if utf16Offset <= 0 {
		return 0
	}

	count := 0
	for i, r := range text {
		if count >= utf16Offset {
			return i
		}
		count += utf16Len(r)
	}
	return len(text)
}

func utf16Len(r rune) int {
	if r >= 0x10000 {
		return 2 // Surrogate pair
	}
	return 1
}
