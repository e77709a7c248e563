package separator

import (
	"encoding/hex"
	"strings"
)

// EscapeValue encodes a leaf value so that it can be embedded in a message without
// being split. Delimiters become the standard \F\ \S\ \T\ \R\ \E\ sequences
// and segment terminators become hexadecimal \Xhh\ sequences.
func (s Set) EscapeValue(value string) string {
	if !s.needsEscape(value) {
		return value
	}

	var sb strings.Builder
	sb.Grow(len(value) + 8)
	for i := 0; i < len(value); i++ {
		c := value[i]
		switch {
		case c == s.Escape:
			s.writeSequence(&sb, "E")
		case c == s.Field:
			s.writeSequence(&sb, "F")
		case c == s.Component:
			s.writeSequence(&sb, "S")
		case c == s.Subcomponent:
			s.writeSequence(&sb, "T")
		case c == s.Repetition:
			s.writeSequence(&sb, "R")
		case s.IsSegmentTerminator(c):
			s.writeSequence(&sb, "X"+strings.ToUpper(hex.EncodeToString([]byte{c})))
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// UnescapeValue decodes the escape sequences of a raw leaf value. Delimiter
// sequences and \Xhh..\ hexadecimal data are decoded; formatting and
// highlighting sequences such as \.br\ or \H\ are kept verbatim. An escape
// character without a closing partner is kept as-is.
func (s Set) UnescapeValue(raw string) string {
	if strings.IndexByte(raw, s.Escape) < 0 {
		return raw
	}

	var sb strings.Builder
	sb.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != s.Escape {
			sb.WriteByte(c)
			continue
		}

		end := strings.IndexByte(raw[i+1:], s.Escape)
		if end < 0 {
			sb.WriteString(raw[i:])
			break
		}
		seq := raw[i+1 : i+1+end]
		if decoded, ok := s.decodeSequence(seq); ok {
			sb.WriteString(decoded)
		} else {
			sb.WriteString(raw[i : i+end+2])
		}
		i += end + 1
	}
	return sb.String()
}

func (s Set) decodeSequence(seq string) (string, bool) {
	switch seq {
	case "F":
		return string(s.Field), true
	case "S":
		return string(s.Component), true
	case "T":
		return string(s.Subcomponent), true
	case "R":
		return string(s.Repetition), true
	case "E":
		return string(s.Escape), true
	}

	if len(seq) > 1 && seq[0] == 'X' && len(seq)%2 == 1 {
		data, err := hex.DecodeString(seq[1:])
		if err == nil {
			return string(data), true
		}
	}
	return "", false
}

func (s Set) writeSequence(sb *strings.Builder, seq string) {
	sb.WriteByte(s.Escape)
	sb.WriteString(seq)
	sb.WriteByte(s.Escape)
}

func (s Set) needsEscape(value string) bool {
	for i := 0; i < len(value); i++ {
		if s.IsDelimiter(value[i]) || s.IsSegmentTerminator(value[i]) {
			return true
		}
	}
	return false
}
