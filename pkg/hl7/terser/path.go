package terser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	hl7errors "github.com/oracle-Solution/hl7/pkg/hl7/errors"
	"github.com/oracle-Solution/hl7/pkg/hl7/message"
)

// pathPattern matches [/][.]SEG[(occ)][-F[(rep)][-C[-S]]]. SEG is any
// alphanumeric type code, as accepted by the message parser.
var pathPattern = regexp.MustCompile(`^/?\.?([A-Za-z0-9]+)(?:\((\d+)\))?(?:-(\d+)(?:\((\d+)\))?(?:-(\d+)(?:-(\d+))?)?)?$`)

const grammar = "expected SEG[(occ)][-F[(rep)][-C[-S]]], e.g. PID-5-1 or OBX(1)-5(0)"

// Parse converts a path to a normalized position without consulting a
// message or dictionary. Occurrence and repetition indices in the path are
// 0-based; field, component and subcomponent numbers are 1-based.
func Parse(path string) (message.Position, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return message.Position{}, hl7errors.NewInvalidPath(path, "path is empty")
	}

	m := pathPattern.FindStringSubmatch(trimmed)
	if m == nil {
		return message.Position{}, &hl7errors.InvalidPathError{
			Path:       path,
			Reason:     "not a terser path",
			Suggestion: grammar,
		}
	}

	var (
		pos message.Position
		err error
	)
	pos.Segment = m[1]
	if pos.Occurrence, err = index(path, "occurrence", m[2], 0); err != nil {
		return message.Position{}, err
	}
	if pos.Field, err = index(path, "field", m[3], 1); err != nil {
		return message.Position{}, err
	}
	if pos.Repetition, err = index(path, "repetition", m[4], 0); err != nil {
		return message.Position{}, err
	}
	if pos.Component, err = index(path, "component", m[5], 1); err != nil {
		return message.Position{}, err
	}
	if pos.Subcomponent, err = index(path, "subcomponent", m[6], 1); err != nil {
		return message.Position{}, err
	}
	return pos.Normalize(), nil
}

// index converts one path number to a 1-based coordinate. base is the first
// valid number in the path: 0 for occurrences and repetitions, 1 otherwise.
// An absent number yields 0.
func index(path, what, digits string, base int) (int, error) {
	if digits == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n > 1<<20 {
		return 0, hl7errors.NewInvalidPath(path, "%s %s is out of range", what, digits)
	}
	if n < base {
		return 0, hl7errors.NewInvalidPath(path, "%s numbers start at %d", what, base)
	}
	return n - base + 1, nil
}

// Format renders pos as a terser path. Occurrence and repetition are written
// only when they are not the first, e.g. "PID-5-1" or "OBX(1)-5(2)-1".
func Format(pos message.Position) string {
	pos = pos.Normalize()
	if pos.IsZero() {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(pos.Segment)
	if pos.Occurrence > 1 {
		fmt.Fprintf(&sb, "(%d)", pos.Occurrence-1)
	}
	if pos.Field == 0 {
		return sb.String()
	}
	fmt.Fprintf(&sb, "-%d", pos.Field)
	if pos.Repetition > 1 {
		fmt.Fprintf(&sb, "(%d)", pos.Repetition-1)
	}
	if pos.Component > 0 {
		fmt.Fprintf(&sb, "-%d", pos.Component)
		if pos.Subcomponent > 0 {
			fmt.Fprintf(&sb, "-%d", pos.Subcomponent)
		}
	}
	return sb.String()
}
