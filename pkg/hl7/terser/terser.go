package terser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/oracle-Solution/hl7/pkg/hl7/dictionary"
	hl7errors "github.com/oracle-Solution/hl7/pkg/hl7/errors"
	"github.com/oracle-Solution/hl7/pkg/hl7/message"
)

// Terser reads and writes message values by path. It checks paths against
// the message shape and, when it has one, the dictionary of the message
// version.
type Terser struct {
	msg  *message.Message
	dict *dictionary.Version
}

// New creates a terser over msg. dict may be nil, in which case paths are
// only checked against the message.
func New(msg *message.Message, dict *dictionary.Version) *Terser {
	return &Terser{msg: msg, dict: dict}
}

// Message returns the message the terser reads from.
func (t *Terser) Message() *message.Message {
	return t.msg
}

// Resolution describes the unit at a position.
type Resolution struct {
	Position    message.Position `json:"position"`
	Path        string           `json:"path"`
	Value       string           `json:"value"`
	Description string           `json:"description"`
}

// PathToPosition converts path to a normalized position. It fails with an
// *errors.InvalidPathError when the path is not well formed, names a segment
// occurrence more than one past the last existing one, or addresses a field,
// repetition, component or subcomponent the dictionary does not allow.
func (t *Terser) PathToPosition(path string) (message.Position, error) {
	pos, err := Parse(path)
	if err != nil {
		return message.Position{}, err
	}
	if err := t.check(path, pos); err != nil {
		return message.Position{}, err
	}
	return pos, nil
}

// PositionToPath renders pos as a path, applying the same checks as
// PathToPosition.
func (t *Terser) PositionToPath(pos message.Position) (string, error) {
	pos = pos.Normalize()
	if pos.IsZero() {
		return "", hl7errors.NewInvalidPath("", "position is empty")
	}
	path := Format(pos)
	if err := t.check(path, pos); err != nil {
		return "", err
	}
	return path, nil
}

// Get returns the unescaped value at path. A unit that does not exist yet
// reads as the empty string.
func (t *Terser) Get(path string) (string, error) {
	pos, err := t.PathToPosition(path)
	if err != nil {
		return "", err
	}
	if t.msg.Segment(pos.Segment, pos.Occurrence) == nil {
		return "", nil
	}
	return message.GetValue(t.msg, pos)
}

// Set returns a copy of the message with value stored at path.
func (t *Terser) Set(path, value string) (*message.Message, error) {
	pos, err := t.PathToPosition(path)
	if err != nil {
		return nil, err
	}
	out, err := message.SetValue(t.msg, pos, value)
	if err != nil {
		var perr *hl7errors.InvalidPositionError
		if errors.As(err, &perr) {
			return nil, hl7errors.NewInvalidPath(path, "%s", perr.Reason)
		}
		return nil, err
	}
	return out, nil
}

// ResolveAt describes the unit at pos: its path, value and dictionary label.
// Unlike PositionToPath it accepts units the dictionary does not allow, so
// any caret inside the text resolves.
func (t *Terser) ResolveAt(pos message.Position) (Resolution, error) {
	pos = pos.Normalize()
	if pos.IsZero() {
		return Resolution{}, hl7errors.NewInvalidPosition(pos, "position is empty")
	}
	value, err := message.GetValue(t.msg, pos)
	if err != nil {
		return Resolution{}, err
	}
	return Resolution{
		Position:    pos,
		Path:        Format(pos),
		Value:       value,
		Description: t.Describe(pos),
	}, nil
}

// Describe returns the dictionary label of pos, or the position itself when
// the terser has no dictionary.
func (t *Terser) Describe(pos message.Position) string {
	if t.dict == nil {
		return pos.Normalize().String()
	}
	return t.dict.Describe(pos)
}

// check validates pos, parsed from path, against the message and dictionary.
func (t *Terser) check(path string, pos message.Position) error {
	if count := t.msg.Occurrences(pos.Segment); pos.Occurrence > count+1 {
		return &hl7errors.InvalidPathError{
			Path:       path,
			Reason:     fmt.Sprintf("segment %s has %d occurrences, index %d is more than one past the last", pos.Segment, count, pos.Occurrence-1),
			Suggestion: occurrenceRange(count),
		}
	}
	if t.dict == nil {
		return nil
	}

	seg, ok := t.dict.Segment(pos.Segment)
	if !ok {
		if strings.HasPrefix(pos.Segment, "Z") || t.msg.Occurrences(pos.Segment) > 0 {
			return nil
		}
		return &hl7errors.InvalidPathError{
			Path:       path,
			Reason:     fmt.Sprintf("segment %s is not defined in HL7 %s", pos.Segment, t.dict.ID),
			Suggestion: hl7errors.Suggest(pos.Segment, t.dict.SegmentNames()),
		}
	}
	if pos.Field == 0 {
		return nil
	}

	if pos.Field > len(seg.Fields) {
		return &hl7errors.InvalidPathError{
			Path:       path,
			Reason:     fmt.Sprintf("%s defines %d fields in HL7 %s", pos.Segment, len(seg.Fields), t.dict.ID),
			Suggestion: hl7errors.SuggestRange("field", len(seg.Fields)),
		}
	}
	fd := seg.Fields[pos.Field-1]
	if pos.Repetition > 1 && !fd.Repeatable {
		return &hl7errors.InvalidPathError{
			Path:       path,
			Reason:     fmt.Sprintf("%s-%d %s does not repeat", pos.Segment, pos.Field, fd.Name),
			Suggestion: "use repetition index 0",
		}
	}
	if pos.Component == 0 {
		return nil
	}

	compType, err := t.checkPart(path, "component", fd.DataType, pos.Component)
	if err != nil || pos.Subcomponent == 0 {
		return err
	}
	_, err = t.checkPart(path, "subcomponent", compType, pos.Subcomponent)
	return err
}

// checkPart checks part n of a unit of datatype dataType and returns the
// datatype of the part. Unknown datatypes and "varies" accept any part; a
// primitive datatype has exactly one part, itself.
func (t *Terser) checkPart(path, what, dataType string, n int) (string, error) {
	def, ok := t.dict.DataType(dataType)
	if !ok || dataType == "varies" {
		return "", nil
	}
	if !def.IsComposite() {
		if n == 1 {
			return dataType, nil
		}
		return "", &hl7errors.InvalidPathError{
			Path:       path,
			Reason:     fmt.Sprintf("%s is a primitive datatype without %ss", dataType, what),
			Suggestion: hl7errors.SuggestRange(what, 1),
		}
	}
	if n > len(def.Components) {
		return "", &hl7errors.InvalidPathError{
			Path:       path,
			Reason:     fmt.Sprintf("%s has %d components", dataType, len(def.Components)),
			Suggestion: hl7errors.SuggestRange(what, len(def.Components)),
		}
	}
	return def.Components[n-1].DataType, nil
}

func occurrenceRange(count int) string {
	if count == 0 {
		return "use occurrence index 0 to add the segment"
	}
	return fmt.Sprintf("occurrence index must be between 0 and %d", count)
}
