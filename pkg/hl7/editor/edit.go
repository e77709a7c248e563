package editor

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/oracle-Solution/hl7/pkg/hl7/mapper"
	"github.com/oracle-Solution/hl7/pkg/hl7/message"
	"github.com/oracle-Solution/hl7/pkg/hl7/terser"
	"github.com/oracle-Solution/hl7/pkg/telemetry/tracing"
)

// LookupRequest asks for the value at a path.
type LookupRequest struct {
	Text    string
	Version string
	Path    string
}

// LookupResult is the value at a path and where it sits in the text.
type LookupResult struct {
	Path        string           `json:"path"`
	Value       string           `json:"value"`
	Description string           `json:"description"`
	Position    message.Position `json:"position"`

	// Caret is the start of the unit, or no move when the path names a unit
	// that does not exist in the text yet.
	Caret mapper.Caret `json:"caret"`
}

// Lookup reads the value at req.Path. A path that is valid for the version
// but not present in the text reads as the empty string.
func (s *Service) Lookup(ctx context.Context, req LookupRequest) (*LookupResult, error) {
	ctx, op := s.begin(ctx, OpLookup, req.Version, len(req.Text))
	op.span.SetAttributes(attribute.String(tracing.AttrPath, req.Path))

	doc, err := s.load(req.Text, req.Version)
	if err != nil {
		return nil, s.end(ctx, op, err)
	}
	s.describe(op, doc)

	t := terser.New(doc.mapper.Message(), doc.dict)
	pos, err := t.PathToPosition(req.Path)
	if err != nil {
		return nil, s.end(ctx, op, err)
	}
	value, err := t.Get(req.Path)
	if err != nil {
		return nil, s.end(ctx, op, err)
	}

	return &LookupResult{
		Path:        terser.Format(pos),
		Value:       value,
		Description: t.Describe(pos),
		Position:    pos,
		Caret:       s.caret(doc.text, doc.mapper.PositionToOffset(pos)),
	}, s.end(ctx, op, nil)
}

// SetRequest asks to store a value at a path.
type SetRequest struct {
	Text    string
	Version string
	Path    string
	Value   string

	// Caret is the caret before the edit, in the service units. It is kept,
	// clamped to the new text, when the edited unit cannot be located.
	Caret int
}

// SetResult is the re-encoded text after an edit.
type SetResult struct {
	Text string `json:"text"`

	// Caret is the start of the edited unit in Text, or no move.
	Caret mapper.Caret `json:"caret"`

	// Inspection is the state of Text at the new caret.
	Inspection *Inspection `json:"inspection"`
}

// SetValue stores req.Value at req.Path and re-encodes the message. On error
// no text is returned and the caller keeps its own.
func (s *Service) SetValue(ctx context.Context, req SetRequest) (*SetResult, error) {
	ctx, op := s.begin(ctx, OpSet, req.Version, len(req.Text))
	op.span.SetAttributes(attribute.String(tracing.AttrPath, req.Path))

	doc, err := s.load(req.Text, req.Version)
	if err != nil {
		return nil, s.end(ctx, op, err)
	}
	s.describe(op, doc)
	oldCaret := s.units.ToBytes(doc.text, req.Caret)

	t := terser.New(doc.mapper.Message(), doc.dict)
	pos, err := t.PathToPosition(req.Path)
	if err != nil {
		return nil, s.end(ctx, op, err)
	}
	updated, err := t.Set(req.Path, req.Value)
	if err != nil {
		return nil, s.end(ctx, op, err)
	}

	next, err := s.load(message.Encode(updated), doc.version)
	if err != nil {
		return nil, s.end(ctx, op, err)
	}

	caret := next.mapper.PositionToOffset(pos)
	at := oldCaret
	if caret.Move {
		at = caret.Offset
		op.span.SetAttributes(attribute.Int(tracing.AttrCaret, caret.Offset))
	}

	insp, err := s.inspect(next, at)
	if err != nil {
		return nil, s.end(ctx, op, err)
	}
	s.record(op, insp.Findings)

	return &SetResult{
		Text:       next.text,
		Caret:      s.caret(next.text, caret),
		Inspection: insp,
	}, s.end(ctx, op, nil)
}
