package editor

import (
	"context"

	"github.com/oracle-Solution/hl7/pkg/hl7/message"
	"github.com/oracle-Solution/hl7/pkg/hl7/terser"
	"github.com/oracle-Solution/hl7/pkg/hl7/validator"
)

// DescriptionSeparator joins the dictionary label of the unit under the
// caret and the message of the finding anchored there.
const DescriptionSeparator = " → "

// Request asks for the state of a text at a caret.
type Request struct {
	Text    string
	Version string // empty means the service default
	Caret   int    // in the service units
}

// Inspection is the synchronized view of a text: its findings and the unit
// under the caret.
type Inspection struct {
	Version     string              `json:"version"`
	MessageType string              `json:"message_type,omitempty"`
	Findings    []validator.Finding `json:"findings"`

	// Caret is the caret the inspection was made at, clamped to the text.
	Caret int `json:"caret"`

	// Path, Value and Description describe the unit under the caret.
	Path        string           `json:"path"`
	Value       string           `json:"value"`
	Description string           `json:"description"`
	Position    message.Position `json:"position"`
	Span        message.Span     `json:"span"`
}

// Inspect parses and validates req.Text and resolves the unit under the
// caret. The description gets the message of a finding anchored at the caret
// appended.
func (s *Service) Inspect(ctx context.Context, req Request) (*Inspection, error) {
	ctx, op := s.begin(ctx, OpInspect, req.Version, len(req.Text))

	doc, err := s.load(req.Text, req.Version)
	if err != nil {
		return nil, s.end(ctx, op, err)
	}
	s.describe(op, doc)

	insp, err := s.inspect(doc, s.units.ToBytes(doc.text, req.Caret))
	if err != nil {
		return nil, s.end(ctx, op, err)
	}
	s.record(op, insp.Findings)
	return insp, s.end(ctx, op, nil)
}

// Validate returns the findings of text without resolving a caret.
func (s *Service) Validate(ctx context.Context, text, version string) ([]validator.Finding, error) {
	ctx, op := s.begin(ctx, OpValidate, version, len(text))

	doc, err := s.load(text, version)
	if err != nil {
		return nil, s.end(ctx, op, err)
	}
	s.describe(op, doc)

	findings, err := s.validate(doc)
	if err != nil {
		return nil, s.end(ctx, op, err)
	}
	s.record(op, findings)

	result := "valid"
	if validator.HasErrors(findings) {
		result = "invalid"
	}
	s.metrics.RecordValidation(result)
	return findings, s.end(ctx, op, nil)
}

// inspect builds the inspection of doc at a byte caret.
func (s *Service) inspect(doc *document, byteCaret int) (*Inspection, error) {
	findings, err := s.validate(doc)
	if err != nil {
		return nil, err
	}

	byteCaret = doc.mapper.Clamp(byteCaret)
	pos := doc.mapper.OffsetToPosition(byteCaret)
	msg := doc.mapper.Message()

	res, err := terser.New(msg, doc.dict).ResolveAt(pos)
	if err != nil {
		return nil, err
	}

	desc := res.Description
	if f, ok := validator.FindingAt(findings, pos); ok {
		desc += DescriptionSeparator + f.Message
	}

	return &Inspection{
		Version:     doc.version,
		MessageType: messageType(msg),
		Findings:    findings,
		Caret:       s.units.FromBytes(doc.text, byteCaret),
		Path:        res.Path,
		Value:       res.Value,
		Description: desc,
		Position:    res.Position,
		Span:        s.units.Span(doc.text, doc.mapper.NearestSpan(pos)),
	}, nil
}
