package editor

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	hl7errors "github.com/oracle-Solution/hl7/pkg/hl7/errors"
	"github.com/oracle-Solution/hl7/pkg/hl7/message"
	"github.com/oracle-Solution/hl7/pkg/hl7/validator"
	"github.com/oracle-Solution/hl7/pkg/telemetry/logging"
	"github.com/oracle-Solution/hl7/pkg/telemetry/tracing"
)

// Operation names used in logs, spans and metrics.
const (
	OpInspect  = "inspect"
	OpLookup   = "lookup"
	OpSet      = "set"
	OpValidate = "validate"
)

// Status values recorded for finished operations.
const (
	StatusOK              = "ok"
	StatusMalformed       = "malformed"
	StatusInvalidPath     = "invalid_path"
	StatusInvalidPosition = "invalid_position"
	StatusError           = "error"
)

// Classify maps an operation error to its status.
func Classify(err error) string {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, hl7errors.ErrMalformedMessage):
		return StatusMalformed
	case errors.Is(err, hl7errors.ErrInvalidPath):
		return StatusInvalidPath
	case errors.Is(err, hl7errors.ErrInvalidPosition):
		return StatusInvalidPosition
	default:
		return StatusError
	}
}

// operation tracks one editor call from start to finish.
type operation struct {
	name  string
	size  int
	start time.Time
	span  trace.Span
}

// begin starts an operation: it assigns an operation ID, opens a span and
// stores both in the returned context for logging.
func (s *Service) begin(ctx context.Context, name, version string, size int) (context.Context, *operation) {
	if ctx == nil {
		ctx = context.Background()
	}
	if version == "" {
		version = s.defaultVersion
	}

	ctx, span := s.tracer.Start(ctx, "hl7."+name,
		trace.WithAttributes(attribute.String(tracing.AttrOperation, name)),
	)

	ctx = logging.WithOperationID(ctx, uuid.NewString())
	ctx = logging.WithOperation(ctx, name)
	ctx = logging.WithVersion(ctx, version)
	if id := tracing.TraceID(ctx); id != "" {
		ctx = logging.WithTraceID(ctx, id)
	}

	s.logger.DebugContext(ctx, "Operation started", "bytes", size)
	return ctx, &operation{name: name, size: size, start: time.Now(), span: span}
}

// describe attaches message attributes to the span of op.
func (s *Service) describe(op *operation, doc *document) {
	msg := doc.mapper.Message()
	tracing.SetMessageAttributes(op.span, doc.version, messageType(msg), op.size, len(msg.Segments))
}

// record counts findings in metrics and on the span of op.
func (s *Service) record(op *operation, findings []validator.Finding) {
	errs, infos := validator.Count(findings)
	tracing.SetFindingAttributes(op.span, errs, infos)
	for _, f := range findings {
		s.metrics.RecordFinding(f.Severity.String(), f.Rule)
	}
}

// end finishes op with err, which is returned unchanged.
func (s *Service) end(ctx context.Context, op *operation, err error) error {
	duration := time.Since(op.start)
	status := Classify(err)

	s.metrics.RecordOperation(op.name, status, duration, op.size)
	if status == StatusMalformed {
		s.metrics.RecordParseFailure(status)
	}

	if err != nil {
		tracing.SetErrorKind(op.span, status)
		s.logger.WarnContext(ctx, "Operation failed",
			"status", status,
			"duration_ms", duration.Milliseconds(),
			"error", err,
		)
	} else {
		s.logger.DebugContext(ctx, "Operation completed",
			"duration_ms", duration.Milliseconds(),
		)
	}
	tracing.SetStatus(op.span, err)
	op.span.End()
	return err
}

// messageType returns MSH-9 as "TYPE^TRIGGER", or "" when absent.
func messageType(msg *message.Message) string {
	code, _ := message.GetValue(msg, message.Position{Segment: "MSH", Field: 9, Component: 1})
	if code == "" {
		return ""
	}
	trigger, _ := message.GetValue(msg, message.Position{Segment: "MSH", Field: 9, Component: 2})
	if trigger == "" {
		return code
	}
	return code + "^" + trigger
}
