package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Span attribute keys. Message contents are never attached to spans; only
// addresses, sizes and counts are.
const (
	AttrOperation   = "hl7.operation"
	AttrVersion     = "hl7.version"
	AttrMessageType = "hl7.message_type"
	AttrBytes       = "hl7.message.bytes"
	AttrSegments    = "hl7.message.segments"
	AttrPath        = "hl7.path"
	AttrCaret       = "hl7.caret"
	AttrErrors      = "hl7.findings.errors"
	AttrInfos       = "hl7.findings.infos"
	AttrErrorKind   = "hl7.error.kind"
	AttrFile        = "hl7.file"
)

// SetMessageAttributes describes the message an operation works on.
func SetMessageAttributes(span trace.Span, version, messageType string, size, segments int) {
	attrs := []attribute.KeyValue{
		attribute.Int(AttrBytes, size),
		attribute.Int(AttrSegments, segments),
	}
	if version != "" {
		attrs = append(attrs, attribute.String(AttrVersion, version))
	}
	if messageType != "" {
		attrs = append(attrs, attribute.String(AttrMessageType, messageType))
	}
	span.SetAttributes(attrs...)
}

// SetFindingAttributes records how many errors and infos validation produced.
func SetFindingAttributes(span trace.Span, errors, infos int) {
	span.SetAttributes(
		attribute.Int(AttrErrors, errors),
		attribute.Int(AttrInfos, infos),
	)
}

// SetErrorKind classifies a failed operation, e.g. "malformed".
func SetErrorKind(span trace.Span, kind string) {
	span.SetAttributes(attribute.String(AttrErrorKind, kind))
}
