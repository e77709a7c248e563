package validator

import (
	"strings"

	"github.com/oracle-Solution/hl7/pkg/hl7/dictionary"
	hl7errors "github.com/oracle-Solution/hl7/pkg/hl7/errors"
	"github.com/oracle-Solution/hl7/pkg/hl7/message"
)

// HeaderRule checks the message header: the message starts with MSH (or a
// batch or file header), the required MSH fields carry values, MSH-9 names a
// trigger event and MSH-12 declares the version being validated against.
type HeaderRule struct{}

// Name implements Rule.
func (HeaderRule) Name() string { return "header" }

// Check implements Rule.
func (HeaderRule) Check(ctx *Context) {
	msg := ctx.Message
	if len(msg.Segments) == 0 {
		return
	}

	if first := msg.Segments[0]; !first.IsHeader() {
		ctx.Error(msg.SegmentPosition(0), "message must start with an MSH segment, found %s", first.Name)
	}

	for i, seg := range msg.Segments {
		if !seg.IsHeader() {
			continue
		}
		if def, ok := ctx.Dictionary.Segment(seg.Name); ok {
			checkRequired(ctx, msg.SegmentPosition(i), seg, def)
		}
	}

	idx := msg.SegmentIndex("MSH", 1)
	if idx < 0 {
		if msg.Segments[0].IsHeader() {
			ctx.Error(msg.SegmentPosition(0), "%s batch holds no MSH segment", msg.Segments[0].Name)
		}
		return
	}
	msh := msg.SegmentPosition(idx)

	msgType := valueAt(msg, msh, 9, 1)
	if msgType != "" && msgType != "ACK" && valueAt(msg, msh, 9, 2) == "" {
		ctx.Error(at(msh, 9, 2), "message type %s has no trigger event", msgType)
	}

	if declared := valueAt(msg, msh, 12, 1); declared != "" && declared != ctx.Version {
		ctx.Info(at(msh, 12, 0), "message declares HL7 %s, validating against %s", declared, ctx.Version)
	}
}

// SegmentKnownRule reports segment types the version does not define.
// Z-segments are site-defined and always accepted.
type SegmentKnownRule struct{}

// Name implements Rule.
func (SegmentKnownRule) Name() string { return "segment-known" }

// Check implements Rule.
func (SegmentKnownRule) Check(ctx *Context) {
	var names []string
	for i, seg := range ctx.Message.Segments {
		if strings.HasPrefix(seg.Name, "Z") {
			continue
		}
		if _, ok := ctx.Dictionary.Segment(seg.Name); ok {
			continue
		}
		if names == nil {
			names = ctx.Dictionary.SegmentNames()
		}
		if s := hl7errors.Suggest(seg.Name, names); s != "" {
			ctx.Info(ctx.Message.SegmentPosition(i), "segment %s is not defined in HL7 %s. %s", seg.Name, ctx.Version, s)
			continue
		}
		ctx.Info(ctx.Message.SegmentPosition(i), "segment %s is not defined in HL7 %s", seg.Name, ctx.Version)
	}
}

// FieldCountRule reports values in fields beyond the last field the version
// defines for the segment.
type FieldCountRule struct{}

// Name implements Rule.
func (FieldCountRule) Name() string { return "field-count" }

// Check implements Rule.
func (FieldCountRule) Check(ctx *Context) {
	for i, seg := range ctx.Message.Segments {
		limit, ok := ctx.Dictionary.MaxField(seg.Name)
		if !ok {
			continue
		}
		for n := limit + 1; n <= len(seg.Fields); n++ {
			if seg.Fields[n-1].IsEmpty() {
				continue
			}
			ctx.Info(at(ctx.Message.SegmentPosition(i), n, 0),
				"%s-%d is beyond the %d fields HL7 %s defines for %s", seg.Name, n, limit, ctx.Version, seg.Name)
			break
		}
	}
}

// checkRequired reports the required fields of seg that hold no value.
// The separator fields of header segments are always present.
func checkRequired(ctx *Context, segPos message.Position, seg *message.Segment, def *dictionary.SegmentDef) {
	for i, fd := range def.Fields {
		n := i + 1
		if !fd.Required || (seg.IsHeader() && n <= 2) {
			continue
		}
		if seg.Field(n).IsEmpty() {
			ctx.Error(at(segPos, n, 0), "%s-%d %s is required", seg.Name, n, fd.Name)
		}
	}
}

// at returns the position of field n (and component c, when non-zero) of
// the segment at segPos.
func at(segPos message.Position, n, c int) message.Position {
	segPos.Field = n
	segPos.Component = c
	return segPos
}

// valueAt returns the unescaped value of component c of field n of the
// segment at segPos, or "".
func valueAt(msg *message.Message, segPos message.Position, n, c int) string {
	v, err := message.GetValue(msg, at(segPos, n, c))
	if err != nil {
		return ""
	}
	return v
}
