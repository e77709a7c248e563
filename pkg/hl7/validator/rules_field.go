package validator

import (
	"unicode/utf8"

	"github.com/oracle-Solution/hl7/pkg/hl7/message"
)

// RequiredRule reports required fields that hold no value. Header segments
// are covered by HeaderRule.
type RequiredRule struct{}

// Name implements Rule.
func (RequiredRule) Name() string { return "required" }

// Check implements Rule.
func (RequiredRule) Check(ctx *Context) {
	for i, seg := range ctx.Message.Segments {
		if seg.IsHeader() {
			continue
		}
		if def, ok := ctx.Dictionary.Segment(seg.Name); ok {
			checkRequired(ctx, ctx.Message.SegmentPosition(i), seg, def)
		}
	}
}

// RepeatableRule reports repetitions in fields that do not repeat.
type RepeatableRule struct{}

// Name implements Rule.
func (RepeatableRule) Name() string { return "repeatable" }

// Check implements Rule.
func (RepeatableRule) Check(ctx *Context) {
	ctx.Message.WalkFields(func(pos message.Position, f *message.Field) bool {
		if len(f.Repetitions) < 2 {
			return true
		}
		fd, ok := ctx.Dictionary.Field(pos.Segment, pos.Field)
		if !ok || fd.Repeatable {
			return true
		}
		pos.Repetition = 2
		ctx.Error(pos, "%s-%d %s does not repeat, found %d repetitions",
			pos.Segment, pos.Field, fd.Name, len(f.Repetitions))
		return true
	})
}

// MaxLengthRule reports field repetitions longer than the dictionary allows.
// Lengths count characters of the encoded text.
type MaxLengthRule struct{}

// Name implements Rule.
func (MaxLengthRule) Name() string { return "max-length" }

// Check implements Rule.
func (MaxLengthRule) Check(ctx *Context) {
	set := ctx.Message.Separators
	ctx.Message.WalkFields(func(pos message.Position, f *message.Field) bool {
		fd, ok := ctx.Dictionary.Field(pos.Segment, pos.Field)
		if !ok || fd.MaxLength == 0 {
			return true
		}
		for i, r := range f.Repetitions {
			n := utf8.RuneCountInString(r.Encode(set))
			if n <= fd.MaxLength {
				continue
			}
			p := pos
			p.Repetition = i + 1
			ctx.Info(p, "%s-%d is %d characters long, HL7 %s allows %d",
				pos.Segment, pos.Field, n, ctx.Version, fd.MaxLength)
		}
		return true
	})
}
