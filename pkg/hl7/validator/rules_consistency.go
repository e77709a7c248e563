package validator

import (
	"github.com/oracle-Solution/hl7/pkg/hl7/message"
)

// ConsistencyRule checks relations between fields: the message structure in
// MSH-9-3 matches the message type and trigger event, the date of birth in
// PID-7 is not after the message time in MSH-7, and every OBX carrying a
// value in OBX-5 names its value type in OBX-2.
type ConsistencyRule struct{}

// Name implements Rule.
func (ConsistencyRule) Name() string { return "consistency" }

// Check implements Rule.
func (ConsistencyRule) Check(ctx *Context) {
	msg := ctx.Message
	msh := message.Position{Segment: "MSH", Occurrence: 1}
	hasMSH := msg.Segment("MSH", 1) != nil

	if hasMSH {
		checkStructure(ctx, msh)
	}

	var sent string
	if hasMSH {
		sent = valueAt(msg, msh, 7, 1)
	}

	for i, seg := range msg.Segments {
		segPos := msg.SegmentPosition(i)
		switch seg.Name {
		case "PID":
			if sent != "" {
				checkBirthDate(ctx, segPos, sent)
			}
		case "OBX":
			if !seg.Field(5).IsEmpty() && seg.Field(2).IsEmpty() {
				ctx.Error(at(segPos, 2, 0), "OBX-5 carries a value but OBX-2 value type is empty")
			}
		}
	}
}

func checkStructure(ctx *Context, msh message.Position) {
	structure := valueAt(ctx.Message, msh, 9, 3)
	if structure == "" {
		return
	}
	msgType, trigger := valueAt(ctx.Message, msh, 9, 1), valueAt(ctx.Message, msh, 9, 2)
	want, ok := ctx.Dictionary.Structure(msgType, trigger)
	if !ok || want == structure {
		return
	}
	ctx.Info(at(msh, 9, 3), "message structure %s does not match %s^%s, expected %s",
		structure, msgType, trigger, want)
}

func checkBirthDate(ctx *Context, pid message.Position, sent string) {
	born := valueAt(ctx.Message, pid, 7, 1)
	if born == "" {
		return
	}
	birth, err := parseDateTime(born)
	if err != nil {
		return
	}
	msgTime, err := parseDateTime(sent)
	if err != nil {
		return
	}
	if birth.After(msgTime) {
		ctx.Error(at(pid, 7, 0), "date of birth %s is after the message time %s", born, sent)
	}
}
