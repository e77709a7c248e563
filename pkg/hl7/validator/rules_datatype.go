package validator

import (
	"strconv"

	"github.com/oracle-Solution/hl7/pkg/hl7/message"
)

// DataTypeRule checks primitive values against their datatype: NM numbers,
// SI sequence numbers, DT, DTM and TM dates and times, and ID and IS codes
// against the table the dictionary names, when the dictionary carries it.
// Composite fields are checked component by component. OBX-5 takes its type
// from OBX-2.
type DataTypeRule struct{}

// Name implements Rule.
func (DataTypeRule) Name() string { return "datatype" }

// Check implements Rule.
func (DataTypeRule) Check(ctx *Context) {
	msg := ctx.Message
	msg.WalkFields(func(pos message.Position, f *message.Field) bool {
		if message.IsHeader(pos.Segment) && pos.Field <= 2 {
			return true
		}
		fd, ok := ctx.Dictionary.Field(pos.Segment, pos.Field)
		if !ok {
			return true
		}
		dataType := fd.DataType
		if dataType == "varies" {
			dataType = variesType(ctx, pos)
		}
		for i, r := range f.Repetitions {
			p := pos
			p.Repetition = i + 1
			checkRepetition(ctx, p, r, dataType, fd.Table)
		}
		return true
	})
}

// variesType returns the datatype named by OBX-2 for OBX-5, or "".
func variesType(ctx *Context, pos message.Position) string {
	if pos.Segment != "OBX" || pos.Field != 5 {
		return ""
	}
	return valueAt(ctx.Message, message.Position{Segment: pos.Segment, Occurrence: pos.Occurrence}, 2, 0)
}

func checkRepetition(ctx *Context, pos message.Position, r *message.Repetition, dataType, table string) {
	def, ok := ctx.Dictionary.DataType(dataType)
	if !ok || r.IsEmpty() {
		return
	}
	if !def.IsComposite() {
		checkPrimitive(ctx, pos, dataType, table, r.Component(1).Subcomponent(1))
		return
	}

	for ci, c := range r.Components {
		cd, ok := ctx.Dictionary.Component(dataType, ci+1)
		if !ok {
			continue
		}
		cp := pos
		cp.Component = ci + 1

		sub, ok := ctx.Dictionary.DataType(cd.DataType)
		if !ok {
			continue
		}
		if !sub.IsComposite() {
			checkPrimitive(ctx, cp, cd.DataType, cd.Table, c.Subcomponent(1))
			continue
		}
		for si, sc := range c.Subcomponents {
			sd, ok := ctx.Dictionary.Component(cd.DataType, si+1)
			if !ok {
				continue
			}
			sp := cp
			sp.Subcomponent = si + 1
			checkPrimitive(ctx, sp, sd.DataType, sd.Table, sc)
		}
	}
}

func checkPrimitive(ctx *Context, pos message.Position, dataType, table string, leaf *message.Subcomponent) {
	if leaf == nil || leaf.Value == "" || leaf.Value == `""` {
		return
	}
	value := ctx.Message.Separators.UnescapeValue(leaf.Value)

	switch dataType {
	case "NM":
		if !numberPattern.MatchString(value) {
			ctx.Error(pos, "%q is not a number (NM)", value)
		}
	case "SI":
		if n, err := strconv.Atoi(value); err != nil || n < 1 || !isDigits(value) {
			ctx.Error(pos, "%q is not a positive sequence number (SI)", value)
		}
	case "DT":
		if _, err := parseDate(value); err != nil {
			ctx.Error(pos, "%q is not a valid date (DT, YYYY[MM[DD]])", value)
		}
	case "DTM":
		if _, err := parseDateTime(value); err != nil {
			ctx.Error(pos, "%q is not a valid date/time (DTM, YYYY[MM[DD[HH[MM[SS[.S]]]]]][+/-ZZZZ])", value)
		}
	case "TM":
		if _, err := parseTime(value); err != nil {
			ctx.Error(pos, "%q is not a valid time (TM, HH[MM[SS[.S]]][+/-ZZZZ])", value)
		}
	case "ID", "IS":
		if table == "" {
			return
		}
		t, ok := ctx.Dictionary.Table(table)
		if !ok || t.Contains(value) {
			return
		}
		ctx.Error(pos, "%q is not a value of table %s (%s)", value, table, t.Description)
	}
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
