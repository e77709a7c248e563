// Package message implements the HL7 v2 message model: parsing raw text into a
// tree of segments, fields, repetitions, components and subcomponents,
// encoding the tree back to text, and reading or writing single values by
// Position.
//
// # Basic Usage
//
//	set, _ := separator.Detect(text, "2.5")
//	msg, err := message.Parse(text, set)
//	if err != nil {
//	    return err // *errors.MalformedMessageError
//	}
//
//	pos := message.Position{Segment: "PID", Field: 5, Component: 1}
//	family, _ := message.GetValue(msg, pos)
//
//	updated, err := message.SetValue(msg, pos, "SMITH")
//	if err != nil {
//	    return err
//	}
//	text = message.Encode(updated)
//
// # Normalization
//
// Encode drops trailing empty units at every level and never reorders
// segments, so Encode(Parse(Encode(Parse(t)))) == Encode(Parse(t)) for any
// parseable t. A value that was set survives a round trip:
//
//	m2, _ := message.SetValue(msg, pos, v)
//	back, _ := message.Parse(message.Encode(m2), set)
//	message.GetValue(back, pos) // == v for any non-empty v
package message
