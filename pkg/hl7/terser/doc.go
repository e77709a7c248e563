// Package terser addresses message values with HAPI-style terser paths.
//
// A path names a segment, optionally followed by a field, component and
// subcomponent:
//
//	PID-5-1        family name of the first PID
//	OBX(1)-5       observation value of the second OBX
//	PID-3(1)-1     ID number of the second patient identifier
//	/.MSH-9-2      trigger event; leading "/" and "." are accepted
//
// Occurrence and repetition indices in parentheses are 0-based, as in HAPI.
// Field, component and subcomponent numbers are 1-based. Positions, by
// contrast, use 1-based indices throughout, so PID-3(1) maps to repetition 2.
//
// A Terser checks paths against the message and the dictionary of its
// version before reading or writing:
//
//	t := terser.New(msg, dict)
//	name, err := t.Get("PID-5-1")
//	updated, err := t.Set("PID-5-1", "SMITH")
package terser
