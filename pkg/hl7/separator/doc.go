// Package separator defines the delimiter table of HL7 v2 messages.
//
// A message is split into segments, fields, repetitions, components and
// subcomponents, each level using its own delimiter character. The table is
// resolved once per message, either from the version default:
//
//	set, err := separator.ForVersion("2.5")
//
// or from the MSH header of the text being edited:
//
//	set, err := separator.Detect(text, "2.5")
//
// The package also implements the escape rules that keep delimiter characters
// inside leaf values from being interpreted as structure:
//
//	raw := set.EscapeValue("a^b") // "a\S\b"
//	val := set.UnescapeValue(raw) // "a^b"
package separator
