// Package mapper converts between caret offsets in raw message text and
// structured positions, and computes the text span of any position.
//
// # Caret Semantics
//
// Offsets address carets, which sit between characters. A caret belongs to
// the unit holding the character before it; a delimiter belongs to the unit
// it starts. For the text "A|1^2|B||C":
//
//	offset 4  ->  A-1-2   span [4,5)
//	offset 8  ->  A-3     span [8,8) (empty field)
//	offset 1  ->  A       span [0,10) (caret on the type code)
//
// For every offset o, PositionToSpan(OffsetToPosition(o)) contains o.
//
// # Caret Restoration
//
// After an edit, PositionToOffset places the caret at the start of the same
// position in the new text. When the position no longer exists it returns
// NoMove instead of failing:
//
//	c := mapper.PositionToOffset(newText, set, pos)
//	if c.Move {
//	    caret = c.Offset
//	}
//
// # Units
//
// The core counts bytes. Units converts offsets and spans for callers that
// count UTF-16 code units.
package mapper
