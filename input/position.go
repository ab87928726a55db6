package input

import "fmt"

// Position is a location in an input.
// Line and Column are 1-based. Offset is the absolute offset of the
// element: bytes for text and streams, the token index for token input.
type Position struct {
	Offset int
	Line   int
	Column int
}

// Start is the position of the first element of every input.
var Start = Position{Offset: 0, Line: 1, Column: 1}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Less reports whether p lies strictly before q.
func (p Position) Less(q Position) bool {
	return p.Offset < q.Offset
}

// next returns the position following the rune r of the given byte width.
func (p Position) next(r rune, width, tabWidth int) Position {
	switch r {
	case '\n':
		return Position{Offset: p.Offset + width, Line: p.Line + 1, Column: 1}
	case '\t':
		return Position{Offset: p.Offset + width, Line: p.Line, Column: p.Column + tabWidth}
	default:
		return Position{Offset: p.Offset + width, Line: p.Line, Column: p.Column + 1}
	}
}
