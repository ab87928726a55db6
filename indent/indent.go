// Package indent adds indentation-sensitive parsing on top of package parse.
//
// Indentation is measured in columns from the position of the cursor after a
// space consumer has run, so the same rules work for text and for token
// streams whose positions carry columns. The space consumer passed to these
// combinators must skip line breaks as well as blanks.
package indent

import (
	"fmt"

	"github.com/dhamidi/parsnip/input"
	"github.com/dhamidi/parsnip/parse"
)

// Level is a 0-based indentation column.
type Level int

// LevelAt returns the indentation level of pos.
func LevelAt(pos input.Position) Level {
	return Level(pos.Column - 1)
}

// Current returns the level of the cursor without consuming input.
func Current[E any]() parse.Parser[E, Level] {
	return parse.Map(parse.GetPosition[E](), LevelAt)
}

// Relation is how a measured level must compare to a reference level.
type Relation int

const (
	Any Relation = iota
	EQ
	GT
	GE
)

// Satisfies reports whether actual stands in relation r to ref.
func (r Relation) Satisfies(ref, actual Level) bool {
	switch r {
	case EQ:
		return actual == ref
	case GT:
		return actual > ref
	case GE:
		return actual >= ref
	default:
		return true
	}
}

func (r Relation) String() string {
	switch r {
	case EQ:
		return "equal to"
	case GT:
		return "greater than"
	case GE:
		return "greater than or equal to"
	default:
		return "anything"
	}
}

func incorrect(pos input.Position, got Level, r Relation, ref Level) *parse.Error {
	return parse.NewError(pos, nil, parse.MessageItem(
		fmt.Sprintf("incorrect indentation (got %d, should be %s %d)", got, r, ref)))
}

// Guard runs sc and succeeds with the resulting level if it stands in
// relation rel to ref.
func Guard[E, S any](sc parse.Parser[E, S], rel Relation, ref Level) parse.Parser[E, Level] {
	if sc == nil {
		panic("parsnip: nil space consumer passed to indent.Guard")
	}
	return parse.Bind(sc, func(S) parse.Parser[E, Level] {
		return func(in input.Input[E]) parse.Result[E, Level] {
			lvl := LevelAt(in.Position())
			if !rel.Satisfies(ref, lvl) {
				return parse.Failure[E, Level](incorrect(in.Position(), lvl, rel, ref), in)
			}
			return parse.Success(lvl, in, nil)
		}
	})
}

// NonIndented runs p at level 0, after sc.
func NonIndented[E, S, T any](sc parse.Parser[E, S], p parse.Parser[E, T]) parse.Parser[E, T] {
	return parse.Right(Guard(sc, EQ, 0), p)
}
