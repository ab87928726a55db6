// Package parse is a parser-combinator engine.
//
// A Parser is a pure function from a cursor to a Result. Parsers are built
// by composing the primitives in this package; running one never mutates
// anything, so a parser value can be shared freely.
//
// Choice follows one rule: Or tries its second alternative only when the
// first failed without consuming input. Wrap a parser in Try to let Or
// backtrack over input it consumed.
package parse

import (
	"fmt"

	"github.com/dhamidi/parsnip/input"
)

// Parser parses elements of type E into a value of type T.
type Parser[E, T any] func(in input.Input[E]) Result[E, T]

// Result is the outcome of running a parser.
//
// On success Value and Rest are set and Err holds the best error seen on
// paths that were abandoned along the way, if any. On failure Err is never
// nil and Rest is the cursor where the failure happened.
type Result[E, T any] struct {
	Value T
	Rest  input.Input[E]
	Err   *Error
	OK    bool
}

// Success returns a successful result.
func Success[E, T any](value T, rest input.Input[E], err *Error) Result[E, T] {
	return Result[E, T]{Value: value, Rest: rest, Err: err, OK: true}
}

// Failure returns a failed result.
func Failure[E, T any](err *Error, rest input.Input[E]) Result[E, T] {
	return Result[E, T]{Rest: rest, Err: err}
}

// Consumed reports whether the result lies past in.
func (r Result[E, T]) Consumed(in input.Input[E]) bool {
	return input.Moved(in, r.Rest)
}

func fail[E, T, U any](r Result[E, T]) Result[E, U] {
	return Result[E, U]{Rest: r.Rest, Err: r.Err}
}

func mustParser[E, T any](p Parser[E, T], name string) {
	if p == nil {
		panic(fmt.Sprintf("parsnip: nil parser passed to %s", name))
	}
}

// Run applies p to in.
func Run[E, T any](p Parser[E, T], in input.Input[E]) Result[E, T] {
	return p(in)
}

// Satisfy consumes one element for which pred holds. label names what was
// expected in errors.
func Satisfy[E any](pred func(E) bool, label string) Parser[E, E] {
	if pred == nil {
		panic("parsnip: nil predicate passed to Satisfy")
	}
	return func(in input.Input[E]) Result[E, E] {
		e, ok := in.Current()
		if !ok {
			eof := EndOfFile()
			return Failure[E, E](NewError(in.Position(), &eof, LabelItem(label)), in)
		}
		if !pred(e) {
			tok := TokenItem(e)
			return Failure[E, E](NewError(in.Position(), &tok, LabelItem(label)), in)
		}
		return Success(e, in.Advance(), nil)
	}
}

// Token consumes one element equal to want.
func Token[E comparable](want E) Parser[E, E] {
	return Satisfy(func(e E) bool { return e == want }, describe(want))
}

// AnyToken consumes any single element.
func AnyToken[E any]() Parser[E, E] {
	return Satisfy(func(E) bool { return true }, "any token")
}

// Return succeeds with value without consuming input.
func Return[E, T any](value T) Parser[E, T] {
	return func(in input.Input[E]) Result[E, T] {
		return Success(value, in, nil)
	}
}

// Fail fails with msg without consuming input.
func Fail[E, T any](msg string) Parser[E, T] {
	return func(in input.Input[E]) Result[E, T] {
		return Failure[E, T](NewError(in.Position(), nil, MessageItem(msg)), in)
	}
}

// EndOfInput succeeds only at the end of input.
func EndOfInput[E any]() Parser[E, struct{}] {
	return func(in input.Input[E]) Result[E, struct{}] {
		e, ok := in.Current()
		if !ok {
			return Success(struct{}{}, in, nil)
		}
		tok := TokenItem(e)
		return Failure[E, struct{}](NewError(in.Position(), &tok, EndOfFile()), in)
	}
}

// GetPosition returns the current position without consuming input.
func GetPosition[E any]() Parser[E, input.Position] {
	return func(in input.Input[E]) Result[E, input.Position] {
		return Success(in.Position(), in, nil)
	}
}

// Map applies f to the value of p.
func Map[E, T, U any](p Parser[E, T], f func(T) U) Parser[E, U] {
	mustParser(p, "Map")
	return func(in input.Input[E]) Result[E, U] {
		r := p(in)
		if !r.OK {
			return fail[E, T, U](r)
		}
		return Success(f(r.Value), r.Rest, r.Err)
	}
}

// Bind runs p, then the parser k builds from its value.
func Bind[E, T, U any](p Parser[E, T], k func(T) Parser[E, U]) Parser[E, U] {
	mustParser(p, "Bind")
	return func(in input.Input[E]) Result[E, U] {
		r := p(in)
		if !r.OK {
			return fail[E, T, U](r)
		}
		r2 := k(r.Value)(r.Rest)
		r2.Err = Merge(r.Err, r2.Err)
		return r2
	}
}

// Or runs p, and runs q from the same place only if p failed without
// consuming input.
func Or[E, T any](p, q Parser[E, T]) Parser[E, T] {
	mustParser(p, "Or")
	mustParser(q, "Or")
	return func(in input.Input[E]) Result[E, T] {
		r := p(in)
		if r.OK || r.Consumed(in) {
			return r
		}
		r2 := q(in)
		r2.Err = Merge(r.Err, r2.Err)
		return r2
	}
}

// Choice is Or over any number of alternatives.
func Choice[E, T any](ps ...Parser[E, T]) Parser[E, T] {
	if len(ps) == 0 {
		return Fail[E, T]("no alternatives")
	}
	p := ps[len(ps)-1]
	for i := len(ps) - 2; i >= 0; i-- {
		p = Or(ps[i], p)
	}
	return p
}

// Try turns a consuming failure of p into a non-consuming one, so that an
// enclosing Or may try its next alternative. The error is kept as is.
func Try[E, T any](p Parser[E, T]) Parser[E, T] {
	mustParser(p, "Try")
	return func(in input.Input[E]) Result[E, T] {
		r := p(in)
		if !r.OK {
			r.Rest = in
		}
		return r
	}
}

// LookAhead runs p and, on success, rewinds to where it started.
// Failures are passed through unchanged.
func LookAhead[E, T any](p Parser[E, T]) Parser[E, T] {
	mustParser(p, "LookAhead")
	return func(in input.Input[E]) Result[E, T] {
		r := p(in)
		if r.OK {
			r.Rest = in
		}
		return r
	}
}

// NotFollowedBy succeeds without consuming input when p fails.
func NotFollowedBy[E, T any](p Parser[E, T], label string) Parser[E, struct{}] {
	mustParser(p, "NotFollowedBy")
	return func(in input.Input[E]) Result[E, struct{}] {
		r := p(in)
		if r.OK {
			found := LabelItem(label)
			return Failure[E, struct{}](NewError(in.Position(), &found), in)
		}
		return Success(struct{}{}, in, nil)
	}
}

// Label names what p parses. When p fails without consuming input its
// expected items are replaced by name; an empty name hides them.
func Label[E, T any](p Parser[E, T], name string) Parser[E, T] {
	mustParser(p, "Label")
	return func(in input.Input[E]) Result[E, T] {
		r := p(in)
		if r.Err == nil || r.Consumed(in) || r.Err.Pos.Offset != in.Position().Offset {
			return r
		}
		if name == "" {
			r.Err = r.Err.withExpected()
		} else {
			r.Err = r.Err.withExpected(LabelItem(name))
		}
		return r
	}
}

// Lazy defers building a parser until it runs. Recursive grammars refer to
// rules that are not yet defined through Lazy.
func Lazy[E, T any](f func() Parser[E, T]) Parser[E, T] {
	if f == nil {
		panic("parsnip: nil function passed to Lazy")
	}
	return func(in input.Input[E]) Result[E, T] {
		return f()(in)
	}
}
