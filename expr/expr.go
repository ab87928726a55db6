// Package expr builds expression parsers from operator tables.
//
// A Table lists rows of operators, highest priority first. Build folds the
// rows over a term parser: each row turns the parser built so far into the
// operand of its own operators. Operators of different associativity may
// share a row, but chaining them without parentheses is an error.
package expr

import (
	"github.com/dhamidi/parsnip/input"
	"github.com/dhamidi/parsnip/parse"
)

// Assoc is the associativity of an infix operator.
type Assoc int

const (
	AssocNone Assoc = iota
	AssocLeft
	AssocRight
)

func (a Assoc) String() string {
	switch a {
	case AssocLeft:
		return "left"
	case AssocRight:
		return "right"
	default:
		return "none"
	}
}

type kind int

const (
	infix kind = iota
	prefix
	postfix
)

// Operator is one entry of a Table.
type Operator[E, T any] struct {
	kind   kind
	assoc  Assoc
	binary parse.Parser[E, func(T, T) T]
	unary  parse.Parser[E, func(T) T]
}

// Infix is a binary operator with the given associativity. p parses the
// operator and returns the function combining its operands.
func Infix[E, T any](assoc Assoc, p parse.Parser[E, func(T, T) T]) Operator[E, T] {
	if p == nil {
		panic("parsnip: nil operator parser passed to expr.Infix")
	}
	return Operator[E, T]{kind: infix, assoc: assoc, binary: p}
}

func InfixL[E, T any](p parse.Parser[E, func(T, T) T]) Operator[E, T] {
	return Infix(AssocLeft, p)
}

func InfixR[E, T any](p parse.Parser[E, func(T, T) T]) Operator[E, T] {
	return Infix(AssocRight, p)
}

func InfixN[E, T any](p parse.Parser[E, func(T, T) T]) Operator[E, T] {
	return Infix(AssocNone, p)
}

// Prefix is a unary operator in front of its operand.
func Prefix[E, T any](p parse.Parser[E, func(T) T]) Operator[E, T] {
	if p == nil {
		panic("parsnip: nil operator parser passed to expr.Prefix")
	}
	return Operator[E, T]{kind: prefix, unary: p}
}

// Postfix is a unary operator after its operand.
func Postfix[E, T any](p parse.Parser[E, func(T) T]) Operator[E, T] {
	if p == nil {
		panic("parsnip: nil operator parser passed to expr.Postfix")
	}
	return Operator[E, T]{kind: postfix, unary: p}
}

// Table is a list of operator rows, highest priority first.
type Table[E, T any] [][]Operator[E, T]

// Build returns a parser for expressions over term using the operators
// of table.
//
// At every row an operand is an optional prefix operator, the term and an
// optional postfix operator. Operands are then combined with the row's
// right-associative, left-associative or non-associative operators, tried
// in that order. Once a chain of one kind has ended, an operator of another
// kind in the same row fails the parse with an "ambiguous use" error, as
// does a second non-associative operator.
func Build[E, T any](table Table[E, T], term parse.Parser[E, T]) parse.Parser[E, T] {
	if term == nil {
		panic("parsnip: nil term passed to expr.Build")
	}
	p := term
	for _, row := range table {
		p = newLevel(row, p).parser()
	}
	return p
}

type level[E, T any] struct {
	operand parse.Parser[E, T]
	infix   [3]parse.Parser[E, func(T, T) T]
}

func newLevel[E, T any](row []Operator[E, T], term parse.Parser[E, T]) *level[E, T] {
	var (
		binary [3][]parse.Parser[E, func(T, T) T]
		pre    []parse.Parser[E, func(T) T]
		post   []parse.Parser[E, func(T) T]
	)
	for _, op := range row {
		switch op.kind {
		case infix:
			binary[op.assoc] = append(binary[op.assoc], op.binary)
		case prefix:
			pre = append(pre, op.unary)
		case postfix:
			post = append(post, op.unary)
		}
	}

	l := &level[E, T]{}
	for a := range binary {
		l.infix[a] = choice(binary[a])
	}
	id := func(x T) T { return x }
	prefixP := parse.OptionalOr(parse.Label(choice(pre), ""), id)
	postfixP := parse.OptionalOr(parse.Label(choice(post), ""), id)
	l.operand = parse.Bind(prefixP, func(f func(T) T) parse.Parser[E, T] {
		return parse.Bind(term, func(x T) parse.Parser[E, T] {
			return parse.Map(postfixP, func(g func(T) T) T { return g(f(x)) })
		})
	})
	return l
}

// choice is parse.Choice that fails without any expected items when ps is
// empty, so a missing operator kind adds nothing to error messages.
func choice[E, U any](ps []parse.Parser[E, U]) parse.Parser[E, U] {
	if len(ps) == 0 {
		return func(in input.Input[E]) parse.Result[E, U] {
			return parse.Failure[E, U](parse.NewError(in.Position(), nil), in)
		}
	}
	return parse.Choice(ps...)
}

func (l *level[E, T]) parser() parse.Parser[E, T] {
	return parse.Bind(l.operand, func(x T) parse.Parser[E, T] {
		return parse.Label(parse.Choice(l.right(x), l.left(x), l.none(x), parse.Return[E](x)), "operator")
	})
}

// right parses one or more right-associative operators and operands after x.
func (l *level[E, T]) right(x T) parse.Parser[E, T] {
	return func(in input.Input[E]) parse.Result[E, T] {
		r := l.infix[AssocRight](in)
		if !r.OK {
			return parse.Failure[E, T](r.Err, r.Rest)
		}
		operands := []T{x}
		ops := []func(T, T) T{r.Value}
		err, cur := r.Err, r.Rest
		for {
			t := l.operand(cur)
			err = parse.Merge(err, t.Err)
			if !t.OK {
				return parse.Failure[E, T](err, t.Rest)
			}
			operands = append(operands, t.Value)
			cur = t.Rest

			n := l.infix[AssocRight](cur)
			err = parse.Merge(err, n.Err)
			if n.OK {
				ops = append(ops, n.Value)
				cur = n.Rest
				continue
			}
			if n.Consumed(cur) {
				return parse.Failure[E, T](err, n.Rest)
			}
			if amb, ok := l.ambiguous(cur, &err, AssocLeft, AssocNone); ok {
				return parse.Failure[E, T](amb, cur)
			}
			break
		}
		acc := operands[len(operands)-1]
		for i := len(ops) - 1; i >= 0; i-- {
			acc = ops[i](operands[i], acc)
		}
		return parse.Success(acc, cur, err)
	}
}

// left parses one or more left-associative operators and operands after x.
func (l *level[E, T]) left(x T) parse.Parser[E, T] {
	return func(in input.Input[E]) parse.Result[E, T] {
		r := l.infix[AssocLeft](in)
		if !r.OK {
			return parse.Failure[E, T](r.Err, r.Rest)
		}
		acc, f := x, r.Value
		err, cur := r.Err, r.Rest
		for {
			t := l.operand(cur)
			err = parse.Merge(err, t.Err)
			if !t.OK {
				return parse.Failure[E, T](err, t.Rest)
			}
			acc = f(acc, t.Value)
			cur = t.Rest

			n := l.infix[AssocLeft](cur)
			err = parse.Merge(err, n.Err)
			if n.OK {
				f = n.Value
				cur = n.Rest
				continue
			}
			if n.Consumed(cur) {
				return parse.Failure[E, T](err, n.Rest)
			}
			if amb, ok := l.ambiguous(cur, &err, AssocRight, AssocNone); ok {
				return parse.Failure[E, T](amb, cur)
			}
			return parse.Success(acc, cur, err)
		}
	}
}

// none parses exactly one non-associative operator and operand after x.
func (l *level[E, T]) none(x T) parse.Parser[E, T] {
	return func(in input.Input[E]) parse.Result[E, T] {
		r := l.infix[AssocNone](in)
		if !r.OK {
			return parse.Failure[E, T](r.Err, r.Rest)
		}
		t := l.operand(r.Rest)
		err := parse.Merge(r.Err, t.Err)
		if !t.OK {
			return parse.Failure[E, T](err, t.Rest)
		}
		if amb, ok := l.ambiguous(t.Rest, &err, AssocRight, AssocLeft, AssocNone); ok {
			return parse.Failure[E, T](amb, t.Rest)
		}
		return parse.Success(r.Value(x, t.Value), t.Rest, err)
	}
}

// ambiguous probes the operators of the given associativities at in. If
// one matches it returns the ambiguity error for it; otherwise the probe
// errors are merged into err.
func (l *level[E, T]) ambiguous(in input.Input[E], err **parse.Error, assocs ...Assoc) (*parse.Error, bool) {
	for _, a := range assocs {
		r := l.infix[a](in)
		if r.OK {
			return parse.NewError(in.Position(), nil, parse.MessageItem(ambiguity(a))), true
		}
		*err = parse.Merge(*err, r.Err)
	}
	return nil, false
}

func ambiguity(a Assoc) string {
	switch a {
	case AssocLeft:
		return "ambiguous use of a left associative operator"
	case AssocRight:
		return "ambiguous use of a right associative operator"
	default:
		return "ambiguous use of a not associative operator"
	}
}
