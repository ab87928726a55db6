// Package arith parses and evaluates integer arithmetic.
//
// Operators, from tightest to loosest binding: unary minus, postfix
// factorial (!), right-associative power (^), multiplicative (* / %),
// additive (+ -), and the non-associative comparisons = and <, which
// evaluate to 1 or 0.
package arith

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/dhamidi/parsnip/expr"
	"github.com/dhamidi/parsnip/input"
	"github.com/dhamidi/parsnip/parse"
)

var (
	ErrDivisionByZero   = errors.New("division by zero")
	ErrNegativeExponent = errors.New("negative exponent")
	ErrFactorial        = errors.New("factorial of a negative number")
	ErrOverflow         = errors.New("integer overflow")
)

// Expr is a parsed expression.
type Expr interface {
	Eval() (int64, error)
	String() string
}

type Num int64

type Unary struct {
	Op string
	X  Expr
}

type Binary struct {
	Op   string
	X, Y Expr
}

func (n Num) Eval() (int64, error) { return int64(n), nil }
func (n Num) String() string       { return strconv.FormatInt(int64(n), 10) }

func (u Unary) Eval() (int64, error) {
	x, err := u.X.Eval()
	if err != nil {
		return 0, err
	}
	switch u.Op {
	case "-":
		if x == math.MinInt64 {
			return 0, ErrOverflow
		}
		return -x, nil
	case "!":
		if x < 0 {
			return 0, ErrFactorial
		}
		n := int64(1)
		for i := int64(2); i <= x; i++ {
			if n, err = mul(n, i); err != nil {
				return 0, err
			}
		}
		return n, nil
	}
	return 0, fmt.Errorf("unknown operator %q", u.Op)
}

func (u Unary) String() string {
	if u.Op == "!" {
		return "(" + u.X.String() + "!)"
	}
	return "(" + u.Op + u.X.String() + ")"
}

func (b Binary) Eval() (int64, error) {
	x, err := b.X.Eval()
	if err != nil {
		return 0, err
	}
	y, err := b.Y.Eval()
	if err != nil {
		return 0, err
	}
	switch b.Op {
	case "+":
		return add(x, y)
	case "-":
		if y == math.MinInt64 {
			if x >= 0 {
				return 0, ErrOverflow
			}
			return x - y, nil
		}
		return add(x, -y)
	case "*":
		return mul(x, y)
	case "/", "%":
		if y == 0 {
			return 0, ErrDivisionByZero
		}
		if y == -1 {
			// MinInt64 / -1 does not fit.
			if b.Op == "%" {
				return 0, nil
			}
			return mul(x, -1)
		}
		if b.Op == "/" {
			return x / y, nil
		}
		return x % y, nil
	case "^":
		if y < 0 {
			return 0, ErrNegativeExponent
		}
		return pow(x, y)
	case "=":
		return truth(x == y), nil
	case "<":
		return truth(x < y), nil
	}
	return 0, fmt.Errorf("unknown operator %q", b.Op)
}

func (b Binary) String() string {
	return "(" + b.X.String() + " " + b.Op + " " + b.Y.String() + ")"
}

func add(x, y int64) (int64, error) {
	n := x + y
	if (y > 0 && n < x) || (y < 0 && n > x) {
		return 0, ErrOverflow
	}
	return n, nil
}

func mul(x, y int64) (int64, error) {
	if x == 0 || y == 0 {
		return 0, nil
	}
	n := x * y
	if n/y != x || (x == -1 && y == math.MinInt64) || (y == -1 && x == math.MinInt64) {
		return 0, ErrOverflow
	}
	return n, nil
}

// pow computes x^y by repeated squaring.
func pow(x, y int64) (int64, error) {
	n := int64(1)
	for y > 0 {
		var err error
		if y&1 == 1 {
			if n, err = mul(n, x); err != nil {
				return 0, err
			}
		}
		y >>= 1
		if y > 0 {
			if x, err = mul(x, x); err != nil {
				return 0, err
			}
		}
	}
	return n, nil
}

func truth(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func symbol(s string) parse.Parser[rune, string] {
	return parse.Symbol(s, parse.Spaces)
}

func prefix(op string) expr.Operator[rune, Expr] {
	return expr.Prefix(parse.Map(symbol(op), func(string) func(Expr) Expr {
		return func(x Expr) Expr { return Unary{Op: op, X: x} }
	}))
}

func postfix(op string) expr.Operator[rune, Expr] {
	return expr.Postfix(parse.Map(symbol(op), func(string) func(Expr) Expr {
		return func(x Expr) Expr { return Unary{Op: op, X: x} }
	}))
}

func infix(assoc expr.Assoc, op string) expr.Operator[rune, Expr] {
	return expr.Infix(assoc, parse.Map(symbol(op), func(string) func(Expr, Expr) Expr {
		return func(x, y Expr) Expr { return Binary{Op: op, X: x, Y: y} }
	}))
}

var digits = parse.Text(parse.Many1(parse.Digit))

// integer reads a decimal literal that fits in an int64.
func integer(in input.Input[rune]) parse.Result[rune, Expr] {
	r := digits(in)
	if !r.OK {
		return parse.Failure[rune, Expr](r.Err, r.Rest)
	}
	n, err := strconv.ParseInt(r.Value, 10, 64)
	if err != nil {
		msg := parse.MessageItem("integer literal " + r.Value + " is out of range")
		return parse.Failure[rune, Expr](parse.NewError(r.Rest.Position(), nil, msg), r.Rest)
	}
	return parse.Success[rune, Expr](Num(n), r.Rest, r.Err)
}

var number = parse.Label(parse.Lexeme(parse.Parser[rune, Expr](integer), parse.Spaces), "number")

var expression parse.Parser[rune, Expr]

func init() {
	term := parse.Or(
		number,
		parse.Between(symbol("("), parse.Lazy(func() parse.Parser[rune, Expr] { return expression }), symbol(")")),
	)
	expression = expr.Build(expr.Table[rune, Expr]{
		{prefix("-")},
		{postfix("!")},
		{infix(expr.AssocRight, "^")},
		{infix(expr.AssocLeft, "*"), infix(expr.AssocLeft, "/"), infix(expr.AssocLeft, "%")},
		{infix(expr.AssocLeft, "+"), infix(expr.AssocLeft, "-")},
		{infix(expr.AssocNone, "="), infix(expr.AssocNone, "<")},
	}, term)
}

// Parser returns the expression parser, skipping leading whitespace.
func Parser() parse.Parser[rune, Expr] {
	return parse.Right(parse.Spaces, expression)
}

// Parse parses a complete expression.
func Parse(s string) (Expr, error) {
	return parse.ParseString(Parser(), s)
}

// Eval parses and evaluates s.
func Eval(s string) (int64, error) {
	e, err := Parse(s)
	if err != nil {
		return 0, err
	}
	return e.Eval()
}
