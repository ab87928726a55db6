// Package json is a JSON grammar built from parsnip combinators.
//
// Values decode to the same Go types encoding/json uses for interface{}:
// map[string]any, []any, string, float64, bool and nil.
package json

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf16"

	"golang.org/x/text/encoding"

	"github.com/dhamidi/parsnip/input"
	"github.com/dhamidi/parsnip/parse"
)

var ws = parse.SkipMany(parse.Label(parse.OneOf(" \t\r\n"), ""))

func lexeme[T any](p parse.Parser[rune, T]) parse.Parser[rune, T] {
	return parse.Lexeme(p, ws)
}

func symbol(c rune) parse.Parser[rune, rune] {
	return lexeme(parse.Char(c))
}

func keyword(s string, v any) parse.Parser[rune, any] {
	return lexeme(parse.Map(parse.Try(parse.String(s)), func(string) any { return v }))
}

var digits = parse.Text(parse.Many1(parse.Digit))

var literal = parse.Map(
	parse.All(
		parse.Map(parse.Optional(parse.Char('-')), func(m parse.Maybe[rune]) string {
			if m.Present {
				return "-"
			}
			return ""
		}),
		parse.Or(parse.Map(parse.Char('0'), func(rune) string { return "0" }), digits),
		parse.OptionalOr(parse.Map(parse.Seq2(parse.Char('.'), digits), func(p parse.Pair[rune, string]) string {
			return "." + p.Second
		}), ""),
		parse.OptionalOr(parse.Map(parse.All(
			parse.Map(parse.OneOf("eE"), func(r rune) string { return string(r) }),
			parse.OptionalOr(parse.Map(parse.OneOf("+-"), func(r rune) string { return string(r) }), ""),
			digits,
		), func(parts []string) string { return strings.Join(parts, "") }), ""),
	),
	func(parts []string) string { return strings.Join(parts, "") },
)

// float reads a number literal whose magnitude fits a float64.
func float(in input.Input[rune]) parse.Result[rune, any] {
	r := literal(in)
	if !r.OK {
		return parse.Failure[rune, any](r.Err, r.Rest)
	}
	f, err := strconv.ParseFloat(r.Value, 64)
	if err != nil {
		msg := parse.MessageItem("number " + r.Value + " is out of range")
		return parse.Failure[rune, any](parse.NewError(r.Rest.Position(), nil, msg), r.Rest)
	}
	return parse.Success[rune, any](f, r.Rest, r.Err)
}

var number = parse.Label(lexeme(parse.Parser[rune, any](float)), "number")

var hex4 = parse.Map(parse.Count(parse.OneOf("0123456789abcdefABCDEF"), 4), func(rs []rune) rune {
	n, _ := strconv.ParseUint(string(rs), 16, 32)
	return rune(n)
})

var escape = parse.Right(parse.Char('\\'), parse.Label(parse.Choice(
	parse.Map(parse.OneOf(`"\/`), func(r rune) rune { return r }),
	parse.Map(parse.Char('b'), func(rune) rune { return '\b' }),
	parse.Map(parse.Char('f'), func(rune) rune { return '\f' }),
	parse.Map(parse.Char('n'), func(rune) rune { return '\n' }),
	parse.Map(parse.Char('r'), func(rune) rune { return '\r' }),
	parse.Map(parse.Char('t'), func(rune) rune { return '\t' }),
	parse.Right(parse.Char('u'), unicodeEscape()),
), "escape sequence"))

// unicodeEscape decodes the hex digits of \uXXXX, joining a UTF-16
// surrogate pair written as two escapes.
func unicodeEscape() parse.Parser[rune, rune] {
	low := parse.Try(parse.Right(parse.String(`\u`), hex4))
	return parse.Bind(hex4, func(hi rune) parse.Parser[rune, rune] {
		if !utf16.IsSurrogate(hi) {
			return parse.Return[rune](hi)
		}
		return parse.OptionalOr(parse.Map(low, func(lo rune) rune {
			return utf16.DecodeRune(hi, lo)
		}), utf16.DecodeRune(hi, 0))
	})
}

var char = parse.Or(
	escape,
	parse.Satisfy(func(r rune) bool { return r != '"' && r != '\\' && r >= 0x20 }, "character"),
)

var str = parse.Label(lexeme(parse.Between(
	parse.Char('"'),
	parse.Text(parse.Many(char)),
	parse.Char('"'),
)), "string")

var value parse.Parser[rune, any]

func init() {
	lazy := parse.Lazy(func() parse.Parser[rune, any] { return value })
	array := parse.Map(
		parse.Between(symbol('['), parse.SepBy(lazy, symbol(',')), symbol(']')),
		func(vs []any) any { return vs },
	)
	member := parse.Seq2(parse.Left(str, symbol(':')), lazy)
	object := parse.Map(
		parse.Between(symbol('{'), parse.SepBy(member, symbol(',')), symbol('}')),
		func(ms []parse.Pair[string, any]) any {
			obj := make(map[string]any, len(ms))
			for _, m := range ms {
				obj[m.First] = m.Second
			}
			return obj
		},
	)
	value = parse.Label(parse.Choice(
		object,
		array,
		parse.Map(str, func(s string) any { return s }),
		number,
		keyword("true", true),
		keyword("false", false),
		keyword("null", nil),
	), "value")
}

// Value returns the parser for one JSON value with surrounding whitespace.
func Value() parse.Parser[rune, any] {
	return parse.Right(ws, value)
}

// Parse parses a complete JSON document.
func Parse(s string) (any, error) {
	return parse.ParseString(Value(), s)
}

// Decode parses a complete JSON document read from rs in the given
// encoding. A nil enc means UTF-8.
func Decode(rs io.ReadSeeker, enc encoding.Encoding) (any, error) {
	in, err := input.FromStream(rs, enc)
	if err != nil {
		return nil, err
	}
	v, perr := parse.ParseInput(Value(), in)
	if err := input.Err(in); err != nil {
		return nil, fmt.Errorf("read json: %w", err)
	}
	return v, perr
}
