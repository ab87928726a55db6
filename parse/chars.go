package parse

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/dhamidi/parsnip/input"
)

// Char matches the rune c.
func Char(c rune) Parser[rune, rune] {
	return Token(c)
}

// OneOf matches any rune in set.
func OneOf(set string) Parser[rune, rune] {
	return Satisfy(func(r rune) bool { return strings.ContainsRune(set, r) }, "one of "+strconv.Quote(set))
}

// NoneOf matches any rune not in set.
func NoneOf(set string) Parser[rune, rune] {
	return Satisfy(func(r rune) bool { return !strings.ContainsRune(set, r) }, "none of "+strconv.Quote(set))
}

var (
	Digit  = Satisfy(unicode.IsDigit, "digit")
	Letter = Satisfy(unicode.IsLetter, "letter")
	Space  = Satisfy(unicode.IsSpace, "space")
	// Blank matches spaces and tabs but not line breaks.
	Blank   = Satisfy(func(r rune) bool { return r == ' ' || r == '\t' }, "blank")
	Newline = Label(Or(Void(Char('\n')), Void(Right(Char('\r'), Char('\n')))), "newline")
	Spaces  = SkipMany(Space)
)

// String matches s rune by rune. It consumes input up to the first
// mismatch, so alternatives sharing a prefix need Try.
func String(s string) Parser[rune, string] {
	want := []rune(s)
	label := strconv.Quote(s)
	return func(in input.Input[rune]) Result[rune, string] {
		cur := in
		for _, w := range want {
			r, ok := cur.Current()
			if !ok {
				eof := EndOfFile()
				return Failure[rune, string](NewError(cur.Position(), &eof, LabelItem(label)), cur)
			}
			if r != w {
				tok := TokenItem(r)
				return Failure[rune, string](NewError(cur.Position(), &tok, LabelItem(label)), cur)
			}
			cur = cur.Advance()
		}
		return Success(s, cur, nil)
	}
}

// Text collects the runes matched by p into a string.
func Text(p Parser[rune, []rune]) Parser[rune, string] {
	return Map(p, func(rs []rune) string { return string(rs) })
}

// Lexeme runs p and then the space consumer sc.
func Lexeme[T, S any](p Parser[rune, T], sc Parser[rune, S]) Parser[rune, T] {
	return Left(p, sc)
}

// Symbol matches s as a lexeme: s, then whatever sc skips.
func Symbol[S any](s string, sc Parser[rune, S]) Parser[rune, string] {
	return Lexeme(Try(String(s)), sc)
}

// ParseString runs p over s and requires it to consume all of s.
func ParseString[T any](p Parser[rune, T], s string, opts ...input.Option) (T, error) {
	r := Left(p, EndOfInput[rune]())(input.FromString(s, opts...))
	if !r.OK {
		var zero T
		return zero, r.Err
	}
	return r.Value, nil
}

// ParseInput runs p over in and requires it to consume all of it.
func ParseInput[E, T any](p Parser[E, T], in input.Input[E]) (T, error) {
	r := Left(p, EndOfInput[E]())(in)
	if !r.OK {
		var zero T
		return zero, r.Err
	}
	return r.Value, nil
}
