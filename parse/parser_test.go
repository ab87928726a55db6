package parse

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dhamidi/parsnip/input"
)

func run[T any](p Parser[rune, T], s string) Result[rune, T] {
	return p(input.FromString(s))
}

func offset[T any](r Result[rune, T]) int {
	return r.Rest.Position().Offset
}

func TestSatisfy(t *testing.T) {
	r := run(Digit, "7x")
	if !r.OK || r.Value != '7' || offset(r) != 1 {
		t.Fatalf("Digit on \"7x\" = %+v", r)
	}

	r = run(Digit, "x7")
	if r.OK {
		t.Fatal("Digit on \"x7\" succeeded")
	}
	if offset(r) != 0 {
		t.Errorf("failure consumed input: rest at %d", offset(r))
	}
	if got, want := r.Err.Error(), "1:1: unexpected 'x'; expected digit"; got != want {
		t.Errorf("error = %q, want %q", got, want)
	}

	r = run(Digit, "")
	if r.OK || r.Err.Unexpected == nil || r.Err.Unexpected.Kind != ItemEOF {
		t.Errorf("Digit on empty input = %+v", r)
	}
}

func TestReturnAndFail(t *testing.T) {
	r := run(Return[rune](42), "abc")
	if !r.OK || r.Value != 42 || offset(r) != 0 || r.Err != nil {
		t.Errorf("Return = %+v", r)
	}
	f := run(Fail[rune, int]("nope"), "abc")
	if f.OK || offset(f) != 0 {
		t.Errorf("Fail = %+v", f)
	}
	if diff := cmp.Diff([]string{"nope"}, f.Err.Messages()); diff != "" {
		t.Errorf("messages (-want +got):\n%s", diff)
	}
}

func TestMapAndBind(t *testing.T) {
	double := Map(Digit, func(r rune) int { return 2 * int(r-'0') })
	if r := run(double, "4"); r.Value != 8 {
		t.Errorf("Map value = %d, want 8", r.Value)
	}

	sum := Bind(Digit, func(a rune) Parser[rune, int] {
		return Map(Digit, func(b rune) int { return int(a-'0') + int(b-'0') })
	})
	if r := run(sum, "34"); !r.OK || r.Value != 7 {
		t.Errorf("Bind = %+v", r)
	}
	if r := run(sum, "3x"); r.OK || offset(r) != 1 || r.Err.Pos.Offset != 1 {
		t.Errorf("Bind failure = %+v", r)
	}
}

func TestOrNoConsumptionLaw(t *testing.T) {
	p := Map(Char('a'), func(rune) string { return "p" })
	q := Map(Char('b'), func(rune) string { return "q" })

	for _, s := range []string{"b", "c", ""} {
		got := run(Or(p, q), s)
		want := run(q, s)
		if got.OK != want.OK || got.Value != want.Value || offset(got) != offset(want) {
			t.Errorf("%q: Or(p, q) = %+v, q = %+v", s, got, want)
		}
	}

	r := run(Or(p, q), "c")
	if diff := cmp.Diff([]ErrorItem{LabelItem("'a'"), LabelItem("'b'")}, r.Err.Expected); diff != "" {
		t.Errorf("merged expected items (-want +got):\n%s", diff)
	}
}

func TestOrConsumptionLock(t *testing.T) {
	called := false
	p := String("ab")
	var q Parser[rune, string] = func(in input.Input[rune]) Result[rune, string] {
		called = true
		return Success("q", in, nil)
	}

	got := run(Or(p, q), "ac")
	want := run(p, "ac")
	if called {
		t.Error("q was run after p consumed input")
	}
	if got.OK || offset(got) != offset(want) || got.Err.Error() != want.Err.Error() {
		t.Errorf("Or(p, q) = %+v, want p's failure %+v", got, want)
	}
}

func TestTry(t *testing.T) {
	p := Or(Try(String("ab")), String("ac"))
	if r := run(p, "ac"); !r.OK || r.Value != "ac" {
		t.Errorf("Try did not allow backtracking: %+v", r)
	}

	r := run(Try(String("ab")), "ac")
	if r.OK || offset(r) != 0 {
		t.Errorf("Try failure rest at %d, want 0", offset(r))
	}
	if r.Err.Pos.Offset != 1 {
		t.Errorf("Try changed the error position to %d", r.Err.Pos.Offset)
	}
}

func TestTryIdempotent(t *testing.T) {
	p := String("abc")
	for _, s := range []string{"abc", "abx", "x", "", "ab"} {
		once := run(Try(p), s)
		twice := run(Try(Try(p)), s)
		if once.OK != twice.OK || offset(once) != offset(twice) || once.Value != twice.Value {
			t.Errorf("%q: Try = %+v, Try(Try) = %+v", s, once, twice)
		}
		if !once.OK && once.Err.Error() != twice.Err.Error() {
			t.Errorf("%q: errors differ: %v vs %v", s, once.Err, twice.Err)
		}
	}
}

func TestLookAhead(t *testing.T) {
	r := run(LookAhead(String("hello")), "hello world")
	if !r.OK || r.Value != "hello" || offset(r) != 0 {
		t.Errorf("LookAhead success = %+v", r)
	}

	r = run(LookAhead(String("help")), "hello")
	if r.OK || offset(r) != 3 {
		t.Errorf("LookAhead should pass the consuming failure through: %+v", r)
	}
}

func TestNotFollowedBy(t *testing.T) {
	keyword := Left(String("if"), NotFollowedBy(Letter, "letter"))
	if r := run(keyword, "if x"); !r.OK {
		t.Errorf("keyword on \"if x\" = %+v", r)
	}
	if r := run(keyword, "iffy"); r.OK {
		t.Error("keyword matched the prefix of an identifier")
	}
}

func TestEndOfInput(t *testing.T) {
	if r := run(EndOfInput[rune](), ""); !r.OK {
		t.Error("EndOfInput failed on empty input")
	}
	r := run(EndOfInput[rune](), "x")
	if r.OK {
		t.Fatal("EndOfInput succeeded before the end")
	}
	if got, want := r.Err.Description(), "unexpected 'x'; expected end of input"; got != want {
		t.Errorf("error = %q, want %q", got, want)
	}
}

func TestLabel(t *testing.T) {
	number := Label(Many1(Digit), "number")
	r := run(number, "x")
	if got, want := r.Err.Description(), "unexpected 'x'; expected number"; got != want {
		t.Errorf("error = %q, want %q", got, want)
	}

	hidden := Label(Char('+'), "")
	alt := run(Or(hidden, Char('x')), "y")
	if diff := cmp.Diff([]ErrorItem{LabelItem("'x'")}, alt.Err.Expected); diff != "" {
		t.Errorf("expected items (-want +got):\n%s", diff)
	}
}

func TestLazyRecursion(t *testing.T) {
	// nested = "(" nested ")" | "x"
	var nested Parser[rune, int]
	nested = Or(
		Map(Between(Char('('), Lazy(func() Parser[rune, int] { return nested }), Char(')')),
			func(n int) int { return n + 1 }),
		Map(Char('x'), func(rune) int { return 0 }),
	)
	depth, err := ParseString(nested, "(((x)))")
	if err != nil {
		t.Fatal(err)
	}
	if depth != 3 {
		t.Errorf("depth = %d, want 3", depth)
	}
}

func TestChoiceFarthestError(t *testing.T) {
	p := Choice(
		Try(String("abc")),
		Try(String("abd")),
		Try(String("x")),
		Try(String("aby")),
	)
	r := run(p, "abz")
	if r.OK {
		t.Fatal("Choice succeeded")
	}
	if r.Err.Pos.Offset != 2 {
		t.Errorf("error at offset %d, want 2", r.Err.Pos.Offset)
	}
	want := []ErrorItem{LabelItem(`"abc"`), LabelItem(`"abd"`), LabelItem(`"aby"`)}
	if diff := cmp.Diff(want, r.Err.Expected); diff != "" {
		t.Errorf("expected items (-want +got):\n%s", diff)
	}
}

func TestMerge(t *testing.T) {
	x := TokenItem('x')
	near := NewError(input.Position{Offset: 1, Line: 1, Column: 2}, &x, LabelItem("a"))
	far := NewError(input.Position{Offset: 3, Line: 1, Column: 4}, nil, LabelItem("b"))
	same := NewError(input.Position{Offset: 1, Line: 1, Column: 2}, nil, LabelItem("c"), LabelItem("a"))

	tests := []struct {
		name string
		a, b *Error
		want *Error
	}{
		{"nil left", nil, far, far},
		{"nil right", near, nil, near},
		{"farther wins", near, far, far},
		{"farther wins reversed", far, near, far},
		{"same position unions", near, same, NewError(near.Pos, &x, LabelItem("a"), LabelItem("c"))},
		{"unexpected from either", same, near, NewError(near.Pos, &x, LabelItem("c"), LabelItem("a"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Merge(tt.a, tt.b)); diff != "" {
				t.Errorf("Merge (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBestErrorSurvivesSuccess(t *testing.T) {
	// The optional sign fails without consuming; its expectation must still
	// show up when the digits that follow are missing.
	p := Right(Optional(Char('-')), Many1(Digit))
	r := run(p, "x")
	if got, want := r.Err.Description(), "unexpected 'x'; expected '-' or digit"; got != want {
		t.Errorf("error = %q, want %q", got, want)
	}

	ok := run(Optional(Char('-')), "5")
	if !ok.OK || ok.Value.Present || ok.Err == nil {
		t.Errorf("Optional success should carry the abandoned error: %+v", ok)
	}
}

func TestErrorString(t *testing.T) {
	tok := TokenItem('}')
	err := NewError(input.Position{Offset: 9, Line: 2, Column: 5}, &tok,
		LabelItem("string"), LabelItem("number"), LabelItem("object"), MessageItem("bad value"))
	want := "2:5: unexpected '}'; expected string, number or object; bad value"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestTraceIsTransparent(t *testing.T) {
	p := Trace("word", Text(Many1(Letter)))
	r := run(p, "abc def")
	if !r.OK || r.Value != "abc" || !strings.HasPrefix(input.Rest(r.Rest), " def") {
		t.Errorf("Trace changed the result: %+v", r)
	}
}

func TestNilParserPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Or with a nil parser did not panic")
		}
	}()
	Or[rune, rune](nil, Char('a'))
}
