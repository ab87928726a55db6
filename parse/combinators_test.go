package parse

import (
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dhamidi/parsnip/input"
)

var number = Label(Map(Text(Many1(Digit)), func(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}), "number")

func TestMany(t *testing.T) {
	tests := []struct {
		input string
		want  []rune
		rest  int
	}{
		{"", []rune{}, 0},
		{"x", []rune{}, 0},
		{"aaa", []rune{'a', 'a', 'a'}, 3},
		{"aab", []rune{'a', 'a'}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			r := run(Many(Char('a')), tt.input)
			if !r.OK {
				t.Fatalf("Many failed: %v", r.Err)
			}
			if diff := cmp.Diff(tt.want, r.Value); diff != "" {
				t.Errorf("values (-want +got):\n%s", diff)
			}
			if offset(r) != tt.rest {
				t.Errorf("rest at %d, want %d", offset(r), tt.rest)
			}
		})
	}
}

func TestManyTerminatesOnZeroWidth(t *testing.T) {
	calls := 0
	zeroWidth := Map(Optional(Char('a')), func(Maybe[rune]) struct{} {
		calls++
		return struct{}{}
	})

	r := run(Many(zeroWidth), "")
	if !r.OK || len(r.Value) != 0 {
		t.Fatalf("Many(zero width) on \"\" = %+v", r)
	}
	if calls != 1 {
		t.Errorf("parser ran %d times, want 1", calls)
	}

	r = run(Many(zeroWidth), "aab")
	if !r.OK || len(r.Value) != 2 || offset(r) != 2 {
		t.Errorf("Many(zero width) on \"aab\" = %+v", r)
	}
}

func TestManyFailsAfterConsumption(t *testing.T) {
	pair := String("ab")
	r := run(Many(pair), "ababac")
	if r.OK {
		t.Fatal("Many succeeded past a partial match")
	}
	if offset(r) != 5 {
		t.Errorf("failure rest at %d, want 5", offset(r))
	}

	r = run(Many(Try(pair)), "ababac")
	if !r.OK || len(r.Value) != 2 || offset(r) != 4 {
		t.Errorf("Many(Try) = %+v", r)
	}
}

func TestMany1(t *testing.T) {
	if r := run(Many1(Digit), "12a"); !r.OK || string(r.Value) != "12" {
		t.Errorf("Many1 = %+v", r)
	}
	r := run(Many1(Digit), "a")
	if r.OK {
		t.Fatal("Many1 succeeded with no match")
	}
	if got, want := r.Err.Description(), "unexpected 'a'; expected digit"; got != want {
		t.Errorf("error = %q, want %q", got, want)
	}
}

func TestOptional(t *testing.T) {
	r := run(Optional(Char('a')), "ab")
	if !r.OK || !r.Value.Present || r.Value.Value != 'a' {
		t.Errorf("Optional present = %+v", r)
	}
	r = run(Optional(Char('a')), "b")
	if !r.OK || r.Value.Present || offset(r) != 0 {
		t.Errorf("Optional absent = %+v", r)
	}
	s := run(Optional(String("ab")), "ac")
	if s.OK {
		t.Error("Optional recovered from a consuming failure")
	}
	if v := run(OptionalOr(number, -1), "x"); v.Value != -1 {
		t.Errorf("OptionalOr = %d, want -1", v.Value)
	}
}

func TestSepByAndEndBy(t *testing.T) {
	comma := Char(',')
	semi := Char(';')
	tests := []struct {
		name  string
		p     Parser[rune, []int]
		input string
		want  []int
		ok    bool
	}{
		{"sepBy empty", SepBy(number, comma), "", []int{}, true},
		{"sepBy one", SepBy(number, comma), "1", []int{1}, true},
		{"sepBy many", SepBy(number, comma), "1,22,333", []int{1, 22, 333}, true},
		{"sepBy trailing", SepBy(number, comma), "1,2,", nil, false},
		{"sepBy1 empty", SepBy1(number, comma), "", nil, false},
		{"endBy", EndBy(number, semi), "1;2;", []int{1, 2}, true},
		{"endBy missing terminator", EndBy(number, semi), "1;2", nil, false},
		{"endBy1 empty", EndBy1(number, semi), "", nil, false},
		{"sepEndBy trailing", SepEndBy(number, semi), "1;2;", []int{1, 2}, true},
		{"sepEndBy bare", SepEndBy(number, semi), "1;2", []int{1, 2}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseString(tt.p, tt.input)
			if tt.ok != (err == nil) {
				t.Fatalf("err = %v, want ok=%v", err, tt.ok)
			}
			if !tt.ok {
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("values (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBetween(t *testing.T) {
	p := Between(Char('['), number, Char(']'))
	if n, err := ParseString(p, "[42]"); err != nil || n != 42 {
		t.Errorf("Between = %d, %v", n, err)
	}
	if _, err := ParseString(p, "[42"); err == nil {
		t.Error("Between accepted a missing close")
	}
}

func TestCount(t *testing.T) {
	tests := []struct {
		n     int
		input string
		want  string
		ok    bool
	}{
		{0, "", "", true},
		{-3, "", "", true},
		{3, "abc", "abc", true},
		{3, "ab", "", false},
	}
	for _, tt := range tests {
		got, err := ParseString(Text(Count(Letter, tt.n)), tt.input)
		if tt.ok != (err == nil) || got != tt.want {
			t.Errorf("Count(%d) on %q = %q, %v", tt.n, tt.input, got, err)
		}
	}
}

func TestManyTill(t *testing.T) {
	comment := Right(String("/*"), Text(ManyTill(AnyToken[rune](), String("*/"))))
	got, err := ParseString(comment, "/* a * b */")
	if err != nil {
		t.Fatal(err)
	}
	if got != " a * b " {
		t.Errorf("comment body = %q", got)
	}
	if _, err := ParseString(comment, "/* open"); err == nil {
		t.Error("ManyTill accepted an unterminated comment")
	}
}

func TestChains(t *testing.T) {
	minus := Map(Char('-'), func(rune) func(int, int) int {
		return func(a, b int) int { return a - b }
	})
	pow := Map(Char('^'), func(rune) func(int, int) int {
		return func(a, b int) int {
			n := 1
			for i := 0; i < b; i++ {
				n *= a
			}
			return n
		}
	})

	tests := []struct {
		name  string
		p     Parser[rune, int]
		input string
		want  int
	}{
		{"left single", ChainL1(number, minus), "7", 7},
		{"left fold", ChainL1(number, minus), "10-3-2", 5},
		{"right fold", ChainR1(number, pow), "2^3^2", 512},
		{"right single", ChainR1(number, pow), "9", 9},
		{"left default", ChainL(number, minus, 99), "", 99},
		{"right default", ChainR(number, pow, 98), "", 98},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseString(tt.p, tt.input)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}

	if _, err := ParseString(ChainL1(number, minus), "1-"); err == nil {
		t.Error("ChainL1 accepted a dangling operator")
	}
}

func TestAll(t *testing.T) {
	p := All(Char('a'), Letter, Digit)
	got, err := ParseString(p, "ab1")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]rune{'a', 'b', '1'}, got); diff != "" {
		t.Errorf("values (-want +got):\n%s", diff)
	}

	r := run(p, "abc")
	if r.OK || offset(r) != 2 || r.Err.Pos.Offset != 2 {
		t.Errorf("All failure = %+v", r)
	}
}

func TestSeqLeftRight(t *testing.T) {
	kv := Seq2(Left(Text(Many1(Letter)), Char('=')), number)
	got, err := ParseString(kv, "x=5")
	if err != nil {
		t.Fatal(err)
	}
	if got != (Pair[string, int]{"x", 5}) {
		t.Errorf("Seq2 = %+v", got)
	}
}

func TestParseInputTokens(t *testing.T) {
	words := input.FromTokens([]string{"select", "*", "from", "t"}, nil)
	p := All(Token("select"), AnyToken[string](), Token("from"), AnyToken[string]())
	got, err := ParseInput(p, words)
	if err != nil {
		t.Fatal(err)
	}
	if got[3] != "t" {
		t.Errorf("table = %q", got[3])
	}

	_, err = ParseInput(Token("update"), input.FromTokens([]string{"select"}, nil))
	if err == nil || err.Error() != `1:1: unexpected "select"; expected "update"` {
		t.Errorf("error = %v", err)
	}
}
