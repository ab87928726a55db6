package perm

import (
	"strings"
	"testing"

	"github.com/dhamidi/parsnip/parse"
)

func runes(vals []any) string {
	var sb strings.Builder
	for i := range vals {
		sb.WriteRune(Value[rune](vals, i))
	}
	return sb.String()
}

func TestPermuteAllOrders(t *testing.T) {
	p := Permute(runes,
		Required(parse.Char('a')),
		Required(parse.Char('b')),
		Required(parse.Char('c')),
	)
	for _, order := range []string{"abc", "acb", "bac", "bca", "cab", "cba"} {
		t.Run(order, func(t *testing.T) {
			got, err := parse.ParseString(p, order)
			if err != nil {
				t.Fatal(err)
			}
			if got != "abc" {
				t.Errorf("got %q, want %q", got, "abc")
			}
		})
	}
}

func TestPermuteOptional(t *testing.T) {
	p := Permute(runes,
		Required(parse.Char('a')),
		Optional(parse.Char('b'), '_'),
		Optional(parse.Char('c'), '-'),
	)
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"a", "a_-", true},
		{"ca", "a_c", true},
		{"ba", "ab-", true},
		{"cba", "abc", true},
		{"", "", false},
		{"bc", "", false},
		{"aa", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parse.ParseString(p, tt.input)
			if tt.ok != (err == nil) {
				t.Fatalf("err = %v, want ok=%v", err, tt.ok)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPermuteError(t *testing.T) {
	p := Permute(runes, Required(parse.Char('a')), Required(parse.Char('b')))
	_, err := parse.ParseString(p, "ax")
	if err == nil {
		t.Fatal("accepted a missing entry")
	}
	if got, want := err.Error(), "1:2: unexpected 'x'; expected 'b'"; got != want {
		t.Errorf("error = %q, want %q", got, want)
	}
}

func TestPermuteTypedValues(t *testing.T) {
	type opts struct {
		name  string
		count int
	}
	word := parse.Text(parse.Many1(parse.Letter))
	num := parse.Map(parse.Many1(parse.Digit), func(ds []rune) int {
		n := 0
		for _, d := range ds {
			n = n*10 + int(d-'0')
		}
		return n
	})
	p := Permute(func(vals []any) opts {
		return opts{name: Value[string](vals, 0), count: Value[int](vals, 1)}
	},
		Required(parse.Lexeme(word, parse.Spaces)),
		Optional(parse.Lexeme(num, parse.Spaces), 1),
	)
	got, err := parse.ParseString(p, "12 apples")
	if err != nil {
		t.Fatal(err)
	}
	if got != (opts{"apples", 12}) {
		t.Errorf("got %+v", got)
	}
	got, _ = parse.ParseString(p, "pear")
	if got != (opts{"pear", 1}) {
		t.Errorf("default count: got %+v", got)
	}
}

func TestPermuteConfigErrors(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Permute with no entries did not panic")
		}
	}()
	Permute[rune](runes)
}
