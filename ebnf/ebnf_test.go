package ebnf

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tliron/commonlog"
	"github.com/tliron/commonlog/simple"
	"golang.org/x/exp/ebnf"
)

const arithGrammar = `
Expr   = Term { ( "+" | "-" ) Term } .
Term   = Factor { ( "*" | "/" ) Factor } .
Factor = number | "(" Expr ")" .
number = digit { digit } .
digit  = "0" … "9" .
`

func mustGrammar(t *testing.T, src string) ebnf.Grammar {
	t.Helper()
	g, err := ebnf.Parse("test.ebnf", strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestParseString(t *testing.T) {
	g := mustGrammar(t, arithGrammar)
	tests := []struct {
		start string
		input string
		want  string
	}{
		{"Expr", "42", `(Expr (Term (Factor number:"42")))`},
		{
			"Expr", " 1 + 2 * (3) ",
			`(Expr (Term (Factor number:"1")) token:"+" ` +
				`(Term (Factor number:"2") token:"*" (Factor token:"(" (Expr (Term (Factor number:"3"))) token:")")))`,
		},
		{"number", " 007 ", `number:"007"`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			n, err := ParseString(g, tt.start, tt.input)
			if err != nil {
				t.Fatal(err)
			}
			if got := n.String(); got != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestParseStringErrors(t *testing.T) {
	g := mustGrammar(t, arithGrammar)
	tests := []struct {
		input string
		want  string
	}{
		{"1 + * 2", "1:5: unexpected '*'; expected Term"},
		{"", "1:1: unexpected end of input; expected Expr"},
		{"(1", "1:3: unexpected end of input"},
	}
	for _, tt := range tests {
		_, err := ParseString(g, "Expr", tt.input)
		if err == nil {
			t.Errorf("%q: accepted", tt.input)
			continue
		}
		if !strings.HasPrefix(err.Error(), tt.want) {
			t.Errorf("%q: error = %q, want prefix %q", tt.input, err, tt.want)
		}
	}
}

func TestSpans(t *testing.T) {
	g := mustGrammar(t, arithGrammar)
	n, err := ParseString(g, "Expr", "  12 +\n 3")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := n.Span.String(), "1:3-2:3"; got != want {
		t.Errorf("span = %s, want %s", got, want)
	}
}

func TestCompileVerifies(t *testing.T) {
	g := mustGrammar(t, arithGrammar)
	if _, err := Compile(g, "Program"); err == nil {
		t.Error("Compile accepted an undefined start production")
	}

	broken := mustGrammar(t, `Expr = Term "+" Missing . Term = "x" .`)
	_, err := Compile(broken, "Expr")
	if err == nil || !strings.Contains(err.Error(), "verify grammar") {
		t.Errorf("err = %v", err)
	}
}

func TestLoadGrammar(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arith.ebnf")
	if err := os.WriteFile(path, []byte(arithGrammar), 0o644); err != nil {
		t.Fatal(err)
	}
	g, err := LoadGrammar(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(g) != 5 {
		t.Errorf("loaded %d productions, want 5", len(g))
	}

	if _, err := LoadGrammar(filepath.Join(t.TempDir(), "missing.ebnf")); err == nil {
		t.Error("LoadGrammar accepted a missing file")
	}
}

func TestIsLexical(t *testing.T) {
	for name, want := range map[string]bool{"digit": true, "Expr": false, "_x": true} {
		if got := IsLexical(name); got != want {
			t.Errorf("IsLexical(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestProductionsAreTraced(t *testing.T) {
	var buf bytes.Buffer
	backend := simple.NewBackend()
	backend.Writer = &buf
	backend.SetMaxLevel(commonlog.Debug)
	commonlog.SetBackend(backend)
	t.Cleanup(func() { commonlog.SetBackend(nil) })

	if _, err := ParseString(mustGrammar(t, arithGrammar), "Expr", "(7)"); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"Expr: enter at 1:1",
		"Factor: enter at 1:1",
		"number: ok at 1:2 -> 1:3",
		"Expr: ok at 1:1 -> 1:4",
	} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("trace lacks %q:\n%s", want, buf.String())
		}
	}
}
