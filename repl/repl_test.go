package repl

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dhamidi/parsnip/grammar"
)

func newSession(t *testing.T, name string) *Session {
	t.Helper()
	g, err := grammar.Lookup(name)
	if err != nil {
		t.Fatal(err)
	}
	return NewSession(g)
}

func TestSessionEval(t *testing.T) {
	s := newSession(t, "arith")
	tests := []struct {
		line string
		want string
	}{
		{"2 + 3 * 4", "14\n"},
		{"", ""},
		{"1 +", "1:4: unexpected end of input"},
		{"1 / 0", "error: division by zero\n"},
		{":grammar", "arith\n"},
		{":grammar jsn", `error: unknown grammar "jsn", did you mean json?`},
		{":nope", "unknown command :nope (try :help)\n"},
	}
	for _, tt := range tests {
		var sb strings.Builder
		if quit := s.Eval(tt.line, &sb); quit {
			t.Errorf("%q ended the session", tt.line)
		}
		if got := sb.String(); !strings.HasPrefix(got, tt.want) {
			t.Errorf("%q printed %q, want prefix %q", tt.line, got, tt.want)
		}
	}
}

func TestSessionSwitchGrammar(t *testing.T) {
	s := newSession(t, "arith")
	var sb strings.Builder
	s.Eval(":grammar json", &sb)
	s.Eval(`{"a": [1]}`, &sb)
	want := "object\n  \"a\": array\n    0: 1\n"
	if got := sb.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	sb.Reset()
	s.Eval(":format json", &sb)
	s.Eval(`[true]`, &sb)
	if got := sb.String(); got != "[\n  true\n]\n" {
		t.Errorf("json format printed %q", got)
	}
}

func TestSessionQuit(t *testing.T) {
	s := newSession(t, "json")
	for _, line := range []string{"exit", ":quit", "  :quit  "} {
		if !s.Eval(line, &strings.Builder{}) {
			t.Errorf("%q did not end the session", line)
		}
	}
}

func TestComplete(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{":gr", []string{":grammar", ":grammars"}},
		{":grammar p", []string{":grammar python"}},
		{":format y", []string{":format yaml"}},
		{"1 +", nil},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, complete(tt.line)); diff != "" {
			t.Errorf("complete(%q) (-want +got):\n%s", tt.line, diff)
		}
	}
}
