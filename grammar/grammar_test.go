package grammar

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dhamidi/parsnip/grammar/cmdline"
)

func TestLookup(t *testing.T) {
	for _, name := range Names() {
		g, err := Lookup(name)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", name, err)
		}
		if g.Name != name || g.Parse == nil {
			t.Errorf("Lookup(%q) = %+v", name, g)
		}
	}

	tests := []struct {
		name string
		want string
	}{
		{"jsn", `unknown grammar "jsn", did you mean json?`},
		{"pyton", `unknown grammar "pyton", did you mean python?`},
		{"fortran77", `unknown grammar "fortran77" (want one of [arith cmdline json python])`},
	}
	for _, tt := range tests {
		_, err := Lookup(tt.name)
		if err == nil {
			t.Errorf("Lookup(%q) succeeded", tt.name)
			continue
		}
		if got := err.Error(); got != tt.want {
			t.Errorf("Lookup(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		grammar string
		src     string
		want    any
	}{
		{"arith", "1 + 2 * 3", "(1 + (2 * 3))"},
		{"json", `[1, "a"]`, []any{1.0, "a"}},
		{"cmdline", "-v --count 3 in.txt", cmdline.Args{
			Values:     map[string]string{"output": "-", "count": "3", "verbose": "true"},
			Set:        map[string]bool{"output": false, "count": true, "verbose": true},
			Positional: []string{"in.txt"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.grammar, func(t *testing.T) {
			g, err := Lookup(tt.grammar)
			if err != nil {
				t.Fatal(err)
			}
			got, err := g.Parse(tt.src)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParsePython(t *testing.T) {
	g, _ := Lookup("python")
	v, err := g.Parse("x = 1\n")
	if err != nil {
		t.Fatal(err)
	}
	if s, ok := v.(interface{ String() string }); !ok || !strings.HasPrefix(s.String(), "(module") {
		t.Errorf("python parse = %v", v)
	}
}
