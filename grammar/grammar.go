// Package grammar is the registry of the built-in grammars.
package grammar

import (
	"fmt"
	"io"
	"slices"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/encoding"

	"github.com/dhamidi/parsnip/grammar/arith"
	"github.com/dhamidi/parsnip/grammar/cmdline"
	"github.com/dhamidi/parsnip/grammar/json"
	"github.com/dhamidi/parsnip/grammar/python"
)

// Grammar is a named parser over text.
type Grammar struct {
	Name        string
	Description string
	Parse       func(src string) (any, error)

	// Eval parses and evaluates src, for grammars with a meaning beyond
	// their syntax tree. It may be nil.
	Eval func(src string) (any, error)

	// Decode parses a document in a given encoding straight from a
	// stream. Grammars without it are decoded in full and passed to Parse.
	Decode func(rs io.ReadSeeker, enc encoding.Encoding) (any, error)
}

// Flags of the tool described by the cmdline grammar.
var Flags = []cmdline.Flag{
	{Name: "output", Short: 'o', HasValue: true, Default: "-"},
	{Name: "count", Short: 'n', HasValue: true, Default: "1"},
	{Name: "verbose", Short: 'v'},
}

var builtin = []Grammar{
	{
		Name:        "arith",
		Description: "integer arithmetic with + - * / % ^, unary -, postfix ! and comparisons",
		Parse: func(src string) (any, error) {
			e, err := arith.Parse(src)
			if err != nil {
				return nil, err
			}
			return e.String(), nil
		},
		Eval: func(src string) (any, error) {
			return arith.Eval(src)
		},
	},
	{
		Name:        "cmdline",
		Description: "command-line arguments for --output/-o, --count/-n and --verbose/-v, split on white space",
		Parse: func(src string) (any, error) {
			return cmdline.ParseText(src, Flags...)
		},
	},
	{
		Name:        "json",
		Description: "JSON values",
		Parse:       json.Parse,
		Decode:      json.Decode,
	},
	{
		Name:        "python",
		Description: "an indentation-sensitive subset of Python",
		Parse: func(src string) (any, error) {
			return python.Parse(src)
		},
	},
}

// All returns the built-in grammars sorted by name.
func All() []Grammar {
	return slices.Clone(builtin)
}

// Names returns the names of the built-in grammars.
func Names() []string {
	names := make([]string, len(builtin))
	for i, g := range builtin {
		names[i] = g.Name
	}
	return names
}

// Lookup returns the grammar called name. For an unknown name the error
// suggests the closest known names.
func Lookup(name string) (Grammar, error) {
	for _, g := range builtin {
		if g.Name == name {
			return g, nil
		}
	}
	switch hint := Closest(name); len(hint) {
	case 0:
		return Grammar{}, fmt.Errorf("unknown grammar %q (want one of %v)", name, Names())
	case 1:
		return Grammar{}, fmt.Errorf("unknown grammar %q, did you mean %s?", name, hint[0])
	default:
		return Grammar{}, fmt.Errorf("unknown grammar %q, did you mean one of %v?", name, hint)
	}
}

const maxHintDistance = 3

// Closest returns the grammar names nearest to name by edit distance, or
// nothing if every name is more than a few edits away.
func Closest(name string) []string {
	best := maxHintDistance + 1
	var closest []string
	for _, g := range builtin {
		d := levenshtein.ComputeDistance(name, g.Name)
		switch {
		case d < best:
			closest = []string{g.Name}
			best = d
		case d == best:
			closest = append(closest, g.Name)
		}
	}
	slices.Sort(closest)
	return closest
}
