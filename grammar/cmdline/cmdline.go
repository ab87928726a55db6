// Package cmdline parses command-line arguments with a permutation of
// flags.
//
// Flags may come in any order, each at most once, followed by positional
// arguments. A "--" argument ends the flags and everything after it is
// positional. Parse reports errors at columns of the arguments joined by
// single spaces; ParseText reports them where the word sits in the text.
package cmdline

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/dhamidi/parsnip/input"
	"github.com/dhamidi/parsnip/parse"
	"github.com/dhamidi/parsnip/perm"
)

// Flag describes one flag.
type Flag struct {
	Name     string // long name, used as --name
	Short    rune   // optional single-letter alias, used as -s
	HasValue bool   // takes a value as --name=v, --name v or -s v
	Required bool
	Default  string // value when the flag is absent; "true" is used for set boolean flags
}

// Args is the result of parsing a command line.
type Args struct {
	Values     map[string]string
	Set        map[string]bool
	Positional []string
}

func (f Flag) label() string {
	return "--" + f.Name
}

func (f Flag) matches(tok string) bool {
	return tok == "--"+f.Name || f.Short != 0 && tok == "-"+string(f.Short)
}

func (f Flag) parser() parse.Parser[string, string] {
	name := parse.Satisfy(f.matches, f.label())
	if !f.HasValue {
		return parse.Map(name, func(string) string { return "true" })
	}
	prefix := "--" + f.Name + "="
	inline := parse.Map(
		parse.Satisfy(func(tok string) bool { return strings.HasPrefix(tok, prefix) }, f.label()),
		func(tok string) string { return strings.TrimPrefix(tok, prefix) },
	)
	separate := parse.Right(name, parse.Label(parse.AnyToken[string](), "value for "+f.label()))
	return parse.Or(inline, separate)
}

type flagValue struct {
	value string
	set   bool
}

func isPositional(tok string) bool {
	return tok == "-" || !strings.HasPrefix(tok, "-")
}

// Parser returns a parser for a command line accepting flags.
func Parser(flags ...Flag) parse.Parser[string, Args] {
	for _, f := range flags {
		if f.Name == "" {
			panic("parsnip: cmdline flag without a name")
		}
	}
	entries := make([]perm.Entry[string], len(flags))
	for i, f := range flags {
		p := parse.Map(f.parser(), func(v string) flagValue { return flagValue{value: v, set: true} })
		if f.Required {
			entries[i] = perm.Required(p)
		} else {
			entries[i] = perm.Optional(p, flagValue{value: f.Default})
		}
	}
	collect := func(vals []any) Args {
		args := Args{Values: make(map[string]string), Set: make(map[string]bool)}
		for i, f := range flags {
			v := perm.Value[flagValue](vals, i)
			args.Values[f.Name] = v.value
			args.Set[f.Name] = v.set
		}
		return args
	}

	var opts parse.Parser[string, Args]
	if len(flags) == 0 {
		opts = parse.Return[string](Args{Values: map[string]string{}, Set: map[string]bool{}})
	} else {
		opts = perm.Permute(collect, entries...)
	}
	positional := parse.Many(parse.Satisfy(isPositional, "argument"))
	rest := parse.OptionalOr(parse.Right(parse.Token("--"), parse.Many(parse.AnyToken[string]())), []string{})

	return parse.Bind(opts, func(args Args) parse.Parser[string, Args] {
		return parse.Map(parse.Seq2(positional, rest), func(p parse.Pair[[]string, []string]) Args {
			args.Positional = append(p.First, p.Second...)
			return args
		})
	})
}

// Input returns a cursor over args whose columns match the arguments
// joined by single spaces.
func Input(args []string) input.Input[string] {
	return input.FromTokens(args, func(pos input.Position, tok string) input.Position {
		pos.Column += len(tok) + 1
		return pos
	})
}

// Parse parses args against flags.
func Parse(args []string, flags ...Flag) (Args, error) {
	a, err := parse.ParseInput(Parser(flags...), Input(args))
	if err != nil {
		return Args{}, fmt.Errorf("parse arguments %q: %w", strings.Join(args, " "), err)
	}
	return a, nil
}

// Word is one white-space separated argument of a command-line text.
type Word struct {
	Text string
	Pos  input.Position
}

var words = parse.Right(parse.Spaces, parse.Seq2(
	parse.Many(parse.Left(parse.Map(
		parse.Seq2(parse.GetPosition[rune](), parse.Text(parse.Many1(parse.Satisfy(func(r rune) bool { return !unicode.IsSpace(r) }, "argument")))),
		func(p parse.Pair[input.Position, string]) Word { return Word{Text: p.Second, Pos: p.First} },
	), parse.Spaces)),
	parse.GetPosition[rune](),
))

// Split splits src at white space like strings.Fields and returns the words
// with their positions, along with the position of the end of src.
func Split(src string) ([]Word, input.Position) {
	r := parse.Run(words, input.FromString(src))
	return r.Value.First, r.Value.Second
}

// ParseText splits src into arguments and parses them against flags. Error
// positions refer to src.
func ParseText(src string, flags ...Flag) (Args, error) {
	ws, end := Split(src)
	args := make([]string, len(ws))
	for i, w := range ws {
		args[i] = w.Text
	}
	a, err := parse.ParseInput(Parser(flags...), Input(args))
	if err == nil {
		return a, nil
	}
	var perr *parse.Error
	if errors.As(err, &perr) {
		e := *perr
		e.Pos = end
		if i := perr.Pos.Offset; i < len(ws) {
			e.Pos = ws[i].Pos
		}
		err = &e
	}
	return Args{}, fmt.Errorf("parse arguments: %w", err)
}
