// Package ebnf interprets EBNF grammars with parsnip combinators.
//
// Grammars use the notation of golang.org/x/exp/ebnf. Each production
// becomes a parser; nothing is generated. Productions whose names start
// with a lower-case letter are lexical: they match characters exactly and
// produce a single terminal node holding the matched text. Other
// productions produce interior nodes, and white space is skipped after
// each token and lexical production they use.
//
// Alternatives are ordered: the first one that matches wins, and each is
// tried from the same place. Left-recursive productions are not supported.
//
// Every production is wrapped in parse.Trace under its own name, so debug
// logging on "parsnip.trace" shows how a grammar matched.
package ebnf

import (
	"fmt"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/parsnip/cst"
	"github.com/dhamidi/parsnip/parse"
)

// LoadGrammar loads an EBNF grammar from a file.
func LoadGrammar(filename string) (ebnf.Grammar, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open grammar: %w", err)
	}
	defer f.Close()

	grammar, err := ebnf.Parse(filename, f)
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}

	return grammar, nil
}

// IsLexical reports whether the production name denotes a lexical
// production.
func IsLexical(name string) bool {
	ch, _ := utf8.DecodeRuneInString(name)
	return !unicode.IsUpper(ch)
}

var ws = parse.SkipMany(parse.Label(parse.Space, ""))

type nodes = parse.Parser[rune, []*cst.Node]

type compiler struct {
	grammar ebnf.Grammar
	rules   map[string]parse.Parser[rune, *cst.Node]
}

// Compile verifies grammar from start and returns a parser for start that
// skips leading and trailing white space.
func Compile(grammar ebnf.Grammar, start string) (parse.Parser[rune, *cst.Node], error) {
	if err := ebnf.Verify(grammar, start); err != nil {
		return nil, fmt.Errorf("verify grammar: %w", err)
	}
	c := &compiler{grammar: grammar, rules: make(map[string]parse.Parser[rune, *cst.Node], len(grammar))}
	for name, prod := range grammar {
		c.rules[name] = c.production(name, prod)
	}
	p := c.rules[start]
	if IsLexical(start) {
		p = parse.Lexeme(p, ws)
	}
	return parse.Right(ws, p), nil
}

func (c *compiler) production(name string, prod *ebnf.Production) parse.Parser[rune, *cst.Node] {
	lexical := IsLexical(name)
	body := c.expr(prod.Expr, lexical)
	if lexical {
		return parse.Trace(name, parse.Label(cst.Leaf(name, parse.Map(body, text)), name))
	}
	return parse.Trace(name, parse.Label(cst.Tree(name, body), name))
}

func text(ns []*cst.Node) string {
	var sb strings.Builder
	for _, n := range ns {
		sb.WriteString(n.Text)
	}
	return sb.String()
}

func (c *compiler) ref(name string) parse.Parser[rune, *cst.Node] {
	return parse.Lazy(func() parse.Parser[rune, *cst.Node] { return c.rules[name] })
}

func one(p parse.Parser[rune, *cst.Node]) nodes {
	return parse.Map(p, func(n *cst.Node) []*cst.Node { return []*cst.Node{n} })
}

func flatten(groups [][]*cst.Node) []*cst.Node {
	out := []*cst.Node{}
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// expr compiles x. Inside lexical productions nothing is skipped.
func (c *compiler) expr(x ebnf.Expression, lexical bool) nodes {
	switch x := x.(type) {
	case nil:
		return parse.Return[rune]([]*cst.Node{})
	case ebnf.Alternative:
		alts := make([]nodes, len(x))
		for i, a := range x {
			alts[i] = parse.Try(c.expr(a, lexical))
		}
		return parse.Choice(alts...)
	case ebnf.Sequence:
		seq := make([]nodes, len(x))
		for i, s := range x {
			seq[i] = c.expr(s, lexical)
		}
		return parse.Map(parse.All(seq...), flatten)
	case *ebnf.Group:
		return c.expr(x.Body, lexical)
	case *ebnf.Option:
		return parse.OptionalOr(c.expr(x.Body, lexical), []*cst.Node{})
	case *ebnf.Repetition:
		return parse.Map(parse.Many(c.expr(x.Body, lexical)), flatten)
	case *ebnf.Token:
		tok := cst.Leaf("token", parse.Try(parse.String(x.String)))
		if !lexical {
			tok = parse.Lexeme(tok, ws)
		}
		return one(tok)
	case *ebnf.Range:
		lo, _ := utf8.DecodeRuneInString(x.Begin.String)
		hi, _ := utf8.DecodeRuneInString(x.End.String)
		label := fmt.Sprintf("%q … %q", x.Begin.String, x.End.String)
		ch := cst.Leaf("char", parse.Map(parse.Satisfy(func(r rune) bool { return lo <= r && r <= hi }, label), func(r rune) string {
			return string(r)
		}))
		if !lexical {
			ch = parse.Lexeme(ch, ws)
		}
		return one(ch)
	case *ebnf.Name:
		p := c.ref(x.String)
		if !lexical && IsLexical(x.String) {
			p = parse.Lexeme(p, ws)
		}
		return one(p)
	case *ebnf.Bad:
		return parse.Fail[rune, []*cst.Node](x.Error)
	}
	panic(fmt.Sprintf("parsnip: unknown EBNF expression %T", x))
}

// ParseString compiles grammar from start and parses src with it.
func ParseString(grammar ebnf.Grammar, start, src string) (*cst.Node, error) {
	p, err := Compile(grammar, start)
	if err != nil {
		return nil, err
	}
	return parse.ParseString(p, src)
}
