// Package python parses a small, indentation-sensitive subset of Python
// into concrete syntax trees.
//
// Supported statements are def, if/elif/else, while, return, pass,
// assignment to a name and expression statements. Expressions cover names,
// integers, strings, calls, unary minus, arithmetic, comparisons and the
// boolean operators not, and, or. Comments and blank lines are skipped.
package python

import (
	"strconv"

	"github.com/dhamidi/parsnip/cst"
	"github.com/dhamidi/parsnip/expr"
	"github.com/dhamidi/parsnip/indent"
	"github.com/dhamidi/parsnip/parse"
)

var keywords = map[string]bool{
	"and": true, "def": true, "elif": true, "else": true, "if": true,
	"not": true, "or": true, "pass": true, "return": true, "while": true,
}

var (
	comment = parse.Label(parse.Void(parse.Right(parse.Char('#'), parse.Many(parse.NoneOf("\n")))), "")

	// hs skips blanks and comments within a line.
	hs = parse.SkipMany(parse.Or(parse.Void(parse.Label(parse.OneOf(" \t"), "")), comment))

	// sc also skips line breaks. Indentation is measured after it.
	sc = parse.SkipMany(parse.Or(parse.Void(parse.Label(parse.OneOf(" \t\r\n"), "")), comment))

	eol = parse.Label(parse.LookAhead(parse.Or(parse.Newline, parse.EndOfInput[rune]())), "end of line")
)

func lexeme[T any](p parse.Parser[rune, T]) parse.Parser[rune, T] {
	return parse.Lexeme(p, hs)
}

func isIdentStart(r rune) bool {
	return r == '_' || 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z'
}

func isIdent(r rune) bool {
	return isIdentStart(r) || '0' <= r && r <= '9'
}

var identChar = parse.Satisfy(isIdent, "identifier character")

// keyword matches s when it is not the prefix of a longer name.
func keyword(s string) parse.Parser[rune, string] {
	return lexeme(parse.Try(parse.Left(parse.String(s), parse.NotFollowedBy(identChar, "identifier character"))))
}

func symbol(s string) parse.Parser[rune, string] {
	return parse.Symbol(s, hs)
}

var name = parse.Label(lexeme(cst.Leaf("name", parse.Try(parse.Bind(
	parse.Map(parse.Seq2(parse.Satisfy(isIdentStart, "letter"), parse.Many(identChar)), func(p parse.Pair[rune, []rune]) string {
		return string(p.First) + string(p.Second)
	}),
	func(s string) parse.Parser[rune, string] {
		if keywords[s] {
			return parse.Fail[rune, string]("keyword " + strconv.Quote(s) + " cannot be used as a name")
		}
		return parse.Return[rune](s)
	},
)))), "name")

var integer = parse.Label(lexeme(cst.Leaf("int", parse.Text(parse.Many1(parse.Digit)))), "integer")

var stringLit = parse.Label(lexeme(cst.Leaf("string", parse.Or(quoted('"'), quoted('\'')))), "string")

func quoted(q rune) parse.Parser[rune, string] {
	char := parse.Or(
		parse.Right(parse.Char('\\'), parse.Map(parse.AnyToken[rune](), func(r rune) rune {
			switch r {
			case 'n':
				return '\n'
			case 't':
				return '\t'
			}
			return r
		})),
		parse.NoneOf(string(q)+"\\\n"),
	)
	return parse.Between(parse.Char(q), parse.Text(parse.Many(char)), parse.Char(q))
}

func op(s string) parse.Parser[rune, *cst.Node] {
	if isIdentStart(rune(s[0])) {
		return cst.Leaf("op", parse.Try(parse.Left(parse.String(s), parse.NotFollowedBy(identChar, "identifier character"))))
	}
	return cst.Leaf("op", parse.Try(parse.String(s)))
}

func binary(assoc expr.Assoc, s string) expr.Operator[rune, *cst.Node] {
	return expr.Infix(assoc, parse.Map(lexeme(op(s)), func(o *cst.Node) func(x, y *cst.Node) *cst.Node {
		return func(x, y *cst.Node) *cst.Node { return cst.NewNonTerminal("binary", x, o, y) }
	}))
}

func unary(s string) expr.Operator[rune, *cst.Node] {
	return expr.Prefix(parse.Map(lexeme(op(s)), func(o *cst.Node) func(x *cst.Node) *cst.Node {
		return func(x *cst.Node) *cst.Node { return cst.NewNonTerminal("unary", o, x) }
	}))
}

// Grammar holds the parsers of the language.
type Grammar struct {
	Expression parse.Parser[rune, *cst.Node]
	Statement  parse.Parser[rune, *cst.Node]
	Module     parse.Parser[rune, *cst.Node]
}

// New builds the grammar.
func New() *Grammar {
	g := &Grammar{}
	g.Expression = g.expression()
	g.Statement = parse.Label(parse.Choice(g.def(), g.ifStmt(), g.while(), g.simple()), "statement")
	top := parse.Right(indent.Guard(parse.Return[rune](struct{}{}), indent.EQ, 0), g.Statement)
	g.Module = cst.Tree("module", parse.Right(sc, parse.Many(parse.Left(top, sc))))
	return g
}

func (g *Grammar) stmt() parse.Parser[rune, *cst.Node] {
	return parse.Lazy(func() parse.Parser[rune, *cst.Node] { return g.Statement })
}

func (g *Grammar) expr() parse.Parser[rune, *cst.Node] {
	return parse.Lazy(func() parse.Parser[rune, *cst.Node] { return g.Expression })
}

func (g *Grammar) expression() parse.Parser[rune, *cst.Node] {
	atom := parse.Choice(
		name,
		integer,
		stringLit,
		parse.Between(symbol("("), g.expr(), symbol(")")),
	)
	args := cst.Tree("args", parse.Between(symbol("("), parse.SepBy(g.expr(), symbol(",")), symbol(")")))
	primary := parse.Bind(atom, func(fn *cst.Node) parse.Parser[rune, *cst.Node] {
		return parse.Map(parse.Many(args), func(calls []*cst.Node) *cst.Node {
			for _, a := range calls {
				fn = cst.NewNonTerminal("call", fn, a)
			}
			return fn
		})
	})
	return parse.Label(expr.Build(expr.Table[rune, *cst.Node]{
		{unary("-")},
		{binary(expr.AssocLeft, "*"), binary(expr.AssocLeft, "//"), binary(expr.AssocLeft, "/"), binary(expr.AssocLeft, "%")},
		{binary(expr.AssocLeft, "+"), binary(expr.AssocLeft, "-")},
		{
			binary(expr.AssocNone, "=="), binary(expr.AssocNone, "!="),
			binary(expr.AssocNone, "<="), binary(expr.AssocNone, ">="),
			binary(expr.AssocNone, "<"), binary(expr.AssocNone, ">"),
		},
		{unary("not")},
		{binary(expr.AssocLeft, "and")},
		{binary(expr.AssocLeft, "or")},
	}, primary), "expression")
}

func (g *Grammar) simple() parse.Parser[rune, *cst.Node] {
	pass := lexeme(cst.Leaf("pass", parse.Try(parse.Left(parse.String("pass"), parse.NotFollowedBy(identChar, "identifier character")))))
	ret := cst.Tree("return", parse.Right(keyword("return"), parse.Map(parse.Optional(g.expr()), func(m parse.Maybe[*cst.Node]) []*cst.Node {
		if m.Present {
			return []*cst.Node{m.Value}
		}
		return []*cst.Node{}
	})))
	assignOp := lexeme(parse.Try(parse.Left(parse.String("="), parse.NotFollowedBy(parse.Char('='), "'='"))))
	assign := parse.Bind(parse.Try(parse.Left(name, assignOp)), func(target *cst.Node) parse.Parser[rune, *cst.Node] {
		return parse.Map(g.expr(), func(v *cst.Node) *cst.Node { return cst.NewNonTerminal("assign", target, v) })
	})
	exprStmt := parse.Map(g.expr(), func(e *cst.Node) *cst.Node { return cst.NewNonTerminal("expr", e) })
	return parse.Left(parse.Choice(pass, ret, assign, exprStmt), eol)
}

// header parses the rest of a compound statement's first line after the
// keyword, up to and including the colon.
func header[T any](kw string, p parse.Parser[rune, T]) parse.Parser[rune, T] {
	return parse.Left(parse.Right(keyword(kw), p), parse.Left(symbol(":"), eol))
}

func body(items []*cst.Node) *cst.Node {
	return cst.NewNonTerminal("body", items...)
}

func (g *Grammar) def() parse.Parser[rune, *cst.Node] {
	params := cst.Tree("params", parse.Between(symbol("("), parse.SepBy(name, symbol(",")), symbol(")")))
	h := header("def", parse.Seq2(name, params))
	return parse.Map(indent.BlockSome(sc, h, g.stmt()), func(b indent.Block[parse.Pair[*cst.Node, *cst.Node], *cst.Node]) *cst.Node {
		return cst.NewNonTerminal("def", b.Header.First, b.Header.Second, body(b.Items))
	})
}

func (g *Grammar) while() parse.Parser[rune, *cst.Node] {
	return parse.Map(indent.BlockSome(sc, header("while", g.expr()), g.stmt()), func(b indent.Block[*cst.Node, *cst.Node]) *cst.Node {
		return cst.NewNonTerminal("while", b.Header, body(b.Items))
	})
}

func (g *Grammar) ifStmt() parse.Parser[rune, *cst.Node] {
	conditional := func(kw string) parse.Parser[rune, *cst.Node] {
		return parse.Map(indent.BlockSome(sc, header(kw, g.expr()), g.stmt()), func(b indent.Block[*cst.Node, *cst.Node]) *cst.Node {
			return cst.NewNonTerminal(kw, b.Header, body(b.Items))
		})
	}
	elseBlock := parse.Map(indent.BlockSome(sc, header("else", parse.Return[rune](struct{}{})), g.stmt()), func(b indent.Block[struct{}, *cst.Node]) *cst.Node {
		return cst.NewNonTerminal("else", body(b.Items))
	})
	// clause runs p only when the next line starts with kw at level lvl.
	clause := func(lvl indent.Level, kw string, p parse.Parser[rune, *cst.Node]) parse.Parser[rune, *cst.Node] {
		next := parse.Try(parse.LookAhead(parse.Right(indent.Guard(sc, indent.EQ, lvl), keyword(kw))))
		return parse.Right(next, p)
	}
	return parse.Bind(indent.Current[rune](), func(lvl indent.Level) parse.Parser[rune, *cst.Node] {
		return parse.Bind(conditional("if"), func(n *cst.Node) parse.Parser[rune, *cst.Node] {
			return parse.Bind(parse.Many(clause(lvl, "elif", conditional("elif"))), func(elifs []*cst.Node) parse.Parser[rune, *cst.Node] {
				return parse.Map(parse.Optional(clause(lvl, "else", elseBlock)), func(els parse.Maybe[*cst.Node]) *cst.Node {
					for _, e := range elifs {
						n.AddChild(e)
					}
					if els.Present {
						n.AddChild(els.Value)
					}
					return n
				})
			})
		})
	})
}

// Parse parses a complete module.
func Parse(src string) (*cst.Node, error) {
	return parse.ParseString(New().Module, src)
}
