// Package cst provides concrete syntax trees and the combinators that build
// them.
package cst

import (
	"fmt"
	"strings"

	"github.com/dhamidi/parsnip/input"
	"github.com/dhamidi/parsnip/parse"
)

// Span is the range of input a node covers.
type Span struct {
	Start input.Position
	End   input.Position
}

func (s Span) String() string {
	return s.Start.String() + "-" + s.End.String()
}

func (s Span) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Node is a node in a concrete syntax tree.
// Terminals carry the text they matched; interior nodes have Children.
type Node struct {
	Kind     string  `json:"kind" yaml:"kind"`
	Text     string  `json:"text,omitempty" yaml:"text,omitempty"`
	Children []*Node `json:"children,omitempty" yaml:"children,omitempty"`
	Span     Span    `json:"span" yaml:"span"`
}

// IsTerminal returns true if this is a leaf node.
func (n *Node) IsTerminal() bool {
	return n.Children == nil
}

// AddChild appends a child node and widens the span to cover it.
func (n *Node) AddChild(child *Node) {
	if child == nil {
		return
	}
	if len(n.Children) == 0 {
		n.Span.Start = child.Span.Start
	}
	n.Children = append(n.Children, child)
	n.Span.End = child.Span.End
}

// Child returns the first child of the given kind, or nil.
func (n *Node) Child(kind string) *Node {
	for _, c := range n.Children {
		if c.Kind == kind {
			return c
		}
	}
	return nil
}

// Walk calls fn for n and its descendants in depth-first order. Returning
// false from fn skips the children of that node.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// String renders n as an S-expression, terminals as kind:"text".
func (n *Node) String() string {
	var sb strings.Builder
	n.write(&sb)
	return sb.String()
}

func (n *Node) write(sb *strings.Builder) {
	switch {
	case n.IsTerminal():
		fmt.Fprintf(sb, "%s:%q", n.Kind, n.Text)
	default:
		sb.WriteString("(" + n.Kind)
		for _, c := range n.Children {
			sb.WriteByte(' ')
			c.write(sb)
		}
		sb.WriteByte(')')
	}
}

// NewTerminal creates a terminal node.
func NewTerminal(kind, text string, span Span) *Node {
	return &Node{Kind: kind, Text: text, Span: span}
}

// NewNonTerminal creates a non-terminal node with the given children.
func NewNonTerminal(kind string, children ...*Node) *Node {
	n := &Node{Kind: kind, Children: make([]*Node, 0, len(children))}
	for _, c := range children {
		n.AddChild(c)
	}
	return n
}

// Leaf turns the text matched by p into a terminal of the given kind.
func Leaf[E any](kind string, p parse.Parser[E, string]) parse.Parser[E, *Node] {
	return func(in input.Input[E]) parse.Result[E, *Node] {
		r := p(in)
		if !r.OK {
			return parse.Failure[E, *Node](r.Err, r.Rest)
		}
		span := Span{Start: in.Position(), End: r.Rest.Position()}
		return parse.Success(NewTerminal(kind, r.Value, span), r.Rest, r.Err)
	}
}

// Tree wraps the nodes returned by p in a non-terminal of the given kind.
// A node without children spans whatever p consumed.
func Tree[E any](kind string, p parse.Parser[E, []*Node]) parse.Parser[E, *Node] {
	return func(in input.Input[E]) parse.Result[E, *Node] {
		r := p(in)
		if !r.OK {
			return parse.Failure[E, *Node](r.Err, r.Rest)
		}
		n := NewNonTerminal(kind, r.Value...)
		if len(n.Children) == 0 {
			n.Span = Span{Start: in.Position(), End: r.Rest.Position()}
		}
		return parse.Success(n, r.Rest, r.Err)
	}
}
