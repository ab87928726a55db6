package parse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dhamidi/parsnip/input"
)

// ItemKind tells what an ErrorItem describes.
type ItemKind int

const (
	ItemEOF ItemKind = iota
	ItemToken
	ItemLabel
	ItemMessage
)

// ErrorItem is one thing a parser expected or did not expect.
type ErrorItem struct {
	Kind ItemKind
	Text string
}

// EndOfFile describes the end of input.
func EndOfFile() ErrorItem {
	return ErrorItem{Kind: ItemEOF}
}

// TokenItem describes a single element of the input.
func TokenItem[E any](e E) ErrorItem {
	return ErrorItem{Kind: ItemToken, Text: describe(e)}
}

// LabelItem describes a named construct, such as "digit" or "expression".
func LabelItem(name string) ErrorItem {
	return ErrorItem{Kind: ItemLabel, Text: name}
}

// MessageItem carries a free-form message.
func MessageItem(msg string) ErrorItem {
	return ErrorItem{Kind: ItemMessage, Text: msg}
}

func (it ErrorItem) String() string {
	switch it.Kind {
	case ItemEOF:
		return "end of input"
	default:
		return it.Text
	}
}

// Error is a parse failure at a position: what was found, and what would
// have been accepted instead.
type Error struct {
	Pos        input.Position
	Unexpected *ErrorItem
	Expected   []ErrorItem
}

// NewError returns an error at pos.
func NewError(pos input.Position, unexpected *ErrorItem, expected ...ErrorItem) *Error {
	e := &Error{Pos: pos, Unexpected: unexpected}
	for _, it := range expected {
		e.Expected = addItem(e.Expected, it)
	}
	return e
}

// Messages returns the free-form messages among the expected items.
func (e *Error) Messages() []string {
	var msgs []string
	for _, it := range e.Expected {
		if it.Kind == ItemMessage {
			msgs = append(msgs, it.Text)
		}
	}
	return msgs
}

// Description renders the error without its position.
func (e *Error) Description() string {
	var parts []string
	if e.Unexpected != nil {
		parts = append(parts, "unexpected "+e.Unexpected.String())
	}
	var expected []string
	for _, it := range e.Expected {
		if it.Kind != ItemMessage && it.String() != "" {
			expected = append(expected, it.String())
		}
	}
	if len(expected) > 0 {
		parts = append(parts, "expected "+orList(expected))
	}
	parts = append(parts, e.Messages()...)
	if len(parts) == 0 {
		return "unknown parse error"
	}
	return strings.Join(parts, "; ")
}

func (e *Error) Error() string {
	return e.Pos.String() + ": " + e.Description()
}

// Merge combines two errors. The one farther into the input wins; errors
// at the same offset pool their expected items.
func Merge(a, b *Error) *Error {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case a.Pos.Offset > b.Pos.Offset:
		return a
	case b.Pos.Offset > a.Pos.Offset:
		return b
	}
	merged := &Error{Pos: a.Pos, Unexpected: a.Unexpected}
	if merged.Unexpected == nil {
		merged.Unexpected = b.Unexpected
	}
	merged.Expected = append(merged.Expected, a.Expected...)
	for _, it := range b.Expected {
		merged.Expected = addItem(merged.Expected, it)
	}
	return merged
}

// withExpected returns a copy of e whose expected items are replaced.
func (e *Error) withExpected(items ...ErrorItem) *Error {
	var msgs []ErrorItem
	for _, it := range e.Expected {
		if it.Kind == ItemMessage {
			msgs = append(msgs, it)
		}
	}
	return NewError(e.Pos, e.Unexpected, append(items, msgs...)...)
}

func addItem(items []ErrorItem, it ErrorItem) []ErrorItem {
	for _, have := range items {
		if have == it {
			return items
		}
	}
	return append(items, it)
}

func orList(items []string) string {
	switch len(items) {
	case 1:
		return items[0]
	case 2:
		return items[0] + " or " + items[1]
	}
	return strings.Join(items[:len(items)-1], ", ") + " or " + items[len(items)-1]
}

func describe(e any) string {
	switch v := e.(type) {
	case rune:
		return strconv.QuoteRune(v)
	case string:
		return strconv.Quote(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
