// Package input provides immutable cursors over the things parsers read:
// strings, token slices and seekable streams.
//
// A cursor never changes once created. Advance returns a new cursor and the
// old one stays valid, so backtracking is just reusing a saved value.
package input

import "fmt"

// DefaultTabWidth is the number of columns a tab advances by default.
const DefaultTabWidth = 4

// Input is a cursor over a sequence of elements of type E.
type Input[E any] interface {
	// Current returns the element under the cursor.
	// The boolean is false at end of input.
	Current() (E, bool)
	// Advance returns a cursor one element further.
	// At end of input it returns the receiver.
	Advance() Input[E]
	// AtEnd reports whether the cursor is past the last element.
	AtEnd() bool
	// Position reports where the cursor is.
	Position() Position
}

// Moved reports whether to lies past from. Both cursors must come from the
// same input.
func Moved[E any](from, to Input[E]) bool {
	return from.Position().Offset != to.Position().Offset
}

// Rest returns the unread remainder of a rune input, when the cursor can
// produce it. It is mostly useful in tests and diagnostics.
func Rest(in Input[rune]) string {
	if r, ok := in.(interface{ Rest() string }); ok {
		return r.Rest()
	}
	var runes []rune
	for !in.AtEnd() {
		r, _ := in.Current()
		runes = append(runes, r)
		in = in.Advance()
	}
	return string(runes)
}

// Err returns the read error that ended a stream input early, if any.
func Err[E any](in Input[E]) error {
	if e, ok := in.(interface{ Err() error }); ok {
		return e.Err()
	}
	return nil
}

// Option configures a text or stream cursor.
type Option func(*options)

type options struct {
	tabWidth int
}

// WithTabWidth sets how many columns a tab advances.
func WithTabWidth(n int) Option {
	return func(o *options) {
		o.tabWidth = n
	}
}

func buildOptions(opts []Option) options {
	o := options{tabWidth: DefaultTabWidth}
	for _, opt := range opts {
		opt(&o)
	}
	if o.tabWidth < 0 {
		panic(fmt.Sprintf("parsnip: negative tab width %d", o.tabWidth))
	}
	return o
}
