package indent

import (
	"github.com/dhamidi/parsnip/input"
	"github.com/dhamidi/parsnip/parse"
)

// Block is a header line followed by the items indented under it.
type Block[H, T any] struct {
	Header H
	Items  []T
}

// BlockOption configures BlockMany and BlockSome.
type BlockOption func(*blockConfig)

type blockConfig struct {
	target    Level
	hasTarget bool
}

// WithTarget requires the items of a block to sit exactly at level.
// Without it the first item fixes the level.
func WithTarget(level Level) BlockOption {
	return func(c *blockConfig) {
		c.target = level
		c.hasTarget = true
	}
}

// BlockMany parses header followed by zero or more items on later lines,
// all at one level deeper than the header.
//
// The reference level is that of the header. The first line after the
// header that is indented deeper fixes the working level. After each item,
// a line at the working level holds another item; a shallower line or the
// end of input ends the block and the cursor is left right after the last
// item; a deeper line is an error.
func BlockMany[E, S, H, T any](sc parse.Parser[E, S], header parse.Parser[E, H], item parse.Parser[E, T], opts ...BlockOption) parse.Parser[E, Block[H, T]] {
	return block(sc, header, item, false, opts)
}

// BlockSome is BlockMany that requires at least one item.
func BlockSome[E, S, H, T any](sc parse.Parser[E, S], header parse.Parser[E, H], item parse.Parser[E, T], opts ...BlockOption) parse.Parser[E, Block[H, T]] {
	return block(sc, header, item, true, opts)
}

func block[E, S, H, T any](sc parse.Parser[E, S], header parse.Parser[E, H], item parse.Parser[E, T], some bool, opts []BlockOption) parse.Parser[E, Block[H, T]] {
	if sc == nil || header == nil || item == nil {
		panic("parsnip: nil parser passed to indent block")
	}
	var cfg blockConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(in input.Input[E]) parse.Result[E, Block[H, T]] {
		fail := func(err *parse.Error, at input.Input[E]) parse.Result[E, Block[H, T]] {
			return parse.Failure[E, Block[H, T]](err, at)
		}

		s := sc(in)
		if !s.OK {
			return fail(s.Err, s.Rest)
		}
		ref := LevelAt(s.Rest.Position())
		h := header(s.Rest)
		err := parse.Merge(s.Err, h.Err)
		if !h.OK {
			return fail(err, h.Rest)
		}
		blk := Block[H, T]{Header: h.Value, Items: []T{}}
		end := h.Rest

		n := sc(end)
		if !n.OK {
			return fail(parse.Merge(err, n.Err), n.Rest)
		}
		first := n.Rest
		lvl := LevelAt(first.Position())
		if first.AtEnd() || first.Position().Line == end.Position().Line || lvl <= ref {
			if !some {
				return parse.Success(blk, end, err)
			}
			if first.AtEnd() {
				eof := parse.EndOfFile()
				return fail(parse.Merge(err, parse.NewError(first.Position(), &eof, parse.LabelItem("indented block"))), first)
			}
			return fail(parse.Merge(err, incorrect(first.Position(), lvl, GT, ref)), first)
		}
		if cfg.hasTarget && lvl != cfg.target {
			return fail(parse.Merge(err, incorrect(first.Position(), lvl, EQ, cfg.target)), first)
		}
		err = parse.Merge(err, n.Err)

		want := lvl
		cur := first
		for {
			r := item(cur)
			err = parse.Merge(err, r.Err)
			if !r.OK {
				return fail(err, r.Rest)
			}
			if !r.Consumed(cur) {
				// Like parse.Many, an item that matched nothing ends the
				// block without being counted.
				return parse.Success(blk, end, err)
			}
			blk.Items = append(blk.Items, r.Value)
			end = r.Rest

			n := sc(end)
			if !n.OK {
				return fail(parse.Merge(err, n.Err), n.Rest)
			}
			next := n.Rest
			got := LevelAt(next.Position())
			switch {
			case next.AtEnd(), got < want:
				return parse.Success(blk, end, err)
			case got > want:
				return fail(parse.Merge(err, incorrect(next.Position(), got, EQ, want)), next)
			}
			err = parse.Merge(err, n.Err)
			cur = next
		}
	}
}
