// Package perm parses a fixed set of parsers in any order.
package perm

import (
	"slices"

	"github.com/dhamidi/parsnip/input"
	"github.com/dhamidi/parsnip/parse"
)

// Entry is one member of a permutation.
type Entry[E any] struct {
	p        parse.Parser[E, any]
	def      any
	optional bool
}

// Required is an entry that must appear exactly once.
func Required[E, T any](p parse.Parser[E, T]) Entry[E] {
	if p == nil {
		panic("parsnip: nil parser passed to perm.Required")
	}
	return Entry[E]{p: parse.Map(p, func(v T) any { return v })}
}

// Optional is an entry that may appear at most once. When it does not, its
// value is def.
func Optional[E, T any](p parse.Parser[E, T], def T) Entry[E] {
	if p == nil {
		panic("parsnip: nil parser passed to perm.Optional")
	}
	return Entry[E]{p: parse.Map(p, func(v T) any { return v }), def: def, optional: true}
}

// Permute parses every entry once, in any order, and passes their values
// to combine in the order the entries were given.
//
// At each step the entries not yet seen are tried in order; like parse.Or,
// an entry that fails after consuming input fails the permutation. When
// nothing matches and every remaining entry is optional, the remaining
// defaults are filled in without consuming input. Entries that share a
// prefix need parse.Try.
func Permute[E, T any](combine func(vals []any) T, entries ...Entry[E]) parse.Parser[E, T] {
	if combine == nil {
		panic("parsnip: nil combine function passed to perm.Permute")
	}
	if len(entries) == 0 {
		panic("parsnip: no entries passed to perm.Permute")
	}
	return func(in input.Input[E]) parse.Result[E, T] {
		r := permute(entries, make([]bool, len(entries)), make([]any, len(entries)), in)
		if !r.OK {
			return parse.Failure[E, T](r.Err, r.Rest)
		}
		return parse.Success(combine(r.Value), r.Rest, r.Err)
	}
}

// Value returns vals[i] as a V, or the zero V if it holds something else.
func Value[V any](vals []any, i int) V {
	v, _ := vals[i].(V)
	return v
}

func permute[E any](entries []Entry[E], done []bool, vals []any, in input.Input[E]) parse.Result[E, []any] {
	var err *parse.Error
	for i, e := range entries {
		if done[i] {
			continue
		}
		r := e.p(in)
		if !r.OK {
			err = parse.Merge(err, r.Err)
			if r.Consumed(in) {
				return parse.Failure[E, []any](err, r.Rest)
			}
			continue
		}

		nextDone := slices.Clone(done)
		nextDone[i] = true
		nextVals := slices.Clone(vals)
		nextVals[i] = r.Value
		rest := permute(entries, nextDone, nextVals, r.Rest)
		rest.Err = parse.Merge(err, parse.Merge(r.Err, rest.Err))
		if rest.OK || input.Moved(in, rest.Rest) {
			return rest
		}
		err = rest.Err
	}

	for i, e := range entries {
		if done[i] {
			continue
		}
		if !e.optional {
			if err == nil {
				err = parse.NewError(in.Position(), nil)
			}
			return parse.Failure[E, []any](err, in)
		}
		vals[i] = e.def
	}
	return parse.Success(vals, in, err)
}
