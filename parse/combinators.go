package parse

import "github.com/dhamidi/parsnip/input"

// Maybe is the result of Optional.
type Maybe[T any] struct {
	Value   T
	Present bool
}

// Optional parses p if it can. It fails only when p fails after consuming
// input.
func Optional[E, T any](p Parser[E, T]) Parser[E, Maybe[T]] {
	return Or(
		Map(p, func(v T) Maybe[T] { return Maybe[T]{Value: v, Present: true} }),
		Return[E](Maybe[T]{}),
	)
}

// OptionalOr parses p, or returns def when p fails without consuming input.
func OptionalOr[E, T any](p Parser[E, T], def T) Parser[E, T] {
	return Or(p, Return[E](def))
}

// Void discards the value of p.
func Void[E, T any](p Parser[E, T]) Parser[E, struct{}] {
	return Map(p, func(T) struct{} { return struct{}{} })
}

// Left runs p then q and keeps the value of p.
func Left[E, T, U any](p Parser[E, T], q Parser[E, U]) Parser[E, T] {
	mustParser(q, "Left")
	return Bind(p, func(v T) Parser[E, T] {
		return Map(q, func(U) T { return v })
	})
}

// Right runs p then q and keeps the value of q.
func Right[E, T, U any](p Parser[E, T], q Parser[E, U]) Parser[E, U] {
	mustParser(q, "Right")
	return Bind(p, func(T) Parser[E, U] { return q })
}

// Pair holds the values of Seq2.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Seq2 runs p then q and keeps both values.
func Seq2[E, A, B any](p Parser[E, A], q Parser[E, B]) Parser[E, Pair[A, B]] {
	mustParser(q, "Seq2")
	return Bind(p, func(a A) Parser[E, Pair[A, B]] {
		return Map(q, func(b B) Pair[A, B] { return Pair[A, B]{a, b} })
	})
}

// Between parses open, p and close and keeps the value of p.
func Between[E, O, T, C any](open Parser[E, O], p Parser[E, T], close Parser[E, C]) Parser[E, T] {
	return Right(open, Left(p, close))
}

// All runs every parser in order and collects their values.
func All[E, T any](ps ...Parser[E, T]) Parser[E, []T] {
	for _, p := range ps {
		mustParser(p, "All")
	}
	return func(in input.Input[E]) Result[E, []T] {
		values := make([]T, 0, len(ps))
		var err *Error
		cur := in
		for _, p := range ps {
			r := p(cur)
			err = Merge(err, r.Err)
			if !r.OK {
				return Failure[E, []T](err, r.Rest)
			}
			values = append(values, r.Value)
			cur = r.Rest
		}
		return Success(values, cur, err)
	}
}

// Many applies p until it fails without consuming input. A failure after
// consuming input fails the whole loop. A success that consumes nothing ends
// the loop without being counted, so Many always terminates.
func Many[E, T any](p Parser[E, T]) Parser[E, []T] {
	mustParser(p, "Many")
	return func(in input.Input[E]) Result[E, []T] {
		return manyFrom(p, in, nil, nil)
	}
}

func manyFrom[E, T any](p Parser[E, T], in input.Input[E], values []T, err *Error) Result[E, []T] {
	cur := in
	for {
		r := p(cur)
		err = Merge(err, r.Err)
		if !r.OK {
			if r.Consumed(cur) {
				return Failure[E, []T](err, r.Rest)
			}
			break
		}
		if !r.Consumed(cur) {
			break
		}
		values = append(values, r.Value)
		cur = r.Rest
	}
	if values == nil {
		values = []T{}
	}
	return Success(values, cur, err)
}

// Many1 is Many that needs at least one success.
func Many1[E, T any](p Parser[E, T]) Parser[E, []T] {
	mustParser(p, "Many1")
	return func(in input.Input[E]) Result[E, []T] {
		r := p(in)
		if !r.OK {
			return fail[E, T, []T](r)
		}
		return manyFrom(p, r.Rest, []T{r.Value}, r.Err)
	}
}

// SkipMany applies p like Many and discards the values.
func SkipMany[E, T any](p Parser[E, T]) Parser[E, struct{}] {
	return Void(Many(p))
}

// SkipMany1 applies p like Many1 and discards the values.
func SkipMany1[E, T any](p Parser[E, T]) Parser[E, struct{}] {
	return Void(Many1(p))
}

// Count applies p exactly n times. n <= 0 succeeds with an empty slice.
func Count[E, T any](p Parser[E, T], n int) Parser[E, []T] {
	if n <= 0 {
		return Return[E]([]T{})
	}
	ps := make([]Parser[E, T], n)
	for i := range ps {
		ps[i] = p
	}
	return All(ps...)
}

// SepBy parses zero or more p separated by sep.
func SepBy[E, T, S any](p Parser[E, T], sep Parser[E, S]) Parser[E, []T] {
	return Or(SepBy1(p, sep), Return[E]([]T{}))
}

// SepBy1 parses one or more p separated by sep.
func SepBy1[E, T, S any](p Parser[E, T], sep Parser[E, S]) Parser[E, []T] {
	mustParser(p, "SepBy1")
	mustParser(sep, "SepBy1")
	return func(in input.Input[E]) Result[E, []T] {
		r := p(in)
		if !r.OK {
			return fail[E, T, []T](r)
		}
		return manyFrom(Right(sep, p), r.Rest, []T{r.Value}, r.Err)
	}
}

// EndBy parses zero or more p, each followed by sep.
func EndBy[E, T, S any](p Parser[E, T], sep Parser[E, S]) Parser[E, []T] {
	return Many(Left(p, sep))
}

// EndBy1 parses one or more p, each followed by sep.
func EndBy1[E, T, S any](p Parser[E, T], sep Parser[E, S]) Parser[E, []T] {
	return Many1(Left(p, sep))
}

// SepEndBy parses zero or more p separated by sep, with an optional
// trailing sep.
func SepEndBy[E, T, S any](p Parser[E, T], sep Parser[E, S]) Parser[E, []T] {
	mustParser(p, "SepEndBy")
	mustParser(sep, "SepEndBy")
	return func(in input.Input[E]) Result[E, []T] {
		values := []T{}
		var err *Error
		cur := in
		for {
			r := p(cur)
			err = Merge(err, r.Err)
			if !r.OK {
				if r.Consumed(cur) {
					return Failure[E, []T](err, r.Rest)
				}
				break
			}
			values = append(values, r.Value)
			s := sep(r.Rest)
			err = Merge(err, s.Err)
			if !s.OK {
				if s.Consumed(r.Rest) {
					return Failure[E, []T](err, s.Rest)
				}
				cur = r.Rest
				break
			}
			if !s.Consumed(cur) {
				cur = s.Rest
				break
			}
			cur = s.Rest
		}
		return Success(values, cur, err)
	}
}

// ManyTill applies p until end succeeds. end is tried first at every step
// and may backtrack; its value is discarded.
func ManyTill[E, T, U any](p Parser[E, T], end Parser[E, U]) Parser[E, []T] {
	mustParser(p, "ManyTill")
	mustParser(end, "ManyTill")
	end = Try(end)
	return func(in input.Input[E]) Result[E, []T] {
		values := []T{}
		var err *Error
		cur := in
		for {
			e := end(cur)
			err = Merge(err, e.Err)
			if e.OK {
				return Success(values, e.Rest, err)
			}
			r := p(cur)
			err = Merge(err, r.Err)
			if !r.OK {
				return Failure[E, []T](err, r.Rest)
			}
			if !r.Consumed(cur) {
				// p matched nothing and end cannot match here either.
				return Failure[E, []T](err, cur)
			}
			values = append(values, r.Value)
			cur = r.Rest
		}
	}
}

// ChainL1 parses one or more p separated by op and folds them from the
// left with the functions op returns.
func ChainL1[E, T any](p Parser[E, T], op Parser[E, func(T, T) T]) Parser[E, T] {
	mustParser(p, "ChainL1")
	mustParser(op, "ChainL1")
	step := Seq2(op, p)
	return func(in input.Input[E]) Result[E, T] {
		r := p(in)
		if !r.OK {
			return r
		}
		acc, cur, err := r.Value, r.Rest, r.Err
		for {
			s := step(cur)
			err = Merge(err, s.Err)
			if !s.OK {
				if s.Consumed(cur) {
					return Failure[E, T](err, s.Rest)
				}
				return Success(acc, cur, err)
			}
			acc = s.Value.First(acc, s.Value.Second)
			cur = s.Rest
		}
	}
}

// ChainR1 parses one or more p separated by op and folds them from the
// right.
func ChainR1[E, T any](p Parser[E, T], op Parser[E, func(T, T) T]) Parser[E, T] {
	mustParser(p, "ChainR1")
	mustParser(op, "ChainR1")
	step := Seq2(op, p)
	return func(in input.Input[E]) Result[E, T] {
		r := p(in)
		if !r.OK {
			return r
		}
		operands := []T{r.Value}
		var ops []func(T, T) T
		cur, err := r.Rest, r.Err
		for {
			s := step(cur)
			err = Merge(err, s.Err)
			if !s.OK {
				if s.Consumed(cur) {
					return Failure[E, T](err, s.Rest)
				}
				break
			}
			ops = append(ops, s.Value.First)
			operands = append(operands, s.Value.Second)
			cur = s.Rest
		}
		acc := operands[len(operands)-1]
		for i := len(ops) - 1; i >= 0; i-- {
			acc = ops[i](operands[i], acc)
		}
		return Success(acc, cur, err)
	}
}

// ChainL is ChainL1 that returns def when there is no p at all.
func ChainL[E, T any](p Parser[E, T], op Parser[E, func(T, T) T], def T) Parser[E, T] {
	return OptionalOr(ChainL1(p, op), def)
}

// ChainR is ChainR1 that returns def when there is no p at all.
func ChainR[E, T any](p Parser[E, T], op Parser[E, func(T, T) T], def T) Parser[E, T] {
	return OptionalOr(ChainR1(p, op), def)
}
