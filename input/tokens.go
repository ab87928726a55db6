package input

// UpdateFunc computes the position following tok, given the position of tok.
type UpdateFunc[T any] func(pos Position, tok T) Position

type tokenSource[T any] struct {
	toks   []T
	update UpdateFunc[T]
}

type tokens[T any] struct {
	src *tokenSource[T]
	pos Position
}

// FromTokens returns a cursor over an already tokenized input. update keeps
// line and column information; the cursor itself keeps Offset equal to the
// token index. A nil update advances the column by one per token.
func FromTokens[T any](toks []T, update UpdateFunc[T]) Input[T] {
	if update == nil {
		update = func(pos Position, _ T) Position {
			pos.Column++
			return pos
		}
	}
	return tokens[T]{src: &tokenSource[T]{toks: toks, update: update}, pos: Start}
}

func (t tokens[T]) Current() (T, bool) {
	if t.AtEnd() {
		var zero T
		return zero, false
	}
	return t.src.toks[t.pos.Offset], true
}

func (t tokens[T]) Advance() Input[T] {
	if t.AtEnd() {
		return t
	}
	next := t.src.update(t.pos, t.src.toks[t.pos.Offset])
	next.Offset = t.pos.Offset + 1
	return tokens[T]{src: t.src, pos: next}
}

func (t tokens[T]) AtEnd() bool {
	return t.pos.Offset >= len(t.src.toks)
}

func (t tokens[T]) Position() Position {
	return t.pos
}

// Remaining returns the tokens not yet consumed.
func (t tokens[T]) Remaining() []T {
	return t.src.toks[t.pos.Offset:]
}
