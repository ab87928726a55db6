package input

import "unicode/utf8"

type textSource struct {
	text     string
	tabWidth int
}

type text struct {
	src   *textSource
	pos   Position
	r     rune
	width int
}

// FromString returns a cursor over the runes of s.
func FromString(s string, opts ...Option) Input[rune] {
	o := buildOptions(opts)
	return newText(&textSource{text: s, tabWidth: o.tabWidth}, Start)
}

func newText(src *textSource, pos Position) text {
	t := text{src: src, pos: pos}
	if pos.Offset < len(src.text) {
		t.r, t.width = utf8.DecodeRuneInString(src.text[pos.Offset:])
	}
	return t
}

func (t text) Current() (rune, bool) {
	if t.width == 0 {
		return 0, false
	}
	return t.r, true
}

func (t text) Advance() Input[rune] {
	if t.width == 0 {
		return t
	}
	return newText(t.src, t.pos.next(t.r, t.width, t.src.tabWidth))
}

func (t text) AtEnd() bool {
	return t.width == 0
}

func (t text) Position() Position {
	return t.pos
}

func (t text) Rest() string {
	return t.src.text[t.pos.Offset:]
}
