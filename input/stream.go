package input

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const streamBlockSize = 4096

// streamSource decodes a seekable reader into UTF-8 on demand. Decoded text
// is kept, so every offset reads back the same rune no matter how often a
// cursor revisits it.
type streamSource struct {
	mu       sync.Mutex
	r        io.ReadSeeker
	dec      transform.Transformer
	base     int64 // reader offset at creation
	raw      int64 // raw bytes read past base
	pending  []byte
	buf      []byte
	eof      bool
	err      error
	tabWidth int
}

type stream struct {
	src   *streamSource
	pos   Position
	r     rune
	width int
}

// FromStream returns a cursor over the text read from rs, decoded with enc.
// A nil enc means UTF-8. The reader is repositioned before every read, so the
// caller may use it in between, but it is never closed.
func FromStream(rs io.ReadSeeker, enc encoding.Encoding, opts ...Option) (Input[rune], error) {
	if rs == nil {
		panic("parsnip: nil stream")
	}
	o := buildOptions(opts)
	if enc == nil {
		enc = xunicode.UTF8
	}
	base, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("locate stream: %w", err)
	}
	src := &streamSource{
		r:        rs,
		dec:      enc.NewDecoder(),
		base:     base,
		tabWidth: o.tabWidth,
	}
	return src.cursor(Start), nil
}

func (s *streamSource) cursor(pos Position) stream {
	c := stream{src: s, pos: pos}
	c.r, c.width = s.at(pos.Offset)
	return c
}

// at decodes the rune at the given byte offset of the decoded text.
func (s *streamSource) at(off int) (rune, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for off >= len(s.buf) && !s.eof {
		s.fill()
	}
	if off >= len(s.buf) {
		return 0, 0
	}
	return utf8.DecodeRune(s.buf[off:])
}

func (s *streamSource) rest(off int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for !s.eof {
		s.fill()
	}
	if off >= len(s.buf) {
		return ""
	}
	return string(s.buf[off:])
}

func (s *streamSource) fill() {
	if _, err := s.r.Seek(s.base+s.raw, io.SeekStart); err != nil {
		s.stop(fmt.Errorf("seek stream: %w", err))
		return
	}
	chunk := make([]byte, streamBlockSize)
	n, err := s.r.Read(chunk)
	s.raw += int64(n)
	s.pending = append(s.pending, chunk[:n]...)
	atEOF := errors.Is(err, io.EOF) || (n == 0 && err == nil)
	if err != nil && !atEOF {
		s.stop(fmt.Errorf("read stream: %w", err))
		return
	}
	s.decode(atEOF)
	if atEOF {
		s.eof = true
	}
}

func (s *streamSource) decode(atEOF bool) {
	dst := make([]byte, 4*len(s.pending)+utf8.UTFMax)
	for {
		nDst, nSrc, err := s.dec.Transform(dst, s.pending, atEOF)
		s.buf = append(s.buf, dst[:nDst]...)
		s.pending = append([]byte(nil), s.pending[nSrc:]...)
		switch {
		case err == nil, errors.Is(err, transform.ErrShortSrc):
			return
		case errors.Is(err, transform.ErrShortDst):
			dst = make([]byte, 2*len(dst))
		default:
			s.stop(fmt.Errorf("decode stream: %w", err))
			return
		}
	}
}

func (s *streamSource) stop(err error) {
	s.err = err
	s.eof = true
}

func (c stream) Current() (rune, bool) {
	if c.width == 0 {
		return 0, false
	}
	return c.r, true
}

func (c stream) Advance() Input[rune] {
	if c.width == 0 {
		return c
	}
	return c.src.cursor(c.pos.next(c.r, c.width, c.src.tabWidth))
}

func (c stream) AtEnd() bool {
	return c.width == 0
}

func (c stream) Position() Position {
	return c.pos
}

func (c stream) Rest() string {
	return c.src.rest(c.pos.Offset)
}

func (c stream) Err() error {
	c.src.mu.Lock()
	defer c.src.mu.Unlock()
	return c.src.err
}
