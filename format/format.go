// Package format encodes parse results and diagnostics.
package format

import (
	"encoding"
	"fmt"
	"io"
	"sort"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(v any) error
}

var encoders = map[string]func(io.Writer) Encoder{
	"json": func(w io.Writer) Encoder { return NewJSONEncoder(w) },
	"yaml": func(w io.Writer) Encoder { return NewYAMLEncoder(w) },
	"tree": func(w io.Writer) Encoder { return NewTreeEncoder(w) },
}

// Names lists the formats New accepts.
func Names() []string {
	names := make([]string, 0, len(encoders))
	for name := range encoders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New returns the encoder for the named format writing to w.
func New(name string, w io.Writer) (Encoder, error) {
	mk, ok := encoders[name]
	if !ok {
		return nil, fmt.Errorf("unknown format %q (want one of %v)", name, Names())
	}
	return mk(w), nil
}

func write(w io.Writer, m encoding.TextMarshaler) error {
	text, err := m.MarshalText()
	if err != nil {
		return err
	}
	_, err = w.Write(text)
	return err
}
