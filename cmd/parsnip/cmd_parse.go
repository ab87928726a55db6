package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/dhamidi/parsnip/format"
	"github.com/dhamidi/parsnip/grammar"
	"github.com/dhamidi/parsnip/parse"
	"github.com/dhamidi/parsnip/watch"
)

func newParseCmd() *cobra.Command {
	var grammarName string
	var outputFormat string
	var encodingName string
	var watchFile bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a file with a built-in grammar and dump the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]

			g, err := grammar.Lookup(grammarName)
			if err != nil {
				return err
			}
			enc, err := lookupEncoding(encodingName)
			if err != nil {
				return err
			}
			if _, err := format.New(outputFormat, io.Discard); err != nil {
				return err
			}

			run := func() error {
				v, src, err := parseFile(g, enc, filename)
				if err != nil {
					reportError(cmd.ErrOrStderr(), filename, src, err)
					return errReported
				}
				encoder, _ := format.New(outputFormat, cmd.OutOrStdout())
				if err := encoder.Encode(v); err != nil {
					return fmt.Errorf("encode %s: %w", outputFormat, err)
				}
				return nil
			}

			if !watchFile {
				return run()
			}

			run()
			w, err := watch.New(func(string) { run() }, filename)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&grammarName, "grammar", "g", "json", "grammar to parse with (see 'parsnip grammars')")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "tree", fmt.Sprintf("output format %v", format.Names()))
	cmd.Flags().StringVar(&encodingName, "encoding", "", "character encoding of the file, as an IANA name (default UTF-8)")
	cmd.Flags().BoolVarP(&watchFile, "watch", "w", false, "parse again whenever the file changes")

	return cmd
}

// lookupEncoding returns the encoding with the IANA name, or nil for
// UTF-8.
func lookupEncoding(name string) (encoding.Encoding, error) {
	if name == "" {
		return nil, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("look up encoding: %w", err)
	}
	if enc == nil {
		return nil, fmt.Errorf("look up encoding: %s is not supported", name)
	}
	return enc, nil
}

// parseFile parses filename with g and also returns the decoded source
// for error reports.
func parseFile(g grammar.Grammar, enc encoding.Encoding, filename string) (any, string, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, "", fmt.Errorf("read file: %w", err)
	}
	if enc == nil {
		v, err := g.Parse(string(data))
		return v, string(data), err
	}

	src, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, "", fmt.Errorf("decode %s: %w", filename, err)
	}
	if g.Decode != nil {
		v, err := g.Decode(bytes.NewReader(data), enc)
		return v, string(src), err
	}
	v, err := g.Parse(string(src))
	return v, string(src), err
}

// reportError writes parse errors with a source excerpt and anything
// else as is.
func reportError(w io.Writer, filename, src string, err error) {
	var perr *parse.Error
	if errors.As(err, &perr) {
		fmt.Fprint(w, format.Diagnostic{Filename: filename, Source: src, Err: perr})
		return
	}
	fmt.Fprintln(w, err)
}
