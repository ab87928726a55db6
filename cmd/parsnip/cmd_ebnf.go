package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/spf13/cobra"
	xebnf "golang.org/x/exp/ebnf"

	"github.com/dhamidi/parsnip/ebnf"
	"github.com/dhamidi/parsnip/format"
	"github.com/dhamidi/parsnip/parse"
)

func newEbnfCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ebnf",
		Short: "Check EBNF grammars and parse files with them",
	}

	cmd.AddCommand(newEbnfCheckCmd())
	cmd.AddCommand(newEbnfParseCmd())

	return cmd
}

func newEbnfCheckCmd() *cobra.Command {
	var startProduction string

	cmd := &cobra.Command{
		Use:   "check <grammar.ebnf>",
		Short: "Parse and verify an EBNF grammar file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			grammar, err := ebnf.LoadGrammar(args[0])
			if err != nil {
				printErrors(cmd.ErrOrStderr(), err)
				return errReported
			}

			if startProduction == "" {
				return nil
			}
			if err := xebnf.Verify(grammar, startProduction); err != nil {
				printErrors(cmd.ErrOrStderr(), err)
				return errReported
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&startProduction, "start", "", "start production for verification (if empty, only checks syntax)")

	return cmd
}

func newEbnfParseCmd() *cobra.Command {
	var startProduction string
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "parse <grammar.ebnf> <file>",
		Short: "Parse a file with an EBNF grammar and dump the syntax tree",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			encoder, err := format.New(outputFormat, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			grammar, err := ebnf.LoadGrammar(args[0])
			if err != nil {
				printErrors(cmd.ErrOrStderr(), err)
				return errReported
			}
			p, err := ebnf.Compile(grammar, startProduction)
			if err != nil {
				printErrors(cmd.ErrOrStderr(), err)
				return errReported
			}

			data, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("read file: %w", err)
			}
			node, err := parse.ParseString(p, string(data))
			if err != nil {
				reportError(cmd.ErrOrStderr(), args[1], string(data), err)
				return errReported
			}
			return encoder.Encode(node)
		},
	}

	cmd.Flags().StringVar(&startProduction, "start", "", "start production")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "tree", fmt.Sprintf("output format %v", format.Names()))
	cmd.MarkFlagRequired("start")

	return cmd
}

// printErrors prints one line per error when err wraps a list of errors,
// as grammar parsing and verification report them.
func printErrors(w io.Writer, err error) {
	for e := err; e != nil; e = errors.Unwrap(e) {
		v := reflect.ValueOf(e)
		if v.Kind() == reflect.Slice {
			for i := 0; i < v.Len(); i++ {
				fmt.Fprintln(w, v.Index(i).Interface())
			}
			return
		}
	}
	fmt.Fprintln(w, err)
}
