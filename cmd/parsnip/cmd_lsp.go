package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/parsnip/grammar"
	"github.com/dhamidi/parsnip/lsp"
)

func newLSPCmd() *cobra.Command {
	var grammarName string

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start a language server that reports parse errors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := grammar.Lookup(grammarName)
			if err != nil {
				return err
			}
			server := lsp.NewServer(g, version)
			return server.RunStdio()
		},
	}

	cmd.Flags().StringVarP(&grammarName, "grammar", "g", "python", "grammar of the documents")

	return cmd
}
