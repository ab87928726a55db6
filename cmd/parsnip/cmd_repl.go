package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/parsnip/grammar"
	"github.com/dhamidi/parsnip/repl"
)

func newReplCmd() *cobra.Command {
	var grammarName string

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Parse lines interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := grammar.Lookup(grammarName)
			if err != nil {
				return err
			}
			return repl.Run(repl.NewSession(g), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&grammarName, "grammar", "g", "arith", "grammar to start with")

	return cmd
}
