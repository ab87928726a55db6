package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/parsnip/grammar/arith"
)

func newEvalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "eval <expression>...",
		Short: "Evaluate an integer arithmetic expression",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := strings.Join(args, " ")
			n, err := arith.Eval(src)
			if err != nil {
				reportError(cmd.ErrOrStderr(), "", src, err)
				return errReported
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
}
