package cmd

import (
	"github.com/spf13/cobra"

	"miniscript/pkg/compiler"
	"miniscript/pkg/report"
)

func newParseCmd(a *app) *cobra.Command {
	var keepGoing bool
	c := &cobra.Command{
		Use:   "parse <file>",
		Short: "Print the syntax tree of a program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := a.readSource(args[0])
			if err != nil {
				return err
			}
			tokens, err := compiler.Tokenize(src.Text, a.cfg.Keywords())
			if err != nil {
				report.WriteDiagnostics(cmd.ErrOrStderr(), report.AsList(err), src.Text, a.colored())
				return errReported
			}

			var (
				program []compiler.Stmt
				errs    compiler.ErrorList
			)
			if keepGoing {
				program, errs = compiler.ParseAll(tokens)
			} else {
				program, err = compiler.Parse(tokens)
				errs = report.AsList(err)
			}

			report.WriteAST(cmd.OutOrStdout(), program)
			if len(errs) > 0 {
				report.WriteDiagnostics(cmd.ErrOrStderr(), errs, src.Text, a.colored())
				return errReported
			}
			return nil
		},
	}
	c.Flags().BoolVar(&keepGoing, "keep-going", false, "report every syntax error instead of stopping at the first")
	return c
}
