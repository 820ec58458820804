package cmd

import (
	"github.com/spf13/cobra"

	"miniscript/pkg/compiler"
	"miniscript/pkg/report"
)

func newTokensCmd(a *app) *cobra.Command {
	var (
		format string
		all    bool
	)
	c := &cobra.Command{
		Use:   "tokens <file>",
		Short: "Print the token stream of a program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := a.readSource(args[0])
			if err != nil {
				return err
			}

			lexer := compiler.NewLexer(src.Text, a.cfg.Keywords())
			var tokens []compiler.Token
			if all {
				tokens, err = lexer.Scan()
			} else {
				tokens, err = lexer.Tokens()
			}
			if err != nil {
				report.WriteDiagnostics(cmd.ErrOrStderr(), report.AsList(err), src.Text, a.colored())
				return errReported
			}
			a.log.Debug("Lexed source", "tokens", len(tokens))
			return report.WriteTokens(cmd.OutOrStdout(), tokens, format)
		},
	}
	c.Flags().StringVar(&format, "format", report.FormatTable, "output format: table or yaml")
	c.Flags().BoolVar(&all, "all", false, "keep whitespace tokens")
	return c
}
