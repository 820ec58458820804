package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"miniscript/pkg/compiler"
	"miniscript/pkg/report"
	"miniscript/pkg/utils"
)

func newCheckCmd(a *app) *cobra.Command {
	var policy string
	c := &cobra.Command{
		Use:   "check <file>",
		Short: "Run the full front end and print diagnostics and symbols",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.compilerOptions(cmd, policy, true)
			if err != nil {
				return err
			}
			src, err := a.readSource(args[0])
			if err != nil {
				return err
			}
			return a.check(cmd.OutOrStdout(), src, opts)
		},
	}
	c.Flags().StringVar(&policy, "on-errors", "", "semantic error policy: prompt, abort or continue (default from config)")
	return c
}

// check compiles src and prints diagnostics, the symbol table and a summary
// line to w. It fails when the pipeline stopped.
func (a *app) check(w io.Writer, src utils.Source, opts compiler.Options) error {
	name := filepath.Base(src.Path)
	res, err := compiler.Compile(src.Text, opts)
	if res == nil {
		list := report.AsList(err)
		if list == nil {
			return err
		}
		report.WriteDiagnostics(w, list, src.Text, a.colored())
		return errReported
	}

	if len(res.Errors) > 0 {
		report.WriteDiagnostics(w, res.Errors, src.Text, a.colored())
		fmt.Fprintln(w)
	}
	if err != nil {
		if res.Decision == compiler.Abort {
			fmt.Fprintf(w, "%s: aborted with %d error(s)\n", name, len(res.Errors))
			return errReported
		}
		return err
	}

	report.WriteSymbols(w, res.Symbols)
	fmt.Fprintf(w, "%s: %d statement(s), %d symbol(s), %d error(s)\n", name, len(res.Program), res.Symbols.Len(), len(res.Errors))
	return nil
}
