package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"miniscript/pkg/watch"
)

func newWatchCmd(a *app) *cobra.Command {
	var policy string
	c := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-check a program whenever it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.compilerOptions(cmd, policy, false)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			out := cmd.OutOrStdout()
			run := func() {
				fmt.Fprintf(out, "--- %s\n", time.Now().Format(time.TimeOnly))
				src, err := a.readSource(args[0])
				if err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), err)
					return
				}
				if err := a.check(out, src, opts); err != nil && !errors.Is(err, errReported) {
					fmt.Fprintln(cmd.ErrOrStderr(), err)
				}
			}

			run()
			return watch.Watch(ctx, args[0], run, watch.Options{Logger: a.log})
		},
	}
	c.Flags().StringVar(&policy, "on-errors", "", "semantic error policy: abort or continue (prompt aborts)")
	return c
}
