package cmd

import (
	"github.com/spf13/cobra"

	"miniscript/pkg/batch"
	"miniscript/pkg/report"
	"miniscript/pkg/utils"
)

func newBatchCmd(a *app) *cobra.Command {
	var (
		policy  string
		workers int
	)
	c := &cobra.Command{
		Use:   "batch <files or directories...>",
		Short: "Check many programs in parallel",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.compilerOptions(cmd, policy, false)
			if err != nil {
				return err
			}
			paths, err := utils.ExpandSources(args)
			if err != nil {
				return err
			}

			jobs := make([]batch.Job, 0, len(paths))
			for _, p := range paths {
				src, err := a.readSource(p)
				if err != nil {
					return err
				}
				jobs = append(jobs, batch.Job{Name: p, Source: src.Text})
			}

			if workers <= 0 {
				workers = a.cfg.Batch.Workers
			}
			results, err := batch.Run(cmd.Context(), jobs, batch.Options{
				Compile: opts,
				Workers: workers,
				Logger:  a.log,
			})
			report.WriteBatch(cmd.OutOrStdout(), results)
			if err != nil {
				return err
			}
			if batch.Summarize(results).Failed > 0 {
				return errReported
			}
			return nil
		},
	}
	c.Flags().StringVar(&policy, "on-errors", "", "semantic error policy: abort or continue (prompt aborts)")
	c.Flags().IntVar(&workers, "workers", 0, "parallel jobs (default from config)")
	return c
}
