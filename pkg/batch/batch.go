// Package batch checks many independent programs concurrently. Every job gets
// its own tokens, AST and symbol table; nothing is shared between runs except
// the read-only options.
package batch

import (
	"context"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/inconshreveable/log15"
	"golang.org/x/sync/errgroup"

	"miniscript/pkg/compiler"
)

// Job is one program to check.
type Job struct {
	Name   string
	Source string
}

// Result is the outcome of one job.
type Result struct {
	Name    string
	RunID   string
	Result  *compiler.Result // nil when lexing or parsing failed
	Err     error
	Elapsed time.Duration
}

// OK reports whether the job compiled without any error.
func (r Result) OK() bool {
	return r.Err == nil && r.Result != nil && len(r.Result.Errors) == 0
}

// Options configures a batch run.
type Options struct {
	// Compile is shared by every job. OnSemanticErrors must be safe for
	// concurrent use; nil aborts.
	Compile compiler.Options
	// Workers bounds concurrent jobs; zero or less means runtime.NumCPU.
	Workers int
	Logger  log15.Logger
}

// Summary counts job outcomes.
type Summary struct {
	Total, OK, Failed int
}

// Summarize counts the successful and failed results.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		if r.OK() {
			s.OK++
		} else {
			s.Failed++
		}
	}
	return s
}

// Run checks every job and returns results in input order. Compile errors
// are recorded per job and never stop the batch. When ctx is cancelled no new
// jobs start; unstarted jobs carry the context error and Run returns it.
func Run(ctx context.Context, jobs []Job, opts Options) ([]Result, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log15.New()
		logger.SetHandler(log15.DiscardHandler())
	}

	results := make([]Result, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, job := range jobs {
		if err := gctx.Err(); err != nil {
			for j := i; j < len(jobs); j++ {
				results[j] = Result{Name: jobs[j].Name, Err: err}
			}
			break
		}
		i, job := i, job
		g.Go(func() error {
			results[i] = runOne(gctx, job, opts.Compile, logger)
			return nil
		})
	}
	// Jobs record their own errors, so Wait never fails.
	_ = g.Wait()

	logger.Debug("Batch finished", "jobs", len(jobs), "workers", workers)
	return results, ctx.Err()
}

func runOne(ctx context.Context, job Job, opts compiler.Options, logger log15.Logger) Result {
	res := Result{Name: job.Name, RunID: uuid.New().String()}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	log := logger.New("run", res.RunID, "name", job.Name)
	opts.Logger = log
	start := time.Now()
	res.Result, res.Err = compiler.Compile(job.Source, opts)
	res.Elapsed = time.Since(start)

	if res.Err != nil {
		log.Info("Job failed", "err", res.Err)
	} else {
		log.Debug("Job done", "elapsed", res.Elapsed)
	}
	return res
}
