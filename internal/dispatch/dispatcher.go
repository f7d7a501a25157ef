package dispatch

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"wty/internal/kty"
	"wty/internal/matrix"
)

// Result is the outcome of one dictionary job.
type Result struct {
	Job      matrix.Job
	Class    kty.Class
	ExitCode int
	// Lines are the retained output lines for the sorted group log. Empty
	// for benign non-success outcomes.
	Lines []string
	// Stdout and Stderr carry the raw capture, kept for fatal diagnostics.
	Stdout []string
	Stderr []string
	// Err is a process spawn or context error; classification does not
	// apply when it is set.
	Err error
}

// Dispatcher runs the target jobs of one (type, source) group on a bounded
// worker pool. Types and sources are walked sequentially by the caller; only
// targets fan out.
type Dispatcher struct {
	client  *kty.Client
	workers int
	verbose int
	dryRun  bool
	slog    *slog.Logger
}

// New builds a dispatcher. The pool is capped at the machine's CPU count
// regardless of the requested job count.
func New(client *kty.Client, jobs, verbose int, dryRun bool, opLog *slog.Logger) *Dispatcher {
	workers := jobs
	if workers < 1 {
		workers = 1
	}
	if n := runtime.NumCPU(); workers > n {
		workers = n
	}
	if opLog == nil {
		opLog = slog.Default()
	}
	return &Dispatcher{
		client:  client,
		workers: workers,
		verbose: verbose,
		dryRun:  dryRun,
		slog:    opLog.With("component", "dispatch"),
	}
}

// Workers returns the effective pool size.
func (d *Dispatcher) Workers() int {
	return d.workers
}

// RunGroup executes every runnable job of one group and blocks until all have
// finished. Results keep the submission order. A fatal outcome cancels the
// group's remaining jobs; those report a context error instead of a class.
func (d *Dispatcher) RunGroup(ctx context.Context, jobs []matrix.Job) []Result {
	runnable := make([]matrix.Job, 0, len(jobs))
	for _, job := range jobs {
		if job.Skip() {
			continue
		}
		runnable = append(runnable, job)
	}
	if len(runnable) == 0 {
		return nil
	}

	groupCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := make(chan struct{}, d.workers)
	results := make([]Result, len(runnable))

	var wg sync.WaitGroup
	for i, job := range runnable {
		wg.Add(1)
		go func(i int, job matrix.Job) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			res := d.runJob(groupCtx, job)
			results[i] = res
			if res.Err == nil && res.Class == kty.ClassFatal {
				cancel()
			}
		}(i, job)
	}
	wg.Wait()
	return results
}

func (d *Dispatcher) runJob(ctx context.Context, job matrix.Job) Result {
	res := Result{Job: job}

	if d.dryRun {
		inv := d.client.Invocation(string(job.Type), job.Positional())
		res.Class = kty.ClassSuccess
		res.Lines = []string{inv.String()}
		return res
	}

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	d.slog.Debug("running job", "job", job.String())
	outcome, err := d.client.Run(ctx, string(job.Type), job.Positional())
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			res.Err = ctxErr
			return res
		}
		res.Err = err
		return res
	}

	// A process killed by cancellation reports exit -1 without a spawn
	// error; that is an interrupt, not a tool failure.
	if outcome.ExitCode == -1 {
		if ctxErr := ctx.Err(); ctxErr != nil {
			res.Err = ctxErr
			return res
		}
	}

	res.ExitCode = outcome.ExitCode
	res.Class = kty.Classify(string(job.Type), job.Positional(), outcome.ExitCode)
	switch res.Class {
	case kty.ClassSuccess:
		res.Lines = kty.FilterLines(outcome.Stdout, kty.FilterOptions{Verbose: d.verbose})
	case kty.ClassFatal:
		res.Stdout = outcome.Stdout
		res.Stderr = outcome.Stderr
	}
	return res
}
