package release

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"wty/internal/catalog"
	"wty/internal/config"
	"wty/internal/dispatch"
	"wty/internal/download"
	"wty/internal/errs"
	"wty/internal/history"
	"wty/internal/kty"
	"wty/internal/matrix"
	"wty/internal/report"
)

// Recorder persists run history. Injected so the controller never depends on
// a concrete database.
type Recorder interface {
	BeginRun(ctx context.Context, info history.RunInfo) (string, error)
	RecordOutcome(ctx context.Context, runID string, outcome history.Outcome) error
	FinishRun(ctx context.Context, runID, status string, dictCount int, totalBytes int64, runErr error) error
}

// NopRecorder discards all history writes.
type NopRecorder struct{}

func (NopRecorder) BeginRun(context.Context, history.RunInfo) (string, error) { return "", nil }
func (NopRecorder) RecordOutcome(context.Context, string, history.Outcome) error {
	return nil
}
func (NopRecorder) FinishRun(context.Context, string, string, int, int64, error) error {
	return nil
}

// Resetter is the optional sink capability to truncate the persisted log at
// the start of a fresh run.
type Resetter interface {
	Reset() error
}

// Options are the per-run build parameters.
type Options struct {
	// Only restricts the run to one dictionary type when non-empty.
	Only matrix.Type
	// Jobs is the requested worker count, capped at the CPU count.
	Jobs int
	// Verbose controls how much tool output the run log retains.
	Verbose int
	// DryRun renders every command without executing anything.
	DryRun bool
}

// Runner drives a full release build: stale-state report, download pre-pass,
// the (type, source, target) job matrix, sorted log aggregation, stats, and
// index extraction. It owns the run log for the duration of the run.
type Runner struct {
	cfg      *config.Config
	cat      *catalog.Catalog
	client   *kty.Client
	log      *report.Logger
	sink     Resetter
	recorder Recorder
	slog     *slog.Logger
	now      func() time.Time
}

// NewRunner builds a release runner. sink and recorder may be nil.
func NewRunner(cfg *config.Config, cat *catalog.Catalog, client *kty.Client, log *report.Logger, sink Resetter, recorder Recorder, opLog *slog.Logger) *Runner {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	if opLog == nil {
		opLog = slog.Default()
	}
	return &Runner{
		cfg:      cfg,
		cat:      cat,
		client:   client,
		log:      log,
		sink:     sink,
		recorder: recorder,
		slog:     opLog.With("component", "release"),
		now:      time.Now,
	}
}

// Version returns the calver release version for a run starting now.
func (r *Runner) Version() string {
	return r.now().Format("2006-01-02")
}

// Build runs the release end to end. It returns a tagged error on the first
// fatal job outcome; benign outcomes never fail a run.
func (r *Runner) Build(ctx context.Context, opts Options) error {
	start := r.now()

	if err := r.cfg.EnsureDirectories(); err != nil {
		return errs.Wrap(errs.ErrConfiguration, "release", "build", "prepare directories", err)
	}

	dispatcher := dispatch.New(r.client, opts.Jobs, opts.Verbose, opts.DryRun, r.slog)

	r.log.Eventf("info", "n_workers %d", dispatcher.Workers())
	r.log.Eventf("info", "type=%s jobs=%d dry_run=%t verbose=%d", optsType(opts), opts.Jobs, opts.DryRun, opts.Verbose)
	report.PreviousFiles(r.log, "info", r.cfg.ReleaseDir(), "")
	report.PreviousFiles(r.log, "info", r.cfg.ReleaseDir(), ".zip")
	r.log.Blank()

	if r.sink != nil {
		if err := r.sink.Reset(); err != nil {
			return errs.Wrap(errs.ErrConfiguration, "release", "build", "reset run log", err)
		}
	}

	version, err := r.prelude(ctx)
	if err != nil {
		return err
	}

	entries := matrix.Plan(r.cat, opts.Only)
	editions := r.cat.Editions()

	r.log.Eventf("ALL", "Editions:  %s", joinSorted(editions))
	r.log.Eventf("ALL", "Languages: %s", joinSorted(r.cat.ISOs()))
	r.log.Eventf("ALL", "Dictionaries: %s", joinTypes(entries))
	r.log.Blank()

	// The pre-pass guarantees exactly one download per edition; otherwise
	// every worker missing the corpus on disk would fetch it itself.
	coordinator := download.NewCoordinator(r.client, r.log, r.slog, r.cfg.DownloadDir())
	coordinator.Verbose = opts.Verbose
	coordinator.DryRun = opts.DryRun
	if err := coordinator.Run(ctx, editions); err != nil {
		return errs.Wrap(errs.ErrExternalTool, "release", "download", "download pre-pass", err)
	}

	runID, err := r.recorder.BeginRun(ctx, history.RunInfo{
		ToolVersion:    version,
		ReleaseVersion: r.Version(),
		DictType:       string(opts.Only),
		DryRun:         opts.DryRun,
		Workers:        dispatcher.Workers(),
	})
	if err != nil {
		r.slog.Warn("history begin failed", "error", err)
	}

	r.log.Event("ALL", "Starting...")
	for _, entry := range entries {
		if err := r.runEntry(ctx, dispatcher, entry, runID); err != nil {
			r.finishRun(ctx, runID, history.StatusFailed, err)
			return err
		}
	}

	total, err := report.Scan(r.cfg.ReleaseDir(), report.ScanOptions{Suffix: ".zip"})
	if err != nil {
		r.slog.Warn("release dir scan failed", "error", err)
	}
	r.log.Eventf("ALL", "Finished! (%.2fs, %s, %d dicts)", r.now().Sub(start).Seconds(), total.HumanBytes(), total.Files)

	if !opts.DryRun {
		if err := ExtractIndexes(r.cfg.DictDir(), r.cfg.IndexDir(), r.log); err != nil {
			r.finishRun(ctx, runID, history.StatusFailed, err)
			return err
		}
	}

	r.finishRunStats(ctx, runID, total)
	if err := r.log.Err(); err != nil {
		return errs.Wrap(errs.ErrConfiguration, "release", "build", "persist run log", err)
	}
	return nil
}

// prelude probes the tool and logs the run header.
func (r *Runner) prelude(ctx context.Context) (string, error) {
	version, err := r.client.Version(ctx)
	if err != nil {
		return "", errs.Wrap(errs.ErrExternalTool, "release", "prelude", "probe tool version", err)
	}
	r.log.Event("prelude", version)
	r.log.Eventf("prelude", "dic %s", r.Version())
	r.log.Blank()
	return version, nil
}

// runEntry walks one dictionary type: sources sequentially, targets through
// the pool, group lines sorted before emission.
func (r *Runner) runEntry(ctx context.Context, dispatcher *dispatch.Dispatcher, entry matrix.Entry, runID string) error {
	typeStart := r.now()
	r.log.Event(string(entry.Type), "Making dictionaries...")

	targetSet := make(map[string]struct{})
	for _, source := range entry.Sources {
		sourceStart := r.now()
		label := fmt.Sprintf("%s-%s", source, entry.Type)

		jobs := entry.Jobs(source)
		for _, job := range jobs {
			targetSet[job.Target] = struct{}{}
		}

		results := dispatcher.RunGroup(ctx, jobs)

		var lines []string
		for _, res := range results {
			r.recordOutcome(ctx, runID, res)
			if failure := r.checkFatal(res); failure != nil {
				return failure
			}
			lines = append(lines, res.Lines...)
		}
		r.log.EmitSorted(lines)
		r.log.Eventf(label, "Finished dict (%.2fs)", r.now().Sub(sourceStart).Seconds())
	}

	pattern := matrix.Pattern(r.cfg.Tool.DictName, entry.Type, entry.Sources, setToSlice(targetSet))
	stats, err := report.Scan(r.cfg.ReleaseDir(), report.ScanOptions{Pattern: pattern})
	if err != nil {
		r.slog.Warn("type stats scan failed", "type", entry.Type, "error", err)
	}
	r.log.Eventf(string(entry.Type), "Finished dicts (%.2fs, %s)", r.now().Sub(typeStart).Seconds(), stats.HumanBytes())
	return nil
}

// checkFatal reports a job failure and builds the run-aborting error.
// Cancelled siblings of an already-failed group are not failures themselves.
func (r *Runner) checkFatal(res dispatch.Result) error {
	if res.Err != nil {
		if ctxErr := contextCause(res.Err); ctxErr != nil {
			return nil
		}
		inv := r.client.Invocation(string(res.Job.Type), res.Job.Positional())
		r.log.Eventf("err", "Command failed: %s", inv.String())
		r.log.Eventf("err", "%v", res.Err)
		return errs.Wrap(errs.ErrExternalTool, "release", "build", res.Job.String(), res.Err)
	}
	if res.Class != kty.ClassFatal {
		return nil
	}
	inv := r.client.Invocation(string(res.Job.Type), res.Job.Positional())
	r.log.Eventf("err", "Command failed: %s", inv.String())
	r.log.Eventf("err-stdout", "%s", strings.Join(res.Stdout, "\n"))
	r.log.Eventf("err-stderr", "%s", strings.Join(res.Stderr, "\n"))
	return errs.Wrap(errs.ErrExternalTool, "release", "build",
		fmt.Sprintf("%s exited %d", res.Job.String(), res.ExitCode), nil)
}

func (r *Runner) recordOutcome(ctx context.Context, runID string, res dispatch.Result) {
	if runID == "" || res.Err != nil {
		return
	}
	err := r.recorder.RecordOutcome(ctx, runID, history.Outcome{
		DictType: string(res.Job.Type),
		Source:   res.Job.Source,
		Target:   res.Job.Target,
		Class:    res.Class.String(),
		ExitCode: res.ExitCode,
	})
	if err != nil {
		r.slog.Warn("history outcome write failed", "error", err)
	}
}

func (r *Runner) finishRun(ctx context.Context, runID, status string, runErr error) {
	if runID == "" {
		return
	}
	if err := r.recorder.FinishRun(ctx, runID, status, 0, 0, runErr); err != nil {
		r.slog.Warn("history finish failed", "error", err)
	}
}

func (r *Runner) finishRunStats(ctx context.Context, runID string, total report.Stats) {
	if runID == "" {
		return
	}
	if err := r.recorder.FinishRun(ctx, runID, history.StatusSucceeded, total.Files, total.Bytes, nil); err != nil {
		r.slog.Warn("history finish failed", "error", err)
	}
}

func contextCause(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}

func optsType(opts Options) string {
	if opts.Only == "" {
		return "all"
	}
	return string(opts.Only)
}

func joinSorted(values []string) string {
	sorted := make([]string, len(values))
	copy(sorted, values)
	sort.Strings(sorted)
	return strings.Join(sorted, " ")
}

func joinTypes(entries []matrix.Entry) string {
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, string(entry.Type))
	}
	return strings.Join(names, " ")
}

func setToSlice(set map[string]struct{}) []string {
	values := make([]string, 0, len(set))
	for value := range set {
		values = append(values, value)
	}
	sort.Strings(values)
	return values
}
