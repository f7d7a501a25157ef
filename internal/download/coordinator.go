package download

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"wty/internal/kty"
	"wty/internal/report"
)

const passLabel = "dl"

// OperationName is the tool subcommand the coordinator drives.
const OperationName = "download"

// Coordinator runs the corpus download pre-pass: one tool invocation per
// edition, strictly sequential, before any dictionary jobs dispatch. A failed
// download is logged and the pass continues; the affected jobs surface their
// own outcomes later.
type Coordinator struct {
	client *kty.Client
	log    *report.Logger
	slog   *slog.Logger

	// DownloadDir is where the tool stores fetched corpora; sizes reported
	// per edition come from scanning it.
	DownloadDir string
	// Verbose is the run's verbosity; download progress lines are retained
	// at verbosity 1 and above.
	Verbose int
	// DryRun logs each invocation without executing it.
	DryRun bool
}

// NewCoordinator builds a download coordinator.
func NewCoordinator(client *kty.Client, log *report.Logger, opLog *slog.Logger, downloadDir string) *Coordinator {
	if opLog == nil {
		opLog = slog.Default()
	}
	return &Coordinator{
		client:      client,
		log:         log,
		slog:        opLog.With("component", "download"),
		DownloadDir: downloadDir,
	}
}

// Run downloads the corpus for every edition in order. Only a context error
// aborts the pass; tool failures degrade to log lines.
func (c *Coordinator) Run(ctx context.Context, editions []string) error {
	start := time.Now()

	c.log.Event(passLabel, "Downloading editions...")
	report.PreviousFiles(c.log, passLabel, c.DownloadDir, "")

	for _, source := range editions {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.fetch(ctx, source)
	}

	total, err := report.Scan(c.DownloadDir, report.ScanOptions{})
	if err != nil {
		c.slog.Warn("download dir scan failed", "error", err)
	}
	c.log.Eventf(passLabel, "Finished downloads (%.2fs, %s)", time.Since(start).Seconds(), total.HumanBytes())
	c.log.Blank()
	return nil
}

func (c *Coordinator) fetch(ctx context.Context, source string) {
	label := fmt.Sprintf("dl-%s", source)
	positional := []string{source, source}

	if c.DryRun {
		c.log.Event(label, c.client.Invocation(OperationName, positional).String())
		return
	}

	c.slog.Info("downloading edition", "source", source)
	outcome, err := c.client.Run(ctx, OperationName, positional)
	if err != nil {
		c.slog.Warn("download invocation failed", "source", source, "error", err)
		c.log.Eventf(label, "Download failed: %v", err)
		return
	}
	if outcome.ExitCode != 0 {
		c.slog.Warn("download exited nonzero", "source", source, "exit_code", outcome.ExitCode)
		c.log.Eventf(label, "Download failed (exit %d)", outcome.ExitCode)
		return
	}

	kept := kty.FilterLines(outcome.Stdout, kty.FilterOptions{Verbose: c.Verbose, Downloads: true})
	for _, line := range kept {
		c.log.Line(line)
	}

	size, err := report.Scan(c.DownloadDir, report.ScanOptions{Suffix: fmt.Sprintf("%s-extract.jsonl", source)})
	if err != nil {
		c.slog.Warn("download dir scan failed", "source", source, "error", err)
	}
	c.log.Eventf(label, "Finished download (%s)", size.HumanBytes())
}
