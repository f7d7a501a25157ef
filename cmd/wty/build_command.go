package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"wty/internal/history"
	"wty/internal/kty"
	"wty/internal/matrix"
	"wty/internal/release"
	"wty/internal/report"
)

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var (
		typeFlag    string
		jobsFlag    int
		dryRunFlag  bool
		verboseFlag int
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the dictionary release matrix",
		Long: `Build runs the external dictionary tool over every (type, source, target)
combination of the language catalog: corpora are downloaded once up front,
then targets fan out over a bounded worker pool while types and sources stay
sequential. The aggregated run log is deterministic for a given catalog.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			var only matrix.Type
			if typeFlag != "" {
				only, err = matrix.ParseType(typeFlag)
				if err != nil {
					return err
				}
			}
			jobs := jobsFlag
			if jobs <= 0 {
				jobs = cfg.Build.Jobs
			}
			verbose := verboseFlag
			if verbose == 0 {
				verbose = cfg.Build.Verbose
			}

			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}

			// One build at a time per data root.
			lock := flock.New(cfg.LockPath())
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire build lock: %w", err)
			}
			if !locked {
				return fmt.Errorf("another build is already running (lock %s)", cfg.LockPath())
			}
			defer func() { _ = lock.Unlock() }()

			logger := ctx.logger()
			cat, err := ctx.loadCatalog()
			if err != nil {
				return err
			}
			client, err := kty.New(cfg.Tool.Binary, cfg.ReleaseDir())
			if err != nil {
				return err
			}

			sink := report.NewFileSink(cfg.LogPath())
			log := report.NewLogger(cmd.OutOrStdout(), sink)

			var recorder release.Recorder
			store, err := history.Open(cfg.HistoryDBPath())
			if err != nil {
				logger.Warn("history store unavailable", "error", err)
				recorder = release.NopRecorder{}
			} else {
				defer store.Close()
				recorder = store
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			runner := release.NewRunner(cfg, cat, client, log, sink, recorder, logger)
			return runner.Build(runCtx, release.Options{
				Only:    only,
				Jobs:    jobs,
				Verbose: verbose,
				DryRun:  dryRunFlag,
			})
		},
	}

	cmd.Flags().StringVarP(&typeFlag, "dictionary-type", "t", "", "Restrict the build to one dictionary type (main, ipa, glossary, ipa-merged)")
	cmd.Flags().IntVarP(&jobsFlag, "jobs", "j", 0, "Worker count, capped at the CPU count (default from config)")
	cmd.Flags().BoolVarP(&dryRunFlag, "dry-run", "n", false, "Render every command without executing anything")
	cmd.Flags().CountVarP(&verboseFlag, "verbose", "v", "Increase run log verbosity (repeatable)")
	return cmd
}
