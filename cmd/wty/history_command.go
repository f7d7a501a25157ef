package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"wty/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limitFlag int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent build runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := history.Open(cfg.HistoryDBPath())
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			runs, err := store.RecentRuns(cmd.Context(), limitFlag)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No recorded runs.")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.StartedAt.Local().Format(time.DateTime),
					historyType(run),
					run.Status,
					historyElapsed(run),
					strconv.Itoa(run.DictCount),
					humanize.IBytes(uint64(run.TotalBytes)),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Started", "Type", "Status", "Elapsed", "Dicts", "Size"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&limitFlag, "limit", 10, "Maximum number of runs to list")
	return cmd
}

func historyType(run history.Run) string {
	ty := run.DictType
	if ty == "" {
		ty = "all"
	}
	if run.DryRun {
		ty += " (dry)"
	}
	return ty
}

func historyElapsed(run history.Run) string {
	if run.FinishedAt == nil {
		return "-"
	}
	return run.Elapsed().Round(time.Second).String()
}
