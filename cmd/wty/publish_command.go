package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"wty/internal/kty"
	"wty/internal/publish"
)

func newPublishCommand(ctx *commandContext) *cobra.Command {
	var yesFlag bool

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Upload the built release to the dataset repository",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			publisher := publish.New(cfg, kty.NewCommandExecutor(), cmd.OutOrStdout(), os.Stdin, ctx.logger())
			return publisher.Run(cmd.Context(), publish.Options{
				Yes:     yesFlag,
				Version: time.Now().Format("2006-01-02"),
			})
		},
	}

	cmd.Flags().BoolVarP(&yesFlag, "yes", "y", false, "Skip the interactive confirmation")
	return cmd
}
