package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newLanguagesCommand(ctx *commandContext) *cobra.Command {
	var editionsOnly bool

	cmd := &cobra.Command{
		Use:   "languages",
		Short: "List the language catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := ctx.loadCatalog()
			if err != nil {
				return err
			}

			rows := make([][]string, 0, cat.Len())
			for _, lang := range cat.Languages() {
				if editionsOnly && !lang.HasEdition {
					continue
				}
				rows = append(rows, []string{
					lang.ISO,
					lang.DisplayName,
					lang.Flag,
					yesNo(lang.HasEdition),
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"ISO", "Language", "Flag", "Edition"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
			))
			fmt.Fprintf(out, "%d languages, %d editions\n", cat.Len(), len(cat.Editions()))
			if !editionsOnly {
				fmt.Fprintf(out, "Editions: %s\n", strings.Join(cat.Editions(), " "))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&editionsOnly, "editions", false, "Only list languages with their own edition")
	return cmd
}
