package commands

import (
	"slices"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/treelens/pkg/language"
	"github.com/Sumatoshi-tech/treelens/pkg/ruleset"
)

// NewLanguagesCommand creates the languages command.
func NewLanguagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List supported languages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			builtin := ruleset.Languages()

			tbl := table.NewWriter()
			tbl.SetOutputMirror(cmd.OutOrStdout())
			tbl.SetStyle(table.StyleLight)
			tbl.AppendHeader(table.Row{"Language", "Grammar", "Ruleset"})

			for _, name := range language.Names() {
				hasRuleset := "no"
				if slices.Contains(builtin, name) {
					hasRuleset = "builtin"
				}

				tbl.AppendRow(table.Row{name, "bundled", hasRuleset})
			}

			tbl.Render()

			return nil
		},
	}
}
