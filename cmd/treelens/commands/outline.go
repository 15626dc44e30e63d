package commands

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/treelens/pkg/outline"
	"github.com/Sumatoshi-tech/treelens/pkg/syntax"
)

// NewOutlineCommand creates the outline command.
func NewOutlineCommand() *cobra.Command {
	var (
		grouped bool
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "outline <file>",
		Short: "List navigation items with extracted names",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer application.Close(cmd.Context()) //nolint:errcheck // exit path.

			langOverride, _ := cmd.Flags().GetString("language")

			session, _, err := application.openFile(cmd.Context(), args[0], langOverride)
			if err != nil {
				return err
			}

			items, err := session.Outline(cmd.Context(), syntax.ByteRange{})
			if err != nil {
				return err
			}

			switch {
			case asJSON && grouped:
				return writeJSON(cmd.OutOrStdout(), outline.Grouped(items))
			case asJSON:
				return writeJSON(cmd.OutOrStdout(), items)
			case grouped:
				renderGroupedTable(cmd.OutOrStdout(), outline.Grouped(items))
			default:
				renderOutlineTable(cmd.OutOrStdout(), items)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&grouped, "grouped", false, "group items by category")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit items as JSON")

	return cmd
}

func renderOutlineTable(w io.Writer, items []outline.Item) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Category", "Name", "Line", "Col"})

	for _, item := range items {
		tbl.AppendRow(table.Row{
			item.Category.String(), item.Name, item.Point.Row, item.Point.Column,
		})
	}

	tbl.Render()
}

func renderGroupedTable(w io.Writer, groups []outline.Group) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Category", "Name", "Line", "Col"})

	for _, group := range groups {
		for _, item := range group.Items {
			tbl.AppendRow(table.Row{
				group.Category.String(), item.Name, item.Point.Row, item.Point.Column,
			})
		}

		tbl.AppendSeparator()
	}

	tbl.Render()
}
