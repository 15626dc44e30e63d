package commands

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/treelens/pkg/syntax"
)

// indentRow is one line's computed and current indentation.
type indentRow struct {
	Line    uint `json:"line"`
	Column  int  `json:"column"`
	Current int  `json:"current"`
}

// NewIndentCommand creates the indent command.
func NewIndentCommand() *cobra.Command {
	var (
		line   int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "indent <file>",
		Short: "Compute per-line indentation columns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer application.Close(cmd.Context()) //nolint:errcheck // exit path.

			langOverride, _ := cmd.Flags().GetString("language")

			session, src, err := application.openFile(cmd.Context(), args[0], langOverride)
			if err != nil {
				return err
			}

			lines := syntax.NewLineIndex(src)

			if line >= 0 {
				column, indentErr := session.Indent(cmd.Context(), uint(line))
				if indentErr != nil {
					return indentErr
				}

				fmt.Fprintln(cmd.OutOrStdout(), column)

				return nil
			}

			lineCount := lines.LineCount()
			if lineCount == 0 {
				return nil
			}

			columns, err := session.IndentRange(cmd.Context(), 0, uint(lineCount-1)) //nolint:gosec // lineCount > 0.
			if err != nil {
				return err
			}

			rows := indentRows(columns, lines)

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), rows)
			}

			renderIndentTable(cmd.OutOrStdout(), rows)

			return nil
		},
	}

	cmd.Flags().IntVar(&line, "line", -1, "compute a single zero-based line")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit columns as JSON")

	return cmd
}

func indentRows(columns []int, lines *syntax.LineIndex) []indentRow {
	rows := make([]indentRow, len(columns))

	for i, column := range columns {
		row := uint(i) //nolint:gosec // loop index is non-negative.

		current := 0
		if _, col, ok := lines.FirstNonBlank(row); ok {
			current = int(col) //nolint:gosec // columns fit in int.
		}

		rows[i] = indentRow{Line: row, Column: column, Current: current}
	}

	return rows
}

func renderIndentTable(w io.Writer, rows []indentRow) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Line", "Column", "Current"})

	for _, row := range rows {
		tbl.AppendRow(table.Row{row.Line, row.Column, row.Current})
	}

	tbl.Render()
}
