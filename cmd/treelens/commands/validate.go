package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/treelens/pkg/ruleset"
)

// ErrValidationFailed reports at least one invalid ruleset file.
var ErrValidationFailed = errors.New("validation failed")

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <ruleset.yaml>...",
		Short: "Check ruleset files against the schema",
		Long: `Validate ruleset YAML files: schema conformance first, then a full
load to surface semantic errors (bad patterns, missing catch-all rules).`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
				color.NoColor = true //nolint:reassign // intentional override of library global.
			}

			failed := 0

			for _, path := range args {
				if !validateFile(cmd.OutOrStdout(), path) {
					failed++
				}
			}

			if failed > 0 {
				return fmt.Errorf("%w: %d of %d files", ErrValidationFailed, failed, len(args))
			}

			return nil
		},
	}

	return cmd
}

func validateFile(w io.Writer, path string) bool {
	data, err := os.ReadFile(path) //nolint:gosec // CLI reads user-named files.
	if err != nil {
		color.New(color.FgRed).Fprintf(w, "FAIL %s: %v\n", path, err)

		return false
	}

	violations, err := ruleset.Check(data)
	if err != nil {
		color.New(color.FgRed).Fprintf(w, "FAIL %s: %v\n", path, err)

		return false
	}

	if len(violations) > 0 {
		color.New(color.FgRed).Fprintf(w, "FAIL %s: %d schema violations\n", path, len(violations))

		for _, violation := range violations {
			fmt.Fprintf(w, "  - %s\n", violation)
		}

		return false
	}

	rs, err := ruleset.Load(data, ruleset.Options{})
	if err != nil {
		color.New(color.FgRed).Fprintf(w, "FAIL %s: %v\n", path, err)

		return false
	}

	color.New(color.FgGreen).Fprintf(w, "OK   %s (language: %s)\n", path, rs.Language)

	return true
}
