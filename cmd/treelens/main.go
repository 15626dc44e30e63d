// Package main provides the entry point for the treelens CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/treelens/cmd/treelens/commands"
	"github.com/Sumatoshi-tech/treelens/pkg/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "treelens",
		Short: "Treelens - declarative editor views over syntax trees",
		Long: `Treelens computes editor-facing views over tree-sitter parse trees:

  highlight  Tagged highlighting spans
  indent     Per-line indentation columns
  outline    Navigation items with extracted names
  validate   Check ruleset files against the schema
  lsp        Serve the views over the Language Server Protocol`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("config", "", "path to config file")
	rootCmd.PersistentFlags().String("language", "", "language override (skip detection)")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")

	rootCmd.AddCommand(commands.NewHighlightCommand())
	rootCmd.AddCommand(commands.NewIndentCommand())
	rootCmd.AddCommand(commands.NewOutlineCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewLSPCommand())
	rootCmd.AddCommand(commands.NewLanguagesCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "treelens %s (commit: %s, built: %s)\n",
				version.Version, version.Commit, version.Date)
		},
	}
}
