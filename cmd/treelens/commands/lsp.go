package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/treelens/pkg/lsp"
	"github.com/Sumatoshi-tech/treelens/pkg/version"
)

// NewLSPCommand creates the lsp command.
func NewLSPCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Serve the views over the Language Server Protocol on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer application.Close(cmd.Context()) //nolint:errcheck // exit path.

			server := lsp.NewServer(application.eng, application.providers.Logger, version.Version)

			return server.Run()
		},
	}
}
