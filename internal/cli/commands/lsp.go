package commands

import (
	"github.com/leapstack-labs/nameof/internal/cli/config"
	"github.com/leapstack-labs/nameof/internal/lsp"
	"github.com/spf13/cobra"
)

// NewLSPCommand creates the lsp command.
func NewLSPCommand(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		Long: `Start the LSP server for editor integration.

The server communicates over stdin/stdout using JSON-RPC. It reports
marker calls that cannot be rewritten as you type and offers a code
action that replaces the others with their literals.

The project root, and with it nameof.yaml, is taken from the client's
initialization request (rootUri parameter).`,
		Example: `  # Start LSP server (usually called by an editor)
  nameof lsp`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLSP(cmd, version)
		},
	}

	return cmd
}

func runLSP(cmd *cobra.Command, version string) error {
	logger := config.GetLogger(cmd.Context())
	server := lsp.NewServerWithLogger(cmd.InOrStdin(), cmd.OutOrStdout(), logger)
	server.SetVersion(version)
	return server.Run()
}
