package cmd

import (
	"github.com/huangsam/coverdelta/core"
	"github.com/huangsam/coverdelta/internal/contract"
	"github.com/huangsam/coverdelta/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the coverdelta MCP server",
	Long:  `Launch an MCP server that allows AI agents to diff and check coverage via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Logs go to stderr, stdio is used for the protocol.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, func(c *contract.Config) (core.Dependencies, error) {
			return core.NewDependencies(c, contract.NewLocalGitClient())
		})
	},
}
