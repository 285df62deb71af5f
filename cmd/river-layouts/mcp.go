package main

import (
	"github.com/spf13/cobra"

	"github.com/agausmann/river-layouts/internal/mcp"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve layout tools over MCP (stdio transport)",
		Long: `Start the MCP server on stdio. Designed to be launched by an MCP
client; exposes tools for querying a running generator and computing
carousel geometry offline.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFromContext(cmd.Context())
			return mcp.NewServer(cfg).Run(cmd.Context())
		},
	}
}
