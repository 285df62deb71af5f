// Package mcp exposes the layout generators to MCP clients: status of
// a running session over its control socket, offline layout
// computation, and command discovery.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/agausmann/river-layouts/internal/config"
	"github.com/agausmann/river-layouts/internal/ipc"
)

const (
	ServerName    = "river-layouts"
	ServerVersion = "0.1.0"
)

// controlClient is the slice of the control client the tools use.
type controlClient interface {
	GetStatus() (*ipc.StatusData, error)
	GetOutputs() (*ipc.OutputsData, error)
}

// Server is the MCP server for layout inspection.
type Server struct {
	mcpServer *mcpsdk.Server
	cfg       *config.Config

	// newClient builds the control client for a namespace; tests
	// substitute a fake.
	newClient func(namespace string) controlClient
}

// NewServer creates an MCP server using cfg for compute_layout
// defaults.
func NewServer(cfg *config.Config) *Server {
	s := &Server{
		cfg: cfg,
		newClient: func(namespace string) controlClient {
			return ipc.NewClient(namespace)
		},
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "layout_status",
		Description: "Query a running layout generator over its control socket: session phase, known outputs, and per-output carousel state (main count, ratio, scroll offset).",
	}, s.handleLayoutStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "compute_layout",
		Description: "Compute view geometry for a hypothetical output without talking to the compositor. Defaults come from the loaded configuration; any carousel or uniform-grid parameter can be overridden per call.",
	}, s.handleComputeLayout)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_commands",
		Description: "List the user commands a layout accepts via riverctl send-layout-cmd, with syntax and semantics.",
	}, s.handleListCommands)
}
