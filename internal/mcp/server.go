// Package mcp exposes the running ghost to MCP clients over stdio. Every
// tool forwards to the ghost through its IPC socket.
package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/ghostdock/internal/ipc"
	"github.com/1broseidon/ghostdock/internal/placement"
)

const (
	ServerName    = "ghostdock"
	ServerVersion = "0.1.0"
)

// Ghost is the client side of the ghost's IPC protocol.
type Ghost interface {
	Snap(anchor placement.Anchor) (*ipc.PositionData, error)
	Dock() (*ipc.PositionData, error)
	SetTopmost(enabled bool) (bool, error)
	ToggleTopmost() (bool, error)
	NextPose() (*ipc.PoseData, error)
	SetPose(index int) (*ipc.PoseData, error)
	GetStatus() (*ipc.StatusData, error)
}

var _ Ghost = (*ipc.Client)(nil)

// Server is the MCP server for controlling the ghost.
type Server struct {
	mcpServer *mcpsdk.Server
	ghost     Ghost
	logger    *slog.Logger
}

// NewServer creates an MCP server that forwards to ghost.
func NewServer(ghost Ghost, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{ghost: ghost, logger: logger}

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
		Name:        "snap_to_corner",
		Description: "Move the ghost window to a screen corner, keeping a margin from the edges. Returns the position the window actually reached.",
	}, s.handleSnapToCorner)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "dock",
		Description: "Move the ghost back to its startup dock position at the bottom-left of the primary screen.",
	}, s.handleDock)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_always_on_top",
		Description: "Keep the ghost above other windows, or let it fall behind them. Pass toggle to flip the current setting.",
	}, s.handleSetAlwaysOnTop)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "next_pose",
		Description: "Show the ghost's next pose, wrapping after the last one.",
	}, s.handleNextPose)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_pose",
		Description: "Show a specific pose. A pose that cannot be loaded falls back to pose 0.",
	}, s.handleSetPose)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Report the running ghost's session, pose, always-on-top flag, drag state and last known position.",
	}, s.handleGetStatus)
}
