// Package mcp exposes the window manager as Model Context Protocol tools.
package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/termdesk/internal/ipc"
)

const (
	ServerName    = "termdesk"
	ServerVersion = "0.1.0"
)

// Controller drives a running desktop or daemon. *ipc.Client satisfies it.
type Controller interface {
	Open(kind string) (*ipc.WindowsData, error)
	Close(id string) (*ipc.WindowsData, error)
	Minimize(id string) (*ipc.WindowsData, error)
	Restore(id string) (*ipc.WindowsData, error)
	Focus(id string) (*ipc.WindowsData, error)
	ListWindows() (*ipc.WindowsData, error)
}

var _ Controller = (*ipc.Client)(nil)

// Server is the MCP server for termdesk window control.
type Server struct {
	mcpServer *mcpsdk.Server
	ctl       Controller
	logger    *slog.Logger
}

// NewServer creates an MCP server forwarding tool calls to ctl.
func NewServer(ctl Controller, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{ctl: ctl, logger: logger}
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
		Name:        "open_window",
		Description: "Open an application window on the termdesk desktop. If a minimized window of the same kind exists it is restored and focused instead. Returns the window id and the resulting window list.",
	}, s.handleOpenWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_window",
		Description: "Close a window. When it was active, the highest remaining visible window becomes active. Unknown ids are ignored.",
	}, s.handleCloseWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "minimize_window",
		Description: "Minimize a window to the dock. It keeps its state and can be restored later.",
	}, s.handleMinimizeWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "restore_window",
		Description: "Restore a window, bring it to the front and make it active.",
	}, s.handleRestoreWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "focus_window",
		Description: "Bring a visible window to the front and make it active. Minimized windows are not focused; restore them instead.",
	}, s.handleFocusWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List all windows, visible ones from bottom to top followed by minimized ones, with the active window id.",
	}, s.handleListWindows)
}
