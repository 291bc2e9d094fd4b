package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/termdesk/internal/ipc"
	"github.com/1broseidon/termdesk/internal/wm"
)

func (s *Server) handleOpenWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args OpenWindowInput) (*mcpsdk.CallToolResult, WindowsOutput, error) {
	kind, err := wm.ParseKind(args.Kind)
	if err != nil {
		return nil, WindowsOutput{}, err
	}
	data, err := s.ctl.Open(kind.String())
	if err != nil {
		s.logger.Warn("open_window failed", "kind", kind, "error", err)
		return nil, WindowsOutput{}, err
	}
	s.logger.Info("open_window", "kind", kind, "id", data.ID)
	return nil, toOutput(data), nil
}

// windowCall runs one id-based controller call.
func (s *Server) windowCall(tool string, args WindowIDInput, call func(string) (*ipc.WindowsData, error)) (*mcpsdk.CallToolResult, WindowsOutput, error) {
	id := strings.TrimSpace(args.ID)
	if id == "" {
		return nil, WindowsOutput{}, fmt.Errorf("%s: id is required", tool)
	}
	data, err := call(id)
	if err != nil {
		s.logger.Warn(tool+" failed", "id", id, "error", err)
		return nil, WindowsOutput{}, err
	}
	s.logger.Info(tool, "id", id, "active", data.ActiveID)
	return nil, toOutput(data), nil
}

func (s *Server) handleCloseWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowIDInput) (*mcpsdk.CallToolResult, WindowsOutput, error) {
	return s.windowCall("close_window", args, s.ctl.Close)
}

func (s *Server) handleMinimizeWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowIDInput) (*mcpsdk.CallToolResult, WindowsOutput, error) {
	return s.windowCall("minimize_window", args, s.ctl.Minimize)
}

func (s *Server) handleRestoreWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowIDInput) (*mcpsdk.CallToolResult, WindowsOutput, error) {
	return s.windowCall("restore_window", args, s.ctl.Restore)
}

func (s *Server) handleFocusWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowIDInput) (*mcpsdk.CallToolResult, WindowsOutput, error) {
	return s.windowCall("focus_window", args, s.ctl.Focus)
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListWindowsInput) (*mcpsdk.CallToolResult, WindowsOutput, error) {
	data, err := s.ctl.ListWindows()
	if err != nil {
		return nil, WindowsOutput{}, err
	}
	return nil, toOutput(data), nil
}
