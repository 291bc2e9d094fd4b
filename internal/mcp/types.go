package mcp

import "github.com/1broseidon/termdesk/internal/ipc"

// OpenWindowInput is the input for the open_window tool.
type OpenWindowInput struct {
	Kind string `json:"kind" jsonschema:"Window kind: pomodoro, todo, terminal or image. A minimized window of that kind is restored instead of opening another."`
}

// WindowIDInput is the input for tools that act on one window.
type WindowIDInput struct {
	ID string `json:"id" jsonschema:"Window id as returned by open_window or list_windows"`
}

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct{}

// WindowsOutput is returned by every window tool.
type WindowsOutput struct {
	// ID is set by open_window.
	ID             string           `json:"id,omitempty"`
	ActiveID       string           `json:"active_id,omitempty"`
	NextStackOrder int64            `json:"next_stack_order"`
	Windows        []ipc.WindowInfo `json:"windows"`
}

func toOutput(data *ipc.WindowsData) WindowsOutput {
	if data == nil {
		return WindowsOutput{Windows: []ipc.WindowInfo{}}
	}
	out := WindowsOutput{
		ID:             data.ID,
		ActiveID:       data.ActiveID,
		NextStackOrder: data.NextStackOrder,
		Windows:        data.Windows,
	}
	if out.Windows == nil {
		out.Windows = []ipc.WindowInfo{}
	}
	return out
}
