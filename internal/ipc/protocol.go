package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/termdesk/internal/wm"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandOpen        CommandType = "OPEN"
	CommandClose       CommandType = "CLOSE"
	CommandMinimize    CommandType = "MINIMIZE"
	CommandRestore     CommandType = "RESTORE"
	CommandFocus       CommandType = "FOCUS"
	CommandListWindows CommandType = "LIST_WINDOWS"
	CommandGetStatus   CommandType = "GET_STATUS"
	CommandReload      CommandType = "RELOAD"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// OpenPayload is the payload for OPEN.
type OpenPayload struct {
	Kind string `json:"kind"`
}

// WindowPayload is the payload for CLOSE, MINIMIZE, RESTORE and FOCUS.
type WindowPayload struct {
	ID string `json:"id"`
}

// WindowInfo describes one window on the wire.
type WindowInfo struct {
	ID         string `json:"id"`
	Kind       string `json:"kind"`
	Title      string `json:"title"`
	Minimized  bool   `json:"minimized"`
	Active     bool   `json:"active"`
	StackOrder int64  `json:"stack_order"`
}

// WindowsData is returned by every window command. Visible windows come
// first from bottom to top, followed by minimized ones.
type WindowsData struct {
	ID             string       `json:"id,omitempty"`
	Windows        []WindowInfo `json:"windows"`
	ActiveID       string       `json:"active_id,omitempty"`
	NextStackOrder int64        `json:"next_stack_order"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	Mode          string `json:"mode"`
	WindowCount   int    `json:"window_count"`
	VisibleCount  int    `json:"visible_count"`
	ActiveID      string `json:"active_id,omitempty"`
	ActiveTitle   string `json:"active_title,omitempty"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

// NewWindowsData builds the wire view of the registry.
func NewWindowsData(m *wm.Manager) WindowsData {
	snap := m.Snapshot()
	data := WindowsData{
		ActiveID:       snap.ActiveID,
		NextStackOrder: snap.NextStackOrder,
	}
	for _, w := range append(m.RenderOrder(), m.Minimized()...) {
		data.Windows = append(data.Windows, WindowInfo{
			ID:         w.ID,
			Kind:       w.Kind.String(),
			Title:      w.Title,
			Minimized:  w.Minimized,
			Active:     w.ID == snap.ActiveID,
			StackOrder: w.StackOrder,
		})
	}
	if data.Windows == nil {
		data.Windows = []WindowInfo{}
	}
	return data
}
