package ipc

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/1broseidon/termdesk/internal/wm"
)

// Apply executes a window command against m and returns the response. It
// must run on the goroutine that owns m. GET_STATUS and RELOAD are answered
// by the caller, since they need state beyond the registry.
func Apply(m *wm.Manager, req *Request) *Response {
	var openedID string

	switch req.Command {
	case CommandOpen:
		var p OpenPayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		kind, err := wm.ParseKind(p.Kind)
		if err != nil {
			return NewErrorResponse(err.Error())
		}
		openedID = m.Open(kind)

	case CommandClose, CommandMinimize, CommandRestore, CommandFocus:
		var p WindowPayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		id := strings.TrimSpace(p.ID)
		switch req.Command {
		case CommandClose:
			m.Close(id)
		case CommandMinimize:
			m.Minimize(id)
		case CommandRestore:
			m.Restore(id)
		case CommandFocus:
			m.Focus(id)
		}

	case CommandListWindows:

	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}

	data := NewWindowsData(m)
	data.ID = openedID
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

// Status summarises the registry for GET_STATUS.
func Status(m *wm.Manager, mode string, uptime time.Duration) StatusData {
	status := StatusData{
		Mode:          mode,
		WindowCount:   m.Len(),
		VisibleCount:  len(m.RenderOrder()),
		UptimeSeconds: int64(uptime.Seconds()),
	}
	if w, ok := m.Active(); ok {
		status.ActiveID = w.ID
		status.ActiveTitle = w.Title
	}
	return status
}

func decodePayload(raw json.RawMessage, out any) error {
	if len(raw) == 0 {
		return fmt.Errorf("missing payload")
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	return nil
}
