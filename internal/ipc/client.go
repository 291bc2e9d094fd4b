package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/termdesk/internal/runtimepath"
)

// Client handles IPC communication with a running desktop or daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientAt(socketPath)
}

// NewClientAt creates a client for an explicit socket path
func NewClientAt(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to termdesk: %w (is `termdesk run` or `termdesk daemon` running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("termdesk error: %s", resp.Error)
	}

	return &resp, nil
}

func (c *Client) windowsRequest(cmd CommandType, payload any) (*WindowsData, error) {
	req := &Request{Command: cmd}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal payload: %w", err)
		}
		req.Payload = raw
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return nil, err
	}

	var data WindowsData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse windows data: %w", err)
	}
	return &data, nil
}

// Open opens (or restores) a window of the given kind.
func (c *Client) Open(kind string) (*WindowsData, error) {
	return c.windowsRequest(CommandOpen, OpenPayload{Kind: kind})
}

// Close closes the window with id.
func (c *Client) Close(id string) (*WindowsData, error) {
	return c.windowsRequest(CommandClose, WindowPayload{ID: id})
}

// Minimize minimizes the window with id.
func (c *Client) Minimize(id string) (*WindowsData, error) {
	return c.windowsRequest(CommandMinimize, WindowPayload{ID: id})
}

// Restore restores the window with id.
func (c *Client) Restore(id string) (*WindowsData, error) {
	return c.windowsRequest(CommandRestore, WindowPayload{ID: id})
}

// Focus focuses the window with id.
func (c *Client) Focus(id string) (*WindowsData, error) {
	return c.windowsRequest(CommandFocus, WindowPayload{ID: id})
}

// ListWindows returns all windows.
func (c *Client) ListWindows() (*WindowsData, error) {
	return c.windowsRequest(CommandListWindows, nil)
}

// Reload asks the server to reload its configuration
func (c *Client) Reload() error {
	_, err := c.sendRequest(&Request{Command: CommandReload})
	return err
}

// GetStatus retrieves session status
func (c *Client) GetStatus() (*StatusData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetStatus})
	if err != nil {
		return nil, err
	}

	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}

	return &status, nil
}

// Ping checks if the server is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
