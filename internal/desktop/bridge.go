package desktop

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/termdesk/internal/ipc"
)

const bridgeTimeout = 3 * time.Second

// Bridge implements ipc.Handler by delivering each request into the desktop
// event loop, so the registry is only touched by the UI goroutine.
type Bridge struct {
	mu      sync.RWMutex
	send    func(tea.Msg)
	timeout time.Duration
}

// NewBridge returns a bridge that rejects requests until Attach is called.
func NewBridge() *Bridge {
	return &Bridge{timeout: bridgeTimeout}
}

// Attach connects the bridge to a running program's Send. Passing nil
// detaches it.
func (b *Bridge) Attach(send func(tea.Msg)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.send = send
}

// Handle implements ipc.Handler.
func (b *Bridge) Handle(req *ipc.Request) *ipc.Response {
	b.mu.RLock()
	send := b.send
	b.mu.RUnlock()
	if send == nil {
		return ipc.NewErrorResponse("desktop is not running")
	}

	reply := make(chan *ipc.Response, 1)
	go send(ipcRequestMsg{req: req, reply: reply})

	timer := time.NewTimer(b.timeout)
	defer timer.Stop()
	select {
	case resp := <-reply:
		return resp
	case <-timer.C:
		return ipc.NewErrorResponse("desktop did not answer in time")
	}
}

// NewProgram wraps m in a full-screen program with mouse reporting.
func NewProgram(m *Model, opts ...tea.ProgramOption) *tea.Program {
	base := []tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion()}
	return tea.NewProgram(m, append(base, opts...)...)
}
