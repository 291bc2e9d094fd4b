package ipc

import (
	"time"

	"github.com/1broseidon/termdesk/internal/wm"
)

// Handler answers a single request. Implementations decide which goroutine
// touches the window registry.
type Handler interface {
	Handle(req *Request) *Response
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(req *Request) *Response

func (f HandlerFunc) Handle(req *Request) *Response { return f(req) }

type serialCall struct {
	req   *Request
	reply chan *Response
}

// SerialHandler owns a Manager on a dedicated goroutine and applies requests
// one at a time. It backs the headless daemon.
type SerialHandler struct {
	calls  chan serialCall
	done   chan struct{}
	reload func() error
}

// NewSerialHandler starts the owning goroutine. reload may be nil.
func NewSerialHandler(m *wm.Manager, reload func() error) *SerialHandler {
	h := &SerialHandler{
		calls:  make(chan serialCall),
		done:   make(chan struct{}),
		reload: reload,
	}
	started := time.Now()

	go func() {
		for {
			select {
			case <-h.done:
				return
			case call := <-h.calls:
				call.reply <- h.apply(m, started, call.req)
			}
		}
	}()
	return h
}

func (h *SerialHandler) apply(m *wm.Manager, started time.Time, req *Request) *Response {
	switch req.Command {
	case CommandGetStatus:
		resp, err := NewOKResponse(Status(m, "daemon", time.Since(started)))
		if err != nil {
			return NewErrorResponse(err.Error())
		}
		return resp
	case CommandReload:
		if h.reload != nil {
			if err := h.reload(); err != nil {
				return NewErrorResponse(err.Error())
			}
		}
		resp, _ := NewOKResponse(nil)
		return resp
	}
	return Apply(m, req)
}

// Handle implements Handler.
func (h *SerialHandler) Handle(req *Request) *Response {
	reply := make(chan *Response, 1)
	select {
	case h.calls <- serialCall{req: req, reply: reply}:
	case <-h.done:
		return NewErrorResponse("shutting down")
	}
	return <-reply
}

// Close stops the owning goroutine.
func (h *SerialHandler) Close() {
	select {
	case <-h.done:
	default:
		close(h.done)
	}
}
