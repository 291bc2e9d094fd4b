package wm

// EventType describes an effective change to the registry.
type EventType int

const (
	EventOpened EventType = iota
	EventRestored
	EventFocused
	EventMinimized
	EventClosed
	// EventActivated fires when the active window changes as a side effect
	// of close or minimize.
	EventActivated
)

// String returns the string representation of the event type
func (t EventType) String() string {
	switch t {
	case EventOpened:
		return "opened"
	case EventRestored:
		return "restored"
	case EventFocused:
		return "focused"
	case EventMinimized:
		return "minimized"
	case EventClosed:
		return "closed"
	case EventActivated:
		return "activated"
	default:
		return "unknown"
	}
}

// Event is delivered to observers after a mutation took effect.
// No-op operations produce no event.
type Event struct {
	Type     EventType
	Window   Window
	ActiveID string
}
