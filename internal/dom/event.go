package dom

import "golang.org/x/net/html"

// EventType names a user input event.
type EventType string

const (
	Click   EventType = "click"
	KeyDown EventType = "keydown"
	KeyUp   EventType = "keyup"
)

// Key identifies a keyboard key by its DOM key value.
type Key string

const (
	KeyArrowDown Key = "ArrowDown"
	KeyArrowUp   Key = "ArrowUp"
	KeyEscape    Key = "Escape"
	KeyEnter     Key = "Enter"
)

// Event is a dispatched user input event.
type Event struct {
	Type   EventType
	Key    Key
	Target *html.Node

	// CurrentTarget is the node whose listener is running; nil for document listeners.
	CurrentTarget *html.Node

	defaultPrevented   bool
	propagationStopped bool
}

// PreventDefault marks the event's default action as cancelled.
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// StopPropagation stops the event from reaching further nodes. Listeners on
// the current node still run.
func (e *Event) StopPropagation() { e.propagationStopped = true }

// PropagationStopped reports whether StopPropagation was called.
func (e *Event) PropagationStopped() bool { return e.propagationStopped }

// Handler handles a dispatched event.
type Handler func(*Event)

// ListenerID is the handle returned by AddEventListener.
type ListenerID uint64
