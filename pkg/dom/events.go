package dom

import "sort"

// Event is dispatched to an element's handler and listeners.
type Event struct {
	Type   string // "click", "input", etc.
	Target *Node
	Value  string // Form value at dispatch time, for input events
}

// Handler handles an event.
type Handler func(Event)

type listener struct {
	fn Handler
}

// SetEventHandler assigns the single on<type> handler slot of the element.
// A nil handler clears the slot.
func (n *Node) SetEventHandler(eventType string, h Handler) {
	if n.handlers == nil {
		n.handlers = make(map[string]Handler)
	}
	n.handlers[eventType] = h
}

// EventHandler returns the on<type> handler and whether the slot was assigned.
// A slot assigned nil reports (nil, true).
func (n *Node) EventHandler(eventType string) (Handler, bool) {
	h, ok := n.handlers[eventType]
	return h, ok
}

// RemoveEventHandler clears the on<type> slot entirely.
func (n *Node) RemoveEventHandler(eventType string) {
	delete(n.handlers, eventType)
}

// EventTypes returns the event types of n's subtree that have an assigned
// handler or at least one listener, sorted.
func (n *Node) EventTypes() []string {
	seen := make(map[string]bool)
	n.Walk(func(c *Node) bool {
		for t, h := range c.handlers {
			if h != nil {
				seen[t] = true
			}
		}
		for t, ls := range c.listeners {
			if len(ls) > 0 {
				seen[t] = true
			}
		}
		return true
	})
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// AddEventListener registers fn for eventType and returns a function that
// removes it.
func (n *Node) AddEventListener(eventType string, fn Handler) (remove func()) {
	if n.listeners == nil {
		n.listeners = make(map[string][]*listener)
	}
	l := &listener{fn: fn}
	n.listeners[eventType] = append(n.listeners[eventType], l)
	return func() {
		ls := n.listeners[eventType]
		for i, existing := range ls {
			if existing == l {
				n.listeners[eventType] = append(ls[:i], ls[i+1:]...)
				return
			}
		}
	}
}

// Listeners returns the number of listeners registered for eventType.
func (n *Node) Listeners(eventType string) int {
	return len(n.listeners[eventType])
}

// Dispatch delivers an event to n: first the on<type> handler, then the
// listeners in registration order. Target is filled in when empty.
func (n *Node) Dispatch(ev Event) {
	if ev.Target == nil {
		ev.Target = n
	}
	if h := n.handlers[ev.Type]; h != nil {
		h(ev)
	}
	ls := make([]*listener, len(n.listeners[ev.Type]))
	copy(ls, n.listeners[ev.Type])
	for _, l := range ls {
		l.fn(ev)
	}
}

// Input simulates user input on a form control: the value property is set
// and an input event is dispatched.
func (n *Node) Input(value string) {
	n.SetValue(value)
	n.Dispatch(Event{Type: "input", Target: n, Value: value})
}
