package dom

// Event names dispatched by the form builder.
const (
	EventChange = "change"
	EventClick  = "click"
)

// Event is delivered to listeners registered on the target element.
type Event struct {
	Type   string
	Target *Element
}

// Listener handles an event.
type Listener func(Event)

// On registers fn for events of the given type on e.
func (e *Element) On(event string, fn Listener) {
	if fn == nil {
		return
	}
	st := e.doc.stateFor(e.node, true)
	if st.listeners == nil {
		st.listeners = make(map[string][]Listener)
	}
	st.listeners[event] = append(st.listeners[event], fn)
}

// Dispatch synchronously invokes the listeners registered for event on e, in
// registration order. Events do not bubble.
func (e *Element) Dispatch(event string) {
	st := e.doc.stateFor(e.node, false)
	if st == nil {
		return
	}
	listeners := append([]Listener(nil), st.listeners[event]...)
	for _, fn := range listeners {
		fn(Event{Type: event, Target: e})
	}
}

// Listeners reports how many listeners are registered for event.
func (e *Element) Listeners(event string) int {
	st := e.doc.stateFor(e.node, false)
	if st == nil {
		return 0
	}
	return len(st.listeners[event])
}
