package mycounter

// EventValueChange is dispatched after every Increment and Decrement,
// including calls that were clamped to a no-op at a bound.
const EventValueChange = "valueChange"

// Event is a change notification dispatched by a Counter.
//
// Detail carries the value after the mutation. No previous value is carried.
type Event struct {
	Type   string
	Detail float64
	Target *Counter
}

// Listener receives dispatched events.
type Listener func(Event)

// EventTarget is anything that listeners can be attached to.
//
// Counter dispatches on itself and then on its parent target, so an
// ancestor such as a Document observes every notification of the
// elements mounted in it.
type EventTarget interface {
	AddEventListener(eventType string, l Listener) (remove func())
	DispatchEvent(evt Event)
}

// listenerSet keeps listeners per event type in registration order.
type listenerSet struct {
	next      int
	listeners map[string][]registeredListener
}

type registeredListener struct {
	id int
	fn Listener
}

func (s *listenerSet) add(eventType string, l Listener) func() {
	if s.listeners == nil {
		s.listeners = make(map[string][]registeredListener)
	}
	s.next++
	id := s.next
	s.listeners[eventType] = append(s.listeners[eventType], registeredListener{id: id, fn: l})

	return func() {
		list := s.listeners[eventType]
		for i, rl := range list {
			if rl.id == id {
				s.listeners[eventType] = append(list[:i:i], list[i+1:]...)
				return
			}
		}
	}
}

// dispatch calls the listeners registered at the time of the call.
func (s *listenerSet) dispatch(evt Event) {
	list := s.listeners[evt.Type]
	if len(list) == 0 {
		return
	}
	snapshot := make([]registeredListener, len(list))
	copy(snapshot, list)
	for _, rl := range snapshot {
		rl.fn(evt)
	}
}
