package mycounter

import (
	"slices"
	"sync"
)

// Document is an in-process host for elements. It runs the mount and
// unmount callbacks and receives every event its elements dispatch.
//
//	doc := mycounter.NewDocument()
//	doc.AddEventListener(mycounter.EventValueChange, func(e mycounter.Event) {
//	    log.Printf("%s -> %v", e.Target.ID(), e.Detail)
//	})
//	c := mycounter.New(mycounter.WithAttributes(map[string]string{"max-value": "3"}))
//	doc.Append(c)
type Document struct {
	mu        sync.RWMutex
	elements  []Element
	listeners listenerSet
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{}
}

// Append inserts el, links it to the document for event propagation and
// calls OnMount. Appending an element that is already present is a no-op.
func (d *Document) Append(el Element) {
	d.mu.Lock()
	if slices.Contains(d.elements, el) {
		d.mu.Unlock()
		return
	}
	d.elements = append(d.elements, el)
	d.mu.Unlock()

	el.setParent(d)
	el.OnMount()
}

// Remove detaches el and calls OnUnmount. Removing an element that is not
// present is a no-op.
func (d *Document) Remove(el Element) {
	d.mu.Lock()
	i := slices.Index(d.elements, el)
	if i < 0 {
		d.mu.Unlock()
		return
	}
	d.elements = slices.Delete(d.elements, i, i+1)
	d.mu.Unlock()

	el.OnUnmount()
}

// Elements returns the mounted elements in insertion order.
func (d *Document) Elements() []Element {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.elements)
}

// AddEventListener registers l for events bubbling up from any element.
func (d *Document) AddEventListener(eventType string, l Listener) (remove func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	rm := d.listeners.add(eventType, l)
	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		rm()
	}
}

// DispatchEvent delivers evt to the document's listeners.
func (d *Document) DispatchEvent(evt Event) {
	d.mu.RLock()
	var snapshot listenerSet
	if list := d.listeners.listeners[evt.Type]; len(list) > 0 {
		snapshot.listeners = map[string][]registeredListener{evt.Type: slices.Clone(list)}
	}
	d.mu.RUnlock()

	snapshot.dispatch(evt)
}

var _ EventTarget = (*Document)(nil)
