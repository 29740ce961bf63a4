package mycounter

import (
	"maps"
	"math"

	"github.com/a-h/templ"
)

// TagName is the element name a Counter registers under.
const TagName = "my-counter"

// Attribute names understood by Counter.
const (
	AttrID       = "id"
	AttrValue    = "value"
	AttrMinValue = "min-value"
	AttrMaxValue = "max-value"
)

// Region identifies one of the two clickable halves of the counter.
type Region int

const (
	RegionDecrement Region = iota
	RegionIncrement
)

func (r Region) String() string {
	switch r {
	case RegionDecrement:
		return "decrement"
	case RegionIncrement:
		return "increment"
	default:
		return "unknown"
	}
}

// Counter is a bounded counter widget: a circular value badge over a bar
// split into a decrement and an increment half.
//
// All state lives in the attribute set. The value is clamped to
// [MinValue, MaxValue] whenever it is written and the display is refreshed
// right after. No operation fails: unparsable numbers coerce to 0 (value)
// or to an unbounded limit (min-value, max-value).
//
// A Counter is not safe for concurrent use. Hosts drive it from a single
// event loop, the same way a document delivers clicks and attribute
// changes.
type Counter struct {
	attrs map[string]string

	tree      *node
	decrement *node
	increment *node
	display   *node

	listeners listenerSet
	parent    EventTarget

	height        string
	slots         map[string]templ.Component
	observeBounds bool
	mounted       bool
}

// New creates a counter, builds its render tree and applies the initial
// attributes the way an upgraded element would: every observed attribute
// that is present is reported to OnAttributeChange, so an out-of-range
// initial value is clamped immediately.
func New(opts ...Option) *Counter {
	c := &Counter{
		attrs: make(map[string]string),
		slots: make(map[string]templ.Component),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.OnCreate()

	for _, name := range c.ObservedAttributes() {
		if v, ok := c.attrs[name]; ok {
			c.OnAttributeChange(name, "", v)
		}
	}
	return c
}

// TagName returns "my-counter".
func (c *Counter) TagName() string {
	return TagName
}

// OnCreate builds the private tree and wires the click regions. Calling it
// again has no effect.
func (c *Counter) OnCreate() {
	if c.tree != nil {
		return
	}

	c.tree = buildTree()
	c.decrement = c.tree.find(classDecrement)
	c.increment = c.tree.find(classIncrement)
	c.display = c.tree.find(classDisplay)

	c.decrement.onClick = c.Decrement
	c.increment.onClick = c.Increment
}

// OnMount renders the current value.
func (c *Counter) OnMount() {
	c.mounted = true
	c.Render()
}

// OnUnmount detaches the counter from its host. Listeners registered on
// the counter itself are kept.
func (c *Counter) OnUnmount() {
	c.mounted = false
	c.parent = nil
}

// Mounted reports whether the counter is currently inserted in a host.
func (c *Counter) Mounted() bool {
	return c.mounted
}

// ObservedAttributes returns the attributes whose external changes are
// forwarded to OnAttributeChange. Only "value" is observed unless the
// counter was created with ObserveBounds.
func (c *Counter) ObservedAttributes() []string {
	if c.observeBounds {
		return []string{AttrValue, AttrMinValue, AttrMaxValue}
	}
	return []string{AttrValue}
}

// OnAttributeChange re-applies the value setter when the value attribute,
// or with ObserveBounds one of the bounds, changed.
func (c *Counter) OnAttributeChange(name, oldVal, newVal string) {
	if oldVal == newVal {
		return
	}

	switch name {
	case AttrValue:
		c.SetValueString(newVal)
	case AttrMinValue, AttrMaxValue:
		if c.observeBounds {
			c.SetValue(c.Value())
		}
	}
}

func (c *Counter) observes(name string) bool {
	for _, n := range c.ObservedAttributes() {
		if n == name {
			return true
		}
	}
	return false
}

// Attribute returns the raw attribute value and whether it is present.
func (c *Counter) Attribute(name string) (string, bool) {
	v, ok := c.attrs[name]
	return v, ok
}

// Attributes returns a copy of the attribute set.
func (c *Counter) Attributes() map[string]string {
	return maps.Clone(c.attrs)
}

// SetAttribute is the host-side attribute write. Changes to observed
// attributes are forwarded to OnAttributeChange, so writing an
// out-of-range value is clamped and re-rendered.
func (c *Counter) SetAttribute(name, value string) {
	old := c.attrs[name]
	c.attrs[name] = value
	if c.observes(name) {
		c.OnAttributeChange(name, old, value)
	}
}

// RemoveAttribute deletes an attribute. Removing an observed attribute is
// reported as a change to "".
func (c *Counter) RemoveAttribute(name string) {
	old, ok := c.attrs[name]
	if !ok {
		return
	}
	delete(c.attrs, name)
	if c.observes(name) {
		c.OnAttributeChange(name, old, "")
	}
}

// ID returns the id attribute.
func (c *Counter) ID() string {
	return c.attrs[AttrID]
}

// Value returns the current value, or 0 when the attribute is absent or
// not a number.
func (c *Counter) Value() float64 {
	return ParseNumericOr(c.attrs[AttrValue], 0)
}

// SetValue clamps v to the current bounds, stores it and re-renders.
// NaN is stored as the clamped form of 0.
func (c *Counter) SetValue(v float64) {
	if math.IsNaN(v) {
		v = 0
	}
	c.attrs[AttrValue] = FormatNumber(Clamp(v, c.MinValue(), c.MaxValue()))
	c.Render()
}

// SetValueString parses s and assigns it through SetValue. Strings that are
// not numbers assign 0.
func (c *Counter) SetValueString(s string) {
	c.SetValue(ParseNumericOr(s, 0))
}

// MinValue returns the lower bound, -Inf when unset or not a number.
func (c *Counter) MinValue() float64 {
	return ParseNumericOr(c.attrs[AttrMinValue], math.Inf(-1))
}

// SetMinValue stores the lower bound. The current value is not re-clamped
// unless the counter observes its bounds.
func (c *Counter) SetMinValue(v float64) {
	c.writeBound(AttrMinValue, v)
}

// MaxValue returns the upper bound, +Inf when unset or not a number.
func (c *Counter) MaxValue() float64 {
	return ParseNumericOr(c.attrs[AttrMaxValue], math.Inf(1))
}

// SetMaxValue stores the upper bound. The current value is not re-clamped
// unless the counter observes its bounds.
func (c *Counter) SetMaxValue(v float64) {
	c.writeBound(AttrMaxValue, v)
}

func (c *Counter) writeBound(name string, v float64) {
	old := c.attrs[name]
	s := FormatNumber(v)
	c.attrs[name] = s
	if c.observeBounds {
		c.OnAttributeChange(name, old, s)
	}
}

// Increment adds one to the value and dispatches valueChange with the
// result. At the upper bound the value stays put and the event is still
// dispatched.
func (c *Counter) Increment() {
	c.SetValue(c.Value() + 1)
	c.DispatchEvent(Event{Type: EventValueChange, Detail: c.Value()})
}

// Decrement subtracts one from the value and dispatches valueChange with
// the result. At the lower bound the value stays put and the event is
// still dispatched.
func (c *Counter) Decrement() {
	c.SetValue(c.Value() - 1)
	c.DispatchEvent(Event{Type: EventValueChange, Detail: c.Value()})
}

// Render replaces the displayed text with the current value.
func (c *Counter) Render() {
	if c.display == nil {
		return
	}
	c.display.text = FormatNumber(c.Value())
}

// DisplayText returns the text currently shown in the value badge.
func (c *Counter) DisplayText() string {
	if c.display == nil {
		return ""
	}
	return c.display.text
}

// Click delivers a click to one of the two regions.
func (c *Counter) Click(r Region) {
	var n *node
	switch r {
	case RegionDecrement:
		n = c.decrement
	case RegionIncrement:
		n = c.increment
	}
	if n != nil && n.onClick != nil {
		n.onClick()
	}
}

// AddEventListener registers l for eventType. The returned func removes it.
func (c *Counter) AddEventListener(eventType string, l Listener) (remove func()) {
	return c.listeners.add(eventType, l)
}

// DispatchEvent delivers evt to the counter's listeners and then to its
// parent. Target is set to the counter when empty.
func (c *Counter) DispatchEvent(evt Event) {
	if evt.Target == nil {
		evt.Target = c
	}
	c.listeners.dispatch(evt)
	if c.parent != nil {
		c.parent.DispatchEvent(evt)
	}
}

func (c *Counter) setParent(parent EventTarget) {
	c.parent = parent
}

var _ EventTarget = (*Counter)(nil)
