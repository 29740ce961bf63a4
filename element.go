package mycounter

// Element is the lifecycle contract between a widget and the host that
// drives it. Hosts call the methods; widgets never call them on themselves
// except through the documented attribute paths.
//
// A host creates the element (OnCreate), inserts it (OnMount), forwards
// changes of observed attributes (OnAttributeChange) and finally removes it
// (OnUnmount). The Document, the HTTP Handler and the terminal host all
// follow this order.
type Element interface {
	// OnCreate builds the private render tree and wires its click
	// regions. It runs once per instance.
	OnCreate()

	// OnMount is called when the element is inserted into a host.
	OnMount()

	// OnUnmount is called when the element is removed from its host.
	OnUnmount()

	// ObservedAttributes lists the attributes whose external changes are
	// forwarded to OnAttributeChange.
	ObservedAttributes() []string

	// OnAttributeChange is called after an observed attribute was written
	// by the host. An absent attribute is reported as "".
	OnAttributeChange(name, oldVal, newVal string)

	// TagName returns the registered element name.
	TagName() string

	// setParent links the element to the target events bubble to.
	setParent(parent EventTarget)
}

var _ Element = (*Counter)(nil)
