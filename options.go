package mycounter

import (
	"maps"

	"github.com/a-h/templ"
)

// Slot names exposed by the counter's render tree. SlotHelp is the
// unnamed slot below the control.
const (
	SlotHeader       = "header"
	SlotValuePrefix  = "value-prefix"
	SlotValuePostfix = "value-postfix"
	SlotHelp         = ""
)

// Option configures a Counter at construction.
type Option func(*Counter)

// WithAttributes sets the attributes present before the counter is
// created. Observed attributes are applied after the tree is built.
func WithAttributes(attrs map[string]string) Option {
	return func(c *Counter) {
		maps.Copy(c.attrs, attrs)
	}
}

// WithHeight sets the --height custom property that scales the whole
// control, e.g. "64px" or "4rem".
func WithHeight(css string) Option {
	return func(c *Counter) {
		c.height = css
	}
}

// WithHeader replaces the default "My Counter" heading.
func WithHeader(content templ.Component) Option {
	return WithSlot(SlotHeader, content)
}

// WithValuePrefix renders content before the value, e.g. a currency sign.
func WithValuePrefix(content templ.Component) Option {
	return WithSlot(SlotValuePrefix, content)
}

// WithValuePostfix renders content after the value, e.g. a unit.
func WithValuePostfix(content templ.Component) Option {
	return WithSlot(SlotValuePostfix, content)
}

// WithHelpText renders content in the unnamed slot below the control.
func WithHelpText(content templ.Component) Option {
	return WithSlot(SlotHelp, content)
}

// WithSlot assigns content to a named slot. Unknown names are ignored at
// render time, matching how a document treats unmatched slot content.
func WithSlot(name string, content templ.Component) Option {
	return func(c *Counter) {
		if content == nil {
			delete(c.slots, name)
			return
		}
		c.slots[name] = content
	}
}

// ObserveBounds makes min-value and max-value observed attributes. Any
// change to a bound then re-applies the value setter, so the value is
// re-clamped at once instead of on its next write.
func ObserveBounds() Option {
	return func(c *Counter) {
		c.observeBounds = true
	}
}
