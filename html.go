package mycounter

import (
	"context"
	"fmt"
	"html"
	"io"
	"slices"
	"sort"
	"strings"

	"github.com/a-h/templ"
)

// slotWrappers lists light-DOM slot content in output order with the tag
// each slot's content is wrapped in.
var slotWrappers = []struct {
	name string
	tag  string
}{
	{SlotHeader, "div"},
	{SlotValuePrefix, "span"},
	{SlotValuePostfix, "span"},
	{SlotHelp, "div"},
}

// leadingAttrs are written first, in this order. The rest follow sorted.
var leadingAttrs = []string{AttrID, AttrValue, AttrMinValue, AttrMaxValue}

// Component renders the counter as a <my-counter> element with a
// declarative shadow root holding its private tree, followed by the
// light-DOM slot content.
func (c *Counter) Component() templ.Component {
	return c.ComponentWith(nil)
}

// ComponentWith is Component with host attributes added to the two click
// regions. decorate is called once per region at render time; the HTTP
// host uses it to attach htmx attributes.
func (c *Counter) ComponentWith(decorate func(Region) templ.Attributes) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<"+TagName+hostAttrs(c.attrs, c.height)+">"); err != nil {
			return err
		}

		if _, err := io.WriteString(w, `<template shadowrootmode="open">`); err != nil {
			return err
		}
		if err := c.tree.writeHTML(w, c.regionAttrs(decorate)); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `</template>`); err != nil {
			return err
		}

		for _, s := range slotWrappers {
			content, ok := c.slots[s.name]
			if !ok {
				continue
			}
			open := "<" + s.tag + ">"
			if s.name != SlotHelp {
				open = fmt.Sprintf(`<%s slot="%s">`, s.tag, s.name)
			}
			if _, err := io.WriteString(w, open); err != nil {
				return err
			}
			if err := content.Render(ctx, w); err != nil {
				return err
			}
			if _, err := io.WriteString(w, "</"+s.tag+">"); err != nil {
				return err
			}
		}

		_, err := io.WriteString(w, "</"+TagName+">")
		return err
	})
}

func (c *Counter) regionAttrs(decorate func(Region) templ.Attributes) func(*node) []attr {
	if decorate == nil {
		return nil
	}
	return func(n *node) []attr {
		switch n {
		case c.decrement:
			return sortedAttrs(decorate(RegionDecrement))
		case c.increment:
			return sortedAttrs(decorate(RegionIncrement))
		default:
			return nil
		}
	}
}

func hostAttrs(attrs map[string]string, height string) string {
	var out string
	for _, name := range leadingAttrs {
		if v, ok := attrs[name]; ok {
			out += fmt.Sprintf(` %s="%s"`, name, html.EscapeString(v))
		}
	}

	rest := make([]string, 0, len(attrs))
	for name := range attrs {
		if !slices.Contains(leadingAttrs, name) && name != "style" && validAttrName(name) {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		out += fmt.Sprintf(` %s="%s"`, name, html.EscapeString(attrs[name]))
	}

	style := attrs["style"]
	if height != "" {
		if style != "" {
			style += ";"
		}
		style += "--height:" + height
	}
	if style != "" {
		out += fmt.Sprintf(` style="%s"`, html.EscapeString(style))
	}
	return out
}

// validAttrName reports whether name can be written as an HTML attribute
// name. Names that cannot are left out of the markup.
func validAttrName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r <= 0x20, r == 0x7f, r >= 0x80 && r <= 0x9f:
			return false
		case strings.ContainsRune("\"'>/=<`", r):
			return false
		}
	}
	return true
}

func sortedAttrs(ta templ.Attributes) []attr {
	if len(ta) == 0 {
		return nil
	}
	names := make([]string, 0, len(ta))
	for k := range ta {
		names = append(names, k)
	}
	sort.Strings(names)

	out := make([]attr, 0, len(names))
	for _, name := range names {
		out = append(out, attr{name: name, value: fmt.Sprint(ta[name])})
	}
	return out
}
