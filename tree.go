package mycounter

import (
	"html"
	"io"
	"strings"
)

// node is an element of a counter's private render tree.
//
// The tree is owned by a single Counter and never shared. Only slots, the
// "value" part and the --height custom property are visible to hosts.
type node struct {
	tag      string
	attrs    []attr
	children []*node
	text     string
	raw      bool // text is written without escaping (style sheets)
	onClick  func()
}

type attr struct {
	name  string
	value string
}

func el(tag string, attrs []attr, children ...*node) *node {
	return &node{tag: tag, attrs: attrs, children: children}
}

func textEl(tag string, attrs []attr, text string) *node {
	return &node{tag: tag, attrs: attrs, text: text}
}

func class(names string) []attr {
	return []attr{{name: "class", value: names}}
}

// attr returns the value of the named attribute.
func (n *node) attr(name string) (string, bool) {
	for _, a := range n.attrs {
		if a.name == name {
			return a.value, true
		}
	}
	return "", false
}

// hasClass reports whether the class attribute contains name.
func (n *node) hasClass(name string) bool {
	v, ok := n.attr("class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(v) {
		if c == name {
			return true
		}
	}
	return false
}

// find returns the first node in depth-first order whose class list
// contains name.
func (n *node) find(name string) *node {
	if n.hasClass(name) {
		return n
	}
	for _, c := range n.children {
		if found := c.find(name); found != nil {
			return found
		}
	}
	return nil
}

// writeHTML serialises the tree. extra supplies host attributes for a node
// (nil for none); they are written after the node's own attributes.
func (n *node) writeHTML(w io.Writer, extra func(*node) []attr) error {
	var sb strings.Builder
	n.appendHTML(&sb, extra)
	_, err := io.WriteString(w, sb.String())
	return err
}

func (n *node) appendHTML(sb *strings.Builder, extra func(*node) []attr) {
	// Untagged nodes are fragments.
	if n.tag == "" {
		sb.WriteString(html.EscapeString(n.text))
		for _, c := range n.children {
			c.appendHTML(sb, extra)
		}
		return
	}

	sb.WriteByte('<')
	sb.WriteString(n.tag)
	writeAttrs(sb, n.attrs)
	if extra != nil {
		writeAttrs(sb, extra(n))
	}
	sb.WriteByte('>')

	if n.raw {
		sb.WriteString(n.text)
	} else {
		sb.WriteString(html.EscapeString(n.text))
	}
	for _, c := range n.children {
		c.appendHTML(sb, extra)
	}

	sb.WriteString("</")
	sb.WriteString(n.tag)
	sb.WriteByte('>')
}

func writeAttrs(sb *strings.Builder, attrs []attr) {
	for _, a := range attrs {
		sb.WriteByte(' ')
		sb.WriteString(a.name)
		sb.WriteString(`="`)
		sb.WriteString(html.EscapeString(a.value))
		sb.WriteByte('"')
	}
}
