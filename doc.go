// Package mycounter provides a bounded counter widget for Go-rendered pages
// and terminals.
//
// A Counter shows a numeric value in a circular badge over a horizontal bar
// split into a decrement half and an increment half. Clicking a half moves
// the value by one within an optional [min, max] range and dispatches a
// valueChange event carrying the new value.
//
// # Attributes
//
// All state lives in the counter's attribute set, the way a custom element
// keeps it in its DOM attributes:
//
//	value      current value, default 0
//	min-value  lower bound, default -Infinity
//	max-value  upper bound, default +Infinity
//
// Numbers are read leniently: "abc" reads as 0 for value and as unbounded
// for a limit. Writing a value always clamps it and re-renders the badge.
// Only value is observed by default, so changing a bound takes effect on the
// next write; pass ObserveBounds to re-clamp at once.
//
//	c := mycounter.New(mycounter.WithAttributes(map[string]string{
//	    "min-value": "0",
//	    "max-value": "10",
//	}))
//	c.Increment() // value "1", valueChange(1)
//
// # Hosts
//
// The Element interface is the lifecycle a host drives: OnCreate, OnMount,
// OnAttributeChange and OnUnmount. Three hosts ship with the package:
//
//   - Document: in-process; events bubble from each counter to the document
//   - Handler: HTTP for htmx pages (see below)
//   - internal/tui: a terminal host built on bubbletea
//
// # HTTP and htmx
//
// Handler renders counters as <my-counter> elements with a declarative
// shadow root. The server keeps no state: each response carries the
// attributes forward in a token and each click brings it back.
//
//	h := mycounter.NewHandler(key)
//	http.Handle(h.Prefix()+"/", h)
//
//	// in a templ page:
//	@h.Component(map[string]string{"max-value": "5"})
//
// Tokens are HMAC-signed msgpack by default, readable but tamper-proof.
// With WithSensitive they are AES-GCM sealed and opaque to clients.
//
// CSRF protection is automatic: mutating requests require the HX-Request
// header that htmx sends.
//
// Each valueChange reaches the page through HX-Trigger:
//
//	HX-Trigger: {"valueChange":{"value":3}}
//
// so listeners can use hx-trigger="valueChange from:body".
//
// # Slots and Styling
//
// The header (default "My Counter"), value-prefix, value-postfix and the
// unnamed help slot take templ content through options. WithHeight scales
// the control through the --height custom property; the badge is exposed
// as part "value".
//
// # Testing
//
// TestRenderCounter renders a counter without HTTP. TestClick and
// TestSetAttribute drive a Handler and return a TestResult exposing the
// displayed value, the valueChange payload and the next state token.
package mycounter
