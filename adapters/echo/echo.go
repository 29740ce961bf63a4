// Package hxcounterecho provides Echo framework integration for mycounter.
//
// Mount the counter handler onto an Echo instance or group:
//
//	e := echo.New()
//	h := hxcounterecho.Mount(e)
//	// in a page handler:
//	return hxcounterecho.Render(c, page(h.Component(nil)))
//
// Or mount on a group with middleware:
//
//	g := e.Group("/app", authMiddleware)
//	h := hxcounterecho.MountGroup(g, hxcounterecho.WithBase("/app"))
package hxcounterecho

import (
	"crypto/rand"
	"fmt"
	"strings"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/pthm/mycounter"
)

// Option configures the Mount and MountGroup functions.
type Option func(*options)

type options struct {
	key     []byte
	path    string
	base    string
	handler []mycounter.HandlerOption
}

// WithKey sets the key used to sign or seal state tokens.
// The key should be at least 32 bytes of cryptographically random data.
// If not provided, a random key is generated (suitable for development only:
// tokens do not survive a restart).
func WithKey(key []byte) Option {
	return func(o *options) {
		o.key = key
	}
}

// WithPath sets the URL path prefix for counter routes.
// Defaults to mycounter.DefaultPrefix.
func WithPath(path string) Option {
	return func(o *options) {
		o.path = strings.TrimSuffix(path, "/")
	}
}

// WithBase sets the prefix of the group passed to MountGroup. Counter
// markup posts to base+path, so it must match the group.
func WithBase(base string) Option {
	return func(o *options) {
		o.base = strings.TrimSuffix(base, "/")
	}
}

// WithHandlerOptions passes options through to mycounter.NewHandler.
func WithHandlerOptions(opts ...mycounter.HandlerOption) Option {
	return func(o *options) {
		o.handler = append(o.handler, opts...)
	}
}

// Mount creates a counter handler and mounts it on an Echo instance.
//
//	e := echo.New()
//	h := hxcounterecho.Mount(e)
//
//	// With options:
//	h := hxcounterecho.Mount(e, hxcounterecho.WithKey(key))
func Mount(e *echo.Echo, opts ...Option) *mycounter.Handler {
	h, path := newHandler(opts)
	e.Any(path, echo.WrapHandler(h))
	e.Any(path+"/*", echo.WrapHandler(h))
	return h
}

// MountGroup creates a counter handler and mounts it on an Echo group.
// This allows counters to share middleware with the group (auth, logging, etc.).
//
//	g := e.Group("/app", authMiddleware)
//	h := hxcounterecho.MountGroup(g, hxcounterecho.WithBase("/app"))
func MountGroup(g *echo.Group, opts ...Option) *mycounter.Handler {
	h, path := newHandler(opts)
	g.Any(path, echo.WrapHandler(h))
	g.Any(path+"/*", echo.WrapHandler(h))
	return h
}

// newHandler returns the handler and the path to register it at, relative
// to the router it is mounted on.
func newHandler(opts []Option) (*mycounter.Handler, string) {
	o := &options{path: mycounter.DefaultPrefix}
	for _, opt := range opts {
		opt(o)
	}

	key := o.key
	if key == nil {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			panic(fmt.Sprintf("hxcounterecho: failed to generate random key: %v", err))
		}
	}

	hopts := append([]mycounter.HandlerOption{mycounter.WithPrefix(o.base + o.path)}, o.handler...)
	return mycounter.NewHandler(key, hopts...), o.path
}

// Render writes a templ component to the Echo response.
//
//	func handler(c echo.Context) error {
//	    return hxcounterecho.Render(c, page(h.Component(nil)))
//	}
func Render(c echo.Context, component templ.Component) error {
	c.Response().Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(c.Request().Context(), c.Response())
}
