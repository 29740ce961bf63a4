package mycounter

import (
	"crypto/rand"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pthm/mycounter/lib/encoding"
)

// DefaultPrefix is the URL prefix the handler serves below.
const DefaultPrefix = "/_c/" + TagName

// Routes below the handler prefix.
const (
	routeRender    = "/"
	routeIncrement = "/increment"
	routeDecrement = "/decrement"
	routeAttribute = "/attribute"
)

// writableAttrs are the attributes hosts may write through the attribute
// route.
var writableAttrs = map[string]bool{
	AttrValue:    true,
	AttrMinValue: true,
	AttrMaxValue: true,
}

// Handler serves counters over HTTP for htmx pages.
//
// The server keeps no counter state. Each response embeds the counter's
// attributes in a signed (or, with WithSensitive, encrypted) token; each
// request brings the token back, recreates the counter from it, applies
// the click or attribute write and renders the result:
//
//	h := mycounter.NewHandler(key)
//	http.Handle(h.Prefix()+"/", h)
//	// in a page:
//	@h.Component(map[string]string{"min-value": "0", "max-value": "10"})
//
// Every valueChange dispatched while serving a request is reported through
// the HX-Trigger response header as {"valueChange":{"value":N}}.
type Handler struct {
	prefix      string
	registry    *Registry
	encoder     *encoding.Encoder
	sensitive   bool
	swap        SwapMode
	counterOpts []Option
	log         *zerolog.Logger

	// OnError is called when a request cannot be served.
	// Customize this to handle errors appropriately for your application.
	OnError func(http.ResponseWriter, *http.Request, error)
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithPrefix sets the URL prefix. Defaults to DefaultPrefix.
func WithPrefix(prefix string) HandlerOption {
	return func(h *Handler) {
		h.prefix = strings.TrimSuffix(prefix, "/")
	}
}

// WithSensitive encrypts state tokens instead of signing them.
func WithSensitive() HandlerOption {
	return func(h *Handler) {
		h.sensitive = true
	}
}

// WithSwap sets the hx-swap mode of the click regions. Defaults to SwapOuter.
func WithSwap(mode SwapMode) HandlerOption {
	return func(h *Handler) {
		h.swap = mode
	}
}

// WithLogger sets the logger. Defaults to the global zerolog logger.
func WithLogger(l *zerolog.Logger) HandlerOption {
	return func(h *Handler) {
		h.log = l
	}
}

// WithRegistry sets the registry counters are created from. Defaults to
// DefaultRegistry.
func WithRegistry(reg *Registry) HandlerOption {
	return func(h *Handler) {
		h.registry = reg
	}
}

// WithCounterOptions adds options applied to every counter the handler
// creates, e.g. slot content or ObserveBounds.
func WithCounterOptions(opts ...Option) HandlerOption {
	return func(h *Handler) {
		h.counterOpts = append(h.counterOpts, opts...)
	}
}

// NewHandler creates a handler using key to sign or seal state tokens.
// Keys shorter than 32 bytes are stretched.
func NewHandler(key []byte, opts ...HandlerOption) *Handler {
	enc, err := encoding.NewEncoder(key)
	if err != nil {
		panic(fmt.Sprintf("mycounter: failed to create encoder: %v", err))
	}

	h := &Handler{
		prefix:  DefaultPrefix,
		encoder: enc,
		swap:    SwapOuter,
		log:     &log.Logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.registry == nil {
		h.registry = DefaultRegistry()
	}

	h.OnError = func(w http.ResponseWriter, r *http.Request, err error) {
		if IsBadRequest(err) {
			h.log.Info().Err(err).Str("path", r.URL.Path).Msg("rejected counter request")
			http.Error(w, "Bad request", http.StatusBadRequest)
			return
		}
		h.log.Error().Err(err).Str("path", r.URL.Path).Msg("counter request failed")
		http.Error(w, "Internal error", http.StatusInternalServerError)
	}

	return h
}

// Logger returns the logger the handler reports to.
func (h *Handler) Logger() *zerolog.Logger {
	return h.log
}

// Prefix returns the URL prefix all routes are mounted under.
func (h *Handler) Prefix() string {
	return h.prefix
}

// Component renders a new counter with the given initial attributes. An id
// is assigned when attrs has none.
func (h *Handler) Component(attrs map[string]string) templ.Component {
	initial := make(map[string]string, len(attrs)+1)
	for k, v := range attrs {
		initial[k] = v
	}

	c, err := h.mount(initial)
	if err != nil {
		h.log.Error().Err(err).Msg("create counter")
		return ErrorComponent(err)
	}
	return h.component(c)
}

// ServeHTTP routes requests below the prefix.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// CSRF protection: mutating methods require HX-Request header
	if r.Method != http.MethodGet && r.Method != http.MethodHead && !IsHTMX(r) {
		http.Error(w, "Forbidden: HTMX request required", http.StatusForbidden)
		return
	}

	route := strings.TrimPrefix(r.URL.Path, h.prefix)
	switch r.Method + " " + route {
	case "GET " + routeRender, "GET ", "HEAD " + routeRender, "HEAD ":
		h.serve(w, r, nil)
	case "POST " + routeIncrement:
		h.serve(w, r, func(c *Counter) error {
			c.Click(RegionIncrement)
			return nil
		})
	case "POST " + routeDecrement:
		h.serve(w, r, func(c *Counter) error {
			c.Click(RegionDecrement)
			return nil
		})
	case "POST " + routeAttribute:
		h.serve(w, r, func(c *Counter) error {
			name := r.FormValue("name")
			if !writableAttrs[name] {
				return fmt.Errorf("%w: %q", ErrUnknownAttribute, name)
			}
			c.SetAttribute(name, r.FormValue("value"))
			return nil
		})
	default:
		http.NotFound(w, r)
	}
}

// serve decodes the state token, recreates and mounts the counter, runs act
// and renders the result.
func (h *Handler) serve(w http.ResponseWriter, r *http.Request, act func(*Counter) error) {
	attrs := map[string]string{}
	if token := r.FormValue("p"); token != "" {
		decoded, err := h.encoder.Decode(token, h.sensitive)
		if err != nil {
			h.OnError(w, r, fmt.Errorf("decode state: %w", wrapEncodingError(err)))
			return
		}
		attrs = decoded
	}

	c, err := h.mount(attrs)
	if err != nil {
		h.OnError(w, r, err)
		return
	}

	var last *Event
	remove := c.AddEventListener(EventValueChange, func(evt Event) {
		last = &evt
	})
	defer remove()

	if act != nil {
		if err := act(c); err != nil {
			h.OnError(w, r, err)
			return
		}
	}

	h.log.Debug().
		Str("id", c.ID()).
		Str("route", strings.TrimPrefix(r.URL.Path, h.prefix)).
		Str("value", FormatNumber(c.Value())).
		Msg("counter served")

	if last != nil {
		w.Header().Set("HX-Trigger", BuildTriggerHeader(EventValueChange, eventDetail(*last)))
	}
	if err := Render(w, r, h.component(c)); err != nil {
		h.log.Error().Err(err).Str("id", c.ID()).Msg("render counter")
	}
}

// mount creates a counter from attrs and inserts it into a fresh document.
func (h *Handler) mount(attrs map[string]string) (*Counter, error) {
	if attrs[AttrID] == "" {
		attrs[AttrID] = newElementID()
	}

	opts := append([]Option{WithAttributes(attrs)}, h.counterOpts...)
	c, err := h.registry.Create(TagName, opts...)
	if err != nil {
		return nil, err
	}
	NewDocument().Append(c)
	return c, nil
}

// component renders c with its click regions wired to the handler routes.
func (h *Handler) component(c *Counter) templ.Component {
	return c.ComponentWith(func(region Region) templ.Attributes {
		path := h.prefix + "/" + region.String()

		token, err := h.encoder.Encode(c.Attributes(), h.sensitive)
		if err != nil {
			h.log.Error().Err(err).Str("id", c.ID()).Msg("encode counter state")
			token = ""
		}

		attrs := WireAttrs(path, http.MethodPost, token)
		// Regions live in the shadow root; "host" resolves to the
		// <my-counter> element that owns it.
		attrs["hx-target"] = "host"
		attrs["hx-swap"] = string(h.swap)
		return attrs
	})
}

// newElementID returns a unique, lowercase element id.
func newElementID() string {
	id := ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader)
	return TagName + "-" + strings.ToLower(id.String())
}
