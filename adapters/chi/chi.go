// Package hxcounterchi mounts the mycounter handler on a chi router.
//
//	r := chi.NewRouter()
//	h := hxcounterchi.Mount(r, hxcounterchi.WithKey(key))
package hxcounterchi

import (
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/rs/zerolog"

	"github.com/pthm/mycounter"
)

// Option configures Mount.
type Option func(*options)

type options struct {
	key     []byte
	path    string
	handler []mycounter.HandlerOption
}

// WithKey sets the key used to sign or seal state tokens. Without it a
// random key is generated and tokens do not survive a restart.
func WithKey(key []byte) Option {
	return func(o *options) {
		o.key = key
	}
}

// WithPath sets the URL prefix. Defaults to mycounter.DefaultPrefix.
func WithPath(path string) Option {
	return func(o *options) {
		o.path = strings.TrimSuffix(path, "/")
	}
}

// WithHandlerOptions passes options through to mycounter.NewHandler.
func WithHandlerOptions(opts ...mycounter.HandlerOption) Option {
	return func(o *options) {
		o.handler = append(o.handler, opts...)
	}
}

// Mount creates a counter handler and routes its prefix and everything
// below it to the handler. Failed requests are answered through render
// with an HTML error fragment that htmx can swap in.
func Mount(r chi.Router, opts ...Option) *mycounter.Handler {
	o := &options{path: mycounter.DefaultPrefix}
	for _, opt := range opts {
		opt(o)
	}

	key := o.key
	if key == nil {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			panic(fmt.Sprintf("hxcounterchi: failed to generate random key: %v", err))
		}
	}

	h := mycounter.NewHandler(key, append([]mycounter.HandlerOption{mycounter.WithPrefix(o.path)}, o.handler...)...)
	h.OnError = renderError(h.Logger())

	r.Handle(o.path, h)
	r.Handle(o.path+"/*", h)
	return h
}

// renderError responds with mycounter.ErrorComponent. Client errors show
// their message; anything else is logged and shown as an internal error.
func renderError(log *zerolog.Logger) func(http.ResponseWriter, *http.Request, error) {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		status := http.StatusBadRequest
		shown := err
		if mycounter.IsBadRequest(err) {
			log.Info().Err(err).Str("path", r.URL.Path).Msg("rejected counter request")
		} else {
			log.Error().Err(err).Str("path", r.URL.Path).Msg("counter request failed")
			status = http.StatusInternalServerError
			shown = errInternal
		}

		var buf strings.Builder
		if rerr := mycounter.ErrorComponent(shown).Render(r.Context(), &buf); rerr != nil {
			http.Error(w, http.StatusText(status), status)
			return
		}
		render.Status(r, status)
		render.HTML(w, r, buf.String())
	}
}

var errInternal = errors.New("internal error")
