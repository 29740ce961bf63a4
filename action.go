package mycounter

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/goccy/go-json"
)

// SwapMode defines the htmx swap strategy used for a counter's response.
//
// See https://htmx.org/attributes/hx-swap/ for the full list.
type SwapMode string

const (
	// SwapOuter replaces the whole <my-counter> element. This is the default:
	// the response carries the updated attributes and a fresh state token.
	SwapOuter SwapMode = "outerHTML"

	// SwapNone discards the response. Useful when the host only listens for
	// the valueChange trigger and renders the value elsewhere.
	SwapNone SwapMode = "none"
)

// WireAttrs builds the htmx attributes for one counter route.
//
// For GET, the state token goes into the query string. For the mutating
// methods it goes into hx-vals so it travels in the form body:
//
//	WireAttrs("/_c/my-counter/increment", http.MethodPost, token)
//	// {"hx-post": "/_c/my-counter/increment", "hx-vals": `{"p":"…"}`}
func WireAttrs(path, method, token string) templ.Attributes {
	attrs := templ.Attributes{}

	if method == http.MethodGet || method == "" {
		url := path
		if token != "" {
			url = path + "?p=" + token
		}
		attrs["hx-get"] = url
		return attrs
	}

	switch method {
	case http.MethodPost:
		attrs["hx-post"] = path
	case http.MethodPut:
		attrs["hx-put"] = path
	case http.MethodPatch:
		attrs["hx-patch"] = path
	case http.MethodDelete:
		attrs["hx-delete"] = path
	}
	if token != "" {
		data, _ := json.Marshal(map[string]string{"p": token})
		attrs["hx-vals"] = string(data)
	}
	return attrs
}
