package mycounter

import (
	"math"
	"net/http"

	"github.com/a-h/templ"
	"github.com/goccy/go-json"
)

// Render writes a templ component to the HTTP response.
//
// Sets Content-Type to text/html and renders the component using the
// request's context:
//
//	func page(w http.ResponseWriter, r *http.Request) {
//	    mycounter.Render(w, r, layout(handler.Component(nil)))
//	}
func Render(w http.ResponseWriter, r *http.Request, component templ.Component) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(r.Context(), w)
}

// IsHTMX returns true if the request originated from htmx.
//
// htmx sends HX-Request: true on all requests.
func IsHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// BuildTriggerHeader builds an HX-Trigger header value.
//
// Without data the event name is returned as is. With data the header is a
// JSON object {"event": data}; htmx fires the event with evt.detail set to
// data.
func BuildTriggerHeader(event string, data map[string]any) string {
	if event == "" {
		return ""
	}
	if data == nil {
		return event
	}

	out, err := json.Marshal(map[string]any{event: data})
	if err != nil {
		return event
	}
	return string(out)
}

// eventDetail is the HX-Trigger payload of a valueChange event. JSON has no
// infinities, so non-finite values are sent in their string form.
func eventDetail(evt Event) map[string]any {
	if math.IsInf(evt.Detail, 0) || math.IsNaN(evt.Detail) {
		return map[string]any{"value": FormatNumber(evt.Detail)}
	}
	return map[string]any{"value": evt.Detail}
}
