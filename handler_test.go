package mycounter

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/rs/zerolog"
)

var testKey = []byte("test-key-32-bytes-long-for-aes!!")

func newTestHandler(opts ...HandlerOption) *Handler {
	nop := zerolog.Nop()
	return NewHandler(testKey, append([]HandlerOption{WithLogger(&nop)}, opts...)...)
}

// initialToken renders h.Component(attrs) and returns the HTML and the
// state token embedded in it.
func initialToken(t *testing.T, h *Handler, attrs map[string]string) (string, string) {
	t.Helper()
	var buf bytes.Buffer
	if err := h.Component(attrs).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Component().Render() error = %v", err)
	}
	html := buf.String()
	token := parseToken(html)
	if token == "" {
		t.Fatalf("no state token in %s", html)
	}
	return html, token
}

func TestHandlerRenderFresh(t *testing.T) {
	h := newTestHandler()

	result, err := NewTestRequest(http.MethodGet, h.Prefix()+"/").Execute(h)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if !result.IsOK() {
		t.Fatalf("status = %d, want 200: %s", result.StatusCode, result.HTML)
	}
	if got := result.DisplayText(); got != "0" {
		t.Errorf("DisplayText() = %q, want %q", got, "0")
	}
	if !result.HTMLContains(`<my-counter id="my-counter-`) {
		t.Errorf("expected a generated id: %s", result.HTML)
	}
	if _, ok := result.LastValueChange(); ok {
		t.Error("render should not send a valueChange trigger")
	}
	if result.Token == "" {
		t.Error("expected a state token in the response")
	}
}

func TestHandlerIncrementCarriesState(t *testing.T) {
	h := newTestHandler()

	var (
		result *TestResult
		token  string
		err    error
	)
	for i := 1; i <= 3; i++ {
		result, err = TestClick(h, token, RegionIncrement)
		if err != nil {
			t.Fatalf("TestClick() error = %v", err)
		}
		if !result.IsOK() {
			t.Fatalf("click %d: status = %d: %s", i, result.StatusCode, result.HTML)
		}

		v, ok := result.LastValueChange()
		if !ok || v != float64(i) {
			t.Errorf("click %d: valueChange = %v (%v), want %d", i, v, ok, i)
		}
		token = result.Token
	}

	if got := result.DisplayText(); got != "3" {
		t.Errorf("DisplayText() = %q, want %q", got, "3")
	}
}

func TestHandlerKeepsElementID(t *testing.T) {
	h := newTestHandler()
	html, token := initialToken(t, h, map[string]string{"id": "guests", "value": "1"})

	if !strings.Contains(html, `<my-counter id="guests"`) {
		t.Errorf("expected the element id on the host: %s", html)
	}
	if !strings.Contains(html, `hx-target="host"`) {
		t.Errorf("expected regions to target the shadow host: %s", html)
	}

	result, err := TestClick(h, token, RegionDecrement)
	if err != nil {
		t.Fatalf("TestClick() error = %v", err)
	}
	if !result.HTMLContains(`<my-counter id="guests" value="0">`) {
		t.Errorf("expected the same id with the new value: %s", result.HTML)
	}
	if !result.HTMLContains(`hx-swap="outerHTML"`) {
		t.Errorf("expected outerHTML swap: %s", result.HTML)
	}
}

func TestHandlerClampsAtBound(t *testing.T) {
	h := newTestHandler()
	_, token := initialToken(t, h, map[string]string{"min-value": "0", "max-value": "2", "value": "2"})

	result, err := TestClick(h, token, RegionIncrement)
	if err != nil {
		t.Fatalf("TestClick() error = %v", err)
	}

	if got := result.DisplayText(); got != "2" {
		t.Errorf("DisplayText() = %q, want %q", got, "2")
	}
	if v, ok := result.LastValueChange(); !ok || v != 2.0 {
		t.Errorf("valueChange = %v (%v), want 2", v, ok)
	}
}

func TestHandlerInfiniteValue(t *testing.T) {
	h := newTestHandler()
	_, token := initialToken(t, h, map[string]string{"value": "Infinity"})

	result, err := TestClick(h, token, RegionIncrement)
	if err != nil {
		t.Fatalf("TestClick() error = %v", err)
	}

	if v, ok := result.LastValueChange(); !ok || v != "Infinity" {
		t.Errorf("valueChange = %v (%v), want \"Infinity\"", v, ok)
	}
}

func TestHandlerSetAttribute(t *testing.T) {
	h := newTestHandler()
	_, token := initialToken(t, h, map[string]string{"max-value": "10"})

	result, err := TestSetAttribute(h, token, AttrValue, "50")
	if err != nil {
		t.Fatalf("TestSetAttribute() error = %v", err)
	}

	if !result.IsOK() {
		t.Fatalf("status = %d: %s", result.StatusCode, result.HTML)
	}
	if got := result.DisplayText(); got != "10" {
		t.Errorf("DisplayText() = %q, want %q", got, "10")
	}
	if _, ok := result.LastValueChange(); ok {
		t.Error("attribute writes should not send valueChange")
	}
}

func TestHandlerBoundWrites(t *testing.T) {
	tests := []struct {
		name string
		opts []HandlerOption
		want string
	}{
		{"not observed", nil, "8"},
		{"observed", []HandlerOption{WithCounterOptions(ObserveBounds())}, "5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(tt.opts...)
			_, token := initialToken(t, h, map[string]string{"value": "8"})

			result, err := TestSetAttribute(h, token, AttrMaxValue, "5")
			if err != nil {
				t.Fatalf("TestSetAttribute() error = %v", err)
			}
			if got := result.DisplayText(); got != tt.want {
				t.Errorf("DisplayText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHandlerRejects(t *testing.T) {
	h := newTestHandler()
	_, token := initialToken(t, h, nil)

	tests := []struct {
		name   string
		req    *TestRequestBuilder
		status int
	}{
		{
			name:   "mutation without HX-Request",
			req:    NewTestRequest(http.MethodPost, h.Prefix()+"/increment").WithToken(token).WithoutHTMX(),
			status: http.StatusForbidden,
		},
		{
			name:   "unknown route",
			req:    NewTestRequest(http.MethodPost, h.Prefix()+"/reset").WithToken(token),
			status: http.StatusNotFound,
		},
		{
			name:   "increment via GET",
			req:    NewTestRequest(http.MethodGet, h.Prefix()+"/increment").WithToken(token),
			status: http.StatusNotFound,
		},
		{
			name:   "tampered token",
			req:    NewTestRequest(http.MethodPost, h.Prefix()+"/increment").WithToken("x" + token),
			status: http.StatusBadRequest,
		},
		{
			name:   "malformed token",
			req:    NewTestRequest(http.MethodGet, h.Prefix()+"/").WithToken("not-a-token"),
			status: http.StatusBadRequest,
		},
		{
			name: "read-only attribute",
			req: NewTestRequest(http.MethodPost, h.Prefix()+"/attribute").
				WithToken(token).
				WithFormData("name", "id").
				WithFormData("value", "hijack"),
			status: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tt.req.Execute(h)
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if !result.HasStatus(tt.status) {
				t.Errorf("status = %d, want %d: %s", result.StatusCode, tt.status, result.HTML)
			}
		})
	}
}

func TestHandlerSensitive(t *testing.T) {
	sealed := newTestHandler(WithSensitive())
	signed := newTestHandler()

	_, token := initialToken(t, sealed, map[string]string{"value": "41"})
	if strings.Contains(token, ".") {
		t.Errorf("sensitive token should not be in signed form: %q", token)
	}

	result, err := TestClick(sealed, token, RegionIncrement)
	if err != nil {
		t.Fatalf("TestClick() error = %v", err)
	}
	if got := result.DisplayText(); got != "42" {
		t.Errorf("DisplayText() = %q, want %q", got, "42")
	}

	result, err = TestClick(signed, token, RegionIncrement)
	if err != nil {
		t.Fatalf("TestClick() error = %v", err)
	}
	if !result.HasStatus(http.StatusBadRequest) {
		t.Errorf("signed handler accepted a sealed token: status %d", result.StatusCode)
	}
}

func TestHandlerPrefixAndSwap(t *testing.T) {
	h := newTestHandler(WithPrefix("/widgets/counter/"), WithSwap(SwapNone))

	if got := h.Prefix(); got != "/widgets/counter" {
		t.Errorf("Prefix() = %q, want %q", got, "/widgets/counter")
	}

	html, _ := initialToken(t, h, nil)
	for _, want := range []string{`hx-post="/widgets/counter/increment"`, `hx-post="/widgets/counter/decrement"`, `hx-swap="none"`} {
		if !strings.Contains(html, want) {
			t.Errorf("HTML missing %q: %s", want, html)
		}
	}
}

func TestHandlerCounterOptions(t *testing.T) {
	h := newTestHandler(WithCounterOptions(WithValuePostfix(templ.Raw("pts"))))

	result, err := TestClick(h, "", RegionIncrement)
	if err != nil {
		t.Fatalf("TestClick() error = %v", err)
	}
	if !result.HTMLContains(`<span slot="value-postfix">pts</span>`) {
		t.Errorf("expected slot content in response: %s", result.HTML)
	}
}

func TestHandlerUnknownElement(t *testing.T) {
	var handled error
	h := newTestHandler(WithRegistry(NewRegistry()))
	h.OnError = func(w http.ResponseWriter, _ *http.Request, err error) {
		handled = err
		w.WriteHeader(http.StatusTeapot)
	}

	var buf bytes.Buffer
	if err := h.Component(nil).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Component().Render() error = %v", err)
	}
	html := buf.String()
	if !strings.Contains(html, "my-counter-error") {
		t.Errorf("expected error component: %s", html)
	}

	result, err := TestClick(h, "", RegionIncrement)
	if err != nil {
		t.Fatalf("TestClick() error = %v", err)
	}
	if !result.HasStatus(http.StatusTeapot) {
		t.Errorf("status = %d, want %d", result.StatusCode, http.StatusTeapot)
	}
	if !errors.Is(handled, ErrUnknownElement) {
		t.Errorf("OnError got %v, want ErrUnknownElement", handled)
	}
}

func TestNewElementID(t *testing.T) {
	a, b := newElementID(), newElementID()
	if a == b {
		t.Errorf("ids should be unique: %q", a)
	}
	if !strings.HasPrefix(a, "my-counter-") || strings.ToLower(a) != a {
		t.Errorf("id = %q, want lowercase my-counter- prefix", a)
	}
}
