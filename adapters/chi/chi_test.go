package hxcounterchi

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm/mycounter"
)

// quiet keeps handler logs out of test output.
func quiet() Option {
	nop := zerolog.Nop()
	return WithHandlerOptions(mycounter.WithLogger(&nop))
}

func post(r http.Handler, target string, form url.Values, htmx bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestMount(t *testing.T) {
	r := chi.NewRouter()
	h := Mount(r, quiet())

	require.NotNil(t, h)
	assert.Equal(t, mycounter.DefaultPrefix, h.Prefix())

	req := httptest.NewRequest(http.MethodGet, h.Prefix()+"/", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<span class="value-display">0</span>`)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
}

func TestClickRoundTrip(t *testing.T) {
	r := chi.NewRouter()
	h := Mount(r, quiet(), WithKey([]byte("chi-key")))

	first, err := mycounter.NewTestRequest(http.MethodPost, h.Prefix()+"/increment").Execute(r)
	require.NoError(t, err)
	require.True(t, first.IsOK())
	require.NotEmpty(t, first.Token)

	second := post(r, h.Prefix()+"/increment", url.Values{"p": {first.Token}}, true)
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Contains(t, second.Body.String(), `<span class="value-display">2</span>`)
	assert.JSONEq(t, `{"valueChange":{"value":2}}`, second.Header().Get("HX-Trigger"))
}

func TestMountWithPath(t *testing.T) {
	r := chi.NewRouter()
	h := Mount(r, quiet(), WithPath("/ui/counter/"), WithHandlerOptions(mycounter.WithCounterOptions(mycounter.ObserveBounds())))

	assert.Equal(t, "/ui/counter", h.Prefix())

	result, err := mycounter.NewTestRequest(http.MethodPost, "/ui/counter/attribute").
		WithFormData("name", "min-value").
		WithFormData("value", "4").
		Execute(r)
	require.NoError(t, err)
	assert.True(t, result.IsOK())
	assert.Equal(t, "4", result.DisplayText())
}

func TestCSRFProtection(t *testing.T) {
	r := chi.NewRouter()
	h := Mount(r, quiet())

	rec := post(r, h.Prefix()+"/decrement", url.Values{}, false)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestOtherRoutesUntouched(t *testing.T) {
	r := chi.NewRouter()
	Mount(r, quiet())
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "ok", rec.Body.String())
	assert.NotContains(t, rec.Header().Get("Content-Type"), "text/html")
}

func TestMountServesBarePrefix(t *testing.T) {
	r := chi.NewRouter()
	h := Mount(r, quiet())

	req := httptest.NewRequest(http.MethodGet, h.Prefix(), nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<span class="value-display">0</span>`)
}

func TestBadTokenRendersErrorFragment(t *testing.T) {
	r := chi.NewRouter()
	h := Mount(r, quiet())

	rec := post(r, h.Prefix()+"/increment", url.Values{"p": {"not-a-token"}}, true)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `<div class="my-counter-error">`)
	assert.Contains(t, rec.Body.String(), "invalid state format")
}

func TestUnknownAttributeRendersErrorFragment(t *testing.T) {
	r := chi.NewRouter()
	h := Mount(r, quiet())

	rec := post(r, h.Prefix()+"/attribute", url.Values{"name": {"onclick"}, "value": {"x"}}, true)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown attribute")
	assert.Contains(t, rec.Body.String(), "&#34;onclick&#34;")
}

func TestRenderErrorHidesInternalErrors(t *testing.T) {
	nop := zerolog.Nop()
	onError := renderError(&nop)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	onError(rec, req, errors.New("disk on fire"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal error")
	assert.NotContains(t, rec.Body.String(), "disk on fire")
}
