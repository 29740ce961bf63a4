package mycounter

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/goccy/go-json"
)

// TestResult holds the response of a counter request for testing.
//
// Provides convenience methods for asserting on HTML content, the state
// token carried forward and the valueChange trigger.
type TestResult struct {
	HTML       string
	StatusCode int
	Headers    http.Header
	Token      string
}

// TestRenderCounter renders a counter without HTTP and returns its HTML.
//
//	c := mycounter.New(mycounter.WithAttributes(attrs))
//	html, err := mycounter.TestRenderCounter(c)
func TestRenderCounter(c *Counter) (string, error) {
	var buf bytes.Buffer
	if err := c.Component().Render(context.Background(), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// TestClick posts a click on region to the handler with the given state
// token ("" for a fresh counter).
//
//	first, _ := mycounter.TestClick(h, "", mycounter.RegionIncrement)
//	second, _ := mycounter.TestClick(h, first.Token, mycounter.RegionIncrement)
func TestClick(h *Handler, token string, region Region) (*TestResult, error) {
	return NewTestRequest(http.MethodPost, h.Prefix()+"/"+region.String()).
		WithToken(token).
		Execute(h)
}

// TestSetAttribute posts a host attribute write to the handler.
func TestSetAttribute(h *Handler, token, name, value string) (*TestResult, error) {
	return NewTestRequest(http.MethodPost, h.Prefix()+routeAttribute).
		WithToken(token).
		WithFormData("name", name).
		WithFormData("value", value).
		Execute(h)
}

// HTMLContains checks if the HTML contains a substring.
func (r *TestResult) HTMLContains(substr string) bool {
	return strings.Contains(r.HTML, substr)
}

// DisplayText returns the text of the value badge in the rendered HTML.
func (r *TestResult) DisplayText() string {
	const open = `<span class="` + classDisplay + `">`
	start := strings.Index(r.HTML, open)
	if start < 0 {
		return ""
	}
	start += len(open)
	end := strings.Index(r.HTML[start:], "</span>")
	if end < 0 {
		return ""
	}
	return r.HTML[start : start+end]
}

// LastValueChange returns the payload of the valueChange trigger and
// whether one was sent. Non-finite values are returned as strings.
func (r *TestResult) LastValueChange() (any, bool) {
	header := r.Headers.Get("HX-Trigger")
	if header == "" {
		return nil, false
	}

	var payload map[string]map[string]any
	if err := json.Unmarshal([]byte(header), &payload); err != nil {
		return nil, false
	}
	detail, ok := payload[EventValueChange]
	if !ok {
		return nil, false
	}
	v, ok := detail["value"]
	return v, ok
}

// IsOK checks if the status code is 200.
func (r *TestResult) IsOK() bool {
	return r.StatusCode == http.StatusOK
}

// HasStatus checks if the status code matches.
func (r *TestResult) HasStatus(code int) bool {
	return r.StatusCode == code
}

// TestRequestBuilder provides a fluent interface for building test requests.
//
//	result, err := mycounter.NewTestRequest("POST", h.Prefix()+"/increment").
//	    WithToken(token).
//	    WithHeader("X-Custom", "header").
//	    Execute(h)
type TestRequestBuilder struct {
	method   string
	url      string
	formData map[string]string
	headers  map[string]string
	ctx      context.Context
	noHTMX   bool
}

// NewTestRequest creates a new test request builder.
func NewTestRequest(method, url string) *TestRequestBuilder {
	return &TestRequestBuilder{
		method:   method,
		url:      url,
		formData: make(map[string]string),
		headers:  make(map[string]string),
		ctx:      context.Background(),
	}
}

// WithToken sets the state token. GET requests carry it in the query
// string, all others in the form body.
func (b *TestRequestBuilder) WithToken(token string) *TestRequestBuilder {
	if token == "" {
		return b
	}
	if b.method == http.MethodGet {
		sep := "?"
		if strings.Contains(b.url, "?") {
			sep = "&"
		}
		b.url += sep + "p=" + url.QueryEscape(token)
		return b
	}
	return b.WithFormData("p", token)
}

// WithFormData adds form data to the request.
func (b *TestRequestBuilder) WithFormData(key, value string) *TestRequestBuilder {
	b.formData[key] = value
	return b
}

// WithHeader adds a header to the request.
func (b *TestRequestBuilder) WithHeader(key, value string) *TestRequestBuilder {
	b.headers[key] = value
	return b
}

// WithoutHTMX omits the HX-Request header.
func (b *TestRequestBuilder) WithoutHTMX() *TestRequestBuilder {
	b.noHTMX = true
	return b
}

// WithContext sets the context for the request.
func (b *TestRequestBuilder) WithContext(ctx context.Context) *TestRequestBuilder {
	b.ctx = ctx
	return b
}

// Execute executes the request against h.
func (b *TestRequestBuilder) Execute(h http.Handler) (*TestResult, error) {
	form := url.Values{}
	for k, v := range b.formData {
		form.Set(k, v)
	}

	req := httptest.NewRequest(b.method, b.url, strings.NewReader(form.Encode()))
	req = req.WithContext(b.ctx)

	if !b.noHTMX {
		req.Header.Set("HX-Request", "true")
	}
	if len(b.formData) > 0 {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for k, v := range b.headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return &TestResult{
		HTML:       rec.Body.String(),
		StatusCode: rec.Code,
		Headers:    rec.Header(),
		Token:      parseToken(rec.Body.String()),
	}, nil
}

// parseToken extracts the state token from the first hx-vals attribute in
// the rendered HTML. Attribute values are HTML-escaped JSON.
func parseToken(html string) string {
	const prefix = `hx-vals="`
	start := strings.Index(html, prefix)
	if start < 0 {
		return ""
	}
	start += len(prefix)
	end := strings.Index(html[start:], `"`)
	if end < 0 {
		return ""
	}

	raw := strings.ReplaceAll(html[start:start+end], "&#34;", `"`)
	raw = strings.ReplaceAll(raw, "&quot;", `"`)

	var vals map[string]string
	if err := json.Unmarshal([]byte(raw), &vals); err != nil {
		return ""
	}
	return vals["p"]
}
