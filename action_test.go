package mycounter

import (
	"net/http"
	"testing"
)

func TestWireAttrsMethods(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		wantAttr string
	}{
		{"GET", http.MethodGet, "hx-get"},
		{"POST", http.MethodPost, "hx-post"},
		{"PUT", http.MethodPut, "hx-put"},
		{"PATCH", http.MethodPatch, "hx-patch"},
		{"DELETE", http.MethodDelete, "hx-delete"},
		{"empty defaults to GET", "", "hx-get"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attrs := WireAttrs("/url", tt.method, "")
			if _, ok := attrs[tt.wantAttr]; !ok {
				t.Errorf("Expected attribute %q not found in %v", tt.wantAttr, attrs)
			}
			if _, ok := attrs["hx-vals"]; ok {
				t.Error("hx-vals should be omitted without a token")
			}
		})
	}
}

func TestWireAttrsGetToken(t *testing.T) {
	attrs := WireAttrs("/_c/my-counter/", http.MethodGet, "abc.def")

	if got := attrs["hx-get"]; got != "/_c/my-counter/?p=abc.def" {
		t.Errorf("hx-get = %v, want %q", got, "/_c/my-counter/?p=abc.def")
	}
}

func TestWireAttrsPostToken(t *testing.T) {
	attrs := WireAttrs("/_c/my-counter/increment", http.MethodPost, "abc.def")

	if got := attrs["hx-post"]; got != "/_c/my-counter/increment" {
		t.Errorf("hx-post = %v, want %q", got, "/_c/my-counter/increment")
	}
	if got := attrs["hx-vals"]; got != `{"p":"abc.def"}` {
		t.Errorf("hx-vals = %v, want %q", got, `{"p":"abc.def"}`)
	}
}
