package render_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goliatone/go-formbuilder/pkg/render"
)

type stubRenderer struct {
	name        string
	contentType string
}

func (s stubRenderer) Name() string        { return s.name }
func (s stubRenderer) ContentType() string { return s.contentType }
func (s stubRenderer) Render(context.Context, render.Page, render.RenderOptions) ([]byte, error) {
	return []byte(s.name), nil
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	registry := render.NewRegistry()
	registry.MustRegister(stubRenderer{name: "vanilla", contentType: "text/html; charset=utf-8"})

	if err := registry.Register(stubRenderer{name: "vanilla"}); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if err := registry.Register(nil); err == nil {
		t.Fatalf("expected error for nil renderer")
	}
	if _, err := registry.Get("missing"); err == nil {
		t.Fatalf("expected error for missing renderer")
	}
	got, err := registry.Get("vanilla")
	if err != nil || got.Name() != "vanilla" {
		t.Fatalf("get: %v, %v", got, err)
	}
}

func TestRegistry_Negotiate(t *testing.T) {
	registry := render.NewRegistry()
	registry.MustRegister(stubRenderer{name: "vanilla", contentType: "text/html; charset=utf-8"})
	registry.MustRegister(stubRenderer{name: "json", contentType: "application/json"})

	tests := []struct {
		accept string
		want   string
	}{
		{accept: "", want: "vanilla"},
		{accept: "*/*", want: "vanilla"},
		{accept: "application/json", want: "json"},
		{accept: "text/plain, application/json;q=0.9", want: "json"},
		{accept: "text/html,application/xhtml+xml", want: "vanilla"},
		{accept: "application/json;q=0.1, text/html", want: "vanilla"},
		{accept: "application/json;q=0, text/html", want: "vanilla"},
		{accept: "text/*, application/json;q=0.5", want: "vanilla"},
		{accept: "application/xml", want: "vanilla"},
	}
	for _, tc := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.accept != "" {
			req.Header.Set("Accept", tc.accept)
		}
		got, err := registry.Negotiate(req)
		if err != nil {
			t.Fatalf("negotiate %q: %v", tc.accept, err)
		}
		if got.Name() != tc.want {
			t.Fatalf("negotiate %q = %s, want %s", tc.accept, got.Name(), tc.want)
		}
	}

	if names := registry.List(); len(names) != 2 || names[0] != "json" {
		t.Fatalf("unexpected list %v", names)
	}
}

func TestRegistry_NegotiateEmpty(t *testing.T) {
	if _, err := render.NewRegistry().Negotiate(httptest.NewRequest(http.MethodGet, "/", nil)); err == nil {
		t.Fatalf("expected error for empty registry")
	}
}
