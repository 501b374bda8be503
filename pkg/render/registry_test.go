package render

import (
	"context"
	"testing"
)

type staticRenderer struct {
	name string
}

func (r staticRenderer) Name() string        { return r.name }
func (r staticRenderer) ContentType() string { return "text/plain" }
func (r staticRenderer) Render(context.Context, Form, RenderOptions) ([]byte, error) {
	return []byte(r.name), nil
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	registry := NewRegistry()

	if err := registry.Register(staticRenderer{name: "html"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.Register(staticRenderer{name: "html"}); err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
	if err := registry.Register(nil); err == nil {
		t.Fatal("expected nil renderer to fail")
	}
	if err := registry.Register(staticRenderer{}); err == nil {
		t.Fatal("expected unnamed renderer to fail")
	}

	renderer, err := registry.Get("html")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if renderer.Name() != "html" {
		t.Fatalf("unexpected renderer: %s", renderer.Name())
	}

	if _, err := registry.Get("missing"); err == nil {
		t.Fatal("expected missing renderer to fail")
	}
}

func TestRegistry_ListSorted(t *testing.T) {
	registry := NewRegistry()
	registry.MustRegister(staticRenderer{name: "tui"})
	registry.MustRegister(staticRenderer{name: "html"})

	names := registry.List()
	if len(names) != 2 || names[0] != "html" || names[1] != "tui" {
		t.Fatalf("unexpected names: %v", names)
	}
	if !registry.Has("tui") || registry.Has("missing") {
		t.Fatalf("unexpected Has results")
	}
}
