package markdown

import (
	"strings"
	"testing"

	"github.com/aldo555/glossary-magic/internal/linker"
)

func TestRendererRendersLinks(t *testing.T) {
	renderer := NewRenderer(RenderOptions{})

	html, err := renderer.Render([]byte("Every [node](https://example.com/glossary?search=Node) counts."))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(html), `<a href="https://example.com/glossary?search=Node">node</a>`) {
		t.Fatalf("expected anchor in output, got %s", html)
	}
}

func TestRendererSafeModeDropsRawHTML(t *testing.T) {
	source := []byte("<div class=\"x\">raw</div>\n")

	unsafe, err := NewRenderer(RenderOptions{}).Render(source)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(unsafe), `<div class="x">`) {
		t.Fatalf("expected raw html kept by default, got %s", unsafe)
	}

	safe, err := NewRenderer(RenderOptions{SafeMode: true}).Render(source)
	if err != nil {
		t.Fatalf("Render safe: %v", err)
	}
	if strings.Contains(string(safe), `<div class="x">`) {
		t.Fatalf("expected raw html omitted in safe mode, got %s", safe)
	}
}

func TestRendererFields(t *testing.T) {
	renderer := NewRenderer(RenderOptions{Extensions: []string{"tables", "unknown", "TABLES"}})

	out, err := renderer.RenderFields([]linker.Field{
		{Name: "contentTop", Text: "# Title"},
		{Name: "contentBottom", Text: "| a |\n|---|\n| b |"},
	})
	if err != nil {
		t.Fatalf("RenderFields: %v", err)
	}
	if len(out) != 2 || out[0].Name != "contentTop" {
		t.Fatalf("unexpected fields %#v", out)
	}
	if !strings.Contains(out[0].HTML, `<h1 id="title">Title</h1>`) {
		t.Fatalf("expected heading with auto id, got %s", out[0].HTML)
	}
	if !strings.Contains(out[1].HTML, "<table>") {
		t.Fatalf("expected table extension, got %s", out[1].HTML)
	}
}

func TestCollectExtensionsDefaults(t *testing.T) {
	if got := len(collectExtensions(nil)); got != 3 {
		t.Fatalf("expected three default extensions, got %d", got)
	}
	if got := len(collectExtensions([]string{"gfm", "GFM", " ", "nope"})); got != 1 {
		t.Fatalf("expected deduplicated extensions, got %d", got)
	}
}
