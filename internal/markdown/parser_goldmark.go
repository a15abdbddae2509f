package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/aldo555/glossary-magic/internal/linker"
)

// RenderOptions tunes the HTML preview engine.
type RenderOptions struct {
	// Extensions names goldmark extensions; empty selects GFM, linkify and task lists.
	Extensions []string
	HardWraps  bool
	// SafeMode drops raw HTML from the output.
	SafeMode bool
}

// RenderedField is the HTML preview of one content field.
type RenderedField struct {
	Name string `json:"name"`
	HTML string `json:"html"`
}

// Renderer turns linked markdown fields into HTML previews. It is stateless
// after construction and safe for concurrent use.
type Renderer struct {
	engine goldmark.Markdown
}

// NewRenderer builds a Renderer for the supplied options.
func NewRenderer(opts RenderOptions) *Renderer {
	return &Renderer{engine: newGoldmarkEngine(opts)}
}

// Render converts markdown into HTML.
func (r *Renderer) Render(markdown []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.engine.Convert(markdown, &buf); err != nil {
		return nil, fmt.Errorf("markdown render: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderFields converts each field in order.
func (r *Renderer) RenderFields(fields []linker.Field) ([]RenderedField, error) {
	out := make([]RenderedField, 0, len(fields))
	for _, field := range fields {
		rendered, err := r.Render([]byte(field.Text))
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field.Name, err)
		}
		out = append(out, RenderedField{Name: field.Name, HTML: string(rendered)})
	}
	return out, nil
}

func newGoldmarkEngine(opts RenderOptions) goldmark.Markdown {
	rendererOptions := []renderer.Option{}
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	if !opts.SafeMode {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	engineOptions := []goldmark.Option{
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	}
	if len(rendererOptions) > 0 {
		engineOptions = append(engineOptions, goldmark.WithRendererOptions(rendererOptions...))
	}
	if exts := collectExtensions(opts.Extensions); len(exts) > 0 {
		engineOptions = append(engineOptions, goldmark.WithExtensions(exts...))
	}
	return goldmark.New(engineOptions...)
}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
}

func collectExtensions(names []string) []goldmark.Extender {
	if len(names) == 0 {
		return []goldmark.Extender{
			extension.GFM,
			extension.Linkify,
			extension.TaskList,
		}
	}

	var extenders []goldmark.Extender
	seen := map[string]struct{}{}
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		ext, ok := extensionRegistry[key]
		if !ok {
			continue
		}
		extenders = append(extenders, ext)
		seen[key] = struct{}{}
	}
	return extenders
}
