package markdown

import (
	"bytes"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/goliatone/go-slug"
	"gopkg.in/yaml.v3"

	"github.com/aldo555/glossary-magic/internal/linker"
)

// BodyField is the field name the markdown body is exposed under.
const BodyField = "body"

var ErrArticleSlugMissing = errors.New("markdown: article slug could not be determined")

// ArticleDocument is a markdown file describing one article. Named content
// fields live in the front matter; the document body is an extra field.
type ArticleDocument struct {
	Path     string            `json:"path,omitempty"`
	Title    string            `json:"title"`
	Slug     string            `json:"slug"`
	Category string            `json:"category,omitempty"`
	Fields   map[string]string `json:"fields,omitempty"`
	Body     string            `json:"body,omitempty"`
	Extra    map[string]any    `json:"extra,omitempty"`
}

type frontMatterEnvelope struct {
	Title    string            `yaml:"title,omitempty"`
	Slug     string            `yaml:"slug,omitempty"`
	Category string            `yaml:"category,omitempty"`
	Fields   map[string]string `yaml:"fields,omitempty"`
	Extra    map[string]any    `yaml:",inline"`
}

// ParseArticle extracts the front matter and body of a markdown article. A
// missing slug is derived from the title.
func ParseArticle(source []byte) (*ArticleDocument, error) {
	var meta frontMatterEnvelope

	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	doc := &ArticleDocument{
		Title:    strings.TrimSpace(meta.Title),
		Slug:     strings.TrimSpace(meta.Slug),
		Category: strings.TrimSpace(meta.Category),
		Fields:   cloneFields(meta.Fields),
		Body:     string(body),
		Extra:    maps.Clone(meta.Extra),
	}
	if doc.Slug == "" {
		doc.Slug = normalizeSlug(doc.Title)
	}
	if doc.Slug == "" {
		return nil, ErrArticleSlugMissing
	}
	return doc, nil
}

// Content returns every named field plus the body, keyed by field name.
func (d *ArticleDocument) Content() map[string]string {
	out := cloneFields(d.Fields)
	if strings.TrimSpace(d.Body) != "" {
		out[BodyField] = d.Body
	}
	return out
}

// LinkFields returns the article content in linking order: the names in
// order first, then the remaining fields sorted by name.
func (d *ArticleDocument) LinkFields(order []string) []linker.Field {
	content := d.Content()
	out := make([]linker.Field, 0, len(content))
	seen := make(map[string]struct{}, len(content))
	for _, name := range order {
		text, ok := content[name]
		if !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, linker.Field{Name: name, Text: text})
	}
	for _, name := range slices.Sorted(maps.Keys(content)) {
		if _, ok := seen[name]; ok {
			continue
		}
		out = append(out, linker.Field{Name: name, Text: content[name]})
	}
	return out
}

// Apply writes field changes back into the document.
func (d *ArticleDocument) Apply(changes []linker.FieldChange) {
	for _, change := range changes {
		if change.Field == BodyField {
			d.Body = change.Text
			continue
		}
		if d.Fields == nil {
			d.Fields = map[string]string{}
		}
		d.Fields[change.Field] = change.Text
	}
}

// Render serialises the document back into front matter plus body.
func (d *ArticleDocument) Render() ([]byte, error) {
	meta := frontMatterEnvelope{
		Title:    d.Title,
		Slug:     d.Slug,
		Category: d.Category,
		Fields:   d.Fields,
		Extra:    d.Extra,
	}
	encoded, err := yaml.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("render frontmatter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(encoded)
	buf.WriteString("---\n")
	buf.WriteString(d.Body)
	return buf.Bytes(), nil
}

func normalizeSlug(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	normalized, err := slug.Normalize(trimmed)
	if err != nil {
		return ""
	}
	return normalized
}

func cloneFields(input map[string]string) map[string]string {
	out := make(map[string]string, len(input))
	for key, value := range input {
		if strings.TrimSpace(key) == "" {
			continue
		}
		out[key] = value
	}
	return out
}
