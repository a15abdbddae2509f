// Package markdown reads and writes the file formats used outside the
// database: articles as markdown with front matter, and vocabularies as YAML
// validated against an embedded JSON schema. It also imports both into the
// glossary repositories and renders linked fields to HTML for previews.
package markdown
