package linker

// ReplaceFunc renders the text that replaces a matched label.
type ReplaceFunc func(label string) string

// MarkdownLink returns a ReplaceFunc producing `[label](link)`.
func MarkdownLink(link string) ReplaceFunc {
	return func(label string) string {
		return "[" + label + "](" + link + ")"
	}
}

// Replacement describes the single span rewritten by ReplaceFirst.
type Replacement struct {
	Index int
	Field string
	Label string
	Text  string
}

// ReplaceFirst rewrites the first occurrence of pattern that lies outside
// every existing link, searching fields in order. Fields are not modified;
// the new text of the affected field is returned in the Replacement.
func ReplaceFirst(fields []Field, pattern *Pattern, replace ReplaceFunc) (Replacement, bool) {
	for i, field := range fields {
		text, label, ok := replaceFirstOutsideLinks(field.Text, pattern, replace)
		if !ok {
			continue
		}
		return Replacement{
			Index: i,
			Field: field.Name,
			Label: label,
			Text:  text,
		}, true
	}
	return Replacement{}, false
}

func replaceFirstOutsideLinks(text string, pattern *Pattern, replace ReplaceFunc) (string, string, bool) {
	matches := pattern.FindAll(text)
	if len(matches) == 0 {
		return text, "", false
	}

	links := ExtractLinks(text)
	for _, loc := range matches {
		start, end := loc[0], loc[1]
		if overlapsLink(links, start, end-start) {
			continue
		}
		label := text[start:end]
		return text[:start] + replace(label) + text[end:], label, true
	}
	return text, "", false
}
