package linker

import (
	"regexp"
	"strings"
)

// LinkSpan is one `[label](destination)` construct found in a text. Start and
// End are byte offsets covering the whole construct.
type LinkSpan struct {
	Label string
	Start int
	End   int
}

// ExtractLinks scans text for markdown links, leftmost first and without
// overlap. Unterminated brackets are plain text; the scan never fails.
func ExtractLinks(text string) []LinkSpan {
	var links []LinkSpan
	for i := 0; i < len(text); {
		if text[i] != '[' {
			i++
			continue
		}
		span, ok, exhausted := linkAt(text, i)
		if exhausted {
			break
		}
		if !ok {
			i++
			continue
		}
		links = append(links, span)
		i = span.End
	}
	return links
}

// linkAt tries to read a link starting at the '[' located at start.
// exhausted is set when no later position can start a link either.
func linkAt(text string, start int) (span LinkSpan, ok bool, exhausted bool) {
	labelLen := strings.IndexByte(text[start+1:], ']')
	if labelLen < 0 {
		return LinkSpan{}, false, true
	}
	if labelLen == 0 {
		return LinkSpan{}, false, false
	}

	open := start + 1 + labelLen + 1
	if open >= len(text) || text[open] != '(' {
		return LinkSpan{}, false, false
	}

	destLen := strings.IndexByte(text[open+1:], ')')
	if destLen < 0 {
		return LinkSpan{}, false, true
	}
	if destLen == 0 {
		return LinkSpan{}, false, false
	}

	return LinkSpan{
		Label: text[start+1 : start+1+labelLen],
		Start: start,
		End:   open + 1 + destLen + 1,
	}, true, false
}

// InsideLink reports whether [start, start+length) overlaps a link in text.
func InsideLink(text string, start, length int) bool {
	return overlapsLink(ExtractLinks(text), start, length)
}

func overlapsLink(links []LinkSpan, start, length int) bool {
	end := start + length
	for _, link := range links {
		if start < link.End && end > link.Start {
			return true
		}
	}
	return false
}

var emphasisWrappers = []*regexp.Regexp{
	regexp.MustCompile(`\*\*(.+?)\*\*`),
	regexp.MustCompile(`__(.+?)__`),
	regexp.MustCompile(`\*(.+?)\*`),
	regexp.MustCompile(`_(.+?)_`),
	regexp.MustCompile(`~~(.+?)~~`),
	regexp.MustCompile("`(.+?)`"),
}

// StripEmphasis removes bold, italic, strikethrough and inline code wrappers
// from a link label. Each wrapper kind is applied once, in order.
func StripEmphasis(label string) string {
	for _, wrapper := range emphasisWrappers {
		label = wrapper.ReplaceAllString(label, "$1")
	}
	return label
}

// CleanLabel trims and strips a raw link label for comparison.
func CleanLabel(label string) string {
	return strings.TrimSpace(StripEmphasis(strings.TrimSpace(label)))
}

// AlreadyLinked reports whether any link label in the concatenated fields is
// exactly one of the pattern's surface forms. Fields are joined without a
// separator, so a link split across two fields still counts.
func AlreadyLinked(fields []Field, pattern *Pattern) bool {
	for _, link := range ExtractLinks(joinFields(fields, "")) {
		if pattern.MatchLabel(CleanLabel(link.Label)) {
			return true
		}
	}
	return false
}

// linkLabels lists the cleaned labels of the fields joined by single spaces.
func linkLabels(fields []Field) []string {
	links := ExtractLinks(joinFields(fields, " "))
	labels := make([]string, 0, len(links))
	for _, link := range links {
		labels = append(labels, CleanLabel(link.Label))
	}
	return labels
}

func joinFields(fields []Field, sep string) string {
	texts := make([]string, 0, len(fields))
	for _, field := range fields {
		texts = append(texts, field.Text)
	}
	return strings.Join(texts, sep)
}
