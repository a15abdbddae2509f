package linker

import (
	"regexp"
	"strings"
	"sync"

	pluralize "github.com/gertd/go-pluralize"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// optionalPluralSuffix marks words such as "glossary(s)" that should match
// both the bare and the s-suffixed spelling.
const optionalPluralSuffix = "(s)"

// Pattern is the compiled form of a single glossary word.
type Pattern struct {
	Word  string
	Forms []string

	inText *regexp.Regexp
	label  *regexp.Regexp
}

// FindAll returns the byte offsets of every non-overlapping occurrence of the
// word inside text, left to right.
func (p *Pattern) FindAll(text string) [][]int {
	return p.inText.FindAllStringIndex(text, -1)
}

// MatchLabel reports whether label is exactly one of the word's surface forms.
func (p *Pattern) MatchLabel(label string) bool {
	return p.label.MatchString(label)
}

func (p *Pattern) String() string {
	return p.inText.String()
}

// Normalizer expands glossary words into surface forms and compiles them.
// The inflection client is not documented as safe for concurrent use, so
// calls are serialised.
type Normalizer struct {
	mu     sync.Mutex
	plural *pluralize.Client
}

// NewNormalizer builds a normalizer with the default English inflection rules.
func NewNormalizer() *Normalizer {
	return &Normalizer{plural: pluralize.NewClient()}
}

var defaultNormalizer = sync.OnceValue(NewNormalizer)

// Forms returns the deduplicated surface forms for word in insertion order.
// The literal word is always the first entry.
func (n *Normalizer) Forms(word string) ([]string, error) {
	if strings.TrimSpace(word) == "" {
		return nil, &InvalidTermError{Word: word, Reason: "word is empty"}
	}

	variants := expandOptionalPlural(word)
	if strings.TrimSpace(variants[0]) == "" {
		return nil, &InvalidTermError{Word: word, Reason: "optional plural has no base word"}
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	forms := formSet{seen: map[string]struct{}{}}
	for _, variant := range variants {
		normalized := NormalizeSubscripts(variant)
		forms.add(variant)
		forms.add(normalized)
		for _, candidate := range []string{variant, normalized} {
			forms.add(n.plural.Singular(candidate))
			forms.add(n.plural.Plural(candidate))
		}
	}
	return forms.values, nil
}

// Compile builds the in-text and exact-label matchers for word.
func (n *Normalizer) Compile(word string) (*Pattern, error) {
	forms, err := n.Forms(word)
	if err != nil {
		return nil, err
	}

	escaped := make([]string, len(forms))
	for i, form := range forms {
		escaped[i] = regexp.QuoteMeta(form)
	}
	alternation := strings.Join(escaped, "|")

	inText, err := regexp.Compile(`(?i)\b(` + alternation + `)\b`)
	if err != nil {
		return nil, &InvalidTermError{Word: word, Reason: "pattern does not compile", Err: err}
	}
	label, err := regexp.Compile(`(?i)^(` + alternation + `)$`)
	if err != nil {
		return nil, &InvalidTermError{Word: word, Reason: "label pattern does not compile", Err: err}
	}

	return &Pattern{
		Word:   word,
		Forms:  forms,
		inText: inText,
		label:  label,
	}, nil
}

// SurfaceForms expands word with the shared default normalizer.
func SurfaceForms(word string) ([]string, error) {
	return defaultNormalizer().Forms(word)
}

// Compile compiles word with the shared default normalizer.
func Compile(word string) (*Pattern, error) {
	return defaultNormalizer().Compile(word)
}

// NormalizeSubscripts rewrites subscript digits (U+2080..U+2089) to ASCII.
func NormalizeSubscripts(value string) string {
	out, _, err := transform.String(runes.Map(subscriptToDigit), value)
	if err != nil {
		return value
	}
	return out
}

func subscriptToDigit(r rune) rune {
	if r >= '₀' && r <= '₉' {
		return '0' + (r - '₀')
	}
	return r
}

func expandOptionalPlural(word string) []string {
	if base, ok := strings.CutSuffix(word, optionalPluralSuffix); ok {
		return []string{base, base + "s"}
	}
	return []string{word}
}

type formSet struct {
	seen   map[string]struct{}
	values []string
}

func (s *formSet) add(value string) {
	if value == "" {
		return
	}
	if _, ok := s.seen[value]; ok {
		return
	}
	s.seen[value] = struct{}{}
	s.values = append(s.values, value)
}
