package linker

import (
	"sort"
	"unicode/utf8"
)

// Term is one vocabulary entry. Link is used verbatim as the destination.
type Term struct {
	ID   string `json:"id"`
	Word string `json:"word"`
	Link string `json:"link"`
}

// Field is a named slot of markdown text.
type Field struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// FieldChange carries the final text of a field modified by a pass.
type FieldChange struct {
	Field string `json:"field"`
	Text  string `json:"text"`
}

// ChangeFunc receives field changes once a pass has completed.
type ChangeFunc func(FieldChange)

// Match records what happened to a single term during a pass.
type Match struct {
	Term    Term   `json:"term"`
	Field   string `json:"field,omitempty"`
	Matched bool   `json:"matched"`
}

// Result is the outcome of a linking pass.
type Result struct {
	Fields  []Field       `json:"fields"`
	Used    []string      `json:"used"`
	Changes []FieldChange `json:"changes"`
	Matches []Match       `json:"matches"`
}

// Changed reports whether any field was modified.
func (r Result) Changed() bool {
	return len(r.Changes) > 0
}

// Option configures a Linker.
type Option func(*Linker)

// WithChangeHandler registers the callback invoked for every changed field.
func WithChangeHandler(fn ChangeFunc) Option {
	return func(l *Linker) {
		l.onChange = fn
	}
}

// WithNormalizer overrides the normalizer used to compile terms.
func WithNormalizer(n *Normalizer) Option {
	return func(l *Linker) {
		if n != nil {
			l.normalizer = n
		}
	}
}

// Linker runs linking passes and connection lookups.
type Linker struct {
	normalizer *Normalizer
	onChange   ChangeFunc
}

// New constructs a Linker.
func New(opts ...Option) *Linker {
	l := &Linker{normalizer: defaultNormalizer()}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Link runs a pass with a Linker built from opts.
func Link(terms []Term, fields []Field, opts ...Option) (Result, error) {
	return New(opts...).Link(terms, fields)
}

// Link links the first unlinked occurrence of every term across fields.
//
// Terms are processed longest word first so that multi-word terms claim their
// text before shorter neighbours. Length is the literal word's rune count,
// not the length of whichever inflection ends up matching.
//
// Every term is compiled before any field is touched: an invalid term fails
// the whole pass and no change is emitted.
func (l *Linker) Link(terms []Term, fields []Field) (Result, error) {
	patterns, err := l.compileAll(terms)
	if err != nil {
		return Result{}, err
	}

	working := make([]Field, len(fields))
	copy(working, fields)

	result := Result{
		Used:    []string{},
		Changes: []FieldChange{},
		Matches: make([]Match, 0, len(terms)),
	}

	for _, idx := range longestFirst(terms) {
		term := terms[idx]
		pattern := patterns[idx]
		record := Match{Term: term}

		if AlreadyLinked(working, pattern) {
			result.Matches = append(result.Matches, record)
			continue
		}

		if repl, ok := ReplaceFirst(working, pattern, MarkdownLink(term.Link)); ok {
			working[repl.Index].Text = repl.Text
			record.Field = repl.Field
			record.Matched = true
			result.Used = append(result.Used, term.Word)
		}
		result.Matches = append(result.Matches, record)
	}

	for i, field := range working {
		if field.Text == fields[i].Text {
			continue
		}
		result.Changes = append(result.Changes, FieldChange{Field: field.Name, Text: field.Text})
	}
	result.Fields = working

	if l.onChange != nil {
		for _, change := range result.Changes {
			l.onChange(change)
		}
	}
	return result, nil
}

func (l *Linker) compileAll(terms []Term) ([]*Pattern, error) {
	patterns := make([]*Pattern, len(terms))
	for i, term := range terms {
		pattern, err := l.normalizer.Compile(term.Word)
		if err != nil {
			return nil, err
		}
		patterns[i] = pattern
	}
	return patterns, nil
}

func longestFirst(terms []Term) []int {
	order := make([]int, len(terms))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return utf8.RuneCountInString(terms[order[a]].Word) > utf8.RuneCountInString(terms[order[b]].Word)
	})
	return order
}
