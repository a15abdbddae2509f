package markdown

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed vocabulary.schema.json
var vocabularySchema []byte

var (
	ErrVocabularyInvalid = errors.New("markdown: vocabulary document is invalid")
	ErrUnknownCategory   = errors.New("markdown: vocabulary term references an undeclared category")
	ErrDuplicateTerm     = errors.New("markdown: vocabulary declares a word twice")
)

// VocabularyFile is a glossary declared in YAML.
type VocabularyFile struct {
	BaseURL    string               `yaml:"base_url,omitempty" json:"base_url,omitempty"`
	Categories []VocabularyCategory `yaml:"categories,omitempty" json:"categories,omitempty"`
	Terms      []VocabularyTerm     `yaml:"terms" json:"terms"`
}

// VocabularyCategory declares a category terms can be scoped to.
type VocabularyCategory struct {
	Name string `yaml:"name" json:"name"`
	Slug string `yaml:"slug,omitempty" json:"slug,omitempty"`
}

// VocabularyTerm declares one word. Terms without categories are global.
type VocabularyTerm struct {
	Word        string   `yaml:"word" json:"word"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Categories  []string `yaml:"categories,omitempty" json:"categories,omitempty"`
}

// ValidationIssue is one schema violation.
type ValidationIssue struct {
	Location string `json:"location"`
	Message  string `json:"message"`
}

// VocabularyError lists the schema violations of a vocabulary document.
type VocabularyError struct {
	Issues []ValidationIssue
	Cause  error
}

func (e *VocabularyError) Error() string {
	if len(e.Issues) == 0 {
		return ErrVocabularyInvalid.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := issue.Location
		if location == "" {
			location = "/"
		}
		parts = append(parts, location+": "+issue.Message)
	}
	return fmt.Sprintf("%s: %s", ErrVocabularyInvalid, strings.Join(parts, "; "))
}

func (e *VocabularyError) Unwrap() error {
	return ErrVocabularyInvalid
}

// LoadVocabulary decodes and validates a YAML vocabulary document. Category
// slugs default to the normalised name.
func LoadVocabulary(source []byte) (*VocabularyFile, error) {
	var raw any
	if err := yaml.Unmarshal(source, &raw); err != nil {
		return nil, fmt.Errorf("parse vocabulary: %w", err)
	}
	if err := validateVocabulary(raw); err != nil {
		return nil, err
	}

	var file VocabularyFile
	if err := yaml.Unmarshal(source, &file); err != nil {
		return nil, fmt.Errorf("decode vocabulary: %w", err)
	}
	if err := file.normalize(); err != nil {
		return nil, err
	}
	return &file, nil
}

// Category returns the declared category matching name or slug.
func (f *VocabularyFile) Category(ref string) (VocabularyCategory, bool) {
	key := strings.TrimSpace(ref)
	for _, category := range f.Categories {
		if strings.EqualFold(category.Name, key) || category.Slug == strings.ToLower(key) {
			return category, true
		}
	}
	return VocabularyCategory{}, false
}

func (f *VocabularyFile) normalize() error {
	f.BaseURL = strings.TrimSpace(f.BaseURL)
	for i := range f.Categories {
		category := &f.Categories[i]
		category.Name = strings.TrimSpace(category.Name)
		category.Slug = strings.TrimSpace(category.Slug)
		if category.Slug == "" {
			category.Slug = normalizeSlug(category.Name)
		}
	}

	words := make(map[string]struct{}, len(f.Terms))
	for i := range f.Terms {
		term := &f.Terms[i]
		term.Word = strings.TrimSpace(term.Word)
		key := strings.ToLower(term.Word)
		if _, ok := words[key]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateTerm, term.Word)
		}
		words[key] = struct{}{}
		for j, ref := range term.Categories {
			category, ok := f.Category(ref)
			if !ok {
				return fmt.Errorf("%w: %q on %q", ErrUnknownCategory, ref, term.Word)
			}
			term.Categories[j] = category.Slug
		}
	}
	return nil
}

var compiledVocabularySchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("vocabulary.schema.json", bytes.NewReader(vocabularySchema)); err != nil {
		return nil, err
	}
	return compiler.Compile("vocabulary.schema.json")
})

func validateVocabulary(raw any) error {
	schema, err := compiledVocabularySchema()
	if err != nil {
		return fmt.Errorf("compile vocabulary schema: %w", err)
	}

	// Round-trip through JSON so YAML scalars become JSON-model values.
	encoded, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrVocabularyInvalid, err)
	}
	var payload any
	if err := json.Unmarshal(encoded, &payload); err != nil {
		return fmt.Errorf("%w: %v", ErrVocabularyInvalid, err)
	}

	if err := schema.Validate(payload); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return &VocabularyError{Issues: collectValidationIssues(validationErr), Cause: err}
		}
		return fmt.Errorf("%w: %v", ErrVocabularyInvalid, err)
	}
	return nil
}

func collectValidationIssues(err *jsonschema.ValidationError) []ValidationIssue {
	issues := []ValidationIssue{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, ValidationIssue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
