package markdowncmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	importVocabularyMessageType = "glossary.markdown.import_vocabulary"
	importArticlesMessageType   = "glossary.markdown.import_articles"
)

// ImportVocabularyCommand loads a vocabulary file and upserts its categories
// and terms.
type ImportVocabularyCommand struct {
	// Path is resolved against the handler filesystem.
	Path string `json:"path"`
}

// Type implements command.Message.
func (ImportVocabularyCommand) Type() string { return importVocabularyMessageType }

// Validate ensures a vocabulary path is present before handlers execute.
func (cmd ImportVocabularyCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Path, validation.Required, validation.By(notBlank(importVocabularyMessageType+".path_required", "path is required"))),
	)
}

// ImportArticlesCommand walks Directory for markdown articles and stores
// them. Connect relates each stored article to the terms it already links to.
type ImportArticlesCommand struct {
	Directory string `json:"directory"`
	Connect   bool   `json:"connect,omitempty"`
	// DryRun parses every article without writing anything.
	DryRun bool `json:"dry_run,omitempty"`
}

// Type implements command.Message.
func (ImportArticlesCommand) Type() string { return importArticlesMessageType }

// Validate ensures directory input is present before handlers execute.
func (cmd ImportArticlesCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required, validation.By(notBlank(importArticlesMessageType+".directory_required", "directory is required"))),
	)
}

func notBlank(code, message string) validation.RuleFunc {
	return func(value any) error {
		if s, _ := value.(string); strings.TrimSpace(s) == "" {
			return validation.NewError(code, message)
		}
		return nil
	}
}
