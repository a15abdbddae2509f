package glossarycmd

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

const (
	linkArticleMessageType       = "glossary.article.link"
	connectArticleMessageType    = "glossary.article.connect"
	syncArticleMessageType       = "glossary.article.sync_terms"
	disconnectArticleMessageType = "glossary.article.disconnect"
)

// LinkArticleCommand runs a linking pass over an article. Fields overrides
// the stored content when set; Save persists the linked fields.
type LinkArticleCommand struct {
	ArticleID uuid.UUID         `json:"article_id"`
	Fields    map[string]string `json:"fields,omitempty"`
	Save      bool              `json:"save,omitempty"`
}

// Type implements command.Message.
func (LinkArticleCommand) Type() string { return linkArticleMessageType }

// Validate ensures the article reference is present.
func (m LinkArticleCommand) Validate() error {
	return validateArticleID(m.ArticleID, linkArticleMessageType)
}

// ConnectArticleCommand relates an article to the terms it already links to.
type ConnectArticleCommand struct {
	ArticleID uuid.UUID         `json:"article_id"`
	Fields    map[string]string `json:"fields,omitempty"`
}

// Type implements command.Message.
func (ConnectArticleCommand) Type() string { return connectArticleMessageType }

// Validate ensures the article reference is present.
func (m ConnectArticleCommand) Validate() error {
	return validateArticleID(m.ArticleID, connectArticleMessageType)
}

// SyncArticleTermsCommand applies an explicit relation delta.
type SyncArticleTermsCommand struct {
	ArticleID      uuid.UUID   `json:"article_id"`
	AllTermIDs     []uuid.UUID `json:"all_term_ids"`
	ConnectTermIDs []uuid.UUID `json:"connect_term_ids"`
}

// Type implements command.Message.
func (SyncArticleTermsCommand) Type() string { return syncArticleMessageType }

// Validate requires the article and both term lists.
func (m SyncArticleTermsCommand) Validate() error {
	errs := validation.Errors{}
	if m.ArticleID == uuid.Nil {
		errs["article_id"] = validation.NewError(syncArticleMessageType+".article_id_required", "article_id is required")
	}
	if len(m.AllTermIDs) == 0 {
		errs["all_term_ids"] = validation.NewError(syncArticleMessageType+".all_term_ids_required", "all_term_ids is required")
	}
	if len(m.ConnectTermIDs) == 0 {
		errs["connect_term_ids"] = validation.NewError(syncArticleMessageType+".connect_term_ids_required", "connect_term_ids is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// DisconnectArticleCommand removes every term association of an article.
type DisconnectArticleCommand struct {
	ArticleID uuid.UUID `json:"article_id"`
}

// Type implements command.Message.
func (DisconnectArticleCommand) Type() string { return disconnectArticleMessageType }

// Validate ensures the article reference is present.
func (m DisconnectArticleCommand) Validate() error {
	return validateArticleID(m.ArticleID, disconnectArticleMessageType)
}

func validateArticleID(id uuid.UUID, messageType string) error {
	if id != uuid.Nil {
		return nil
	}
	return validation.Errors{
		"article_id": validation.NewError(messageType+".article_id_required", "article_id is required"),
	}
}
