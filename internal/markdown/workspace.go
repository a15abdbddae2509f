package markdown

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aldo555/glossary-magic/internal/glossary"
	"github.com/aldo555/glossary-magic/internal/logging"
	"github.com/aldo555/glossary-magic/pkg/interfaces"
)

var ErrLinkBaseMissing = errors.New("markdown: vocabulary has no base_url and no link builder was configured")

// WorkspaceOptions configures a Workspace.
type WorkspaceOptions struct {
	// BaseURL overrides the vocabulary base_url.
	BaseURL string
	// LinkBuilder takes precedence over BaseURL.
	LinkBuilder glossary.LinkBuilder
	Fields      []string
	Logger      interfaces.Logger
}

// Workspace runs the glossary actions on markdown articles against a
// vocabulary file, using in-memory repositories.
type Workspace struct {
	importer *Importer
	service  glossary.Service
	fields   []string
	logger   interfaces.Logger
}

// LinkOutcome reports a linking pass over a markdown article.
type LinkOutcome struct {
	Document *ArticleDocument     `json:"document"`
	Result   *glossary.LinkResult `json:"result"`
}

// NewWorkspace imports the vocabulary into a fresh in-memory store.
func NewWorkspace(ctx context.Context, vocabulary *VocabularyFile, opts WorkspaceOptions) (*Workspace, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NoOp()
	}

	builder := opts.LinkBuilder
	if builder == nil {
		base := strings.TrimSpace(opts.BaseURL)
		if base == "" && vocabulary != nil {
			base = vocabulary.BaseURL
		}
		if base == "" {
			return nil, ErrLinkBaseMissing
		}
		builder = glossary.NewQueryLinkBuilder(base)
	}

	categories := glossary.NewMemoryCategoryRepository()
	terms := glossary.NewMemoryTermRepository()
	articles := glossary.NewMemoryArticleRepository()
	relations := glossary.NewMemoryRelationRepository()

	importer := NewImporter(ImporterConfig{
		Categories: categories,
		Terms:      terms,
		Articles:   articles,
		Logger:     logger,
	})
	if _, err := importer.ImportVocabulary(ctx, vocabulary); err != nil {
		return nil, fmt.Errorf("load vocabulary: %w", err)
	}

	fields := opts.Fields
	if len(fields) == 0 {
		fields = append(append([]string(nil), glossary.DefaultFields...), BodyField)
	}

	service := glossary.NewService(articles, categories, terms, relations,
		glossary.WithLinkBuilder(builder),
		glossary.WithFields(fields),
		glossary.WithLogger(logger),
	)

	return &Workspace{
		importer: importer,
		service:  service,
		fields:   fields,
		logger:   logger,
	}, nil
}

// Link inserts glossary links into doc and applies the changes to it.
func (w *Workspace) Link(ctx context.Context, doc *ArticleDocument) (*LinkOutcome, error) {
	article, err := w.importer.ImportArticle(ctx, doc)
	if err != nil {
		return nil, err
	}
	result, err := w.service.Link(ctx, glossary.LinkRequest{ArticleID: article.ID, Save: true})
	if err != nil {
		return nil, err
	}
	doc.Apply(result.Changes)
	w.logger.WithContext(ctx).Debug("glossary.markdown.linked", "slug", doc.Slug, "used", len(result.UsedWords))
	return &LinkOutcome{Document: doc, Result: result}, nil
}

// Connected returns the words doc already links to, in vocabulary order.
func (w *Workspace) Connected(ctx context.Context, doc *ArticleDocument) ([]string, error) {
	article, err := w.importer.ImportArticle(ctx, doc)
	if err != nil {
		return nil, err
	}
	result, err := w.service.Connect(ctx, glossary.ConnectRequest{ArticleID: article.ID})
	if err != nil {
		return nil, err
	}
	return result.Words, nil
}

// Fields returns the field priority order used for linking.
func (w *Workspace) Fields() []string {
	return append([]string(nil), w.fields...)
}
