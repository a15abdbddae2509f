package markdown

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aldo555/glossary-magic/internal/glossary"
	"github.com/aldo555/glossary-magic/internal/identity"
	"github.com/aldo555/glossary-magic/internal/logging"
	"github.com/aldo555/glossary-magic/pkg/interfaces"
)

var (
	ErrCategoryRepositoryRequired = errors.New("markdown importer: category repository is required")
	ErrTermRepositoryRequired     = errors.New("markdown importer: term repository is required")
	ErrArticleRepositoryRequired  = errors.New("markdown importer: article repository is required")
)

// ImporterConfig encapsulates the repositories imports write into.
type ImporterConfig struct {
	Categories glossary.CategoryRepository
	Terms      glossary.TermRepository
	Articles   glossary.ArticleRepository
	Logger     interfaces.Logger
	Now        func() time.Time
}

// Importer persists vocabulary files and markdown articles. Records receive
// deterministic IDs so repeated imports update rather than duplicate.
type Importer struct {
	categories glossary.CategoryRepository
	terms      glossary.TermRepository
	articles   glossary.ArticleRepository
	logger     interfaces.Logger
	now        func() time.Time
}

// VocabularyImportResult summarises a vocabulary import.
type VocabularyImportResult struct {
	CategoriesCreated int `json:"categories_created"`
	TermsCreated      int `json:"terms_created"`
	TermsUpdated      int `json:"terms_updated"`
	TermsUnchanged    int `json:"terms_unchanged"`
	Assignments       int `json:"assignments"`
}

// NewImporter builds an Importer from the supplied configuration.
func NewImporter(cfg ImporterConfig) *Importer {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Importer{
		categories: cfg.Categories,
		terms:      cfg.Terms,
		articles:   cfg.Articles,
		logger:     logger,
		now:        now,
	}
}

// ImportVocabulary upserts every category and term of the file and assigns
// terms to their categories.
func (i *Importer) ImportVocabulary(ctx context.Context, file *VocabularyFile) (*VocabularyImportResult, error) {
	if i.categories == nil {
		return nil, ErrCategoryRepositoryRequired
	}
	if i.terms == nil {
		return nil, ErrTermRepositoryRequired
	}
	result := &VocabularyImportResult{}
	if file == nil {
		return result, nil
	}

	categoryIDs := make(map[string]uuid.UUID, len(file.Categories))
	for _, declared := range file.Categories {
		category, created, err := i.ensureCategory(ctx, declared.Name, declared.Slug)
		if err != nil {
			return result, err
		}
		if created {
			result.CategoriesCreated++
		}
		categoryIDs[category.Slug] = category.ID
	}

	for _, declared := range file.Terms {
		term, outcome, err := i.upsertTerm(ctx, declared)
		if err != nil {
			return result, err
		}
		switch outcome {
		case "created":
			result.TermsCreated++
		case "updated":
			result.TermsUpdated++
		default:
			result.TermsUnchanged++
		}

		for _, slug := range declared.Categories {
			categoryID, ok := categoryIDs[slug]
			if !ok {
				return result, fmt.Errorf("%w: %q on %q", ErrUnknownCategory, slug, declared.Word)
			}
			if err := i.terms.AssignCategory(ctx, term.ID, categoryID); err != nil {
				return result, fmt.Errorf("assign %q to %q: %w", term.Word, slug, err)
			}
			result.Assignments++
		}
	}

	i.logger.WithContext(ctx).Info("glossary.markdown.vocabulary_imported",
		"categories_created", result.CategoriesCreated,
		"terms_created", result.TermsCreated,
		"terms_updated", result.TermsUpdated,
		"assignments", result.Assignments,
	)
	return result, nil
}

// ImportArticle creates or updates the article described by doc. The
// article category is created when it does not exist yet.
func (i *Importer) ImportArticle(ctx context.Context, doc *ArticleDocument) (*glossary.Article, error) {
	if i.articles == nil {
		return nil, ErrArticleRepositoryRequired
	}
	if i.categories == nil {
		return nil, ErrCategoryRepositoryRequired
	}
	if doc == nil || strings.TrimSpace(doc.Slug) == "" {
		return nil, ErrArticleSlugMissing
	}

	var categoryID *uuid.UUID
	if name := strings.TrimSpace(doc.Category); name != "" {
		category, _, err := i.ensureCategory(ctx, name, "")
		if err != nil {
			return nil, err
		}
		id := category.ID
		categoryID = &id
	}

	title := doc.Title
	if title == "" {
		title = doc.Slug
	}
	now := i.now().UTC()

	existing, err := i.articles.GetBySlug(ctx, doc.Slug)
	if err != nil && !isNotFound(err) {
		return nil, fmt.Errorf("lookup article %q: %w", doc.Slug, err)
	}
	if existing != nil {
		existing.Title = title
		existing.CategoryID = categoryID
		existing.Content = doc.Content()
		existing.UpdatedAt = now
		updated, err := i.articles.Update(ctx, existing)
		if err != nil {
			return nil, fmt.Errorf("update article %q: %w", doc.Slug, err)
		}
		return updated, nil
	}

	created, err := i.articles.Create(ctx, &glossary.Article{
		ID:         identity.ArticleUUID(doc.Slug),
		Title:      title,
		Slug:       doc.Slug,
		CategoryID: categoryID,
		Content:    doc.Content(),
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return nil, fmt.Errorf("create article %q: %w", doc.Slug, err)
	}
	i.logger.WithContext(ctx).Debug("glossary.markdown.article_imported", "slug", doc.Slug, "article_id", created.ID)
	return created, nil
}

func (i *Importer) ensureCategory(ctx context.Context, name, slug string) (*glossary.Category, bool, error) {
	if slug == "" {
		slug = normalizeSlug(name)
	}
	if slug == "" {
		return nil, false, fmt.Errorf("%w: category %q has no usable slug", ErrVocabularyInvalid, name)
	}

	existing, err := i.categories.GetBySlug(ctx, slug)
	if err == nil {
		return existing, false, nil
	}
	if !isNotFound(err) {
		return nil, false, fmt.Errorf("lookup category %q: %w", slug, err)
	}

	now := i.now().UTC()
	created, err := i.categories.Create(ctx, &glossary.Category{
		ID:        identity.CategoryUUID(slug),
		Name:      name,
		Slug:      slug,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, false, fmt.Errorf("create category %q: %w", slug, err)
	}
	return created, true, nil
}

func (i *Importer) upsertTerm(ctx context.Context, declared VocabularyTerm) (*glossary.Term, string, error) {
	var description *string
	if text := strings.TrimSpace(declared.Description); text != "" {
		description = &text
	}

	existing, err := i.lookupTerm(ctx, declared.Word)
	if err != nil {
		return nil, "", err
	}
	now := i.now().UTC()

	if existing == nil {
		created, err := i.terms.Create(ctx, &glossary.Term{
			ID:          identity.TermUUID(declared.Word),
			Word:        declared.Word,
			Description: description,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if err != nil {
			return nil, "", fmt.Errorf("create term %q: %w", declared.Word, err)
		}
		return created, "created", nil
	}

	if existing.Word == declared.Word && sameDescription(existing.Description, description) {
		return existing, "unchanged", nil
	}
	existing.Word = declared.Word
	existing.Description = description
	existing.UpdatedAt = now
	updated, err := i.terms.Update(ctx, existing)
	if err != nil {
		return nil, "", fmt.Errorf("update term %q: %w", declared.Word, err)
	}
	return updated, "updated", nil
}

// lookupTerm finds a term by deterministic ID, which ignores case, then by
// exact word for records created outside the importer.
func (i *Importer) lookupTerm(ctx context.Context, word string) (*glossary.Term, error) {
	term, err := i.terms.GetByID(ctx, identity.TermUUID(word))
	if err == nil {
		return term, nil
	}
	if !isNotFound(err) {
		return nil, fmt.Errorf("lookup term %q: %w", word, err)
	}
	term, err = i.terms.GetByWord(ctx, word)
	if err == nil {
		return term, nil
	}
	if !isNotFound(err) {
		return nil, fmt.Errorf("lookup term %q: %w", word, err)
	}
	return nil, nil
}

func sameDescription(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func isNotFound(err error) bool {
	var notFound *glossary.NotFoundError
	return errors.As(err, &notFound)
}
