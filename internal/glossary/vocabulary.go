package glossary

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

func (s *service) Vocabulary(ctx context.Context, articleID uuid.UUID) ([]VocabularyEntry, error) {
	if articleID == uuid.Nil {
		return nil, ErrArticleIDRequired
	}
	article, err := s.articles.GetByID(ctx, articleID)
	if err != nil {
		return nil, err
	}
	return s.vocabulary(ctx, article)
}

// vocabulary lists the terms of the article category followed by the global
// terms, each once, with links resolved.
func (s *service) vocabulary(ctx context.Context, article *Article) ([]VocabularyEntry, error) {
	if article.CategoryID == nil {
		return nil, ErrCategoryNotFound
	}
	category, err := s.categories.GetByID(ctx, *article.CategoryID)
	if err != nil {
		var notFound *NotFoundError
		if errors.As(err, &notFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	scoped, err := s.terms.ListByCategory(ctx, category.ID)
	if err != nil {
		return nil, fmt.Errorf("list category terms: %w", err)
	}
	global, err := s.terms.ListGlobal(ctx)
	if err != nil {
		return nil, fmt.Errorf("list global terms: %w", err)
	}

	seen := make(map[uuid.UUID]struct{}, len(scoped)+len(global))
	entries := make([]VocabularyEntry, 0, len(scoped)+len(global))
	add := func(term *Term, scope *Category) error {
		if term == nil {
			return nil
		}
		if _, dup := seen[term.ID]; dup {
			return nil
		}
		seen[term.ID] = struct{}{}
		link, err := s.links.Build(term, scope)
		if err != nil {
			return fmt.Errorf("build link for %q: %w", term.Word, err)
		}
		entries = append(entries, VocabularyEntry{
			ID:     term.ID,
			Word:   term.Word,
			Link:   link,
			Global: scope == nil,
		})
		return nil
	}

	for _, term := range scoped {
		if err := add(term, category); err != nil {
			return nil, err
		}
	}
	for _, term := range global {
		if err := add(term, nil); err != nil {
			return nil, err
		}
	}
	return entries, nil
}
