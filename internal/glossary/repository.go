package glossary

import (
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewCategoryRepository creates a repository for categories.
func NewCategoryRepository(db *bun.DB) repository.Repository[*Category] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Category]{
		NewRecord:          func() *Category { return &Category{} },
		GetID:              func(category *Category) uuid.UUID { return category.ID },
		SetID:              func(category *Category, id uuid.UUID) { category.ID = id },
		GetIdentifier:      func() string { return "slug" },
		GetIdentifierValue: func(category *Category) string { return category.Slug },
	})
}

// NewArticleRepository creates a repository for articles.
func NewArticleRepository(db *bun.DB) repository.Repository[*Article] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Article]{
		NewRecord:          func() *Article { return &Article{} },
		GetID:              func(article *Article) uuid.UUID { return article.ID },
		SetID:              func(article *Article, id uuid.UUID) { article.ID = id },
		GetIdentifier:      func() string { return "slug" },
		GetIdentifierValue: func(article *Article) string { return article.Slug },
	})
}

// NewTermRepository creates a repository for glossary terms.
func NewTermRepository(db *bun.DB) repository.Repository[*Term] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Term]{
		NewRecord:          func() *Term { return &Term{} },
		GetID:              func(term *Term) uuid.UUID { return term.ID },
		SetID:              func(term *Term, id uuid.UUID) { term.ID = id },
		GetIdentifier:      func() string { return "word" },
		GetIdentifierValue: func(term *Term) string { return term.Word },
	})
}

// NewTermCategoryRepository creates a repository for term/category assignments.
func NewTermCategoryRepository(db *bun.DB) repository.Repository[*TermCategory] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*TermCategory]{
		NewRecord:          func() *TermCategory { return &TermCategory{} },
		GetID:              func(link *TermCategory) uuid.UUID { return link.ID },
		SetID:              func(link *TermCategory, id uuid.UUID) { link.ID = id },
		GetIdentifier:      func() string { return "id" },
		GetIdentifierValue: func(link *TermCategory) string { return link.ID.String() },
	})
}

// NewArticleTermRepository creates a repository for article/term relations.
func NewArticleTermRepository(db *bun.DB) repository.Repository[*ArticleTerm] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*ArticleTerm]{
		NewRecord:          func() *ArticleTerm { return &ArticleTerm{} },
		GetID:              func(rel *ArticleTerm) uuid.UUID { return rel.ID },
		SetID:              func(rel *ArticleTerm, id uuid.UUID) { rel.ID = id },
		GetIdentifier:      func() string { return "id" },
		GetIdentifierValue: func(rel *ArticleTerm) string { return rel.ID.String() },
	})
}
