package markdown

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aldo555/glossary-magic/internal/glossary"
	"github.com/aldo555/glossary-magic/internal/identity"
)

type importFixture struct {
	importer   *Importer
	categories *glossary.MemoryCategoryRepository
	terms      *glossary.MemoryTermRepository
	articles   *glossary.MemoryArticleRepository
}

func newImportFixture() importFixture {
	categories := glossary.NewMemoryCategoryRepository()
	terms := glossary.NewMemoryTermRepository()
	articles := glossary.NewMemoryArticleRepository()
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return importFixture{
		importer: NewImporter(ImporterConfig{
			Categories: categories,
			Terms:      terms,
			Articles:   articles,
			Now:        func() time.Time { return fixed },
		}),
		categories: categories,
		terms:      terms,
		articles:   articles,
	}
}

func loadTestVocabulary(t *testing.T) *VocabularyFile {
	t.Helper()
	file, err := LoadVocabulary(readFixture(t, "testdata/vocabulary.yaml"))
	if err != nil {
		t.Fatalf("LoadVocabulary: %v", err)
	}
	return file
}

func TestImportVocabulary(t *testing.T) {
	ctx := context.Background()
	f := newImportFixture()

	result, err := f.importer.ImportVocabulary(ctx, loadTestVocabulary(t))
	if err != nil {
		t.Fatalf("ImportVocabulary: %v", err)
	}
	if result.CategoriesCreated != 1 || result.TermsCreated != 3 || result.Assignments != 2 {
		t.Fatalf("unexpected result %+v", result)
	}

	category, err := f.categories.GetBySlug(ctx, "networking")
	if err != nil {
		t.Fatalf("category lookup: %v", err)
	}
	if category.ID != identity.CategoryUUID("networking") {
		t.Fatalf("expected deterministic category id")
	}

	scoped, err := f.terms.ListByCategory(ctx, category.ID)
	if err != nil {
		t.Fatalf("ListByCategory: %v", err)
	}
	if len(scoped) != 2 || scoped[0].Word != "Node" || scoped[1].Word != "Node Pool" {
		t.Fatalf("unexpected scoped terms %#v", scoped)
	}
	if scoped[1].Description == nil || *scoped[1].Description == "" {
		t.Fatalf("expected description stored")
	}

	global, err := f.terms.ListGlobal(ctx)
	if err != nil {
		t.Fatalf("ListGlobal: %v", err)
	}
	if len(global) != 1 || global[0].Word != "cache" || global[0].ID != identity.TermUUID("cache") {
		t.Fatalf("unexpected global terms %#v", global)
	}
}

func TestImportVocabularyIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newImportFixture()
	file := loadTestVocabulary(t)

	if _, err := f.importer.ImportVocabulary(ctx, file); err != nil {
		t.Fatalf("first import: %v", err)
	}
	second, err := f.importer.ImportVocabulary(ctx, file)
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if second.CategoriesCreated != 0 || second.TermsCreated != 0 || second.TermsUnchanged != 3 {
		t.Fatalf("expected nothing new on reimport, got %+v", second)
	}

	file.Terms[2].Word = "Cache"
	file.Terms[2].Description = "Fast storage."
	third, err := f.importer.ImportVocabulary(ctx, file)
	if err != nil {
		t.Fatalf("third import: %v", err)
	}
	if third.TermsUpdated != 1 {
		t.Fatalf("expected case change to update the term, got %+v", third)
	}
	term, err := f.terms.GetByID(ctx, identity.TermUUID("cache"))
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if term.Word != "Cache" || term.Description == nil || *term.Description != "Fast storage." {
		t.Fatalf("term not updated: %#v", term)
	}
}

func TestImportVocabularyRequiresRepositories(t *testing.T) {
	importer := NewImporter(ImporterConfig{})
	if _, err := importer.ImportVocabulary(context.Background(), &VocabularyFile{}); !errors.Is(err, ErrCategoryRepositoryRequired) {
		t.Fatalf("expected ErrCategoryRepositoryRequired, got %v", err)
	}
	importer = NewImporter(ImporterConfig{Categories: glossary.NewMemoryCategoryRepository()})
	if _, err := importer.ImportVocabulary(context.Background(), &VocabularyFile{}); !errors.Is(err, ErrTermRepositoryRequired) {
		t.Fatalf("expected ErrTermRepositoryRequired, got %v", err)
	}
}

func TestImportArticleCreatesThenUpdates(t *testing.T) {
	ctx := context.Background()
	f := newImportFixture()

	doc, err := ParseArticle(readFixture(t, "testdata/articles/scaling.md"))
	if err != nil {
		t.Fatalf("ParseArticle: %v", err)
	}

	created, err := f.importer.ImportArticle(ctx, doc)
	if err != nil {
		t.Fatalf("ImportArticle: %v", err)
	}
	if created.ID != identity.ArticleUUID(doc.Slug) {
		t.Fatalf("expected deterministic article id")
	}
	if created.CategoryID == nil || *created.CategoryID != identity.CategoryUUID("networking") {
		t.Fatalf("expected article category created, got %v", created.CategoryID)
	}
	if created.Content["contentTop"] != "Every node has a cache." || created.Content[BodyField] == "" {
		t.Fatalf("unexpected content %#v", created.Content)
	}

	doc.Fields["contentTop"] = "Changed."
	updated, err := f.importer.ImportArticle(ctx, doc)
	if err != nil {
		t.Fatalf("ImportArticle update: %v", err)
	}
	if updated.ID != created.ID || updated.Content["contentTop"] != "Changed." {
		t.Fatalf("expected update in place, got %#v", updated)
	}

	all, err := f.articles.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected a single article, got %d", len(all))
	}
}

func TestImportArticleRequiresSlug(t *testing.T) {
	f := newImportFixture()
	if _, err := f.importer.ImportArticle(context.Background(), &ArticleDocument{}); !errors.Is(err, ErrArticleSlugMissing) {
		t.Fatalf("expected ErrArticleSlugMissing, got %v", err)
	}
}
