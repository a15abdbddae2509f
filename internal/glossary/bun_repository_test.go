package glossary_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/google/uuid"

	"github.com/aldo555/glossary-magic/internal/glossary"
	"github.com/aldo555/glossary-magic/internal/identity"
	"github.com/aldo555/glossary-magic/pkg/testsupport"
)

type bunRepositories struct {
	articles   *glossary.BunArticleRepository
	categories *glossary.BunCategoryRepository
	terms      *glossary.BunTermRepository
	relations  *glossary.BunRelationRepository
}

func newBunRepositories(t *testing.T, cached bool) bunRepositories {
	t.Helper()
	ctx := context.Background()

	db, err := testsupport.NewMigratedBunDB(ctx)
	if err != nil {
		t.Fatalf("new bun db: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	if !cached {
		return bunRepositories{
			articles:   glossary.NewBunArticleRepository(db),
			categories: glossary.NewBunCategoryRepository(db),
			terms:      glossary.NewBunTermRepository(db),
			relations:  glossary.NewBunRelationRepository(db),
		}
	}

	cacheCfg := repocache.DefaultConfig()
	cacheCfg.TTL = time.Minute
	cacheService, err := repocache.NewCacheService(cacheCfg)
	if err != nil {
		t.Fatalf("new cache service: %v", err)
	}
	keySerializer := repocache.NewDefaultKeySerializer()

	return bunRepositories{
		articles:   glossary.NewBunArticleRepositoryWithCache(db, cacheService, keySerializer),
		categories: glossary.NewBunCategoryRepositoryWithCache(db, cacheService, keySerializer),
		terms:      glossary.NewBunTermRepositoryWithCache(db, cacheService, keySerializer),
		relations:  glossary.NewBunRelationRepository(db),
	}
}

func TestBunRepositoriesSupportGlossaryWorkflow(t *testing.T) {
	ctx := context.Background()
	repos := newBunRepositories(t, false)

	category, err := repos.categories.Create(ctx, &glossary.Category{
		ID:   identity.CategoryUUID("networking"),
		Name: "Networking",
		Slug: "networking",
	})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}

	words := []string{"Node", "cache", "Node Pool"}
	terms := map[string]*glossary.Term{}
	for _, word := range words {
		term, err := repos.terms.Create(ctx, &glossary.Term{ID: identity.TermUUID(word), Word: word})
		if err != nil {
			t.Fatalf("create term %q: %v", word, err)
		}
		terms[word] = term
	}
	for _, word := range []string{"Node", "Node Pool"} {
		if err := repos.terms.AssignCategory(ctx, terms[word].ID, category.ID); err != nil {
			t.Fatalf("assign %q: %v", word, err)
		}
	}
	if err := repos.terms.AssignCategory(ctx, terms["Node"].ID, category.ID); err != nil {
		t.Fatalf("repeat assign: %v", err)
	}

	categoryID := category.ID
	article, err := repos.articles.Create(ctx, &glossary.Article{
		ID:         identity.ArticleUUID("scaling"),
		Title:      "Scaling",
		Slug:       "scaling",
		CategoryID: &categoryID,
		Content:    map[string]string{"contentTop": "A node holds the cache."},
	})
	if err != nil {
		t.Fatalf("create article: %v", err)
	}

	svc := glossary.NewService(repos.articles, repos.categories, repos.terms, repos.relations)

	vocabulary, err := svc.Vocabulary(ctx, article.ID)
	if err != nil {
		t.Fatalf("vocabulary: %v", err)
	}
	gotWords := make([]string, 0, len(vocabulary))
	for _, entry := range vocabulary {
		gotWords = append(gotWords, entry.Word)
	}
	if want := []string{"Node", "Node Pool", "cache"}; !equalStrings(gotWords, want) {
		t.Fatalf("expected vocabulary %v, got %v", want, gotWords)
	}

	linked, err := svc.Link(ctx, glossary.LinkRequest{ArticleID: article.ID, Save: true})
	if err != nil {
		t.Fatalf("link: %v", err)
	}
	if !linked.Saved {
		t.Fatalf("expected link pass to be saved")
	}

	stored, err := repos.articles.GetByID(ctx, article.ID)
	if err != nil {
		t.Fatalf("get article: %v", err)
	}
	want := "A [node](/glossary?search=Node&category=Networking) holds the [cache](/glossary?search=cache)."
	if stored.Content["contentTop"] != want {
		t.Fatalf("expected stored content %q, got %q", want, stored.Content["contentTop"])
	}

	connected, err := svc.Connect(ctx, glossary.ConnectRequest{ArticleID: article.ID})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if len(connected.Sync.Connected) != 2 {
		t.Fatalf("expected 2 connected terms, got %+v", connected.Sync)
	}

	// Connecting twice keeps a single row per pair.
	if _, err := svc.Connect(ctx, glossary.ConnectRequest{ArticleID: article.ID}); err != nil {
		t.Fatalf("reconnect: %v", err)
	}
	ids, err := repos.relations.ListTermIDs(ctx, article.ID)
	if err != nil {
		t.Fatalf("list term ids: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 relations, got %v", ids)
	}

	removed, err := svc.DisconnectAll(ctx, article.ID)
	if err != nil {
		t.Fatalf("disconnect all: %v", err)
	}
	if removed.Removed != 2 {
		t.Fatalf("expected 2 removed relations, got %d", removed.Removed)
	}
}

func TestBunRepositoriesMapNotFound(t *testing.T) {
	ctx := context.Background()
	repos := newBunRepositories(t, false)

	var notFound *glossary.NotFoundError
	if _, err := repos.articles.GetByID(ctx, uuid.New()); !errors.As(err, &notFound) {
		t.Fatalf("expected article NotFoundError, got %v", err)
	}
	if _, err := repos.categories.GetBySlug(ctx, "missing"); !errors.As(err, &notFound) {
		t.Fatalf("expected category NotFoundError, got %v", err)
	}
	if _, err := repos.terms.GetByWord(ctx, "missing"); !errors.As(err, &notFound) {
		t.Fatalf("expected term NotFoundError, got %v", err)
	}
}

func TestBunTermRepositoryListings(t *testing.T) {
	for _, cached := range []bool{false, true} {
		t.Run(fmt.Sprintf("cached=%t", cached), func(t *testing.T) {
			assertTermListings(t, newBunRepositories(t, cached))
		})
	}
}

func assertTermListings(t *testing.T, repos bunRepositories) {
	t.Helper()
	ctx := context.Background()

	category, err := repos.categories.Create(ctx, &glossary.Category{ID: uuid.New(), Name: "Storage", Slug: "storage"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	for _, word := range []string{"volume", "backup", "snapshot"} {
		term, err := repos.terms.Create(ctx, &glossary.Term{ID: identity.TermUUID(word), Word: word})
		if err != nil {
			t.Fatalf("create term: %v", err)
		}
		if word == "snapshot" {
			continue
		}
		if err := repos.terms.AssignCategory(ctx, term.ID, category.ID); err != nil {
			t.Fatalf("assign: %v", err)
		}
	}

	scoped, err := repos.terms.ListByCategory(ctx, category.ID)
	if err != nil {
		t.Fatalf("list by category: %v", err)
	}
	if got := termWords(scoped); !equalStrings(got, []string{"backup", "volume"}) {
		t.Fatalf("unexpected scoped terms %v", got)
	}

	global, err := repos.terms.ListGlobal(ctx)
	if err != nil {
		t.Fatalf("list global: %v", err)
	}
	if got := termWords(global); !equalStrings(got, []string{"snapshot"}) {
		t.Fatalf("unexpected global terms %v", got)
	}

	all, err := repos.terms.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got := termWords(all); !equalStrings(got, []string{"backup", "snapshot", "volume"}) {
		t.Fatalf("unexpected terms %v", got)
	}
}

func TestBunRepositoriesServeCachedReads(t *testing.T) {
	ctx := context.Background()
	repos := newBunRepositories(t, true)

	created, err := repos.categories.Create(ctx, &glossary.Category{ID: identity.CategoryUUID("ops"), Name: "Operations", Slug: "ops"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	for i := 0; i < 2; i++ {
		got, err := repos.categories.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("get %d: %v", i, err)
		}
		if got.Slug != "ops" {
			t.Fatalf("expected slug ops, got %q", got.Slug)
		}
	}
	bySlug, err := repos.categories.GetBySlug(ctx, "ops")
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if bySlug.ID != created.ID {
		t.Fatalf("expected %s, got %s", created.ID, bySlug.ID)
	}
}

func termWords(terms []*glossary.Term) []string {
	out := make([]string, 0, len(terms))
	for _, term := range terms {
		out = append(out, term.Word)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
