package glossary

import (
	"context"
	"maps"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryCategoryRepository provides an in-memory implementation of CategoryRepository.
type MemoryCategoryRepository struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]*Category
	bySlug map[string]uuid.UUID
}

// NewMemoryCategoryRepository constructs an empty memory-backed category repository.
func NewMemoryCategoryRepository() *MemoryCategoryRepository {
	return &MemoryCategoryRepository{
		byID:   make(map[uuid.UUID]*Category),
		bySlug: make(map[string]uuid.UUID),
	}
}

func (r *MemoryCategoryRepository) Create(_ context.Context, category *Category) (*Category, error) {
	if category == nil {
		return nil, nil
	}
	cloned := cloneCategory(category)
	if cloned.ID == uuid.Nil {
		cloned.ID = uuid.New()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID[cloned.ID] = cloned
	r.bySlug[cloned.Slug] = cloned.ID

	return cloneCategory(cloned), nil
}

func (r *MemoryCategoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "category", Key: id.String()}
	}
	return cloneCategory(record), nil
}

func (r *MemoryCategoryRepository) GetBySlug(_ context.Context, slug string) (*Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.bySlug[slug]
	if !ok {
		return nil, &NotFoundError{Resource: "category", Key: slug}
	}
	return cloneCategory(r.byID[id]), nil
}

func (r *MemoryCategoryRepository) List(_ context.Context) ([]*Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Category, 0, len(r.byID))
	for _, category := range r.byID {
		out = append(out, cloneCategory(category))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// MemoryArticleRepository provides an in-memory implementation of ArticleRepository.
type MemoryArticleRepository struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]*Article
	bySlug map[string]uuid.UUID
}

// NewMemoryArticleRepository constructs an empty memory-backed article repository.
func NewMemoryArticleRepository() *MemoryArticleRepository {
	return &MemoryArticleRepository{
		byID:   make(map[uuid.UUID]*Article),
		bySlug: make(map[string]uuid.UUID),
	}
}

func (r *MemoryArticleRepository) Create(_ context.Context, article *Article) (*Article, error) {
	if article == nil {
		return nil, nil
	}
	cloned := cloneArticle(article)
	if cloned.ID == uuid.Nil {
		cloned.ID = uuid.New()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID[cloned.ID] = cloned
	r.bySlug[cloned.Slug] = cloned.ID

	return cloneArticle(cloned), nil
}

func (r *MemoryArticleRepository) Update(_ context.Context, article *Article) (*Article, error) {
	if article == nil {
		return nil, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.byID[article.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "article", Key: article.ID.String()}
	}
	delete(r.bySlug, current.Slug)

	cloned := cloneArticle(article)
	r.byID[cloned.ID] = cloned
	r.bySlug[cloned.Slug] = cloned.ID

	return cloneArticle(cloned), nil
}

func (r *MemoryArticleRepository) GetByID(_ context.Context, id uuid.UUID) (*Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "article", Key: id.String()}
	}
	return cloneArticle(record), nil
}

func (r *MemoryArticleRepository) GetBySlug(_ context.Context, slug string) (*Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.bySlug[slug]
	if !ok {
		return nil, &NotFoundError{Resource: "article", Key: slug}
	}
	return cloneArticle(r.byID[id]), nil
}

func (r *MemoryArticleRepository) List(_ context.Context) ([]*Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Article, 0, len(r.byID))
	for _, article := range r.byID {
		out = append(out, cloneArticle(article))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

// MemoryTermRepository provides an in-memory implementation of TermRepository.
type MemoryTermRepository struct {
	mu         sync.RWMutex
	byID       map[uuid.UUID]*Term
	byWord     map[string]uuid.UUID
	categories map[uuid.UUID]map[uuid.UUID]struct{} // termID -> categoryIDs
}

// NewMemoryTermRepository constructs an empty memory-backed term repository.
func NewMemoryTermRepository() *MemoryTermRepository {
	return &MemoryTermRepository{
		byID:       make(map[uuid.UUID]*Term),
		byWord:     make(map[string]uuid.UUID),
		categories: make(map[uuid.UUID]map[uuid.UUID]struct{}),
	}
}

func (r *MemoryTermRepository) Create(_ context.Context, term *Term) (*Term, error) {
	if term == nil {
		return nil, nil
	}
	cloned := cloneTerm(term)
	if cloned.ID == uuid.Nil {
		cloned.ID = uuid.New()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID[cloned.ID] = cloned
	r.byWord[cloned.Word] = cloned.ID

	return cloneTerm(cloned), nil
}

func (r *MemoryTermRepository) Update(_ context.Context, term *Term) (*Term, error) {
	if term == nil {
		return nil, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.byID[term.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "term", Key: term.ID.String()}
	}
	delete(r.byWord, current.Word)

	cloned := cloneTerm(term)
	r.byID[cloned.ID] = cloned
	r.byWord[cloned.Word] = cloned.ID

	return cloneTerm(cloned), nil
}

func (r *MemoryTermRepository) GetByID(_ context.Context, id uuid.UUID) (*Term, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "term", Key: id.String()}
	}
	return cloneTerm(record), nil
}

func (r *MemoryTermRepository) GetByWord(_ context.Context, word string) (*Term, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byWord[word]
	if !ok {
		return nil, &NotFoundError{Resource: "term", Key: word}
	}
	return cloneTerm(r.byID[id]), nil
}

func (r *MemoryTermRepository) List(_ context.Context) ([]*Term, error) {
	return r.filter(func(*Term) bool { return true }), nil
}

func (r *MemoryTermRepository) ListByCategory(_ context.Context, categoryID uuid.UUID) ([]*Term, error) {
	return r.filter(func(term *Term) bool {
		_, ok := r.categories[term.ID][categoryID]
		return ok
	}), nil
}

func (r *MemoryTermRepository) ListGlobal(_ context.Context) ([]*Term, error) {
	return r.filter(func(term *Term) bool {
		return len(r.categories[term.ID]) == 0
	}), nil
}

func (r *MemoryTermRepository) AssignCategory(_ context.Context, termID, categoryID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[termID]; !ok {
		return &NotFoundError{Resource: "term", Key: termID.String()}
	}
	assigned, ok := r.categories[termID]
	if !ok {
		assigned = make(map[uuid.UUID]struct{})
		r.categories[termID] = assigned
	}
	assigned[categoryID] = struct{}{}
	return nil
}

func (r *MemoryTermRepository) filter(keep func(*Term) bool) []*Term {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Term
	for _, term := range r.byID {
		if keep(term) {
			out = append(out, cloneTerm(term))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Word < out[j].Word })
	return out
}

// MemoryRelationRepository provides an in-memory implementation of RelationRepository.
type MemoryRelationRepository struct {
	mu        sync.RWMutex
	byArticle map[uuid.UUID][]uuid.UUID
}

// NewMemoryRelationRepository constructs an empty memory-backed relation repository.
func NewMemoryRelationRepository() *MemoryRelationRepository {
	return &MemoryRelationRepository{byArticle: make(map[uuid.UUID][]uuid.UUID)}
}

func (r *MemoryRelationRepository) Connect(_ context.Context, articleID, termID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.byArticle[articleID] {
		if existing == termID {
			return nil
		}
	}
	r.byArticle[articleID] = append(r.byArticle[articleID], termID)
	return nil
}

func (r *MemoryRelationRepository) Disconnect(_ context.Context, articleID, termID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current := r.byArticle[articleID]
	kept := current[:0]
	for _, existing := range current {
		if existing != termID {
			kept = append(kept, existing)
		}
	}
	if len(kept) == 0 {
		delete(r.byArticle, articleID)
		return nil
	}
	r.byArticle[articleID] = kept
	return nil
}

func (r *MemoryRelationRepository) DisconnectAll(_ context.Context, articleID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := len(r.byArticle[articleID])
	delete(r.byArticle, articleID)
	return removed, nil
}

func (r *MemoryRelationRepository) ListTermIDs(_ context.Context, articleID uuid.UUID) ([]uuid.UUID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]uuid.UUID(nil), r.byArticle[articleID]...), nil
}

func cloneCategory(src *Category) *Category {
	if src == nil {
		return nil
	}
	cloned := *src
	return &cloned
}

func cloneArticle(src *Article) *Article {
	if src == nil {
		return nil
	}
	cloned := *src
	if src.CategoryID != nil {
		id := *src.CategoryID
		cloned.CategoryID = &id
	}
	if src.Content != nil {
		cloned.Content = maps.Clone(src.Content)
	}
	cloned.Category = cloneCategory(src.Category)
	return &cloned
}

func cloneTerm(src *Term) *Term {
	if src == nil {
		return nil
	}
	cloned := *src
	if src.Description != nil {
		description := *src.Description
		cloned.Description = &description
	}
	return &cloned
}
