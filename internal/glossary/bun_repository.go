package glossary

import (
	"context"
	"fmt"
	"time"

	"github.com/aldo555/glossary-magic/internal/identity"
	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Filtered listings go through the uncached base repository: criteria built
// from closures do not produce distinct cache keys.

// BunCategoryRepository implements CategoryRepository with optional caching.
type BunCategoryRepository struct {
	repo repository.Repository[*Category]
	base repository.Repository[*Category]
}

// NewBunCategoryRepository creates a category repository without caching.
func NewBunCategoryRepository(db *bun.DB) *BunCategoryRepository {
	return NewBunCategoryRepositoryWithCache(db, nil, nil)
}

// NewBunCategoryRepositoryWithCache creates a category repository with caching support.
func NewBunCategoryRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunCategoryRepository {
	base := NewCategoryRepository(db)
	return &BunCategoryRepository{
		repo: wrapWithCache(base, cacheService, keySerializer),
		base: base,
	}
}

func (r *BunCategoryRepository) Create(ctx context.Context, category *Category) (*Category, error) {
	return r.repo.Create(ctx, category)
}

func (r *BunCategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*Category, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "category", id.String())
	}
	return record, nil
}

func (r *BunCategoryRepository) GetBySlug(ctx context.Context, slug string) (*Category, error) {
	record, err := r.repo.GetByIdentifier(ctx, slug)
	if err != nil {
		return nil, mapRepositoryError(err, "category", slug)
	}
	return record, nil
}

func (r *BunCategoryRepository) List(ctx context.Context) ([]*Category, error) {
	records, _, err := r.base.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.OrderExpr("?TableAlias.name ASC")
	}))
	return records, err
}

// BunArticleRepository implements ArticleRepository with optional caching.
type BunArticleRepository struct {
	repo repository.Repository[*Article]
	base repository.Repository[*Article]
}

// NewBunArticleRepository creates an article repository without caching.
func NewBunArticleRepository(db *bun.DB) *BunArticleRepository {
	return NewBunArticleRepositoryWithCache(db, nil, nil)
}

// NewBunArticleRepositoryWithCache creates an article repository with caching support.
func NewBunArticleRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunArticleRepository {
	base := NewArticleRepository(db)
	return &BunArticleRepository{
		repo: wrapWithCache(base, cacheService, keySerializer),
		base: base,
	}
}

func (r *BunArticleRepository) Create(ctx context.Context, article *Article) (*Article, error) {
	return r.repo.Create(ctx, article)
}

func (r *BunArticleRepository) Update(ctx context.Context, article *Article) (*Article, error) {
	updated, err := r.repo.Update(ctx, article,
		repository.UpdateByID(article.ID.String()),
		repository.UpdateColumns(
			"title",
			"slug",
			"category_id",
			"content",
			"updated_at",
		),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "article", article.ID.String())
	}
	return updated, nil
}

func (r *BunArticleRepository) GetByID(ctx context.Context, id uuid.UUID) (*Article, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "article", id.String())
	}
	return record, nil
}

func (r *BunArticleRepository) GetBySlug(ctx context.Context, slug string) (*Article, error) {
	record, err := r.repo.GetByIdentifier(ctx, slug)
	if err != nil {
		return nil, mapRepositoryError(err, "article", slug)
	}
	return record, nil
}

func (r *BunArticleRepository) List(ctx context.Context) ([]*Article, error) {
	records, _, err := r.base.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.OrderExpr("?TableAlias.title ASC")
	}))
	return records, err
}

// BunTermRepository implements TermRepository with optional caching.
type BunTermRepository struct {
	db         *bun.DB
	repo       repository.Repository[*Term]
	base       repository.Repository[*Term]
	categories repository.Repository[*TermCategory]
	now        func() time.Time
}

// NewBunTermRepository creates a term repository without caching.
func NewBunTermRepository(db *bun.DB) *BunTermRepository {
	return NewBunTermRepositoryWithCache(db, nil, nil)
}

// NewBunTermRepositoryWithCache creates a term repository with caching support.
func NewBunTermRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunTermRepository {
	base := NewTermRepository(db)
	return &BunTermRepository{
		db:         db,
		repo:       wrapWithCache(base, cacheService, keySerializer),
		base:       base,
		categories: NewTermCategoryRepository(db),
		now:        time.Now,
	}
}

func (r *BunTermRepository) Create(ctx context.Context, term *Term) (*Term, error) {
	return r.repo.Create(ctx, term)
}

func (r *BunTermRepository) Update(ctx context.Context, term *Term) (*Term, error) {
	updated, err := r.repo.Update(ctx, term,
		repository.UpdateByID(term.ID.String()),
		repository.UpdateColumns("word", "description", "updated_at"),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "term", term.ID.String())
	}
	return updated, nil
}

func (r *BunTermRepository) GetByID(ctx context.Context, id uuid.UUID) (*Term, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "term", id.String())
	}
	return record, nil
}

func (r *BunTermRepository) GetByWord(ctx context.Context, word string) (*Term, error) {
	record, err := r.repo.GetByIdentifier(ctx, word)
	if err != nil {
		return nil, mapRepositoryError(err, "term", word)
	}
	return record, nil
}

func (r *BunTermRepository) List(ctx context.Context) ([]*Term, error) {
	records, _, err := r.base.List(ctx, repository.SelectRawProcessor(orderByWord))
	return records, err
}

// The term_id subqueries are table expressions so their alias cannot shadow
// the outer glossary_terms alias.
func (r *BunTermRepository) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*Term, error) {
	assigned := r.db.NewSelect().
		TableExpr("glossary_term_categories").
		Column("term_id").
		Where("category_id = ?", categoryID)

	records, _, err := r.base.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("gt.id IN (?)", assigned)
		}),
		repository.SelectRawProcessor(orderByWord),
	)
	return records, err
}

func (r *BunTermRepository) ListGlobal(ctx context.Context) ([]*Term, error) {
	assigned := r.db.NewSelect().
		TableExpr("glossary_term_categories").
		Column("term_id")

	records, _, err := r.base.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("gt.id NOT IN (?)", assigned)
		}),
		repository.SelectRawProcessor(orderByWord),
	)
	return records, err
}

func (r *BunTermRepository) AssignCategory(ctx context.Context, termID, categoryID uuid.UUID) error {
	existing, _, err := r.categories.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.term_id = ?", termID).Where("?TableAlias.category_id = ?", categoryID)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return fmt.Errorf("term category lookup: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}
	_, err = r.categories.Create(ctx, &TermCategory{
		ID:         identity.TermCategoryUUID(termID, categoryID),
		TermID:     termID,
		CategoryID: categoryID,
		CreatedAt:  r.now().UTC(),
	})
	return err
}

// BunRelationRepository implements RelationRepository.
type BunRelationRepository struct {
	db   *bun.DB
	repo repository.Repository[*ArticleTerm]
	now  func() time.Time
}

// NewBunRelationRepository creates an uncached relation repository.
func NewBunRelationRepository(db *bun.DB) *BunRelationRepository {
	return &BunRelationRepository{
		db:   db,
		repo: NewArticleTermRepository(db),
		now:  time.Now,
	}
}

func (r *BunRelationRepository) Connect(ctx context.Context, articleID, termID uuid.UUID) error {
	existing, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.article_id = ?", articleID).Where("?TableAlias.term_id = ?", termID)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return fmt.Errorf("relation lookup: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}
	_, err = r.repo.Create(ctx, &ArticleTerm{
		ID:        identity.ArticleTermUUID(articleID, termID),
		ArticleID: articleID,
		TermID:    termID,
		CreatedAt: r.now().UTC(),
	})
	return err
}

func (r *BunRelationRepository) Disconnect(ctx context.Context, articleID, termID uuid.UUID) error {
	if _, err := r.db.NewDelete().
		Model((*ArticleTerm)(nil)).
		Where("?TableAlias.article_id = ?", articleID).
		Where("?TableAlias.term_id = ?", termID).
		Exec(ctx); err != nil {
		return fmt.Errorf("delete article term: %w", err)
	}
	return nil
}

func (r *BunRelationRepository) DisconnectAll(ctx context.Context, articleID uuid.UUID) (int, error) {
	result, err := r.db.NewDelete().
		Model((*ArticleTerm)(nil)).
		Where("?TableAlias.article_id = ?", articleID).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete article terms: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("article terms rows affected: %w", err)
	}
	return int(affected), nil
}

func (r *BunRelationRepository) ListTermIDs(ctx context.Context, articleID uuid.UUID) ([]uuid.UUID, error) {
	records, _, err := r.repo.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.article_id = ?", articleID).OrderExpr("?TableAlias.created_at ASC, ?TableAlias.term_id ASC")
	}))
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(records))
	for _, record := range records {
		ids = append(ids, record.TermID)
	}
	return ids, nil
}

func orderByWord(q *bun.SelectQuery) *bun.SelectQuery {
	return q.OrderExpr("?TableAlias.word ASC")
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: resource, Key: key}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
