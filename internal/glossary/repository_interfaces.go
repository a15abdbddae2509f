package glossary

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// CategoryRepository exposes persistence operations for categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *Category) (*Category, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Category, error)
	GetBySlug(ctx context.Context, slug string) (*Category, error)
	List(ctx context.Context) ([]*Category, error)
}

// ArticleRepository exposes persistence operations for articles.
type ArticleRepository interface {
	Create(ctx context.Context, article *Article) (*Article, error)
	Update(ctx context.Context, article *Article) (*Article, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Article, error)
	GetBySlug(ctx context.Context, slug string) (*Article, error)
	List(ctx context.Context) ([]*Article, error)
}

// TermRepository exposes persistence operations for glossary terms and their
// category assignments. Listings are ordered by word.
type TermRepository interface {
	Create(ctx context.Context, term *Term) (*Term, error)
	Update(ctx context.Context, term *Term) (*Term, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Term, error)
	GetByWord(ctx context.Context, word string) (*Term, error)
	List(ctx context.Context) ([]*Term, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*Term, error)
	ListGlobal(ctx context.Context) ([]*Term, error)
	AssignCategory(ctx context.Context, termID, categoryID uuid.UUID) error
}

// RelationRepository persists the article/term many-to-many relation.
type RelationRepository interface {
	// Connect is a no-op when the pair is already associated.
	Connect(ctx context.Context, articleID, termID uuid.UUID) error
	Disconnect(ctx context.Context, articleID, termID uuid.UUID) error
	DisconnectAll(ctx context.Context, articleID uuid.UUID) (int, error)
	ListTermIDs(ctx context.Context, articleID uuid.UUID) ([]uuid.UUID, error)
}

// NotFoundError is returned when a glossary resource cannot be located.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}
