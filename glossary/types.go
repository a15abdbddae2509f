package glossary

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Category groups articles and scopes glossary terms.
type Category struct {
	bun.BaseModel `bun:"table:categories,alias:c"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	Slug      string    `bun:"slug,notnull,unique" json:"slug"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Article is a piece of content made of named markdown fields.
type Article struct {
	bun.BaseModel `bun:"table:articles,alias:a"`

	ID         uuid.UUID         `bun:",pk,type:uuid" json:"id"`
	Title      string            `bun:"title,notnull" json:"title"`
	Slug       string            `bun:"slug,notnull,unique" json:"slug"`
	CategoryID *uuid.UUID        `bun:"category_id,type:uuid" json:"category_id,omitempty"`
	Content    map[string]string `bun:"content,type:jsonb" json:"content"`
	CreatedAt  time.Time         `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt  time.Time         `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`

	Category *Category `bun:"rel:belongs-to,join:category_id=id" json:"category,omitempty"`
}

// Term is a glossary word. A term without category assignments is global.
type Term struct {
	bun.BaseModel `bun:"table:glossary_terms,alias:gt"`

	ID          uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Word        string    `bun:"word,notnull,unique" json:"word"`
	Description *string   `bun:"description" json:"description,omitempty"`
	CreatedAt   time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// TermCategory assigns a term to a category.
type TermCategory struct {
	bun.BaseModel `bun:"table:glossary_term_categories,alias:gtc"`

	ID         uuid.UUID `bun:",pk,type:uuid" json:"id"`
	TermID     uuid.UUID `bun:"term_id,notnull,type:uuid" json:"term_id"`
	CategoryID uuid.UUID `bun:"category_id,notnull,type:uuid" json:"category_id"`
	CreatedAt  time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}

// ArticleTerm records that an article links to a glossary term.
type ArticleTerm struct {
	bun.BaseModel `bun:"table:article_glossary_terms,alias:agt"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	ArticleID uuid.UUID `bun:"article_id,notnull,type:uuid" json:"article_id"`
	TermID    uuid.UUID `bun:"term_id,notnull,type:uuid" json:"term_id"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}

// VocabularyEntry is a term resolved for one article, carrying the link
// destination that glossary references should point to.
type VocabularyEntry struct {
	ID     uuid.UUID `json:"id"`
	Word   string    `json:"word"`
	Link   string    `json:"link"`
	Global bool      `json:"global"`
}
