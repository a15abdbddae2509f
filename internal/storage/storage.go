package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/aldo555/glossary-magic/internal/glossary"
	"github.com/aldo555/glossary-magic/internal/runtimeconfig"
)

var (
	ErrDriverUnsupported = errors.New("storage: driver is not supported")
	ErrDSNRequired       = errors.New("storage: dsn is required")
)

// Open connects to the configured database and returns a bun handle using
// the matching dialect.
func Open(cfg runtimeconfig.StorageConfig) (*bun.DB, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, ErrDSNRequired
	}

	switch driver := runtimeconfig.NormalizeDriver(cfg.Driver); driver {
	case "sqlite3":
		sqlDB, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("storage: open sqlite3: %w", err)
		}
		// sqlite serialises writers; a single connection also keeps
		// in-memory databases alive across queries.
		sqlDB.SetMaxOpenConns(1)
		return bun.NewDB(sqlDB, sqlitedialect.New()), nil
	case "postgres":
		sqlDB, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("storage: open postgres: %w", err)
		}
		return bun.NewDB(sqlDB, pgdialect.New()), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrDriverUnsupported, cfg.Driver)
	}
}

// Models lists the bun models backing the glossary repositories.
func Models() []any {
	return []any{
		(*glossary.Category)(nil),
		(*glossary.Article)(nil),
		(*glossary.Term)(nil),
		(*glossary.TermCategory)(nil),
		(*glossary.ArticleTerm)(nil),
	}
}

type uniqueIndex struct {
	name    string
	model   any
	columns []string
}

var uniqueIndexes = []uniqueIndex{
	{name: "glossary_term_categories_term_category_idx", model: (*glossary.TermCategory)(nil), columns: []string{"term_id", "category_id"}},
	{name: "article_glossary_terms_article_term_idx", model: (*glossary.ArticleTerm)(nil), columns: []string{"article_id", "term_id"}},
}

// Migrate creates every glossary table and the unique indexes guarding the
// relation tables. It is safe to run repeatedly.
func Migrate(ctx context.Context, db *bun.DB) error {
	if db == nil {
		return errors.New("storage: database is required")
	}
	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, model := range Models() {
			if _, err := tx.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
				return fmt.Errorf("storage: create table for %T: %w", model, err)
			}
		}
		for _, index := range uniqueIndexes {
			if _, err := tx.NewCreateIndex().
				Model(index.model).
				Index(index.name).
				Unique().
				IfNotExists().
				Column(index.columns...).
				Exec(ctx); err != nil {
				return fmt.Errorf("storage: create index %s: %w", index.name, err)
			}
		}
		return nil
	})
}
