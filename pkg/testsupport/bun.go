package testsupport

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/aldo555/glossary-magic/internal/runtimeconfig"
	"github.com/aldo555/glossary-magic/internal/storage"
)

// NewMigratedBunDB opens a private in-memory sqlite database with every
// glossary table created.
func NewMigratedBunDB(ctx context.Context) (*bun.DB, error) {
	db, err := storage.Open(runtimeconfig.StorageConfig{
		Driver: "sqlite3",
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	})
	if err != nil {
		return nil, err
	}
	if err := storage.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
