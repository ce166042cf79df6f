// Package sqlite is the embedded store driver (modernc, WAL).
package sqlite

import (
	"context"

	"github.com/ananyateklu/second-brain-sub004/internal/storage/sqlite"
	"github.com/ananyateklu/second-brain-sub004/internal/store/sqlstore"
)

var dialect = sqlstore.Dialect{Name: "sqlite"}

// Open opens or creates the database at path and ensures the schema.
func Open(ctx context.Context, path string) (*sqlstore.Store, error) {
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, err
	}
	if err := sqlite.Migrate(ctx, db, sqlstore.Schema...); err != nil {
		_ = db.Close()
		return nil, err
	}
	return sqlstore.New(db, dialect), nil
}
