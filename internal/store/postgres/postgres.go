// Package postgres is the PostgreSQL store driver (pgx stdlib).
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/ananyateklu/second-brain-sub004/internal/store/sqlstore"
)

var dialect = sqlstore.Dialect{Name: "postgres", Numbered: true}

// Open opens a PostgreSQL connection using the pgx stdlib driver, verifies
// connectivity and ensures the schema.
func Open(ctx context.Context, dsn string) (*sqlstore.Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	for _, stmt := range sqlstore.Schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}
	return sqlstore.New(db, dialect), nil
}
