package prefs

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ananyateklu/second-brain-sub004/internal/storage/sqlite"
)

const localSchema = `CREATE TABLE IF NOT EXISTS Preferences (
	Key TEXT PRIMARY KEY,
	Value TEXT NOT NULL,
	UpdatedAt TEXT NOT NULL
)`

// SQLiteLocal keeps preferences in a single-table SQLite file.
type SQLiteLocal struct {
	db  *sql.DB
	now func() time.Time
}

// OpenLocal opens or creates the cache file at path.
func OpenLocal(ctx context.Context, path string) (*SQLiteLocal, error) {
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, err
	}
	if err := sqlite.Migrate(ctx, db, localSchema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteLocal{db: db, now: time.Now}, nil
}

func (l *SQLiteLocal) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := l.db.QueryRowContext(ctx, `SELECT Value FROM Preferences WHERE Key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (l *SQLiteLocal) Put(ctx context.Context, key, value string) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO Preferences (Key, Value, UpdatedAt) VALUES (?, ?, ?)
		 ON CONFLICT(Key) DO UPDATE SET Value = excluded.Value, UpdatedAt = excluded.UpdatedAt`,
		key, value, l.now().UTC().Format(time.RFC3339Nano))
	return err
}

func (l *SQLiteLocal) Delete(ctx context.Context, key string) error {
	_, err := l.db.ExecContext(ctx, `DELETE FROM Preferences WHERE Key = ?`, key)
	return err
}

// Close releases the database handle.
func (l *SQLiteLocal) Close() error { return l.db.Close() }
