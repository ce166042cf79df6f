package sqlite

import (
	"context"
	"path/filepath"
	"testing"
)

func TestOpen_CreatesParentAndMigrates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "test.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	stmt := `CREATE TABLE IF NOT EXISTS T (K TEXT PRIMARY KEY)`
	if err := Migrate(context.Background(), db, stmt, stmt); err != nil {
		t.Fatalf("migrate twice: %v", err)
	}
	var mode string
	if err := db.QueryRow(`PRAGMA journal_mode`).Scan(&mode); err != nil || mode != "wal" {
		t.Fatalf("journal_mode = %q, %v", mode, err)
	}
}

func TestOpen_Memory(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()
	if err := Migrate(context.Background(), db, `CREATE TABLE T (K TEXT)`, `INSERT INTO T VALUES ('x')`); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM T`).Scan(&n); err != nil || n != 1 {
		t.Fatalf("count = %d, %v", n, err)
	}
}
