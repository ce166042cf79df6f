package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ananyateklu/second-brain-sub004/internal/store"
	"github.com/ananyateklu/second-brain-sub004/internal/store/storetest"
)

func TestSQLiteStore_Compliance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		s, err := Open(context.Background(), filepath.Join(t.TempDir(), "items.db"))
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}
