package localstate

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDataDir_Override(t *testing.T) {
	tmp := filepath.Join(t.TempDir(), "nested")
	t.Setenv(envHome, tmp)

	dir, err := DataDir()
	if err != nil {
		t.Fatalf("DataDir error: %v", err)
	}
	if dir != tmp {
		t.Fatalf("expected dir %s, got %s", tmp, dir)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("dir not created: %v", err)
	}
}

func TestPaths(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv(envHome, tmp)

	p, err := PrefsPath()
	if err != nil || p != filepath.Join(tmp, prefsFilename) {
		t.Fatalf("PrefsPath = %s, %v", p, err)
	}
	p, err = ItemsDBPath()
	if err != nil || p != filepath.Join(tmp, itemsFilename) {
		t.Fatalf("ItemsDBPath = %s, %v", p, err)
	}
}
