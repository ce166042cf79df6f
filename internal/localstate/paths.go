// Package localstate resolves where on-disk state lives.
package localstate

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	envHome       = "SECONDBRAIN_HOME" // override for tests
	dirName       = ".secondbrain"
	prefsFilename = "prefs.db"
	itemsFilename = "items.db"
)

// DataDir returns the directory where local state is stored (~/.secondbrain),
// creating it with 0700 permissions.
func DataDir() (string, error) {
	if custom := os.Getenv(envHome); custom != "" {
		if err := os.MkdirAll(custom, 0o700); err != nil {
			return "", err
		}
		return custom, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine user home: %w", err)
	}
	dir := filepath.Join(home, dirName)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}

// PrefsPath is the client's local preference cache.
func PrefsPath() (string, error) { return file(prefsFilename) }

// ItemsDBPath is the reference item service's SQLite database.
func ItemsDBPath() (string, error) { return file(itemsFilename) }

func file(name string) (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}
