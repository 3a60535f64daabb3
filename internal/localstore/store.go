package localstore

import (
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"
)

// Open opens (creating if needed) the bbolt file backing the pitchside
// local store. The caller owns the handle and closes it on shutdown.
func Open(path string) (*bbolt.DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store directory %s: %w", dir, err)
	}

	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("open local store at %s: %w", path, err)
	}

	return db, nil
}
