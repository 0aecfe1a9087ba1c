package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// localStore implements ContentStore on the local filesystem. Every key maps
// to one file directly under the root directory; keys are opaque ids and
// never contain path separators.
type localStore struct {
	root string
}

// NewLocal creates a disk-backed content store rooted at root, creating the
// directory if it does not exist yet.
func NewLocal(root string) (ContentStore, error) {
	if root == "" {
		return nil, fmt.Errorf("storage root is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &localStore{root: root}, nil
}

func (l *localStore) path(key string) string {
	return filepath.Join(l.root, filepath.Base(key))
}

func (l *localStore) Write(_ context.Context, key string, data []byte) error {
	if err := os.MkdirAll(l.root, 0o755); err != nil {
		return fmt.Errorf("create storage root: %w", err)
	}
	if err := os.WriteFile(l.path(key), data, 0o644); err != nil {
		return fmt.Errorf("write content: %w", err)
	}
	return nil
}

func (l *localStore) Read(_ context.Context, key string) ([]byte, error) {
	b, err := os.ReadFile(l.path(key))
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	return b, nil
}

func (l *localStore) Exists(_ context.Context, key string) (bool, error) {
	_, err := os.Stat(l.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (l *localStore) Ping(_ context.Context) bool {
	info, err := os.Stat(l.root)
	return err == nil && info.IsDir()
}
