package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// lockFileName is the advisory lock guarding writes within a FileStore directory.
const lockFileName = ".lock"

// FileStore keeps each key in its own file under a directory. Writes go to
// a temporary file that is renamed into place while holding an exclusive
// flock, so readers never observe a half-written value.
type FileStore struct {
	dir string
}

// NewFileStore returns a FileStore rooted at dir. The directory is created
// on first write.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// keyFileName maps a key to a file name, replacing characters that are not
// portable in file names.
func keyFileName(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String() + ".kv"
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, keyFileName(key))
}

func (s *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("reading %s: %w", key, err)
	}
	return string(data), true, nil
}

func (s *FileStore) Set(_ context.Context, key, value string) error {
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return fmt.Errorf("writing %s: creating directory: %w", key, err)
	}

	unlock, err := lockFile(filepath.Join(s.dir, lockFileName))
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	defer func() { _ = unlock() }()

	target := s.path(key)
	tmp, err := os.CreateTemp(s.dir, filepath.Base(target)+".tmp-*")
	if err != nil {
		return fmt.Errorf("writing %s: creating temp file: %w", key, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.WriteString(value); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: closing temp file: %w", key, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		return fmt.Errorf("writing %s: replacing file: %w", key, err)
	}
	return nil
}

func (s *FileStore) Remove(_ context.Context, key string) error {
	if _, err := os.Stat(s.dir); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	unlock, err := lockFile(filepath.Join(s.dir, lockFileName))
	if err != nil {
		return fmt.Errorf("removing %s: %w", key, err)
	}
	defer func() { _ = unlock() }()

	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", key, err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }
