package kv

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore implements Store with one file per key in a directory.
// Writes go through a temp file and rename, so a crash mid-write never
// leaves a truncated value behind.
type FileStore struct {
	dir string
}

// OpenFileStore opens (creating if needed) a directory-backed store.
func OpenFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("kv: file store directory is required")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("kv: create store directory %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// path maps a key to a file inside the store directory. Keys carrying
// path separators are rejected so a key can never escape the directory.
func (s *FileStore) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("kv: invalid key %q", key)
	}
	return filepath.Join(s.dir, key), nil
}

func (s *FileStore) Get(key string) ([]byte, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("kv: get %s: %w", key, err)
	}
	return data, nil
}

func (s *FileStore) Set(key string, value []byte) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, key+".tmp-*")
	if err != nil {
		return fmt.Errorf("kv: set %s: %w", key, err)
	}
	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("kv: set %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("kv: set %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("kv: set %s: %w", key, err)
	}
	return nil
}

func (s *FileStore) Remove(key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("kv: remove %s: %w", key, err)
	}
	return nil
}

func (s *FileStore) Close() error {
	return nil
}
