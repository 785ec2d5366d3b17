package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FileStore abstracts where attachment bytes live. The core only ever holds
// storage keys; this interface is the whole contract.
type FileStore interface {
	Save(name string, data []byte) (string, error)
	Remove(key string) error
	RemoveAll() error
}

// LocalFileStore keeps attachment files on the local disk under a single
// upload directory.
type LocalFileStore struct {
	dir string
}

// NewLocalFileStore creates the upload directory if needed.
func NewLocalFileStore(dir string) (*LocalFileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalFileStore{dir: dir}, nil
}

// Save writes data under a generated key and returns the key.
func (s *LocalFileStore) Save(name string, data []byte) (string, error) {
	ext := filepath.Ext(name)
	key := strings.ReplaceAll(uuid.NewString(), "-", "") + ext
	if err := os.WriteFile(filepath.Join(s.dir, key), data, 0o644); err != nil {
		return "", err
	}
	return key, nil
}

// Remove deletes a single stored file. Missing files are not an error.
func (s *LocalFileStore) Remove(key string) error {
	err := os.Remove(filepath.Join(s.dir, filepath.Base(key)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// RemoveAll deletes every stored file, keeping the directory.
func (s *LocalFileStore) RemoveAll() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}
