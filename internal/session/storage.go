package session

import (
	"fmt"
	"os"
	"path/filepath"
)

// Storage is the durable client-side store behind the session store. It is
// deliberately a dumb key/value surface: the CLI analogue of the browser
// cookie jar the dashboard uses.
type Storage interface {
	// Get returns the stored value and whether the key was present.
	Get(key string) (string, bool, error)
	Set(key, value string) error
	// Delete removes the key. Deleting an absent key is not an error.
	Delete(key string) error
}

// FileStorage persists each entry as its own file under a state directory,
// so the bare token entry can be read without touching the full payload.
type FileStorage struct {
	dir string
}

func NewFileStorage(dir string) *FileStorage {
	return &FileStorage{dir: dir}
}

func (f *FileStorage) path(key string) string {
	return filepath.Join(f.dir, key)
}

func (f *FileStorage) Get(key string) (string, bool, error) {
	b, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("storage get %q: %w", key, err)
	}
	return string(b), true, nil
}

func (f *FileStorage) Set(key, value string) error {
	if err := os.MkdirAll(f.dir, 0o700); err != nil {
		return fmt.Errorf("storage set %q: %w", key, err)
	}
	if err := os.WriteFile(f.path(key), []byte(value), 0o600); err != nil {
		return fmt.Errorf("storage set %q: %w", key, err)
	}
	return nil
}

func (f *FileStorage) Delete(key string) error {
	if err := os.Remove(f.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage delete %q: %w", key, err)
	}
	return nil
}
