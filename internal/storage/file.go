package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/hotpot-dev/hotpot/internal/totp"
)

// FileStore keeps the collection in a single JSON file readable only by the owner.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string { return s.path }

// Load returns an empty collection when the file does not exist yet.
func (s *FileStore) Load() (Storage, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Storage{}, nil
		}
		return Storage{}, fmt.Errorf("%w: read %s: %v", ErrStoreUnavailable, s.path, err)
	}
	return decode(data, s.path)
}

// Save writes to a temp file in the same directory and renames it over the
// target, so readers see either the old or the new collection.
func (s *FileStore) Save(st Storage) error {
	data, err := encode(st)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("%w: create directory: %v", ErrStoreUnavailable, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", ErrStoreUnavailable, err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("%w: chmod temp file: %v", ErrStoreUnavailable, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("%w: write temp file: %v", ErrStoreUnavailable, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("%w: sync temp file: %v", ErrStoreUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("%w: close temp file: %v", ErrStoreUnavailable, err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		cleanup()
		return fmt.Errorf("%w: rename temp file: %v", ErrStoreUnavailable, err)
	}

	log.Printf("[STORE] saved %d accounts to %s", len(st.Accounts), s.path)
	return nil
}

func encode(st Storage) ([]byte, error) {
	sorted := st.Sorted()
	if sorted.Accounts == nil {
		sorted.Accounts = []totp.Account{}
	}
	data, err := json.MarshalIndent(sorted, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal accounts: %w", err)
	}
	return data, nil
}

func decode(data []byte, source string) (Storage, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Storage{}, nil
	}
	var st Storage
	if err := json.Unmarshal(data, &st); err != nil {
		return Storage{}, fmt.Errorf("%w: %s: %v", ErrCorrupt, source, err)
	}
	return normalize(st).Sorted(), nil
}
