package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

const lockTimeout = 5 * time.Second

// TokenStore persists a single credential across process restarts.
// Load returns (nil, nil) when no credential has been saved yet.
type TokenStore interface {
	Load() (*Credential, error)
	Save(*Credential) error
	Delete() error
}

// FileStore is a TokenStore backed by a JSON file. Writes are atomic
// (temp file + rename) and serialized across processes with an advisory
// file lock. The file is created with 0600 since it holds secrets.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed token store at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the stored credential. A missing file is not an error.
func (s *FileStore) Load() (*Credential, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read token file: %w", err)
	}

	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, fmt.Errorf("parse token file %s: %w", s.path, err)
	}
	return &cred, nil
}

// Save persists the credential, replacing any previous one.
func (s *FileStore) Save(cred *Credential) error {
	if cred == nil {
		return fmt.Errorf("save: nil credential")
	}

	lock := newFileLock(s.path)
	if err := lock.lock(lockTimeout); err != nil {
		return fmt.Errorf("lock token file: %w", err)
	}
	defer lock.unlock()

	writer, err := newAtomicWriter(s.path, 0600)
	if err != nil {
		return fmt.Errorf("write token file: %w", err)
	}

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(cred); err != nil {
		writer.abort()
		return fmt.Errorf("encode token: %w", err)
	}

	if err := writer.commit(); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}

// Delete removes the stored credential. Deleting an absent file is a no-op.
func (s *FileStore) Delete() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete token file: %w", err)
	}
	return nil
}
