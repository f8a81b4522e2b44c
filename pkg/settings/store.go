package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Store is a key-value store of JSON values.
type Store interface {
	// Get returns the raw value stored under key. ok is false when the key
	// is absent or holds null.
	Get(key string) (value json.RawMessage, ok bool, err error)
	// Set stores value, which must be JSON serializable, under key.
	Set(key string, value any) error
}

// FileStore keeps all keys in one JSON object file.
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by path. The file and its parent
// directories are created on the first Set.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) read() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]json.RawMessage{}, nil
		}
		return nil, fmt.Errorf("failed to read store %s: %w", s.path, err)
	}

	values := map[string]json.RawMessage{}
	if len(bytes.TrimSpace(data)) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse store %s: %w", s.path, err)
	}
	return values, nil
}

// Get implements Store.
func (s *FileStore) Get(key string) (json.RawMessage, bool, error) {
	values, err := s.read()
	if err != nil {
		return nil, false, err
	}
	v, ok := values[key]
	if !ok || isNull(v) {
		return nil, false, nil
	}
	return v, true, nil
}

// Set implements Store. The file is replaced atomically.
func (s *FileStore) Set(key string, value any) error {
	values, err := s.read()
	if err != nil {
		return err
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	values[key] = raw

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create store directory %q: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write store: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace store %s: %w", s.path, err)
	}
	return nil
}

// MemoryStore is a Store kept in memory. GetErr and SetErr, when set, are
// returned by every call and simulate an unavailable backend.
type MemoryStore struct {
	Values map[string]json.RawMessage
	GetErr error
	SetErr error
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{Values: map[string]json.RawMessage{}}
}

// Get implements Store.
func (s *MemoryStore) Get(key string) (json.RawMessage, bool, error) {
	if s.GetErr != nil {
		return nil, false, s.GetErr
	}
	v, ok := s.Values[key]
	if !ok || isNull(v) {
		return nil, false, nil
	}
	return v, true, nil
}

// Set implements Store.
func (s *MemoryStore) Set(key string, value any) error {
	if s.SetErr != nil {
		return s.SetErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if s.Values == nil {
		s.Values = map[string]json.RawMessage{}
	}
	s.Values[key] = raw
	return nil
}

func isNull(v json.RawMessage) bool {
	v = bytes.TrimSpace(v)
	return len(v) == 0 || bytes.Equal(v, []byte("null"))
}
