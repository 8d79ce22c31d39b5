package ledger

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// FileStore persists the ledger as indented JSON at a fixed path.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load() ([]*Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	if len(data) == 0 {
		return nil, nil
	}

	var records []*Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *FileStore) Save(records []*Record) error {
	if records == nil {
		records = []*Record{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	return os.WriteFile(s.path, data, 0o644)
}

// MemStore is an in-memory backend for tests.
type MemStore struct {
	records []*Record

	// FailLoad and FailSave force errors to exercise fail-open behavior.
	FailLoad error
	FailSave error
}

func NewMemStore() *MemStore {
	return &MemStore{}
}

func (s *MemStore) Load() ([]*Record, error) {
	if s.FailLoad != nil {
		return nil, s.FailLoad
	}
	out := make([]*Record, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *MemStore) Save(records []*Record) error {
	if s.FailSave != nil {
		return s.FailSave
	}
	s.records = make([]*Record, len(records))
	copy(s.records, records)
	return nil
}
