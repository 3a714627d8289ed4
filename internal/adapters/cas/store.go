// Package cas implements the build record store.
package cas

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/pallet/internal/core/domain"
)

// Store implements ports.BuildRecordStore using one JSON file per record.
type Store struct{}

// NewStore creates a new Store.
func NewStore() *Store {
	return &Store{}
}

// Get retrieves the record stored under key below root.
// It returns nil, nil if no record exists.
func (s *Store) Get(root, key string) (*domain.BuildRecord, error) {
	filename := s.filename(root, key)
	//nolint:gosec // path is built from the store directory and a hashed key
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, domain.NewReadFailedError(filename, err)
	}

	var record domain.BuildRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, domain.NewParseError(fmt.Sprintf("%s: %s", filename, err))
	}

	return &record, nil
}

// Put stores the record under record.Key below root.
func (s *Store) Put(root string, record domain.BuildRecord) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return domain.NewParseError(err.Error())
	}

	filename := s.filename(root, record.Key)
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return domain.NewWriteFailedError(dir, err)
	}

	//nolint:gosec // path is built from the store directory and a hashed key
	if err := os.WriteFile(filename, data, domain.FilePerm); err != nil {
		return domain.NewWriteFailedError(filename, err)
	}

	return nil
}

func (s *Store) filename(root, key string) string {
	name := fmt.Sprintf("%016x.json", xxhash.Sum64String(key))
	return filepath.Join(root, domain.DefaultRecordsPath(), name)
}
