package ports

import "go.trai.ch/pallet/internal/core/domain"

// BuildRecordStore defines the interface for storing and retrieving build outcomes.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type BuildRecordStore interface {
	// Get retrieves the record stored under key.
	// Returns nil, nil if not found.
	Get(root, key string) (*domain.BuildRecord, error)

	// Put stores the record under its key.
	Put(root string, record domain.BuildRecord) error
}
