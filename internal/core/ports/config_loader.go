package ports

import "go.trai.ch/pallet/internal/core/domain"

// ConfigLoader defines the interface for loading build requests.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the build request file at path.
	Load(path string) (domain.BuildRequest, error)
}
