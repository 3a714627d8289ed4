package ports

import (
	"context"

	"go.trai.ch/pallet/internal/core/domain"
)

// ProjectFinder discovers buildable projects below a directory.
//
//go:generate mockgen -source=project_finder.go -destination=mocks/mock_project_finder.go -package=mocks
type ProjectFinder interface {
	// Locate returns the workspaces and projects found under dir, workspaces first.
	Locate(ctx context.Context, dir string) ([]domain.ProjectLocator, error)
}
