// Package fs provides file system adapters for discovering Xcode projects.
package fs

import (
	"context"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/pallet/internal/core/domain"
)

// DefaultMaxDepth is how many directory levels below the root are searched.
const DefaultMaxDepth = 3

// skippedDirs are never searched for projects.
var skippedDirs = map[string]struct{}{
	"Carthage":           {},
	"Pods":               {},
	"node_modules":       {},
	domain.PalletDirName: {},
}

// Locator implements ports.ProjectFinder by walking the file system.
type Locator struct {
	maxDepth int
}

// NewLocator creates a Locator that searches DefaultMaxDepth levels deep.
func NewLocator() *Locator {
	return &Locator{maxDepth: DefaultMaxDepth}
}

// NewLocatorWithDepth creates a Locator with a custom search depth.
func NewLocatorWithDepth(depth int) *Locator {
	return &Locator{maxDepth: depth}
}

// Locate returns every workspace and project below dir, ordered by ProjectLocator.Less.
// Bundles are not searched, so a project's embedded project.xcworkspace is never reported.
func (l *Locator) Locate(ctx context.Context, dir string) ([]domain.ProjectLocator, error) {
	var found []domain.ProjectLocator

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return domain.NewReadFailedError(path, err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if !d.IsDir() || path == dir {
			return nil
		}

		if locator, ok := domain.NewProjectLocator(path); ok {
			found = append(found, locator)
			return filepath.SkipDir
		}

		if l.shouldSkip(dir, path, d.Name()) {
			return filepath.SkipDir
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(found, func(a, b domain.ProjectLocator) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		default:
			return 0
		}
	})
	return found, nil
}

func (l *Locator) shouldSkip(root, path, name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	if _, skip := skippedDirs[name]; skip {
		return true
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		return true
	}
	return strings.Count(rel, string(filepath.Separator))+1 >= l.maxDepth
}
