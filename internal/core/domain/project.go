package domain

import (
	"path/filepath"
	"strings"
)

// ProjectKind distinguishes workspaces from standalone project files.
type ProjectKind int

const (
	// ProjectWorkspace is an .xcworkspace bundle.
	ProjectWorkspace ProjectKind = iota
	// ProjectFile is an .xcodeproj bundle.
	ProjectFile
)

const (
	// WorkspaceExtension is the file extension of Xcode workspaces.
	WorkspaceExtension = ".xcworkspace"
	// ProjectExtension is the file extension of Xcode projects.
	ProjectExtension = ".xcodeproj"
)

// ProjectLocator identifies a buildable Xcode project or workspace on disk.
type ProjectLocator struct {
	Kind ProjectKind
	Path string
}

// NewProjectLocator infers the kind from the path's extension.
// The second return value is false when the path is neither a workspace nor a project.
func NewProjectLocator(path string) (ProjectLocator, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case WorkspaceExtension:
		return ProjectLocator{Kind: ProjectWorkspace, Path: path}, true
	case ProjectExtension:
		return ProjectLocator{Kind: ProjectFile, Path: path}, true
	default:
		return ProjectLocator{}, false
	}
}

// Less orders workspaces before project files, then by path.
func (p ProjectLocator) Less(other ProjectLocator) bool {
	if p.Kind != other.Kind {
		return p.Kind < other.Kind
	}
	return p.Path < other.Path
}

// String returns the bundle's file name.
func (p ProjectLocator) String() string {
	return filepath.Base(p.Path)
}
