package ports

import (
	"context"

	"go.trai.ch/pallet/internal/core/domain"
)

// Toolchain drives the platform build tools.
//
//go:generate mockgen -source=toolchain.go -destination=mocks/mock_toolchain.go -package=mocks
type Toolchain interface {
	// Build builds scheme of project with the given options.
	// It returns the path of the build log, which is set even when the build fails.
	Build(ctx context.Context, project domain.ProjectLocator, scheme string, opts domain.BuildOptions) (string, error)

	// BuildSettings reads the resolved build settings of scheme.
	BuildSettings(
		ctx context.Context,
		project domain.ProjectLocator,
		scheme string,
		opts domain.BuildOptions,
	) (domain.BuildSettings, error)

	// Architectures lists the CPU architectures contained in a binary.
	Architectures(ctx context.Context, binary string) ([]string, error)

	// UUIDs lists the debug UUIDs of a binary or dSYM.
	UUIDs(ctx context.Context, path string) ([]string, error)
}
