// Package xcodebuild drives xcodebuild and the binary inspection tools.
package xcodebuild

import "go.trai.ch/pallet/internal/core/domain"

// Tool names.
const (
	XcodebuildPath = "xcodebuild"
	LipoPath       = "lipo"
	DwarfdumpPath  = "dwarfdump"
)

// buildSettingsOverrides are passed to every build so that products are built for all
// architectures without code signing.
var buildSettingsOverrides = []string{
	"ONLY_ACTIVE_ARCH=NO",
	"CODE_SIGNING_REQUIRED=NO",
	"CODE_SIGN_IDENTITY=",
}

// Arguments returns the xcodebuild arguments that select project, scheme and options.
// An empty sdk lets xcodebuild pick the scheme's default.
func Arguments(project domain.ProjectLocator, scheme string, opts domain.BuildOptions, sdk domain.SDK) []string {
	args := make([]string, 0, 12)

	switch project.Kind {
	case domain.ProjectWorkspace:
		args = append(args, "-workspace", project.Path)
	case domain.ProjectFile:
		args = append(args, "-project", project.Path)
	}

	if scheme != "" {
		args = append(args, "-scheme", scheme)
	}
	args = append(args, "-configuration", opts.Configuration())

	if sdk != "" {
		args = append(args, "-sdk", string(sdk))
	}
	if toolchain, ok := opts.Toolchain(); ok {
		args = append(args, "-toolchain", toolchain)
	}
	if outputPath, ok := opts.OutputPath(); ok {
		args = append(args, "-derivedDataPath", outputPath)
	}

	return args
}

// BuildArguments returns the full argument vector of a build for sdk.
func BuildArguments(project domain.ProjectLocator, scheme string, opts domain.BuildOptions, sdk domain.SDK) []string {
	args := Arguments(project, scheme, opts, sdk)
	args = append(args, buildSettingsOverrides...)
	return append(args, "build")
}

// SettingsArguments returns the argument vector that prints the resolved build settings.
func SettingsArguments(project domain.ProjectLocator, scheme string, opts domain.BuildOptions) []string {
	return append(Arguments(project, scheme, opts, ""), "-showBuildSettings")
}

// SDKs returns the SDKs to build for. An empty platform set yields a single empty SDK,
// meaning one build with the scheme's default destination.
func SDKs(opts domain.BuildOptions) []domain.SDK {
	platforms := opts.Platforms()
	if platforms.IsEmpty() {
		return []domain.SDK{""}
	}

	var sdks []domain.SDK
	for _, p := range platforms.Slice() {
		sdks = append(sdks, p.SDKs()...)
	}
	return sdks
}
