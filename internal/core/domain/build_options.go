package domain

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// BuildOptions holds the parameters of a single build request.
//
// Values are immutable: fields are only set by NewBuildOptions, and two values with the
// same fields are interchangeable (the struct is comparable and usable as a map key).
// Validation is deferred to Validate, which the toolchain calls before invoking anything.
type BuildOptions struct {
	configuration string
	platforms     PlatformSet
	toolchain     string
	outputPath    string
}

// BuildOption configures BuildOptions at construction time.
type BuildOption func(*BuildOptions)

// WithPlatforms restricts the build to the given platforms.
func WithPlatforms(platforms ...Platform) BuildOption {
	return func(o *BuildOptions) {
		o.platforms = NewPlatformSet(platforms...)
	}
}

// WithPlatformSet restricts the build to the given set.
func WithPlatformSet(set PlatformSet) BuildOption {
	return func(o *BuildOptions) {
		o.platforms = set
	}
}

// WithToolchain selects an alternate toolchain. An empty name keeps the default.
func WithToolchain(name string) BuildOption {
	return func(o *BuildOptions) {
		o.toolchain = name
	}
}

// WithOutputPath overrides the derived data directory. An empty path keeps the default.
func WithOutputPath(path string) BuildOption {
	return func(o *BuildOptions) {
		o.outputPath = path
	}
}

// NewBuildOptions creates BuildOptions for the named configuration.
// Without options the platform set is empty and toolchain and output path are absent.
func NewBuildOptions(configuration string, opts ...BuildOption) BuildOptions {
	o := BuildOptions{configuration: configuration}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Configuration returns the build configuration name (e.g. "Release").
func (o BuildOptions) Configuration() string {
	return o.configuration
}

// Platforms returns the platforms to build for. An empty set means all platforms.
func (o BuildOptions) Platforms() PlatformSet {
	return o.platforms
}

// Toolchain returns the alternate toolchain and whether one was set.
func (o BuildOptions) Toolchain() (string, bool) {
	return o.toolchain, o.toolchain != ""
}

// OutputPath returns the custom derived data directory and whether one was set.
func (o BuildOptions) OutputPath() (string, bool) {
	return o.outputPath, o.outputPath != ""
}

// Equal reports whether both values carry the same fields.
func (o BuildOptions) Equal(other BuildOptions) bool {
	return o == other
}

// Validate checks the options before they are handed to the toolchain.
func (o BuildOptions) Validate() error {
	if strings.TrimSpace(o.configuration) == "" {
		return NewInvalidArgumentError("no build configuration specified")
	}
	return nil
}

// Key returns a stable digest of the options, used to name cached build records.
func (o BuildOptions) Key() string {
	d := xxhash.New()
	for _, part := range []string{
		o.configuration,
		strconv.Itoa(int(o.platforms)),
		o.toolchain,
		o.outputPath,
	} {
		_, _ = d.WriteString(part)
		_, _ = d.Write([]byte{0})
	}
	return strconv.FormatUint(d.Sum64(), 16)
}

func (o BuildOptions) String() string {
	var b strings.Builder
	b.WriteString("configuration=" + o.configuration)
	b.WriteString(" platforms=" + o.platforms.String())
	if tc, ok := o.Toolchain(); ok {
		b.WriteString(" toolchain=" + tc)
	}
	if out, ok := o.OutputPath(); ok {
		b.WriteString(" outputPath=" + out)
	}
	return b.String()
}

// BuildRequest is a parsed build request: what to build and how.
type BuildRequest struct {
	Scheme  string
	Options BuildOptions
}
