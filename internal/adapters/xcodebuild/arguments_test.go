package xcodebuild_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/pallet/internal/adapters/xcodebuild"
	"go.trai.ch/pallet/internal/core/domain"
)

func TestArguments(t *testing.T) {
	workspace := domain.ProjectLocator{Kind: domain.ProjectWorkspace, Path: "/src/App.xcworkspace"}
	project := domain.ProjectLocator{Kind: domain.ProjectFile, Path: "/src/App.xcodeproj"}

	tests := []struct {
		name    string
		project domain.ProjectLocator
		scheme  string
		opts    domain.BuildOptions
		sdk     domain.SDK
		want    []string
	}{
		{
			name:    "defaults",
			project: project,
			scheme:  "App",
			opts:    domain.NewBuildOptions("Release"),
			want:    []string{"-project", "/src/App.xcodeproj", "-scheme", "App", "-configuration", "Release"},
		},
		{
			name:    "workspace with every option",
			project: workspace,
			scheme:  "App",
			opts: domain.NewBuildOptions("Debug",
				domain.WithToolchain("com.apple.dt.toolchain.Swift_5_0"),
				domain.WithOutputPath("/tmp/dd"),
			),
			sdk: domain.SDKiPhoneSimulator,
			want: []string{
				"-workspace", "/src/App.xcworkspace",
				"-scheme", "App",
				"-configuration", "Debug",
				"-sdk", "iphonesimulator",
				"-toolchain", "com.apple.dt.toolchain.Swift_5_0",
				"-derivedDataPath", "/tmp/dd",
			},
		},
		{
			name:    "no scheme",
			project: project,
			opts:    domain.NewBuildOptions("Release"),
			want:    []string{"-project", "/src/App.xcodeproj", "-configuration", "Release"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, xcodebuild.Arguments(tt.project, tt.scheme, tt.opts, tt.sdk))
		})
	}
}

func TestBuildArguments(t *testing.T) {
	project := domain.ProjectLocator{Kind: domain.ProjectFile, Path: "App.xcodeproj"}

	got := xcodebuild.BuildArguments(project, "App", domain.NewBuildOptions("Release"), domain.SDKMacOSX)

	assert.Equal(t, []string{
		"-project", "App.xcodeproj",
		"-scheme", "App",
		"-configuration", "Release",
		"-sdk", "macosx",
		"ONLY_ACTIVE_ARCH=NO",
		"CODE_SIGNING_REQUIRED=NO",
		"CODE_SIGN_IDENTITY=",
		"build",
	}, got)
}

func TestSettingsArguments(t *testing.T) {
	project := domain.ProjectLocator{Kind: domain.ProjectFile, Path: "App.xcodeproj"}

	got := xcodebuild.SettingsArguments(project, "App",
		domain.NewBuildOptions("Release", domain.WithPlatforms(domain.PlatformIOS)))

	assert.Equal(t, []string{
		"-project", "App.xcodeproj",
		"-scheme", "App",
		"-configuration", "Release",
		"-showBuildSettings",
	}, got)
}

func TestSDKs(t *testing.T) {
	assert.Equal(t, []domain.SDK{""}, xcodebuild.SDKs(domain.NewBuildOptions("Release")))

	assert.Equal(t,
		[]domain.SDK{domain.SDKMacOSX, domain.SDKTVOS, domain.SDKTVSimulator},
		xcodebuild.SDKs(domain.NewBuildOptions("Release",
			domain.WithPlatforms(domain.PlatformTVOS, domain.PlatformMacOS))),
	)
}
