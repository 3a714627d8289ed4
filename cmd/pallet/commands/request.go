package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/pallet/internal/app"
)

func addRequestFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("config", "f", "", "Path to the build request file (default: pallet.yaml in the project directory)")
	cmd.Flags().StringP("configuration", "c", "", "Build configuration (default: Release)")
	cmd.Flags().StringArrayP("platform", "p", nil, "Platform to build for; repeat for several (default: all)")
	cmd.Flags().String("toolchain", "", "Alternate toolchain identifier")
	cmd.Flags().String("output-path", "", "Derived data directory")
	cmd.Flags().StringP("scheme", "s", "", "Scheme to build")
}

func requestOverrides(cmd *cobra.Command) app.Overrides {
	config, _ := cmd.Flags().GetString("config")
	configuration, _ := cmd.Flags().GetString("configuration")
	platforms, _ := cmd.Flags().GetStringArray("platform")
	toolchain, _ := cmd.Flags().GetString("toolchain")
	outputPath, _ := cmd.Flags().GetString("output-path")
	scheme, _ := cmd.Flags().GetString("scheme")

	return app.Overrides{
		ConfigPath:    config,
		Configuration: configuration,
		Platforms:     platforms,
		Toolchain:     toolchain,
		OutputPath:    outputPath,
		Scheme:        scheme,
	}
}

func projectDir(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}
