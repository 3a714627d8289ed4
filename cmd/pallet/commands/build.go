package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/pallet/internal/ui/report"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [dir]",
		Short: "Build every workspace and project found in dir",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.Build(cmd.Context(), projectDir(args), requestOverrides(cmd)); err != nil {
				return err
			}
			report.New(cmd.OutOrStdout()).Success("Build succeeded")
			return nil
		},
	}
	addRequestFlags(cmd)
	return cmd
}
