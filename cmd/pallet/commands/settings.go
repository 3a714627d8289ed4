package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/pallet/internal/ui/report"
)

func (c *CLI) newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings [dir]",
		Short: "Print the resolved build settings of the first project in dir",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, _ := cmd.Flags().GetStringArray("key")

			settings, err := c.app.Settings(cmd.Context(), projectDir(args), requestOverrides(cmd), keys)
			if err != nil {
				return err
			}

			r := report.New(cmd.OutOrStdout())
			for _, s := range settings {
				r.Entry(s.Key, s.Value)
			}
			return nil
		},
	}
	addRequestFlags(cmd)
	cmd.Flags().StringArrayP("key", "k", nil, "Setting to print; repeat for several (default: all)")
	return cmd
}
