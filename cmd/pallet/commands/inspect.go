package commands

import (
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/pallet/internal/ui/report"
)

func (c *CLI) newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <binary>",
		Short: "Print the architectures and debug UUIDs of a built binary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := c.app.Inspect(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			r := report.New(cmd.OutOrStdout())
			r.Entry("architectures", strings.Join(info.Architectures, " "))
			r.Entry("uuids", strings.Join(info.UUIDs, " "))
			return nil
		},
	}
}
