package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.trai.ch/pallet/internal/ui/report"
)

func (c *CLI) newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status [dir]",
		Short: "Show the last recorded build outcome of each project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			statuses, err := c.app.Status(cmd.Context(), projectDir(args), requestOverrides(cmd))
			if err != nil {
				return err
			}

			r := report.New(cmd.OutOrStdout())
			for _, s := range statuses {
				name := s.Project.String()
				if s.Scheme != "" {
					name += " (" + s.Scheme + ")"
				}

				switch {
				case s.Record == nil:
					r.Entry(name, "not built")
				case s.Record.Succeeded:
					r.Entry(name, "succeeded "+s.Record.Timestamp.Format(time.RFC3339))
				default:
					msg, _, _ := strings.Cut(s.Record.Message, "\n")
					r.Entry(name, fmt.Sprintf("failed %s: %s", s.Record.Timestamp.Format(time.RFC3339), msg))
				}
			}
			return nil
		},
	}
	addRequestFlags(cmd)
	return cmd
}
