package cli

import (
	"github.com/spf13/cobra"
)

// NewStatsCommand creates the stats command.
func NewStatsCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print store statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := root.openStore()
			if err != nil {
				return err
			}
			printStats(cmd.OutOrStdout(), s.GetStats())
			return nil
		},
	}
}
