package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/gtaf/internal/atom"
)

// NewTemporalCommand creates the temporal command, which prints the rows of
// a time-series stream.
//
// Temporal columns live in memory only, so this command reports data
// appended since the store was last constructed in this process; a store
// opened from file starts with empty streams.
func NewTemporalCommand(root *RootOptions) *cobra.Command {
	var (
		start uint64
		end   uint64
	)

	cmd := &cobra.Command{
		Use:   "temporal <entity-id> <tag>",
		Short: "Print the rows of a temporal stream",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			entity, err := atom.ParseEntityId(args[0])
			if err != nil {
				return fmt.Errorf("invalid entity id %q: %w", args[0], err)
			}

			s, err := root.openStore()
			if err != nil {
				return err
			}

			result := s.QueryTemporalRange(entity, args[1], atom.Timestamp(start), atom.Timestamp(end))
			out := cmd.OutOrStdout()
			for i := range result.Values {
				fmt.Fprintf(out, "%d\t%d\t%s\n", result.Timestamps[i], result.LSNs[i], atom.Format(result.Values[i]))
			}
			fmt.Fprintf(out, "%d row(s)\n", result.TotalCount)
			return nil
		},
	}

	cmd.Flags().Uint64Var(&start, "start", 0, "inclusive lower timestamp bound (microseconds)")
	cmd.Flags().Uint64Var(&end, "end", ^uint64(0), "inclusive upper timestamp bound (microseconds)")

	return cmd
}
