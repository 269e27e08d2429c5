package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/roach88/gtaf/internal/atom"
	"github.com/roach88/gtaf/internal/projection"
)

// NewShowCommand creates the show command, which projects one entity.
func NewShowCommand(root *RootOptions) *cobra.Command {
	var withHistory bool

	cmd := &cobra.Command{
		Use:   "show <entity-id>",
		Short: "Project an entity and print its current properties",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entity, err := atom.ParseEntityId(args[0])
			if err != nil {
				return fmt.Errorf("invalid entity id %q: %w", args[0], err)
			}

			s, err := root.openStore()
			if err != nil {
				return err
			}

			node := projection.New(s).Rebuild(entity)
			out := cmd.OutOrStdout()
			if node.Tags() == 0 {
				fmt.Fprintf(out, "entity %s has no properties\n", entity)
				return nil
			}

			props := node.GetAll()
			tags := make([]string, 0, len(props))
			for tag := range props {
				tags = append(tags, tag)
			}
			sort.Strings(tags)
			for _, tag := range tags {
				fmt.Fprintf(out, "%s = %s\n", tag, atom.Format(props[tag]))
			}

			if withHistory {
				fmt.Fprintf(out, "history (%d references):\n", len(node.History()))
				for _, ref := range node.History() {
					fmt.Fprintf(out, "  lsn=%d atom=%s\n", ref.LSN, ref.AtomId)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&withHistory, "history", false, "also print the full reference history")
	return cmd
}
