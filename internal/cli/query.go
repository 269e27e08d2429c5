package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/gtaf/internal/queryindex"
)

// NewQueryCommand creates the query command. It builds an index for the
// requested tag on the fly, then runs one filter against it.
func NewQueryCommand(root *RootOptions) *cobra.Command {
	var (
		equals   string
		contains string
		intWhere string
	)

	cmd := &cobra.Command{
		Use:   "query <tag>",
		Short: "Filter entities by an indexed property",
		Long: `Build an index for a property tag and filter entities against it.

Exactly one filter flag must be given:
  --equals    exact, case-sensitive string match
  --contains  ASCII case-insensitive substring match
  --int       integer predicate of the form "<op> <n>", e.g. ">= 100"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set := 0
			for _, flag := range []string{equals, contains, intWhere} {
				if flag != "" {
					set++
				}
			}
			if set != 1 {
				return fmt.Errorf("exactly one of --equals, --contains, --int must be given")
			}

			s, err := root.openStore()
			if err != nil {
				return err
			}

			tag := args[0]
			ix := queryindex.New(s)
			indexed := ix.BuildIndex(tag)
			if root.Verbose {
				fmt.Fprintf(cmd.OutOrStdout(), "indexed %d entities for %s\n", indexed, tag)
			}

			switch {
			case equals != "":
				printEntities(cmd.OutOrStdout(), ix.FindEquals(tag, equals))
			case contains != "":
				printEntities(cmd.OutOrStdout(), ix.FindContains(tag, contains))
			default:
				pred, err := parseIntPredicate(intWhere)
				if err != nil {
					return err
				}
				printEntities(cmd.OutOrStdout(), ix.FindIntWhere(tag, pred))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&equals, "equals", "", "exact string match")
	cmd.Flags().StringVar(&contains, "contains", "", "case-insensitive substring match")
	cmd.Flags().StringVar(&intWhere, "int", "", `integer predicate, e.g. ">= 100"`)

	return cmd
}

// parseIntPredicate turns "<op> <n>" into a predicate. Supported operators:
// == != < <= > >=.
func parseIntPredicate(expr string) (func(int64) bool, error) {
	fields := strings.Fields(expr)
	if len(fields) != 2 {
		return nil, fmt.Errorf("predicate must be \"<op> <n>\", got %q", expr)
	}
	n, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("predicate operand %q: %w", fields[1], err)
	}
	switch fields[0] {
	case "==":
		return func(v int64) bool { return v == n }, nil
	case "!=":
		return func(v int64) bool { return v != n }, nil
	case "<":
		return func(v int64) bool { return v < n }, nil
	case "<=":
		return func(v int64) bool { return v <= n }, nil
	case ">":
		return func(v int64) bool { return v > n }, nil
	case ">=":
		return func(v int64) bool { return v >= n }, nil
	default:
		return nil, fmt.Errorf("unknown operator %q", fields[0])
	}
}
