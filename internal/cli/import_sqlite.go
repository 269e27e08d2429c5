package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/gtaf/internal/importer"
)

// NewImportSQLiteCommand creates the import-sqlite command.
func NewImportSQLiteCommand(root *RootOptions) *cobra.Command {
	var (
		table       string
		keyColumn   string
		batchSize   int
		mappingPath string
	)

	cmd := &cobra.Command{
		Use:   "import-sqlite <database>",
		Short: "Ingest a table from a SQLite database into the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := importer.SQLiteOptions{
				Table:     table,
				KeyColumn: keyColumn,
				BatchSize: batchSize,
			}
			if mappingPath != "" {
				m, err := importer.LoadMapping(mappingPath)
				if err != nil {
					return err
				}
				opts.Mapping = m
			}

			s, err := root.openStore()
			if err != nil {
				return err
			}

			result, err := importer.ImportSQLite(s, args[0], opts)
			if err != nil {
				return err
			}
			if err := root.saveStore(s); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "imported %d rows (%d atoms)\n", result.Rows, result.AtomsAdded)
			if root.Verbose {
				printStats(out, s.GetStats())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&table, "table", "", "table to read (required)")
	cmd.Flags().StringVar(&keyColumn, "key-column", "", "column whose value keys the entity")
	cmd.Flags().IntVar(&batchSize, "batch-size", importer.DefaultBatchSize, "atoms per append batch")
	cmd.Flags().StringVar(&mappingPath, "mapping", "", "CUE mapping file for column tags and classes")
	cmd.MarkFlagRequired("table")

	return cmd
}
