package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/gtaf/internal/importer"
)

// NewImportCSVCommand creates the import-csv command.
func NewImportCSVCommand(root *RootOptions) *cobra.Command {
	var (
		delimiter   string
		batchSize   int
		keyColumn   int
		table       string
		mappingPath string
	)

	cmd := &cobra.Command{
		Use:   "import-csv <file>",
		Short: "Ingest a CSV file into the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := importer.CSVOptions{
				BatchSize: batchSize,
				KeyColumn: keyColumn,
				Table:     table,
			}
			if len(delimiter) != 1 {
				return fmt.Errorf("delimiter must be a single character, got %q", delimiter)
			}
			opts.Delimiter = rune(delimiter[0])

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

			result, err := importer.ImportCSV(s, args[0], opts)
			if err != nil {
				return err
			}
			if err := root.saveStore(s); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "imported %d rows (%d atoms, %d cells skipped)\n",
				result.Rows, result.AtomsAdded, result.Skipped)
			if root.Verbose {
				printStats(out, s.GetStats())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&delimiter, "delimiter", ",", "field delimiter")
	cmd.Flags().IntVar(&batchSize, "batch-size", importer.DefaultBatchSize, "atoms per append batch")
	cmd.Flags().IntVar(&keyColumn, "key-column", -1, "0-based entity key column (-1 keys by row number)")
	cmd.Flags().StringVar(&table, "table", "", "dataset name used for tags and entity keys")
	cmd.Flags().StringVar(&mappingPath, "mapping", "", "CUE mapping file for column types and classes")

	return cmd
}
