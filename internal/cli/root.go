// Package cli implements the gtaf command-line front end. It is a thin
// shell over the engine: every command works through the documented store,
// projection, and index operations, keeps no state of its own, and
// persists through Save/Load on a store file.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/gtaf/internal/config"
	"github.com/roach88/gtaf/internal/store"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	StorePath  string
	ConfigPath string
	Verbose    bool

	cfg config.Config
}

// NewRootCommand creates the root command for the gtaf CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "gtaf",
		Short: "GTAF - append-only atom store",
		Long:  "An embedded data engine storing content-addressed facts with projection and filter queries.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.ConfigPath == "" {
				opts.cfg = config.Default()
				return nil
			}
			cfg, err := config.Load(opts.ConfigPath)
			if err != nil {
				return err
			}
			opts.cfg = cfg
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.StorePath, "store", "gtaf.db", "path of the store file")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path of a YAML config file")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewImportCSVCommand(opts))
	cmd.AddCommand(NewImportSQLiteCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewQueryCommand(opts))
	cmd.AddCommand(NewTemporalCommand(opts))

	return cmd
}

// openStore creates a store with the configured options and, if the store
// file exists, loads it. A missing file is a fresh store, not an error.
func (o *RootOptions) openStore() (*store.AtomStore, error) {
	s := store.NewWithOptions(o.cfg.StoreOptions())
	if o.cfg.Reserve.Atoms > 0 || o.cfg.Reserve.Entities > 0 {
		s.Reserve(o.cfg.Reserve.Atoms, o.cfg.Reserve.Entities)
	}
	if !fileExists(o.StorePath) {
		return s, nil
	}
	if err := s.Load(o.StorePath); err != nil {
		return nil, fmt.Errorf("load %s: %w", o.StorePath, err)
	}
	return s, nil
}

// saveStore persists the store back to the configured path.
func (o *RootOptions) saveStore(s *store.AtomStore) error {
	if err := s.Save(o.StorePath); err != nil {
		return fmt.Errorf("save %s: %w", o.StorePath, err)
	}
	return nil
}
