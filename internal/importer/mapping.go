// Package importer feeds external datasets into an atom store in batches.
// Importers are external collaborators of the engine: they only construct
// entity ids, submit batches, and read stats through the documented store
// operations.
package importer

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/gtaf/internal/atom"
)

// Mapping describes how rows of an external source become atoms: per
// column the target tag, the atom class, and the value type. Key is decoded
// and kept on the mapping, but the importers do not read it; entities are
// keyed by the KeyColumn of the import options.
//
// Mappings are written in CUE so malformed files fail at load time with a
// position, before any row is ingested. Example:
//
//	table: "orders"
//	key:   "order_id"
//	columns: {
//		status:   {tag: "order.status", class: "canonical", type: "string"}
//		total:    {tag: "order.total", class: "canonical", type: "int"}
//		reading:  {tag: "order.reading", class: "temporal", type: "float"}
//	}
type Mapping struct {
	Table   string                `json:"table"`
	Key     string                `json:"key"`
	Columns map[string]ColumnRule `json:"columns"`
}

// ColumnRule maps one source column onto an atom shape. Columns of the
// source with no rule are ingested as Canonical atoms under
// "<table>.<column>": strings for CSV, the natural SQL type for SQLite. The
// SQLite importer does not apply Type.
type ColumnRule struct {
	Tag   string `json:"tag"`
	Class string `json:"class"`
	Type  string `json:"type"`
}

// AtomClass resolves the rule's class name. The empty string means
// Canonical.
func (r ColumnRule) AtomClass() (atom.Class, error) {
	switch r.Class {
	case "", "canonical":
		return atom.ClassCanonical, nil
	case "temporal":
		return atom.ClassTemporal, nil
	case "mutable":
		return atom.ClassMutable, nil
	default:
		return 0, fmt.Errorf("unknown atom class %q", r.Class)
	}
}

var validValueTypes = map[string]bool{
	"": true, "string": true, "int": true, "float": true, "bool": true,
}

// LoadMapping reads and validates a CUE mapping file.
func LoadMapping(path string) (*Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mapping: %w", err)
	}

	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("compile mapping %s: %w", path, err)
	}

	var m Mapping
	if err := value.Decode(&m); err != nil {
		return nil, fmt.Errorf("decode mapping %s: %w", path, err)
	}
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("mapping %s: %w", path, err)
	}
	return &m, nil
}

func (m *Mapping) validate() error {
	if m.Table == "" {
		return fmt.Errorf("table must be set")
	}
	for col, rule := range m.Columns {
		if _, err := rule.AtomClass(); err != nil {
			return fmt.Errorf("column %q: %w", col, err)
		}
		if !validValueTypes[rule.Type] {
			return fmt.Errorf("column %q: unknown value type %q", col, rule.Type)
		}
	}
	return nil
}

// rule returns the effective rule for a column, filling in defaults for
// unmapped columns.
func (m *Mapping) rule(column string) ColumnRule {
	if m != nil {
		if r, ok := m.Columns[column]; ok {
			if r.Tag == "" {
				r.Tag = m.Table + "." + column
			}
			return r
		}
	}
	table := "row"
	if m != nil && m.Table != "" {
		table = m.Table
	}
	return ColumnRule{Tag: table + "." + column, Class: "canonical", Type: "string"}
}
