package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/roach88/gtaf/internal/atom"
	"github.com/roach88/gtaf/internal/store"
)

// CSVOptions configures a CSV import.
type CSVOptions struct {
	// Delimiter between fields. Zero means comma.
	Delimiter rune

	// BatchSize is the number of atoms submitted per AppendBatch call.
	// Zero means DefaultBatchSize.
	BatchSize int

	// KeyColumn is the 0-based column whose value keys the entity.
	// Negative means rows are keyed by their row number.
	KeyColumn int

	// Table names the dataset; it prefixes tags for unmapped columns and
	// namespaces derived entity ids. Empty falls back to the mapping's
	// table, or "row".
	Table string

	// Mapping optionally types and classifies columns. Nil ingests every
	// column as a Canonical string.
	Mapping *Mapping
}

// DefaultBatchSize is sized so a batch's backing arrays stay cache-friendly
// while amortizing the per-call overhead over enough rows.
const DefaultBatchSize = 50000

// CSVResult summarizes an import.
type CSVResult struct {
	Rows       int
	AtomsAdded int
	Skipped    int // cells skipped by type conversion failures
}

// ImportCSV streams a CSV file into the store in batches. The first record
// is the header; each subsequent record becomes one entity carrying one
// atom per non-empty cell.
func ImportCSV(s *store.AtomStore, path string, opts CSVOptions) (CSVResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return CSVResult{}, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	return importCSV(s, f, opts)
}

func importCSV(s *store.AtomStore, src io.Reader, opts CSVOptions) (CSVResult, error) {
	r := csv.NewReader(src)
	if opts.Delimiter != 0 {
		r.Comma = opts.Delimiter
	}
	r.ReuseRecord = true
	r.FieldsPerRecord = -1

	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	table := opts.Table
	if table == "" && opts.Mapping != nil {
		table = opts.Mapping.Table
	}
	if table == "" {
		table = "row"
	}

	header, err := r.Read()
	if err == io.EOF {
		return CSVResult{}, nil
	}
	if err != nil {
		return CSVResult{}, fmt.Errorf("read header: %w", err)
	}
	columns := make([]string, len(header))
	copy(columns, header)

	mapping := &Mapping{Table: table}
	if opts.Mapping != nil {
		mapping.Key = opts.Mapping.Key
		mapping.Columns = opts.Mapping.Columns
	}
	rules := make([]ColumnRule, len(columns))
	classes := make([]atom.Class, len(columns))
	for i, col := range columns {
		rules[i] = mapping.rule(col)
		class, err := rules[i].AtomClass()
		if err != nil {
			return CSVResult{}, fmt.Errorf("column %q: %w", col, err)
		}
		classes[i] = class
	}

	var result CSVResult
	batch := make([]store.BatchItem, 0, batchSize)
	flush := func() {
		if len(batch) > 0 {
			result.AtomsAdded += len(batch)
			s.AppendBatch(batch)
			batch = batch[:0]
		}
	}

	for rowNum := 0; ; rowNum++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return result, fmt.Errorf("row %d: %w", rowNum+1, err)
		}

		key := strconv.Itoa(rowNum)
		if opts.KeyColumn >= 0 && opts.KeyColumn < len(record) {
			key = record[opts.KeyColumn]
		}
		entity := atom.DeriveEntityId(table, key)

		for i, cell := range record {
			if i >= len(columns) || cell == "" {
				continue
			}
			value, ok := convertCell(cell, rules[i].Type)
			if !ok {
				result.Skipped++
				continue
			}
			batch = append(batch, store.BatchItem{
				Entity: entity,
				Tag:    rules[i].Tag,
				Value:  value,
				Class:  classes[i],
			})
			if len(batch) >= batchSize {
				flush()
			}
		}
		result.Rows++
	}
	flush()
	return result, nil
}

// convertCell parses a cell according to the mapped value type. The empty
// type means string. Cells that fail to parse are skipped, not fatal: bulk
// loads should survive dirty rows.
func convertCell(cell, typ string) (atom.Value, bool) {
	switch typ {
	case "", "string":
		return atom.String(cell), true
	case "int":
		n, err := strconv.ParseInt(cell, 10, 64)
		if err != nil {
			return nil, false
		}
		return atom.Int(n), true
	case "float":
		f, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, false
		}
		return atom.Float(f), true
	case "bool":
		b, err := strconv.ParseBool(cell)
		if err != nil {
			return nil, false
		}
		return atom.Bool(b), true
	default:
		return nil, false
	}
}
