package importer

import (
	"database/sql"
	"fmt"
	"strconv"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/gtaf/internal/atom"
	"github.com/roach88/gtaf/internal/store"
)

// SQLiteOptions configures an import from a SQLite database file, the
// common interchange form for SQL dumps.
type SQLiteOptions struct {
	// Table to read. Required.
	Table string

	// KeyColumn names the column whose value keys the entity. Empty keys
	// rows by their scan order.
	KeyColumn string

	// BatchSize as for CSV imports. Zero means DefaultBatchSize.
	BatchSize int

	// Mapping optionally overrides tags and classes per column. Nil maps
	// every column to a Canonical atom named "<table>.<column>" with its
	// natural SQL type.
	Mapping *Mapping
}

// ImportSQLite reads every row of a table into the store. Column values
// keep their SQL types: INTEGER becomes Int, REAL becomes Float, TEXT
// becomes String, BLOB becomes Blob, NULL is skipped.
func ImportSQLite(s *store.AtomStore, dbPath string, opts SQLiteOptions) (CSVResult, error) {
	if opts.Table == "" {
		return CSVResult{}, fmt.Errorf("sqlite import: table must be set")
	}

	db, err := sql.Open("sqlite3", "file:"+dbPath+"?mode=ro")
	if err != nil {
		return CSVResult{}, fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	rows, err := db.Query("SELECT * FROM " + quoteIdent(opts.Table))
	if err != nil {
		return CSVResult{}, fmt.Errorf("query %s: %w", opts.Table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return CSVResult{}, fmt.Errorf("columns: %w", err)
	}

	keyIdx := -1
	for i, col := range columns {
		if col == opts.KeyColumn {
			keyIdx = i
		}
	}
	if opts.KeyColumn != "" && keyIdx < 0 {
		return CSVResult{}, fmt.Errorf("key column %q not in table %s", opts.KeyColumn, opts.Table)
	}

	mapping := opts.Mapping
	if mapping == nil {
		mapping = &Mapping{Table: opts.Table}
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

	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
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

	values := make([]any, len(columns))
	scanTargets := make([]any, len(columns))
	for i := range values {
		scanTargets[i] = &values[i]
	}

	for rowNum := 0; rows.Next(); rowNum++ {
		if err := rows.Scan(scanTargets...); err != nil {
			return result, fmt.Errorf("row %d: %w", rowNum+1, err)
		}

		key := strconv.Itoa(rowNum)
		if keyIdx >= 0 {
			key = sqlValueKey(values[keyIdx])
		}
		entity := atom.DeriveEntityId(opts.Table, key)

		for i, raw := range values {
			value, ok := convertSQLValue(raw)
			if !ok {
				continue // NULL cell
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
	if err := rows.Err(); err != nil {
		return result, fmt.Errorf("iterate %s: %w", opts.Table, err)
	}
	flush()
	return result, nil
}

func convertSQLValue(raw any) (atom.Value, bool) {
	switch v := raw.(type) {
	case nil:
		return nil, false
	case int64:
		return atom.Int(v), true
	case float64:
		return atom.Float(v), true
	case string:
		return atom.String(v), true
	case []byte:
		b := make(atom.Blob, len(v))
		copy(b, v)
		return b, true
	case bool:
		return atom.Bool(v), true
	default:
		return atom.String(fmt.Sprint(v)), true
	}
}

func sqlValueKey(raw any) string {
	switch v := raw.(type) {
	case int64:
		return strconv.FormatInt(v, 10)
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

// quoteIdent wraps a table name in double quotes, doubling any embedded
// quote, so names never splice into the statement.
func quoteIdent(name string) string {
	out := make([]byte, 0, len(name)+2)
	out = append(out, '"')
	for i := 0; i < len(name); i++ {
		if name[i] == '"' {
			out = append(out, '"')
		}
		out = append(out, name[i])
	}
	return string(append(out, '"'))
}
