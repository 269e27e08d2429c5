package importer

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gtaf/internal/atom"
	"github.com/roach88/gtaf/internal/projection"
)

func createFixtureDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE orders (
		order_id TEXT PRIMARY KEY,
		status   TEXT,
		total    INTEGER,
		weight   REAL,
		payload  BLOB,
		note     TEXT
	)`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO orders VALUES
		('a-1', 'open',   100, 1.5, x'010203', NULL),
		('a-2', 'closed', 250, 0.75, NULL, 'rush'),
		('a-3', 'open',   100, 2.0, NULL, NULL)`)
	require.NoError(t, err)
	return path
}

func TestImportSQLite(t *testing.T) {
	dbPath := createFixtureDB(t)
	s := newStore()

	result, err := ImportSQLite(s, dbPath, SQLiteOptions{Table: "orders", KeyColumn: "order_id"})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Rows)
	// NULL cells are skipped: row 1 and 3 lose note, rows 2-3 lose payload.
	assert.Equal(t, 14, result.AtomsAdded)

	stats := s.GetStats()
	assert.EqualValues(t, 3, stats.TotalEntities)

	e := atom.DeriveEntityId("orders", "a-1")
	n := projection.New(s).Rebuild(e)

	v, ok := n.Get("orders.status")
	require.True(t, ok)
	assert.True(t, atom.Equal(atom.String("open"), v))

	v, ok = n.Get("orders.total")
	require.True(t, ok)
	assert.True(t, atom.Equal(atom.Int(100), v), "INTEGER columns keep their type")

	v, ok = n.Get("orders.weight")
	require.True(t, ok)
	assert.True(t, atom.Equal(atom.Float(1.5), v))

	v, ok = n.Get("orders.payload")
	require.True(t, ok)
	assert.True(t, atom.Equal(atom.Blob{1, 2, 3}, v))

	_, ok = n.Get("orders.note")
	assert.False(t, ok, "NULL never becomes an atom")
}

func TestImportSQLiteDedup(t *testing.T) {
	dbPath := createFixtureDB(t)
	s := newStore()

	_, err := ImportSQLite(s, dbPath, SQLiteOptions{Table: "orders", KeyColumn: "order_id"})
	require.NoError(t, err)

	// 'open' and 100 each appear twice across rows.
	assert.EqualValues(t, 2, s.GetStats().DeduplicatedHits)
}

func TestImportSQLiteWithMapping(t *testing.T) {
	dbPath := createFixtureDB(t)
	s := newStore()

	m := &Mapping{
		Table: "orders",
		Columns: map[string]ColumnRule{
			"total": {Tag: "order.amount", Class: "mutable"},
		},
	}
	_, err := ImportSQLite(s, dbPath, SQLiteOptions{Table: "orders", KeyColumn: "order_id", Mapping: m})
	require.NoError(t, err)

	e := atom.DeriveEntityId("orders", "a-2")
	state, ok := s.MutableStateFor(e, "order.amount")
	require.True(t, ok)
	assert.True(t, atom.Equal(atom.Int(250), state.Current()))
}

func TestImportSQLiteUnknownTable(t *testing.T) {
	dbPath := createFixtureDB(t)
	_, err := ImportSQLite(newStore(), dbPath, SQLiteOptions{Table: "missing"})
	assert.Error(t, err)
}

func TestImportSQLiteUnknownKeyColumn(t *testing.T) {
	dbPath := createFixtureDB(t)
	_, err := ImportSQLite(newStore(), dbPath, SQLiteOptions{Table: "orders", KeyColumn: "nope"})
	assert.ErrorContains(t, err, "key column")
}

func TestImportSQLiteRequiresTable(t *testing.T) {
	_, err := ImportSQLite(newStore(), "x.db", SQLiteOptions{})
	assert.ErrorContains(t, err, "table must be set")
}
