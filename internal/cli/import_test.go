package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportCSVThenQueryEndToEnd(t *testing.T) {
	dir := t.TempDir()
	storePath := filepath.Join(dir, "store.gtaf")
	csvPath := filepath.Join(dir, "users.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(
		"id,name,qty\n"+
			"1,Alice,10\n"+
			"2,Bob,25\n"+
			"3,alice-b,40\n"), 0o644))

	out, err := runCLI(t, "--store", storePath,
		"import-csv", csvPath, "--table", "users", "--key-column", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "imported 3 rows")
	assert.FileExists(t, storePath, "the store persists after import")

	// Stats read the persisted store back.
	out, err = runCLI(t, "--store", storePath, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "entities:         3")

	// Substring query over the reloaded store.
	out, err = runCLI(t, "--store", storePath, "query", "users.name", "--contains", "ALICE")
	require.NoError(t, err)
	assert.Contains(t, out, "2 match(es)")

	// Integer predicate over string-encoded numbers.
	out, err = runCLI(t, "--store", storePath, "query", "users.qty", "--int", ">= 20")
	require.NoError(t, err)
	assert.Contains(t, out, "2 match(es)")

	// Exact match.
	out, err = runCLI(t, "--store", storePath, "query", "users.name", "--equals", "Bob")
	require.NoError(t, err)
	assert.Contains(t, out, "1 match(es)")
}

func TestImportCSVRejectsMultiCharDelimiter(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "d.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("a\n1\n"), 0o644))

	_, err := runCLI(t, "--store", filepath.Join(dir, "s.gtaf"),
		"import-csv", csvPath, "--delimiter", "ab")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "single character")
}

func TestImportReimportIsStable(t *testing.T) {
	dir := t.TempDir()
	storePath := filepath.Join(dir, "store.gtaf")
	csvPath := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("id,v\n1,x\n"), 0o644))

	_, err := runCLI(t, "--store", storePath, "import-csv", csvPath, "--table", "t", "--key-column", "0")
	require.NoError(t, err)

	// Re-importing the same file addresses the same entities and
	// deduplicates every Canonical value.
	out, err := runCLI(t, "--store", storePath, "import-csv", csvPath, "--table", "t", "--key-column", "0", "-v")
	require.NoError(t, err)
	assert.Contains(t, out, "entities:         1")
	assert.Contains(t, out, "dedup hits:       2")
}
