package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/roach88/gtaf/internal/atom"
	"github.com/roach88/gtaf/internal/store"
)

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func printStats(w io.Writer, st store.Stats) {
	fmt.Fprintf(w, "atoms:            %d\n", st.TotalAtoms)
	fmt.Fprintf(w, "canonical:        %d\n", st.CanonicalAtoms)
	fmt.Fprintf(w, "unique canonical: %d\n", st.UniqueCanonicalAtoms)
	fmt.Fprintf(w, "dedup hits:       %d\n", st.DeduplicatedHits)
	fmt.Fprintf(w, "entities:         %d\n", st.TotalEntities)
	fmt.Fprintf(w, "references:       %d\n", st.TotalReferences)
	fmt.Fprintf(w, "snapshots:        %d\n", st.SnapshotCount)
}

func printEntities(w io.Writer, ids []atom.EntityId) {
	for _, id := range ids {
		fmt.Fprintln(w, id)
	}
	fmt.Fprintf(w, "%d match(es)\n", len(ids))
}
