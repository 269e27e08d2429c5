// Package queryindex builds inverted indexes over entity properties for
// filter queries at low memory cost.
//
// Per indexed tag the index holds only the latest string value per entity,
// never full nodes. Non-string values are silently omitted during the
// build. Lookups are linear scans over one tag's entries; results are
// returned sorted by entity id so both build paths and repeated runs agree.
package queryindex

import (
	"bytes"
	"strconv"

	"github.com/roach88/gtaf/internal/atom"
	"github.com/roach88/gtaf/internal/projection"
	"github.com/roach88/gtaf/internal/store"
)

// Index maps property tags to per-entity latest string values.
//
// An Index built from a store scans reference lists directly (the fast
// path); one built from a projection engine streams node rebuilds (the
// fallback). Both paths produce identical indexes for the same state.
type Index struct {
	store   *store.AtomStore
	proj    *projection.Engine
	indexes map[string]map[atom.EntityId]string
}

// New creates an index with direct store access.
func New(s *store.AtomStore) *Index {
	return &Index{store: s, indexes: make(map[string]map[atom.EntityId]string)}
}

// NewFromProjection creates an index that builds through the projection
// engine's streaming rebuild instead of scanning the store directly.
func NewFromProjection(p *projection.Engine) *Index {
	return &Index{proj: p, indexes: make(map[string]map[atom.EntityId]string)}
}

// BuildIndex builds (or fully rebuilds) the index for one tag, returning
// the number of entities indexed.
func (ix *Index) BuildIndex(tag string) int {
	return ix.BuildIndexes([]string{tag})
}

// BuildIndexes builds the indexes for several tags in a single pass over
// the data, returning the total number of entries created. Rebuilding an
// already-indexed tag replaces its prior contents.
func (ix *Index) BuildIndexes(tags []string) int {
	want := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		want[tag] = struct{}{}
		ix.indexes[tag] = make(map[atom.EntityId]string)
	}
	if len(want) == 0 {
		return 0
	}

	if ix.store != nil {
		ix.buildDirect(want)
	} else {
		ix.buildFromProjection(want)
	}

	total := 0
	for tag := range want {
		total += len(ix.indexes[tag])
	}
	return total
}

// buildDirect walks each entity's reference list once, tracking the
// largest-LSN value per requested tag. No node allocation, no per-entity
// tag map beyond the requested set, no history. An entry is emitted iff the
// winning value is a string, exactly as a node's Get would report it.
func (ix *Index) buildDirect(want map[string]struct{}) {
	type winner struct {
		value atom.Value
		lsn   atom.LSN
		set   bool
	}
	best := make(map[string]winner, len(want))

	for _, entity := range ix.store.GetAllEntities() {
		refs, ok := ix.store.GetEntityAtoms(entity)
		if !ok {
			continue
		}
		clear(best)
		for _, ref := range refs {
			a, ok := ix.store.GetAtom(ref.AtomId)
			if !ok {
				continue
			}
			if _, wanted := want[a.Tag]; !wanted {
				continue
			}
			if cur := best[a.Tag]; !cur.set || ref.LSN > cur.lsn {
				best[a.Tag] = winner{value: a.Value, lsn: ref.LSN, set: true}
			}
		}
		for tag, w := range best {
			if !w.set {
				continue
			}
			if s, isString := w.value.(atom.String); isString {
				ix.indexes[tag][entity] = string(s)
			}
		}
	}
}

// buildFromProjection streams node rebuilds and reads each requested tag
// off the node.
func (ix *Index) buildFromProjection(want map[string]struct{}) {
	_ = ix.proj.RebuildAllStreaming(1, func(n *projection.Node) error {
		for tag := range want {
			v, ok := n.Get(tag)
			if !ok {
				continue
			}
			if s, isString := v.(atom.String); isString {
				ix.indexes[tag][n.EntityId()] = string(s)
			}
		}
		return nil
	})
}

// FindEquals returns the entities whose indexed value for tag equals value
// exactly (case-sensitive), sorted by entity id. An unindexed tag yields an
// empty result, not an error.
func (ix *Index) FindEquals(tag, value string) []atom.EntityId {
	var out []atom.EntityId
	for entity, v := range ix.indexes[tag] {
		if v == value {
			out = append(out, entity)
		}
	}
	sortEntities(out)
	return out
}

// FindContains returns the entities whose indexed value for tag contains
// substring, compared ASCII case-insensitively byte by byte. Unicode casing
// is not applied.
func (ix *Index) FindContains(tag, substring string) []atom.EntityId {
	needle := asciiUpper(substring)
	var out []atom.EntityId
	for entity, v := range ix.indexes[tag] {
		if bytes.Contains(asciiUpper(v), needle) {
			out = append(out, entity)
		}
	}
	sortEntities(out)
	return out
}

// FindIntWhere parses each indexed value as a signed decimal integer and
// returns the entities whose value satisfies pred. Values that do not parse
// are skipped silently.
func (ix *Index) FindIntWhere(tag string, pred func(int64) bool) []atom.EntityId {
	var out []atom.EntityId
	for entity, v := range ix.indexes[tag] {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			continue
		}
		if pred(n) {
			out = append(out, entity)
		}
	}
	sortEntities(out)
	return out
}

// GetString returns the indexed value for (tag, entity), or false if the
// tag is unindexed or the entity has no entry.
func (ix *Index) GetString(tag string, entity atom.EntityId) (string, bool) {
	v, ok := ix.indexes[tag][entity]
	return v, ok
}

// IsIndexed reports whether a tag has been built.
func (ix *Index) IsIndexed(tag string) bool {
	_, ok := ix.indexes[tag]
	return ok
}

// Entries returns the raw entity→value map for a tag. The map is borrowed;
// callers must not mutate it. Exposed for equivalence testing between build
// paths.
func (ix *Index) Entries(tag string) map[atom.EntityId]string {
	return ix.indexes[tag]
}

// Stats summarizes the index: the number of built tags, the largest
// per-tag entity count, and the total entries across tags.
type Stats struct {
	NumIndexedTags     int
	NumIndexedEntities int
	TotalEntries       int
}

// GetStats returns current index statistics.
func (ix *Index) GetStats() Stats {
	var st Stats
	st.NumIndexedTags = len(ix.indexes)
	for _, m := range ix.indexes {
		st.TotalEntries += len(m)
		if len(m) > st.NumIndexedEntities {
			st.NumIndexedEntities = len(m)
		}
	}
	return st
}

func asciiUpper(s string) []byte {
	b := []byte(s)
	for i, c := range b {
		if 'a' <= c && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
	return b
}

func sortEntities(ids []atom.EntityId) {
	// Insertion-friendly sizes dominate; bytes.Compare gives a stable
	// lexicographic order over the raw ids.
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && bytes.Compare(ids[j][:], ids[j-1][:]) < 0; j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}
}
