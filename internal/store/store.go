package store

import "github.com/roach88/gtaf/internal/atom"

// Default thresholds. Both can be overridden through Options.
const (
	DefaultChunkSizeThreshold     = 1000
	DefaultSnapshotDeltaThreshold = 10
)

// Options configures an AtomStore. The zero value selects all defaults.
type Options struct {
	// ChunkSizeThreshold is the number of values after which an active
	// temporal chunk is sealed.
	ChunkSizeThreshold int

	// SnapshotDeltaThreshold is the number of deltas after which a mutable
	// stream emits a snapshot.
	SnapshotDeltaThreshold int

	// ReaderBufferSize is the window used by Load. Zero selects the codec
	// default.
	ReaderBufferSize int

	// Clock supplies append timestamps. Nil selects the wall clock.
	Clock Clock
}

func (o Options) withDefaults() Options {
	if o.ChunkSizeThreshold <= 0 {
		o.ChunkSizeThreshold = DefaultChunkSizeThreshold
	}
	if o.SnapshotDeltaThreshold <= 0 {
		o.SnapshotDeltaThreshold = DefaultSnapshotDeltaThreshold
	}
	if o.Clock == nil {
		o.Clock = SystemClock()
	}
	return o
}

// streamKey identifies a temporal or mutable stream.
type streamKey struct {
	entity atom.EntityId
	tag    string
}

// AtomStore is the append-only content log plus its secondary structures:
// the content index, the Canonical dedup map, the per-entity reference
// lists, refcounts, temporal chunk maps, and mutable stream states.
//
// Values returned by query methods that expose internal slices (All,
// GetEntityAtoms, chunk columns) are borrowed: callers must not retain them
// across mutating calls.
type AtomStore struct {
	opts Options

	nextLSN    uint64
	nextAtomId uint64

	// Content log, in creation order. One record per unique Canonical
	// atom, one per Temporal append, one per Mutable append, one per
	// snapshot.
	atoms []atom.Atom

	// contentIndex maps any atom id to its record in the log. Mutable
	// streams reuse one id across appends; the index tracks the most
	// recent record so GetAtom reflects the current value.
	contentIndex map[atom.AtomId]int

	// canonicalDedup maps Canonical ids to their single record.
	canonicalDedup map[atom.AtomId]int

	// Reference layer: per-entity ordered (atom id, LSN) lists plus the
	// entity order of first appearance, kept so enumeration and persisted
	// files are deterministic.
	refs        map[atom.EntityId][]atom.Ref
	entityOrder []atom.EntityId

	refcounts map[atom.AtomId]uint32

	active      map[streamKey]*TemporalChunk
	sealed      map[streamKey][]*TemporalChunk
	nextChunkId map[streamKey]uint64
	mutables    map[streamKey]*MutableState

	canonicalCount uint64
	dedupHits      uint64 // session counter, reset by Load
	snapshotCount  uint64 // session counter, reset by Load
}

// New creates an empty store with default options.
func New() *AtomStore {
	return NewWithOptions(Options{})
}

// NewWithOptions creates an empty store with the given options.
func NewWithOptions(opts Options) *AtomStore {
	s := &AtomStore{opts: opts.withDefaults()}
	s.reset()
	return s
}

// reset drops all state, leaving an empty store with the same options.
func (s *AtomStore) reset() {
	s.nextLSN = 0
	s.nextAtomId = 0
	s.atoms = nil
	s.contentIndex = make(map[atom.AtomId]int)
	s.canonicalDedup = make(map[atom.AtomId]int)
	s.refs = make(map[atom.EntityId][]atom.Ref)
	s.entityOrder = nil
	s.refcounts = make(map[atom.AtomId]uint32)
	s.active = make(map[streamKey]*TemporalChunk)
	s.sealed = make(map[streamKey][]*TemporalChunk)
	s.nextChunkId = make(map[streamKey]uint64)
	s.mutables = make(map[streamKey]*MutableState)
	s.canonicalCount = 0
	s.dedupHits = 0
	s.snapshotCount = 0
}

// Reserve pre-sizes the content structures for an expected number of atoms
// and entities. Useful before bulk ingestion; a no-op once data is present.
func (s *AtomStore) Reserve(atomHint, entityHint int) {
	if len(s.atoms) > 0 {
		return
	}
	if atomHint > 0 {
		s.atoms = make([]atom.Atom, 0, atomHint)
		s.contentIndex = make(map[atom.AtomId]int, atomHint)
		s.canonicalDedup = make(map[atom.AtomId]int, atomHint)
		s.refcounts = make(map[atom.AtomId]uint32, atomHint)
	}
	if entityHint > 0 {
		s.refs = make(map[atom.EntityId][]atom.Ref, entityHint)
		s.entityOrder = make([]atom.EntityId, 0, entityHint)
	}
}

// Stats summarizes a store. DeduplicatedHits and SnapshotCount are session
// counters: they reset to zero on Load.
type Stats struct {
	TotalAtoms           uint64
	CanonicalAtoms       uint64
	UniqueCanonicalAtoms uint64
	DeduplicatedHits     uint64
	TotalEntities        uint64
	TotalReferences      uint64
	SnapshotCount        uint64
}

// GetStats returns current store statistics.
func (s *AtomStore) GetStats() Stats {
	var totalRefs uint64
	for _, list := range s.refs {
		totalRefs += uint64(len(list))
	}
	return Stats{
		TotalAtoms:           uint64(len(s.atoms)),
		CanonicalAtoms:       s.canonicalCount,
		UniqueCanonicalAtoms: uint64(len(s.canonicalDedup)),
		DeduplicatedHits:     s.dedupHits,
		TotalEntities:        uint64(len(s.refs)),
		TotalReferences:      totalRefs,
		SnapshotCount:        s.snapshotCount,
	}
}

// NextLSN returns the value the next append will be assigned, for
// diagnostics. LSNs start at 1.
func (s *AtomStore) NextLSN() atom.LSN {
	return atom.LSN(s.nextLSN + 1)
}
