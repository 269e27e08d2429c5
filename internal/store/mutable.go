package store

import "github.com/roach88/gtaf/internal/atom"

// Delta records a single mutation of a mutable stream. The old value is
// retained so history between snapshots can be reconstructed.
type Delta struct {
	LSN       atom.LSN
	Timestamp atom.Timestamp
	OldValue  atom.Value
	NewValue  atom.Value
}

// MutableMetadata tracks identity and snapshot policy state for one
// (entity, tag) mutable stream. The atom id is chosen once at creation and
// reused across every mutation.
type MutableMetadata struct {
	AtomId             atom.AtomId
	EntityId           atom.EntityId
	Tag                string
	CreatedLSN         atom.LSN
	LastSnapshotLSN    atom.LSN
	LastSnapshotTime   atom.Timestamp
	DeltasSinceSnapshot int
}

// MutableState holds the current value and the delta buffer for one mutable
// stream. The buffer is bounded by the snapshot threshold: MarkSnapshot
// clears it, so at rest it holds at most threshold-1 entries.
type MutableState struct {
	meta    MutableMetadata
	current atom.Value
	deltas  []Delta
}

// NewMutableState creates the state for a stream, assigning its stable id.
func NewMutableState(id atom.AtomId, entity atom.EntityId, tag string, initial atom.Value, createdLSN atom.LSN) *MutableState {
	return &MutableState{
		meta: MutableMetadata{
			AtomId:     id,
			EntityId:   entity,
			Tag:        tag,
			CreatedLSN: createdLSN,
		},
		current: initial,
	}
}

// Mutate applies a new value, logging the delta against the previous value.
func (m *MutableState) Mutate(v atom.Value, lsn atom.LSN, ts atom.Timestamp) {
	m.deltas = append(m.deltas, Delta{
		LSN:       lsn,
		Timestamp: ts,
		OldValue:  m.current,
		NewValue:  v,
	})
	m.current = v
	m.meta.DeltasSinceSnapshot++
}

// ShouldSnapshot reports whether the delta count has reached the threshold.
func (m *MutableState) ShouldSnapshot(threshold int) bool {
	return m.meta.DeltasSinceSnapshot >= threshold
}

// MarkSnapshot records a snapshot emission: the delta buffer is cleared and
// the counter reset.
func (m *MutableState) MarkSnapshot(lsn atom.LSN, ts atom.Timestamp) {
	m.meta.LastSnapshotLSN = lsn
	m.meta.LastSnapshotTime = ts
	m.meta.DeltasSinceSnapshot = 0
	m.deltas = m.deltas[:0]
}

// Current returns the current value.
func (m *MutableState) Current() atom.Value { return m.current }

// Metadata returns the stream metadata.
func (m *MutableState) Metadata() MutableMetadata { return m.meta }

// Deltas returns the mutations since the last snapshot (or creation).
// Callers must not mutate the slice.
func (m *MutableState) Deltas() []Delta { return m.deltas }
