package store

import (
	"math"

	"github.com/roach88/gtaf/internal/atom"
)

// GetEntityAtoms returns the entity's reference list in LSN order, or false
// if the entity has never been appended to. The slice is borrowed from the
// store; callers must not retain or mutate it across mutating calls.
func (s *AtomStore) GetEntityAtoms(entity atom.EntityId) ([]atom.Ref, bool) {
	list, ok := s.refs[entity]
	return list, ok
}

// GetAtom returns the content record for an id, or false if no such atom
// exists. For mutable ids this is the most recent record of the stream.
func (s *AtomStore) GetAtom(id atom.AtomId) (atom.Atom, bool) {
	idx, ok := s.contentIndex[id]
	if !ok {
		return atom.Atom{}, false
	}
	return s.atoms[idx], true
}

// GetAllEntities returns every entity id in order of first reference. The
// slice is borrowed; callers must not mutate it.
func (s *AtomStore) GetAllEntities() []atom.EntityId {
	return s.entityOrder
}

// All returns every content record ever created, in creation order: one per
// unique Canonical atom, one per Temporal append, one per Mutable append,
// one per snapshot. The slice is borrowed; callers must not retain it
// across mutating calls.
func (s *AtomStore) All() []atom.Atom {
	return s.atoms
}

// TemporalQueryResult holds three parallel columns of matching rows plus
// their total count. Rows appear in sealed-chunk order (chunk id ascending)
// followed by the active chunk, preserving insertion order within each
// chunk. Timestamps are not re-sorted.
type TemporalQueryResult struct {
	Values     []atom.Value
	Timestamps []atom.Timestamp
	LSNs       []atom.LSN
	TotalCount int
}

// QueryTemporalAll returns every row of a temporal stream.
func (s *AtomStore) QueryTemporalAll(entity atom.EntityId, tag string) TemporalQueryResult {
	return s.QueryTemporalRange(entity, tag, 0, math.MaxUint64)
}

// QueryTemporalRange returns the rows of a temporal stream whose timestamps
// fall within [start, end], inclusive of both bounds.
func (s *AtomStore) QueryTemporalRange(entity atom.EntityId, tag string, start, end atom.Timestamp) TemporalQueryResult {
	var result TemporalQueryResult
	key := streamKey{entity: entity, tag: tag}

	for _, chunk := range s.sealed[key] {
		collectChunkRows(chunk, start, end, &result)
	}
	if chunk, ok := s.active[key]; ok {
		collectChunkRows(chunk, start, end, &result)
	}
	result.TotalCount = len(result.Values)
	return result
}

func collectChunkRows(c *TemporalChunk, start, end atom.Timestamp, out *TemporalQueryResult) {
	timestamps := c.Timestamps()
	values := c.Values()
	lsns := c.LSNs()
	for i, ts := range timestamps {
		if ts >= start && ts <= end {
			out.Values = append(out.Values, values[i])
			out.Timestamps = append(out.Timestamps, ts)
			out.LSNs = append(out.LSNs, lsns[i])
		}
	}
}

// SealedChunks returns the sealed chunks of a stream in chunk-id order.
// Exposed for diagnostics and tests; the slice is borrowed.
func (s *AtomStore) SealedChunks(entity atom.EntityId, tag string) []*TemporalChunk {
	return s.sealed[streamKey{entity: entity, tag: tag}]
}

// ActiveChunk returns the stream's unsealed chunk, or false if the stream
// has none (never written, or exactly at a seal boundary).
func (s *AtomStore) ActiveChunk(entity atom.EntityId, tag string) (*TemporalChunk, bool) {
	c, ok := s.active[streamKey{entity: entity, tag: tag}]
	return c, ok
}

// MutableStateFor returns the in-memory state of a mutable stream, or false
// if the stream has never been written (or was lost to a Load).
func (s *AtomStore) MutableStateFor(entity atom.EntityId, tag string) (*MutableState, bool) {
	m, ok := s.mutables[streamKey{entity: entity, tag: tag}]
	return m, ok
}
