package store

import (
	"fmt"

	"github.com/roach88/gtaf/internal/atom"
)

// Append stores one value for an entity under the discipline selected by
// class and returns the resulting content record (new, or the pre-existing
// one when a Canonical append deduplicates).
//
// Appending cannot fail: hashing is total and allocation failure is fatal.
// Every call consumes at least one LSN; a mutable append that crosses the
// snapshot threshold consumes two.
func (s *AtomStore) Append(entity atom.EntityId, tag string, value atom.Value, class atom.Class) atom.Atom {
	switch class {
	case atom.ClassCanonical:
		return s.appendCanonical(entity, tag, value, s.opts.Clock.Now())
	case atom.ClassTemporal:
		return s.appendTemporal(entity, tag, value, s.opts.Clock.Now())
	case atom.ClassMutable:
		return s.appendMutable(entity, tag, value, s.opts.Clock.Now())
	default:
		panic(fmt.Sprintf("store: unknown atom class %d", class))
	}
}

// BatchItem is one element of an AppendBatch call.
type BatchItem struct {
	Entity atom.EntityId
	Tag    string
	Value  atom.Value
	Class  atom.Class
}

// AppendBatch appends a sequence of items with one shared timestamp and
// contiguous LSNs, returning the number of new content records created.
// Deduplicated Canonical items add references but no records and are not
// counted.
//
// There is no rollback: the batch is atomic only in the sense that its LSNs
// are contiguous.
func (s *AtomStore) AppendBatch(items []BatchItem) int {
	now := s.opts.Clock.Now()
	before := len(s.atoms)
	for _, it := range items {
		switch it.Class {
		case atom.ClassCanonical:
			s.appendCanonical(it.Entity, it.Tag, it.Value, now)
		case atom.ClassTemporal:
			s.appendTemporal(it.Entity, it.Tag, it.Value, now)
		case atom.ClassMutable:
			s.appendMutable(it.Entity, it.Tag, it.Value, now)
		default:
			panic(fmt.Sprintf("store: unknown atom class %d", it.Class))
		}
	}
	return len(s.atoms) - before
}

func (s *AtomStore) allocLSN() atom.LSN {
	s.nextLSN++
	return atom.LSN(s.nextLSN)
}

func (s *AtomStore) allocAtomId() atom.AtomId {
	s.nextAtomId++
	return atom.SequentialAtomId(s.nextAtomId)
}

func (s *AtomStore) addRef(entity atom.EntityId, id atom.AtomId, lsn atom.LSN) {
	list, known := s.refs[entity]
	if !known {
		s.entityOrder = append(s.entityOrder, entity)
	}
	s.refs[entity] = append(list, atom.Ref{AtomId: id, LSN: lsn})
	s.refcounts[id]++
}

// appendCanonical: hash, reference, then a single dedup lookup. Equal
// (tag, value) pairs share one record and one id for the lifetime of the
// store and across save/load cycles.
func (s *AtomStore) appendCanonical(entity atom.EntityId, tag string, value atom.Value, now atom.Timestamp) atom.Atom {
	h := atom.ContentHash(tag, value)
	lsn := s.allocLSN()
	s.addRef(entity, h, lsn)

	if idx, ok := s.canonicalDedup[h]; ok {
		s.dedupHits++
		return s.atoms[idx]
	}

	rec := atom.Atom{Id: h, Class: atom.ClassCanonical, Tag: tag, Value: value, CreatedAt: now}
	idx := len(s.atoms)
	s.atoms = append(s.atoms, rec)
	s.contentIndex[h] = idx
	s.canonicalDedup[h] = idx
	s.canonicalCount++
	return rec
}

// appendTemporal: append into the stream's active chunk, sealing and
// rotating at the size threshold, then record a sequentially-addressed
// companion atom so uniform retrieval sees the event. Identical values in
// the same stream receive distinct ids.
func (s *AtomStore) appendTemporal(entity atom.EntityId, tag string, value atom.Value, now atom.Timestamp) atom.Atom {
	lsn := s.allocLSN()
	key := streamKey{entity: entity, tag: tag}

	chunk := s.activeChunk(key, lsn, now)
	if err := chunk.Append(value, now, lsn); err != nil {
		// The active map never holds a sealed chunk.
		panic("store: " + err.Error())
	}
	if chunk.ShouldSeal(s.opts.ChunkSizeThreshold) {
		s.sealAndRotate(key, lsn, now)
	}

	id := s.allocAtomId()
	s.addRef(entity, id, lsn)

	rec := atom.Atom{Id: id, Class: atom.ClassTemporal, Tag: tag, Value: value, CreatedAt: now}
	idx := len(s.atoms)
	s.atoms = append(s.atoms, rec)
	s.contentIndex[id] = idx
	return rec
}

func (s *AtomStore) activeChunk(key streamKey, lsn atom.LSN, now atom.Timestamp) *TemporalChunk {
	if c, ok := s.active[key]; ok {
		return c
	}
	chunkId := s.nextChunkId[key]
	s.nextChunkId[key] = chunkId + 1
	c := NewTemporalChunk(chunkId, key.entity, key.tag, lsn, now)
	s.active[key] = c
	return c
}

func (s *AtomStore) sealAndRotate(key streamKey, finalLSN atom.LSN, now atom.Timestamp) {
	c, ok := s.active[key]
	if !ok {
		return
	}
	if err := c.Seal(finalLSN, now); err != nil {
		panic("store: " + err.Error())
	}
	s.sealed[key] = append(s.sealed[key], c)
	delete(s.active, key)
}

// appendMutable: log a delta against the stream's stable-id state, record
// the companion atom, then emit a snapshot if the delta threshold was
// crossed. The content index tracks the most recent record for the stable
// id, so GetAtom reflects the current value.
func (s *AtomStore) appendMutable(entity atom.EntityId, tag string, value atom.Value, now atom.Timestamp) atom.Atom {
	lsn := s.allocLSN()
	key := streamKey{entity: entity, tag: tag}

	state, ok := s.mutables[key]
	if !ok {
		state = NewMutableState(s.allocAtomId(), entity, tag, value, lsn)
		s.mutables[key] = state
	}
	state.Mutate(value, lsn, now)

	id := state.Metadata().AtomId
	s.addRef(entity, id, lsn)

	rec := atom.Atom{Id: id, Class: atom.ClassMutable, Tag: tag, Value: value, CreatedAt: now}
	idx := len(s.atoms)
	s.atoms = append(s.atoms, rec)
	s.contentIndex[id] = idx

	if state.ShouldSnapshot(s.opts.SnapshotDeltaThreshold) {
		s.emitSnapshot(state, now)
	}
	return rec
}

// emitSnapshot appends a Canonical atom tagged "<tag>.snapshot" holding the
// stream's current value. The emission consumes its own LSN and goes
// through the normal Canonical path, so identical snapshot values
// deduplicate.
func (s *AtomStore) emitSnapshot(state *MutableState, now atom.Timestamp) {
	meta := state.Metadata()
	s.appendCanonical(meta.EntityId, meta.Tag+".snapshot", state.Current(), now)
	s.snapshotCount++
	state.MarkSnapshot(atom.LSN(s.nextLSN), now)
}
