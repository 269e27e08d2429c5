package store

import (
	"fmt"

	"github.com/roach88/gtaf/internal/atom"
	"github.com/roach88/gtaf/internal/codec"
)

// Persisted format, version 2:
//
//	magic "GTAF" | version u32 | next_lsn u64 | next_atom_id u64
//	atom_count u64
//	  per atom: id(16) class(u8) tag(u32+bytes) value(tagged) created_at(u64)
//	entity_count u64
//	  per entity: id(16) ref_count(u64) refs(ref_count × (id(16) lsn(u64)))
//	refcount_count u64
//	  per entry: id(16) count(u32)
//
// All integers are little-endian. A file written on a big-endian host by a
// non-conforming implementation fails the version check rather than loading
// garbage. Temporal chunk columns and mutable delta buffers are not part of
// the format.
const (
	formatMagic   = "GTAF"
	formatVersion = 2
)

// Save writes the store to path. On any I/O error it returns the failure
// and leaves whatever was partially written behind; the caller owns
// cleanup. Save is deterministic: the same store state always produces the
// same bytes.
func (s *AtomStore) Save(path string) error {
	w, err := codec.Create(path)
	if err != nil {
		return err
	}
	if err := s.writeTo(w); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func (s *AtomStore) writeTo(w *codec.Writer) error {
	if err := w.WriteBytes([]byte(formatMagic)); err != nil {
		return err
	}
	if err := w.WriteU32(formatVersion); err != nil {
		return err
	}
	if err := w.WriteU64(s.nextLSN); err != nil {
		return err
	}
	if err := w.WriteU64(s.nextAtomId); err != nil {
		return err
	}

	if err := w.WriteU64(uint64(len(s.atoms))); err != nil {
		return err
	}
	for i := range s.atoms {
		a := &s.atoms[i]
		if err := w.WriteAtomId(a.Id); err != nil {
			return err
		}
		if err := w.WriteU8(uint8(a.Class)); err != nil {
			return err
		}
		if err := w.WriteString(a.Tag); err != nil {
			return err
		}
		if err := w.WriteValue(a.Value); err != nil {
			return err
		}
		if err := w.WriteTimestamp(a.CreatedAt); err != nil {
			return err
		}
	}

	// Entity buckets in first-reference order so output is deterministic.
	if err := w.WriteU64(uint64(len(s.entityOrder))); err != nil {
		return err
	}
	for _, entity := range s.entityOrder {
		list := s.refs[entity]
		if err := w.WriteEntityId(entity); err != nil {
			return err
		}
		if err := w.WriteU64(uint64(len(list))); err != nil {
			return err
		}
		for _, ref := range list {
			if err := w.WriteAtomId(ref.AtomId); err != nil {
				return err
			}
			if err := w.WriteLSN(ref.LSN); err != nil {
				return err
			}
		}
	}

	// Refcounts, one entry per unique id, emitted in log order (mutable
	// streams repeat an id in the log; only the first occurrence emits).
	if err := w.WriteU64(uint64(len(s.refcounts))); err != nil {
		return err
	}
	emitted := make(map[atom.AtomId]struct{}, len(s.refcounts))
	for i := range s.atoms {
		id := s.atoms[i].Id
		if _, done := emitted[id]; done {
			continue
		}
		emitted[id] = struct{}{}
		if err := w.WriteAtomId(id); err != nil {
			return err
		}
		if err := w.WriteU32(s.refcounts[id]); err != nil {
			return err
		}
	}
	return nil
}

// Load replaces the store's contents with the file at path. All in-memory
// state is cleared first; on any error the store is left empty, never
// partially loaded. Session counters (deduplicated hits, snapshot count)
// reset to zero, and temporal chunks and mutable delta buffers are not
// re-materialized.
func (s *AtomStore) Load(path string) error {
	s.reset()

	r, err := codec.Open(path, s.opts.ReaderBufferSize)
	if err != nil {
		return err
	}
	defer r.Close()

	if err := s.readFrom(r); err != nil {
		s.reset()
		return err
	}
	return nil
}

func (s *AtomStore) readFrom(r *codec.Reader) error {
	var magic [4]byte
	if err := r.ReadBytes(magic[:]); err != nil {
		return err
	}
	if string(magic[:]) != formatMagic {
		return &codec.Error{Code: codec.ErrCodeMagic, Message: fmt.Sprintf("not a GTAF file (magic %q)", magic)}
	}
	version, err := r.ReadU32()
	if err != nil {
		return err
	}
	if version != formatVersion {
		return &codec.Error{Code: codec.ErrCodeVersion, Message: fmt.Sprintf("unsupported format version %d (want %d)", version, formatVersion)}
	}

	if s.nextLSN, err = r.ReadU64(); err != nil {
		return err
	}
	if s.nextAtomId, err = r.ReadU64(); err != nil {
		return err
	}

	atomCount, err := r.ReadU64()
	if err != nil {
		return err
	}
	if atomCount > 0 && cap(s.atoms) == 0 {
		s.atoms = make([]atom.Atom, 0, atomCount)
	}
	for i := uint64(0); i < atomCount; i++ {
		var a atom.Atom
		if a.Id, err = r.ReadAtomId(); err != nil {
			return err
		}
		class, err := r.ReadU8()
		if err != nil {
			return err
		}
		a.Class = atom.Class(class)
		if a.Tag, err = r.ReadString(); err != nil {
			return err
		}
		if a.Value, err = r.ReadValue(); err != nil {
			return err
		}
		if a.CreatedAt, err = r.ReadTimestamp(); err != nil {
			return err
		}

		idx := len(s.atoms)
		s.atoms = append(s.atoms, a)
		// Latest record wins for repeated mutable ids, matching append.
		s.contentIndex[a.Id] = idx
		if a.Class == atom.ClassCanonical {
			if _, seen := s.canonicalDedup[a.Id]; !seen {
				s.canonicalDedup[a.Id] = idx
				s.canonicalCount++
			}
		}
	}

	entityCount, err := r.ReadU64()
	if err != nil {
		return err
	}
	for i := uint64(0); i < entityCount; i++ {
		entity, err := r.ReadEntityId()
		if err != nil {
			return err
		}
		refCount, err := r.ReadU64()
		if err != nil {
			return err
		}
		list := make([]atom.Ref, 0, refCount)
		for j := uint64(0); j < refCount; j++ {
			var ref atom.Ref
			if ref.AtomId, err = r.ReadAtomId(); err != nil {
				return err
			}
			if ref.LSN, err = r.ReadLSN(); err != nil {
				return err
			}
			list = append(list, ref)
		}
		s.refs[entity] = list
		s.entityOrder = append(s.entityOrder, entity)
	}

	refcountCount, err := r.ReadU64()
	if err != nil {
		return err
	}
	for i := uint64(0); i < refcountCount; i++ {
		id, err := r.ReadAtomId()
		if err != nil {
			return err
		}
		count, err := r.ReadU32()
		if err != nil {
			return err
		}
		s.refcounts[id] = count
	}
	return nil
}
