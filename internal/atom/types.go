package atom

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/google/uuid"
)

// Class defines the storage and deduplication behavior of an atom.
type Class uint8

const (
	// ClassCanonical atoms are immutable, content-addressed, and globally
	// deduplicated within a store.
	ClassCanonical Class = 0

	// ClassTemporal atoms are append-only time-series data stored in
	// chunked columns. They are never deduplicated.
	ClassTemporal Class = 1

	// ClassMutable atoms keep a stable id and a current value that is
	// mutated in place, with every change delta-logged and periodically
	// snapshotted.
	ClassMutable Class = 2
)

// String returns the lowercase name of the class.
func (c Class) String() string {
	switch c {
	case ClassCanonical:
		return "canonical"
	case ClassTemporal:
		return "temporal"
	case ClassMutable:
		return "mutable"
	default:
		return "unknown"
	}
}

// AtomId identifies a single content record in the log.
//
// For Canonical atoms it is the 128-bit content hash of (tag, value). For
// Temporal and Mutable atoms it is a store-local counter packed little-endian
// into the first 8 bytes, remaining bytes zero.
//
// AtomId is comparable and is used directly as a map key. The Go runtime
// hashes the full 16 bytes; since ids are either uniform hash outputs or
// sequential counters in the leading bytes, this distributes well. It is not
// a cryptographic MAC.
type AtomId [16]byte

// IsNil reports whether the id is all zero bytes.
func (id AtomId) IsNil() bool {
	return id == AtomId{}
}

// String returns the id as 32 lowercase hex characters.
func (id AtomId) String() string {
	return hex.EncodeToString(id[:])
}

// SequentialAtomId packs a store-local counter into an AtomId. Used for
// Temporal and Mutable atoms, which are not content-addressed.
func SequentialAtomId(n uint64) AtomId {
	var id AtomId
	binary.LittleEndian.PutUint64(id[:8], n)
	return id
}

// EntityId identifies a logical entity. It is assigned by the caller and
// never interpreted by the engine; it is a coordinate in the data model, not
// an object.
type EntityId [16]byte

// IsNil reports whether the id is all zero bytes.
func (id EntityId) IsNil() bool {
	return id == EntityId{}
}

// String returns the id as 32 lowercase hex characters.
func (id EntityId) String() string {
	return hex.EncodeToString(id[:])
}

// NewEntityId returns a fresh random entity id.
func NewEntityId() EntityId {
	return EntityId(uuid.New())
}

// DeriveEntityId returns a stable entity id for an external key, such as a
// CSV row key or an imported table's primary key. The same (namespace, key)
// pair always yields the same id, so repeated imports address the same
// entity.
func DeriveEntityId(namespace, key string) EntityId {
	return EntityId(uuid.NewSHA1(uuid.NameSpaceOID, []byte(namespace+"/"+key)))
}

// ParseEntityId parses a 32-character hex string into an EntityId.
func ParseEntityId(s string) (EntityId, error) {
	var id EntityId
	b, err := hex.DecodeString(s)
	if err != nil {
		return EntityId{}, err
	}
	if len(b) != len(id) {
		return EntityId{}, hex.ErrLength
	}
	copy(id[:], b)
	return id, nil
}

// LSN is a log sequence number: a strictly monotonic 64-bit counter,
// incremented once per append (including each deduplicated reference and
// each snapshot emission). Ordering is always by LSN, never by timestamp.
type LSN uint64

// IsValid reports whether the LSN has been assigned. LSN zero is never
// handed out by a store.
func (l LSN) IsValid() bool {
	return l != 0
}

// Timestamp is microseconds since the Unix epoch, sampled at append time
// from the wall clock. Non-decreasing in practice but not enforced.
type Timestamp uint64

// TransactionId is a reserved field. Zero means auto-commit; no other value
// is currently produced by the engine.
type TransactionId uint64

// IsAutoCommit reports whether the transaction id is the auto-commit
// sentinel.
func (t TransactionId) IsAutoCommit() bool {
	return t == 0
}

// Ref is a single entry in an entity's reference list: the atom it points at
// and the global LSN at which the reference was appended. The per-entity
// list of refs, in LSN order, is the authoritative history of that entity.
type Ref struct {
	AtomId AtomId
	LSN    LSN
}

// Atom is an immutable content record. It carries no entity id and no LSN;
// those live in the reference layer, so one Canonical atom can be shared by
// any number of entities.
type Atom struct {
	Id        AtomId
	Class     Class
	Tag       string
	Value     Value
	CreatedAt Timestamp

	// TxId is reserved and not persisted. Always auto-commit today.
	TxId TransactionId
}

// IsCanonical reports whether the atom is content-addressed.
func (a Atom) IsCanonical() bool { return a.Class == ClassCanonical }

// IsTemporal reports whether the atom belongs to a time-series stream.
func (a Atom) IsTemporal() bool { return a.Class == ClassTemporal }

// IsMutable reports whether the atom is a delta-logged mutable record.
func (a Atom) IsMutable() bool { return a.Class == ClassMutable }
