package atom

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// hashSalt extends the 64-bit digest to 128 bits: after taking the first
// half, the salt is mixed into the same digest and the sum taken again.
// Changing the salt changes every Canonical id, so it is fixed forever.
const hashSalt uint64 = 0xDEADBEEFCAFEBABE

// ContentHash computes the deterministic 128-bit id of a Canonical atom from
// its (tag, value) pair.
//
// The digest consumes, in order: the raw tag bytes, one discriminator byte,
// then the value's canonical byte form:
//
//   - null: nothing
//   - bool: one byte, 0 or 1
//   - int: 8 bytes little-endian
//   - float: 8 bytes of the IEEE-754 bit pattern, little-endian
//   - string: raw UTF-8 bytes, no length prefix (the discriminator already
//     scopes the type)
//   - float vector: 8-byte length then the raw 4n element bytes
//   - blob: 8-byte length then the raw bytes
//   - edge: 16 target bytes then the raw relation bytes
//
// The result is byte-for-byte stable across runs and across machines; two
// stores can exchange data only if they agree on this function. It is not
// collision resistant against an adversary.
func ContentHash(tag string, v Value) AtomId {
	d := xxhash.New()
	d.WriteString(tag)

	var scratch [8]byte
	scratch[0] = byte(KindOf(v))
	d.Write(scratch[:1])

	switch val := v.(type) {
	case nil, Null:
		// Nothing to mix for null.
	case Bool:
		scratch[0] = 0
		if val {
			scratch[0] = 1
		}
		d.Write(scratch[:1])
	case Int:
		binary.LittleEndian.PutUint64(scratch[:], uint64(val))
		d.Write(scratch[:])
	case Float:
		binary.LittleEndian.PutUint64(scratch[:], math.Float64bits(float64(val)))
		d.Write(scratch[:])
	case String:
		d.WriteString(string(val))
	case FloatVec:
		binary.LittleEndian.PutUint64(scratch[:], uint64(len(val)))
		d.Write(scratch[:])
		var elem [4]byte
		for _, f := range val {
			binary.LittleEndian.PutUint32(elem[:], math.Float32bits(f))
			d.Write(elem[:])
		}
	case Blob:
		binary.LittleEndian.PutUint64(scratch[:], uint64(len(val)))
		d.Write(scratch[:])
		d.Write(val)
	case Edge:
		d.Write(val.Target[:])
		d.WriteString(val.Relation)
	}

	lo := d.Sum64()

	// Second half: continue the same mixing with the fixed salt.
	binary.LittleEndian.PutUint64(scratch[:], hashSalt)
	d.Write(scratch[:])
	hi := d.Sum64()

	var id AtomId
	binary.LittleEndian.PutUint64(id[:8], lo)
	binary.LittleEndian.PutUint64(id[8:], hi)
	return id
}
