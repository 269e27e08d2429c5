package codec

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/roach88/gtaf/internal/atom"
)

// WriteValue writes one u8 discriminator then the type-specific payload.
//
// Unlike content hashing, the wire form length-prefixes strings and blobs
// with a u32 so the reader can frame them without scanning.
func (w *Writer) WriteValue(v atom.Value) error {
	if err := w.WriteU8(uint8(atom.KindOf(v))); err != nil {
		return err
	}
	switch val := v.(type) {
	case nil, atom.Null:
		return nil
	case atom.Bool:
		b := uint8(0)
		if val {
			b = 1
		}
		return w.WriteU8(b)
	case atom.Int:
		return w.WriteU64(uint64(val))
	case atom.Float:
		return w.WriteU64(math.Float64bits(float64(val)))
	case atom.String:
		return w.WriteString(string(val))
	case atom.FloatVec:
		if err := w.WriteU32(uint32(len(val))); err != nil {
			return err
		}
		var buf [4]byte
		for _, f := range val {
			binary.LittleEndian.PutUint32(buf[:], math.Float32bits(f))
			if err := w.WriteBytes(buf[:]); err != nil {
				return err
			}
		}
		return nil
	case atom.Blob:
		if err := w.WriteU32(uint32(len(val))); err != nil {
			return err
		}
		return w.WriteBytes(val)
	case atom.Edge:
		if err := w.WriteEntityId(val.Target); err != nil {
			return err
		}
		return w.WriteString(val.Relation)
	default:
		// KindOf already panicked for unknown types; unreachable.
		return newError(ErrCodeValueTag, fmt.Sprintf("unencodable value %T", v), nil)
	}
}

// ReadValue reads one u8 discriminator then the type-specific payload.
// An unknown discriminator fails with ErrCodeValueTag.
func (r *Reader) ReadValue() (atom.Value, error) {
	kind, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	switch atom.Kind(kind) {
	case atom.KindNull:
		return atom.Null{}, nil
	case atom.KindBool:
		b, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		return atom.Bool(b != 0), nil
	case atom.KindInt:
		v, err := r.ReadU64()
		if err != nil {
			return nil, err
		}
		return atom.Int(int64(v)), nil
	case atom.KindFloat:
		v, err := r.ReadU64()
		if err != nil {
			return nil, err
		}
		return atom.Float(math.Float64frombits(v)), nil
	case atom.KindString:
		s, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		return atom.String(s), nil
	case atom.KindFloatVec:
		n, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		vec := make(atom.FloatVec, n)
		var buf [4]byte
		for i := range vec {
			if err := r.ReadBytes(buf[:]); err != nil {
				return nil, err
			}
			vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[:]))
		}
		return vec, nil
	case atom.KindBlob:
		n, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		blob := make(atom.Blob, n)
		if err := r.ReadBytes(blob); err != nil {
			return nil, err
		}
		return blob, nil
	case atom.KindEdge:
		target, err := r.ReadEntityId()
		if err != nil {
			return nil, err
		}
		rel, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		return atom.Edge{Target: target, Relation: rel}, nil
	default:
		return nil, newError(ErrCodeValueTag, fmt.Sprintf("unknown value tag %d", kind), nil)
	}
}
