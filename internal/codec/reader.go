package codec

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/roach88/gtaf/internal/atom"
)

// DefaultReaderBufferSize is the read window used when no explicit size is
// configured. Bulk loads are dominated by syscall count, so the window is
// generous.
const DefaultReaderBufferSize = 16 << 20

// Reader deserializes GTAF primitives from a file through a large refilling
// window. Reads that straddle the window boundary are split across refills.
type Reader struct {
	f   *os.File
	buf []byte
	pos int
	end int
}

// Open opens path for reading with the given buffer size. A bufSize of 0
// selects DefaultReaderBufferSize.
func Open(path string, bufSize int) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newError(ErrCodeOpen, "open for reading: "+path, err)
	}
	if bufSize <= 0 {
		bufSize = DefaultReaderBufferSize
	}
	return &Reader{f: f, buf: make([]byte, bufSize)}, nil
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.f.Close()
}

func (r *Reader) refill() error {
	n, err := r.f.Read(r.buf)
	if n > 0 {
		r.pos = 0
		r.end = n
		return nil
	}
	if err == nil || err == io.EOF {
		return newError(ErrCodeRead, "unexpected end of file", io.ErrUnexpectedEOF)
	}
	return newError(ErrCodeRead, "read", err)
}

// ReadBytes fills p completely, refilling the window as needed.
func (r *Reader) ReadBytes(p []byte) error {
	for len(p) > 0 {
		if r.pos == r.end {
			if err := r.refill(); err != nil {
				return err
			}
		}
		n := copy(p, r.buf[r.pos:r.end])
		r.pos += n
		p = p[n:]
	}
	return nil
}

// ReadU8 reads a single byte.
func (r *Reader) ReadU8() (uint8, error) {
	if r.pos == r.end {
		if err := r.refill(); err != nil {
			return 0, err
		}
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

// ReadU32 reads a 32-bit integer, little-endian.
func (r *Reader) ReadU32() (uint32, error) {
	var buf [4]byte
	if err := r.ReadBytes(buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// ReadU64 reads a 64-bit integer, little-endian.
func (r *Reader) ReadU64() (uint64, error) {
	var buf [8]byte
	if err := r.ReadBytes(buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// ReadString reads a u32 length prefix followed by the raw UTF-8 bytes.
func (r *Reader) ReadString() (string, error) {
	n, err := r.ReadU32()
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	b := make([]byte, n)
	if err := r.ReadBytes(b); err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadAtomId reads 16 raw id bytes.
func (r *Reader) ReadAtomId() (atom.AtomId, error) {
	var id atom.AtomId
	err := r.ReadBytes(id[:])
	return id, err
}

// ReadEntityId reads 16 raw id bytes.
func (r *Reader) ReadEntityId() (atom.EntityId, error) {
	var id atom.EntityId
	err := r.ReadBytes(id[:])
	return id, err
}

// ReadLSN reads a log sequence number.
func (r *Reader) ReadLSN() (atom.LSN, error) {
	v, err := r.ReadU64()
	return atom.LSN(v), err
}

// ReadTimestamp reads a microsecond timestamp.
func (r *Reader) ReadTimestamp() (atom.Timestamp, error) {
	v, err := r.ReadU64()
	return atom.Timestamp(v), err
}
