package codec

import (
	"bufio"
	"encoding/binary"
	"os"

	"github.com/roach88/gtaf/internal/atom"
)

// Writer serializes GTAF primitives to a file through a buffered stream.
//
// All multi-byte integers are written little-endian. That pin is part of the
// persisted format: a file written here reads back identically on any
// architecture.
type Writer struct {
	f *os.File
	w *bufio.Writer
}

// Create opens path for writing, truncating any existing file.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, newError(ErrCodeOpen, "open for writing: "+path, err)
	}
	return &Writer{f: f, w: bufio.NewWriterSize(f, 1<<20)}, nil
}

// Close flushes buffered data and closes the file. A partially-written file
// is left behind on error; the caller owns cleanup.
func (w *Writer) Close() error {
	flushErr := w.w.Flush()
	closeErr := w.f.Close()
	if flushErr != nil {
		return newError(ErrCodeWrite, "flush", flushErr)
	}
	if closeErr != nil {
		return newError(ErrCodeWrite, "close", closeErr)
	}
	return nil
}

// WriteU8 writes a single byte.
func (w *Writer) WriteU8(v uint8) error {
	if err := w.w.WriteByte(v); err != nil {
		return newError(ErrCodeWrite, "write u8", err)
	}
	return nil
}

// WriteU32 writes a 32-bit integer, little-endian.
func (w *Writer) WriteU32(v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	return w.WriteBytes(buf[:])
}

// WriteU64 writes a 64-bit integer, little-endian.
func (w *Writer) WriteU64(v uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	return w.WriteBytes(buf[:])
}

// WriteBytes writes a raw byte block.
func (w *Writer) WriteBytes(p []byte) error {
	if _, err := w.w.Write(p); err != nil {
		return newError(ErrCodeWrite, "write bytes", err)
	}
	return nil
}

// WriteString writes a u32 length prefix followed by the raw UTF-8 bytes.
func (w *Writer) WriteString(s string) error {
	if err := w.WriteU32(uint32(len(s))); err != nil {
		return err
	}
	if len(s) == 0 {
		return nil
	}
	if _, err := w.w.WriteString(s); err != nil {
		return newError(ErrCodeWrite, "write string", err)
	}
	return nil
}

// WriteAtomId writes the 16 raw id bytes.
func (w *Writer) WriteAtomId(id atom.AtomId) error {
	return w.WriteBytes(id[:])
}

// WriteEntityId writes the 16 raw id bytes.
func (w *Writer) WriteEntityId(id atom.EntityId) error {
	return w.WriteBytes(id[:])
}

// WriteLSN writes a log sequence number.
func (w *Writer) WriteLSN(l atom.LSN) error {
	return w.WriteU64(uint64(l))
}

// WriteTimestamp writes a microsecond timestamp.
func (w *Writer) WriteTimestamp(ts atom.Timestamp) error {
	return w.WriteU64(uint64(ts))
}
