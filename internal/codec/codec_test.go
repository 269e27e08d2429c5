package codec

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gtaf/internal/atom"
)

func tempFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "out.bin")
}

func TestPrimitiveRoundTrip(t *testing.T) {
	path := tempFile(t)

	w, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, w.WriteU8(0xAB))
	require.NoError(t, w.WriteU32(0xDEAD_BEEF))
	require.NoError(t, w.WriteU64(0x0123_4567_89AB_CDEF))
	require.NoError(t, w.WriteString("héllo"))
	require.NoError(t, w.WriteString(""))
	require.NoError(t, w.WriteLSN(42))
	require.NoError(t, w.WriteTimestamp(1_700_000_000_000_000))
	require.NoError(t, w.Close())

	r, err := Open(path, 0)
	require.NoError(t, err)
	defer r.Close()

	u8, err := r.ReadU8()
	require.NoError(t, err)
	assert.Equal(t, uint8(0xAB), u8)

	u32, err := r.ReadU32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0xDEAD_BEEF), u32)

	u64, err := r.ReadU64()
	require.NoError(t, err)
	assert.Equal(t, uint64(0x0123_4567_89AB_CDEF), u64)

	s, err := r.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "héllo", s)

	empty, err := r.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "", empty)

	lsn, err := r.ReadLSN()
	require.NoError(t, err)
	assert.Equal(t, atom.LSN(42), lsn)

	ts, err := r.ReadTimestamp()
	require.NoError(t, err)
	assert.Equal(t, atom.Timestamp(1_700_000_000_000_000), ts)
}

func TestLittleEndianOnDisk(t *testing.T) {
	path := tempFile(t)

	w, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, w.WriteU32(2))
	require.NoError(t, w.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{2, 0, 0, 0}, raw, "integers are pinned little-endian")
}

func TestValueRoundTrip(t *testing.T) {
	target := atom.EntityId{0x01, 0x02}
	values := []atom.Value{
		atom.Null{},
		atom.Bool(true),
		atom.Bool(false),
		atom.Int(-1),
		atom.Int(1 << 62),
		atom.Float(-2.5),
		atom.String(""),
		atom.String("héllo wörld"),
		atom.FloatVec{},
		atom.FloatVec{0.5, -1.25, 3e8},
		atom.Blob{},
		atom.Blob{0, 1, 2, 255},
		atom.Edge{Target: target, Relation: "member-of"},
		atom.Edge{Relation: ""},
	}

	path := tempFile(t)
	w, err := Create(path)
	require.NoError(t, err)
	for _, v := range values {
		require.NoError(t, w.WriteValue(v))
	}
	require.NoError(t, w.Close())

	r, err := Open(path, 0)
	require.NoError(t, err)
	defer r.Close()

	for _, want := range values {
		got, err := r.ReadValue()
		require.NoError(t, err)
		assert.True(t, atom.Equal(want, got), "want %#v, got %#v", want, got)
	}
}

func TestReadSplitsAcrossRefills(t *testing.T) {
	// A tiny window forces every multi-byte read to straddle refills.
	path := tempFile(t)
	payload := make([]byte, 1000)
	for i := range payload {
		payload[i] = byte(i)
	}

	w, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, w.WriteU64(7))
	require.NoError(t, w.WriteBytes(payload))
	require.NoError(t, w.Close())

	r, err := Open(path, 3)
	require.NoError(t, err)
	defer r.Close()

	u64, err := r.ReadU64()
	require.NoError(t, err)
	assert.Equal(t, uint64(7), u64)

	got := make([]byte, len(payload))
	require.NoError(t, r.ReadBytes(got))
	assert.Equal(t, payload, got)
}

func TestReadPastEnd(t *testing.T) {
	path := tempFile(t)
	w, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, w.WriteU8(1))
	require.NoError(t, w.Close())

	r, err := Open(path, 0)
	require.NoError(t, err)
	defer r.Close()

	_, err = r.ReadU8()
	require.NoError(t, err)
	_, err = r.ReadU64()
	assert.True(t, IsCode(err, ErrCodeRead), "truncated read surfaces as IO_READ, got %v", err)
}

func TestUnknownValueTag(t *testing.T) {
	path := tempFile(t)
	require.NoError(t, os.WriteFile(path, []byte{0xEE}, 0o644))

	r, err := Open(path, 0)
	require.NoError(t, err)
	defer r.Close()

	_, err = r.ReadValue()
	assert.True(t, IsCode(err, ErrCodeValueTag), "got %v", err)
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "absent.bin"), 0)
	assert.True(t, IsCode(err, ErrCodeOpen), "got %v", err)

	_, err = Create(filepath.Join(t.TempDir(), "no", "such", "dir", "f.bin"))
	assert.True(t, IsCode(err, ErrCodeOpen), "got %v", err)
}
