package store

import (
	"errors"
	"slices"

	"github.com/roach88/gtaf/internal/atom"
)

var (
	// ErrChunkSealed is returned by TemporalChunk.Append on a sealed chunk.
	// Hitting it from inside the store is a bug, not a recoverable state.
	ErrChunkSealed = errors.New("append to sealed temporal chunk")

	// ErrChunkAlreadySealed is returned by TemporalChunk.Seal when the
	// chunk was already sealed.
	ErrChunkAlreadySealed = errors.New("temporal chunk already sealed")
)

// ChunkMetadata tracks identity, LSN range, and sealing state for one chunk
// of a temporal stream. A stream is identified by (entity, tag); chunk ids
// are sequential within the stream.
type ChunkMetadata struct {
	ChunkId    uint64
	EntityId   atom.EntityId
	Tag        string
	StartLSN   atom.LSN
	EndLSN     atom.LSN
	CreatedAt  atom.Timestamp
	SealedAt   atom.Timestamp
	ValueCount int
	Sealed     bool
}

// TemporalChunk is a columnar bucket of temporal values. Three parallel
// columns of equal length hold values, timestamps, and LSNs in insertion
// order. While active the chunk accepts appends; once sealed the columns are
// immutable.
type TemporalChunk struct {
	meta       ChunkMetadata
	values     []atom.Value
	timestamps []atom.Timestamp
	lsns       []atom.LSN
}

// NewTemporalChunk creates an active chunk for a stream.
func NewTemporalChunk(chunkId uint64, entity atom.EntityId, tag string, startLSN atom.LSN, createdAt atom.Timestamp) *TemporalChunk {
	return &TemporalChunk{
		meta: ChunkMetadata{
			ChunkId:   chunkId,
			EntityId:  entity,
			Tag:       tag,
			StartLSN:  startLSN,
			EndLSN:    startLSN,
			CreatedAt: createdAt,
		},
	}
}

// Append adds one (value, timestamp, lsn) row to the columns.
func (c *TemporalChunk) Append(v atom.Value, ts atom.Timestamp, lsn atom.LSN) error {
	if c.meta.Sealed {
		return ErrChunkSealed
	}
	c.values = append(c.values, v)
	c.timestamps = append(c.timestamps, ts)
	c.lsns = append(c.lsns, lsn)
	c.meta.EndLSN = lsn
	c.meta.ValueCount = len(c.values)
	return nil
}

// ShouldSeal reports whether the chunk has reached the size threshold.
func (c *TemporalChunk) ShouldSeal(threshold int) bool {
	return c.meta.ValueCount >= threshold
}

// Seal makes the chunk immutable and trims the columns to exact length.
func (c *TemporalChunk) Seal(finalLSN atom.LSN, sealedAt atom.Timestamp) error {
	if c.meta.Sealed {
		return ErrChunkAlreadySealed
	}
	c.meta.Sealed = true
	c.meta.EndLSN = finalLSN
	c.meta.SealedAt = sealedAt
	c.values = slices.Clip(c.values)
	c.timestamps = slices.Clip(c.timestamps)
	c.lsns = slices.Clip(c.lsns)
	return nil
}

// Metadata returns the chunk metadata.
func (c *TemporalChunk) Metadata() ChunkMetadata { return c.meta }

// IsSealed reports whether the chunk is immutable.
func (c *TemporalChunk) IsSealed() bool { return c.meta.Sealed }

// ValueCount returns the number of rows stored.
func (c *TemporalChunk) ValueCount() int { return c.meta.ValueCount }

// Values returns the value column. Callers must not mutate it.
func (c *TemporalChunk) Values() []atom.Value { return c.values }

// Timestamps returns the timestamp column. Callers must not mutate it.
func (c *TemporalChunk) Timestamps() []atom.Timestamp { return c.timestamps }

// LSNs returns the LSN column. Callers must not mutate it.
func (c *TemporalChunk) LSNs() []atom.LSN { return c.lsns }
