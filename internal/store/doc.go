// Package store implements the GTAF atom store: an append-only log of
// content-addressed facts with a per-entity reference index.
//
// One Append operation dispatches to three write disciplines:
//   - Canonical: content-addressed, globally deduplicated
//   - Temporal: chunked time-series columns, never deduplicated
//   - Mutable: stable id, in-place current value, delta log, periodic
//     snapshots emitted as Canonical atoms
//
// Every append allocates one strictly increasing LSN and records an
// (atom id, LSN) reference on the target entity. The reference list, in LSN
// order, is the authoritative per-entity history; the projection and index
// layers replay it.
//
// The store performs no internal locking. The caller is responsible for
// serialization; concurrent calls on the same store produce undefined
// results. The only blocking operations are the file I/O inside Save and
// Load.
//
// Persistence (Save/Load) covers content records, reference lists, and
// refcounts. Temporal chunk columns and mutable delta buffers are in-memory
// only: after Load, temporal-range queries for pre-restart streams return
// empty results until new appends arrive. The reference layer is sufficient
// to reconstruct current state via projection.
package store
