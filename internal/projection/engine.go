package projection

import (
	"github.com/roach88/gtaf/internal/atom"
	"github.com/roach88/gtaf/internal/store"
)

// Engine rebuilds Node projections from an atom store.
//
// The engine holds the store by reference for its lifetime and must not
// observe concurrent mutation; the caller serializes, as everywhere else in
// the core.
type Engine struct {
	store *store.AtomStore
}

// New creates a projection engine over a store.
func New(s *store.AtomStore) *Engine {
	return &Engine{store: s}
}

// Rebuild materializes the projection of one entity by replaying its
// reference list. An entity with no references yields an empty node.
func (e *Engine) Rebuild(entity atom.EntityId) *Node {
	node := NewNode(entity)
	refs, ok := e.store.GetEntityAtoms(entity)
	if !ok {
		return node
	}
	for _, ref := range refs {
		a, ok := e.store.GetAtom(ref.AtomId)
		if !ok {
			// Every reference points at a stored atom; a miss would be
			// a corrupted store.
			continue
		}
		node.Apply(a.Id, a.Tag, a.Value, ref.LSN)
	}
	return node
}

// RebuildAll materializes every entity at once. Peak memory is proportional
// to the whole dataset; prefer RebuildAllStreaming for large stores.
func (e *Engine) RebuildAll() map[atom.EntityId]*Node {
	entities := e.store.GetAllEntities()
	out := make(map[atom.EntityId]*Node, len(entities))
	for _, entity := range entities {
		out[entity] = e.Rebuild(entity)
	}
	return out
}

// RebuildAllStreaming rebuilds one entity at a time and hands each node to
// fn, dropping it afterward, so peak memory is bounded by a single node.
// Entities arrive in first-reference order. A non-nil error from fn stops
// the sweep and is returned.
//
// batchHint is advisory and currently unused; it exists so callers can
// express the granularity they can absorb without an interface change.
func (e *Engine) RebuildAllStreaming(batchHint int, fn func(*Node) error) error {
	_ = batchHint
	for _, entity := range e.store.GetAllEntities() {
		if err := fn(e.Rebuild(entity)); err != nil {
			return err
		}
	}
	return nil
}

// GetAllEntities delegates to the store.
func (e *Engine) GetAllEntities() []atom.EntityId {
	return e.store.GetAllEntities()
}
