// Package projection rebuilds entity state from the atom store.
//
// A Node is a derived view of one entity obtained by replaying its reference
// list in LSN order: per tag the reference with the largest LSN wins, and
// every reference lands in the node's history. Nodes own their state and
// stay valid independently of the store after construction.
package projection

import "github.com/roach88/gtaf/internal/atom"

// Node is the projected state of a single entity.
type Node struct {
	entity  atom.EntityId
	latest  map[string]nodeEntry
	history []atom.Ref
}

type nodeEntry struct {
	atomId atom.AtomId
	value  atom.Value
	lsn    atom.LSN
}

// NewNode creates an empty projection for an entity.
func NewNode(entity atom.EntityId) *Node {
	return &Node{
		entity: entity,
		latest: make(map[string]nodeEntry),
	}
}

// EntityId returns the entity this node projects.
func (n *Node) EntityId() atom.EntityId {
	return n.entity
}

// Apply folds one reference into the node: the per-tag slot updates if the
// LSN beats the current holder, and the reference is appended to history
// unconditionally.
func (n *Node) Apply(id atom.AtomId, tag string, value atom.Value, lsn atom.LSN) {
	if cur, ok := n.latest[tag]; !ok || lsn > cur.lsn {
		n.latest[tag] = nodeEntry{atomId: id, value: value, lsn: lsn}
	}
	n.history = append(n.history, atom.Ref{AtomId: id, LSN: lsn})
}

// LatestAtom returns the id of the winning atom for a tag, or false if the
// tag has never been observed.
func (n *Node) LatestAtom(tag string) (atom.AtomId, bool) {
	e, ok := n.latest[tag]
	return e.atomId, ok
}

// Get returns the value of the winning atom for a tag, or false if the tag
// has never been observed.
func (n *Node) Get(tag string) (atom.Value, bool) {
	e, ok := n.latest[tag]
	return e.value, ok
}

// GetAll returns one entry per tag with any observed value. The map is a
// fresh copy owned by the caller.
func (n *Node) GetAll() map[string]atom.Value {
	out := make(map[string]atom.Value, len(n.latest))
	for tag, e := range n.latest {
		out[tag] = e.value
	}
	return out
}

// History returns every applied reference in LSN order. The slice is
// borrowed from the node; callers must not mutate it.
func (n *Node) History() []atom.Ref {
	return n.history
}

// Tags returns the number of tags with an observed value.
func (n *Node) Tags() int {
	return len(n.latest)
}
