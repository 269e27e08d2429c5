package testutil

import "github.com/roach88/gtaf/internal/atom"

// Entity returns an entity id whose first byte is n and whose remaining
// bytes are zero. Handy for readable fixtures: Entity(1), Entity(2), ...
func Entity(n byte) atom.EntityId {
	var id atom.EntityId
	id[0] = n
	return id
}

// Entities returns ids Entity(1) through Entity(n).
func Entities(n int) []atom.EntityId {
	out := make([]atom.EntityId, n)
	for i := range out {
		out[i] = Entity(byte(i + 1))
	}
	return out
}
