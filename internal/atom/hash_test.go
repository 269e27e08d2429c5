package atom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentHashDeterminism(t *testing.T) {
	// Same inputs must produce the same id
	id1 := ContentHash("user.name", String("alice"))
	id2 := ContentHash("user.name", String("alice"))
	assert.Equal(t, id1, id2, "ContentHash must be deterministic")
	assert.False(t, id1.IsNil())
}

func TestContentHashChangesWithInput(t *testing.T) {
	id1 := ContentHash("user.name", String("alice"))
	id2 := ContentHash("user.email", String("alice")) // different tag
	id3 := ContentHash("user.name", String("bob"))    // different value
	id4 := ContentHash("user.name", Blob("alice"))    // different variant, same bytes

	assert.NotEqual(t, id1, id2, "different tags should produce different ids")
	assert.NotEqual(t, id1, id3, "different values should produce different ids")
	assert.NotEqual(t, id1, id4, "the discriminator must scope the type")
}

func TestContentHashAllVariants(t *testing.T) {
	target := EntityId{0xAA, 0x01}
	values := []Value{
		Null{},
		Bool(true),
		Bool(false),
		Int(-42),
		Float(3.14),
		String(""),
		String("hello"),
		FloatVec{},
		FloatVec{1.5, -2.25},
		Blob{},
		Blob{0x00, 0xFF},
		Edge{Target: target, Relation: "owns"},
	}

	seen := make(map[AtomId]Value, len(values))
	for _, v := range values {
		id := ContentHash("t", v)
		if prev, dup := seen[id]; dup {
			t.Fatalf("collision between %#v and %#v", prev, v)
		}
		seen[id] = v
	}
}

func TestContentHashEmptyLengthsDistinct(t *testing.T) {
	// Empty string, empty vector, and empty blob are distinct values even
	// though none contributes payload bytes.
	a := ContentHash("t", String(""))
	b := ContentHash("t", FloatVec{})
	c := ContentHash("t", Blob{})
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, b, c)
}

func TestContentHashStableBytes(t *testing.T) {
	// The hash is part of the persisted contract: repeated hashing must
	// render the same 32-character hex id.
	id := ContentHash("status", String("active"))
	again := ContentHash("status", String("active"))
	assert.Equal(t, id.String(), again.String())
	assert.Len(t, id.String(), 32)
}

func TestEdgeRelationBoundary(t *testing.T) {
	// The 16 target bytes are fixed width, so moving bytes between target
	// and relation must change the hash.
	t1 := EntityId{1}
	t2 := EntityId{2}
	id1 := ContentHash("link", Edge{Target: t1, Relation: "x"})
	id2 := ContentHash("link", Edge{Target: t2, Relation: "x"})
	id3 := ContentHash("link", Edge{Target: t1, Relation: "y"})
	assert.NotEqual(t, id1, id2)
	assert.NotEqual(t, id1, id3)
}
