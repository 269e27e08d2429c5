package queryindex

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gtaf/internal/atom"
	"github.com/roach88/gtaf/internal/projection"
	"github.com/roach88/gtaf/internal/store"
	"github.com/roach88/gtaf/internal/testutil"
)

func newStore() *store.AtomStore {
	return store.NewWithOptions(store.Options{
		Clock: testutil.NewDeterministicClock(1_700_000_000_000_000, 1),
	})
}

func TestBuildIndexAndLookups(t *testing.T) {
	s := newStore()
	e1 := testutil.Entity(1)
	e2 := testutil.Entity(2)
	e3 := testutil.Entity(3)

	s.Append(e1, "user.name", atom.String("Alice"), atom.ClassCanonical)
	s.Append(e2, "user.name", atom.String("Bob"), atom.ClassCanonical)
	s.Append(e3, "user.name", atom.String("alice cooper"), atom.ClassCanonical)

	ix := New(s)
	n := ix.BuildIndex("user.name")
	assert.Equal(t, 3, n)
	assert.True(t, ix.IsIndexed("user.name"))
	assert.False(t, ix.IsIndexed("user.email"))

	assert.Equal(t, []atom.EntityId{e1}, ix.FindEquals("user.name", "Alice"))
	assert.Empty(t, ix.FindEquals("user.name", "alice"), "FindEquals is case-sensitive")

	got := ix.FindContains("user.name", "ALICE")
	assert.Equal(t, []atom.EntityId{e1, e3}, got, "FindContains is ASCII case-insensitive")

	v, ok := ix.GetString("user.name", e2)
	require.True(t, ok)
	assert.Equal(t, "Bob", v)
	_, ok = ix.GetString("user.name", testutil.Entity(9))
	assert.False(t, ok)
}

func TestLatestStringWins(t *testing.T) {
	s := newStore()
	e := testutil.Entity(1)
	s.Append(e, "status", atom.String("active"), atom.ClassCanonical)
	s.Append(e, "status", atom.String("inactive"), atom.ClassCanonical)

	ix := New(s)
	ix.BuildIndex("status")
	v, _ := ix.GetString("status", e)
	assert.Equal(t, "inactive", v)
}

func TestNonStringValuesOmitted(t *testing.T) {
	s := newStore()
	e1 := testutil.Entity(1)
	e2 := testutil.Entity(2)
	s.Append(e1, "score", atom.String("10"), atom.ClassCanonical)
	s.Append(e2, "score", atom.Int(10), atom.ClassCanonical)

	ix := New(s)
	n := ix.BuildIndex("score")
	assert.Equal(t, 1, n, "non-string values are silently omitted")
	_, ok := ix.GetString("score", e2)
	assert.False(t, ok)
}

func TestFindIntWhere(t *testing.T) {
	s := newStore()
	for i, e := range testutil.Entities(5) {
		s.Append(e, "qty", atom.String(fmt.Sprintf("%d", i*10)), atom.ClassCanonical)
	}
	// An unparseable entry is skipped silently.
	bad := testutil.Entity(9)
	s.Append(bad, "qty", atom.String("lots"), atom.ClassCanonical)

	ix := New(s)
	ix.BuildIndex("qty")

	got := ix.FindIntWhere("qty", func(n int64) bool { return n >= 20 })
	assert.Equal(t, []atom.EntityId{testutil.Entity(3), testutil.Entity(4), testutil.Entity(5)}, got)

	all := ix.FindIntWhere("qty", func(int64) bool { return true })
	assert.Len(t, all, 5, "the unparseable entry never reaches the predicate")
}

func TestUnindexedTagQueries(t *testing.T) {
	ix := New(newStore())
	assert.Empty(t, ix.FindEquals("none", "x"))
	assert.Empty(t, ix.FindContains("none", "x"))
	assert.Empty(t, ix.FindIntWhere("none", func(int64) bool { return true }))
	_, ok := ix.GetString("none", testutil.Entity(1))
	assert.False(t, ok)
}

func TestRebuildReplacesIndex(t *testing.T) {
	s := newStore()
	e := testutil.Entity(1)
	s.Append(e, "status", atom.String("active"), atom.ClassCanonical)

	ix := New(s)
	ix.BuildIndex("status")

	s.Append(e, "status", atom.String("gone"), atom.ClassCanonical)
	ix.BuildIndex("status")

	v, _ := ix.GetString("status", e)
	assert.Equal(t, "gone", v)
	assert.Equal(t, 1, ix.GetStats().TotalEntries, "rebuild fully replaces prior contents")
}

func TestBuildIdempotent(t *testing.T) {
	s := newStore()
	for _, e := range testutil.Entities(3) {
		s.Append(e, "t", atom.String("v"), atom.ClassCanonical)
	}
	ix := New(s)
	n1 := ix.BuildIndexes([]string{"t"})
	n2 := ix.BuildIndexes([]string{"t"})
	assert.Equal(t, n1, n2)
	assert.Equal(t, 3, n2)
}

func TestStats(t *testing.T) {
	s := newStore()
	for _, e := range testutil.Entities(4) {
		s.Append(e, "a", atom.String("x"), atom.ClassCanonical)
	}
	s.Append(testutil.Entity(1), "b", atom.String("y"), atom.ClassCanonical)

	ix := New(s)
	ix.BuildIndexes([]string{"a", "b"})
	st := ix.GetStats()
	assert.Equal(t, 2, st.NumIndexedTags)
	assert.Equal(t, 4, st.NumIndexedEntities, "largest per-tag entity count")
	assert.Equal(t, 5, st.TotalEntries)
}

func TestSingleAtomStore(t *testing.T) {
	s := newStore()
	e := testutil.Entity(1)
	s.Append(e, "only", atom.String("one"), atom.ClassCanonical)

	ix := New(s)
	assert.Equal(t, 1, ix.BuildIndex("only"))
	assert.Equal(t, []atom.EntityId{e}, s.GetAllEntities())
}

func TestDirectAndProjectionPathsAgree(t *testing.T) {
	s := newStore()

	// 50 entities, ten distinct string properties each, with some
	// overwrites and some non-string noise.
	entities := testutil.Entities(50)
	for i, e := range entities {
		for p := 0; p < 10; p++ {
			tag := fmt.Sprintf("prop.%d", p)
			s.Append(e, tag, atom.String(fmt.Sprintf("v-%d-%d", i, p)), atom.ClassCanonical)
		}
		if i%7 == 0 {
			s.Append(e, "prop.1", atom.String("rewritten"), atom.ClassCanonical)
		}
		if i%11 == 0 {
			s.Append(e, "prop.2", atom.Int(int64(i)), atom.ClassCanonical)
		}
	}

	tags := []string{"prop.0", "prop.1", "prop.2"}

	direct := New(s)
	direct.BuildIndexes(tags)

	viaProjection := NewFromProjection(projection.New(s))
	viaProjection.BuildIndexes(tags)

	for _, tag := range tags {
		assert.Equal(t, direct.Entries(tag), viaProjection.Entries(tag), "tag %s", tag)
	}

	assert.Equal(t,
		direct.FindEquals("prop.1", "rewritten"),
		viaProjection.FindEquals("prop.1", "rewritten"))
	assert.Equal(t,
		direct.FindContains("prop.0", "V-1"),
		viaProjection.FindContains("prop.0", "V-1"))
}

func TestDirectPathSeesLatestMutableValue(t *testing.T) {
	s := newStore()
	e := testutil.Entity(1)
	s.Append(e, "label", atom.String("first"), atom.ClassMutable)
	s.Append(e, "label", atom.String("second"), atom.ClassMutable)

	direct := New(s)
	direct.BuildIndex("label")
	viaProjection := NewFromProjection(projection.New(s))
	viaProjection.BuildIndex("label")

	v, ok := direct.GetString("label", e)
	require.True(t, ok)
	assert.Equal(t, "second", v)
	assert.Equal(t, direct.Entries("label"), viaProjection.Entries("label"))
}
