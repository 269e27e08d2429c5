package harness

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/gtaf/internal/atom"
	"github.com/roach88/gtaf/internal/projection"
	"github.com/roach88/gtaf/internal/store"
	"github.com/roach88/gtaf/internal/testutil"
)

// Result holds everything a scenario run produced. The store stays
// available so tests can assert beyond the rendered trace.
type Result struct {
	Scenario *Scenario
	Store    *store.AtomStore
	Trace    []string

	// Entities maps symbolic names to their assigned ids, and Order
	// lists the names in order of first use.
	Entities map[string]atom.EntityId
	Order    []string
}

// Run executes a scenario against a fresh store with a deterministic
// clock. Timestamps start at a fixed epoch and advance one microsecond per
// sample, so repeated runs render identical traces.
func Run(sc *Scenario) (*Result, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	s := store.NewWithOptions(store.Options{
		ChunkSizeThreshold:     sc.ChunkSizeThreshold,
		SnapshotDeltaThreshold: sc.SnapshotDeltaThreshold,
		Clock:                  testutil.NewDeterministicClock(1_700_000_000_000_000, 1),
	})

	result := &Result{
		Scenario: sc,
		Store:    s,
		Entities: make(map[string]atom.EntityId),
	}
	result.Trace = append(result.Trace, "scenario: "+sc.Name)

	for i, step := range sc.Steps {
		entity := result.entityFor(step.Entity)
		class, _ := step.class()
		value, _ := step.value()

		lsn := s.NextLSN()
		uniqueBefore := s.GetStats().UniqueCanonicalAtoms
		snapsBefore := s.GetStats().SnapshotCount

		s.Append(entity, step.Tag, value, class)

		disposition := "new"
		if class == atom.ClassCanonical && s.GetStats().UniqueCanonicalAtoms == uniqueBefore {
			disposition = "dedup"
		}
		line := fmt.Sprintf("step %d: append %s %s %s=%s -> lsn=%d %s",
			i+1, class, step.Entity, step.Tag, atom.Format(value), lsn, disposition)
		if s.GetStats().SnapshotCount > snapsBefore {
			line += " snapshot"
		}
		result.Trace = append(result.Trace, line)
	}

	result.renderStats()
	result.renderTemporalStreams()
	result.renderProjections()
	return result, nil
}

func (r *Result) entityFor(name string) atom.EntityId {
	if id, ok := r.Entities[name]; ok {
		return id
	}
	id := testutil.Entity(byte(len(r.Order) + 1))
	r.Entities[name] = id
	r.Order = append(r.Order, name)
	return id
}

func (r *Result) renderStats() {
	st := r.Store.GetStats()
	r.Trace = append(r.Trace, fmt.Sprintf(
		"stats: atoms=%d canonical=%d unique=%d dedup_hits=%d entities=%d refs=%d snapshots=%d",
		st.TotalAtoms, st.CanonicalAtoms, st.UniqueCanonicalAtoms, st.DeduplicatedHits,
		st.TotalEntities, st.TotalReferences, st.SnapshotCount))
}

// renderTemporalStreams summarizes every temporal stream the scenario
// touched, in step order.
func (r *Result) renderTemporalStreams() {
	type stream struct{ entity, tag string }
	var order []stream
	seen := make(map[stream]bool)
	for _, step := range r.Scenario.Steps {
		if step.Class != "temporal" {
			continue
		}
		key := stream{step.Entity, step.Tag}
		if !seen[key] {
			seen[key] = true
			order = append(order, key)
		}
	}
	for _, st := range order {
		entity := r.Entities[st.entity]
		q := r.Store.QueryTemporalAll(entity, st.tag)
		sealed := len(r.Store.SealedChunks(entity, st.tag))
		active := 0
		if _, ok := r.Store.ActiveChunk(entity, st.tag); ok {
			active = 1
		}
		line := fmt.Sprintf("temporal %s %s: count=%d sealed=%d active=%d",
			st.entity, st.tag, q.TotalCount, sealed, active)
		if q.TotalCount > 0 {
			line += fmt.Sprintf(" first=%s last=%s",
				atom.Format(q.Values[0]), atom.Format(q.Values[q.TotalCount-1]))
		}
		r.Trace = append(r.Trace, line)
	}
}

// renderProjections prints each entity's projected state, tags sorted, in
// entity first-use order.
func (r *Result) renderProjections() {
	eng := projection.New(r.Store)
	for _, name := range r.Order {
		node := eng.Rebuild(r.Entities[name])
		props := node.GetAll()
		tags := make([]string, 0, len(props))
		for tag := range props {
			tags = append(tags, tag)
		}
		sort.Strings(tags)

		parts := make([]string, 0, len(tags))
		for _, tag := range tags {
			parts = append(parts, tag+"="+atom.Format(props[tag]))
		}
		r.Trace = append(r.Trace, fmt.Sprintf("project %s: %s", name, strings.Join(parts, " ")))
	}
}

// Rendered returns the trace as one newline-terminated string, the form
// compared against golden files.
func (r *Result) Rendered() string {
	return strings.Join(r.Trace, "\n") + "\n"
}
