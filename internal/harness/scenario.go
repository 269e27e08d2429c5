// Package harness provides a conformance harness for the atom engine.
//
// A scenario is a deterministic sequence of appends against a fresh store
// with a stepping clock. Running it produces a plain-text trace - one line
// per append with its LSN and disposition, followed by store stats,
// temporal stream summaries, and the projected state of every entity.
// Traces are compared against golden files, so any change to LSN
// allocation, deduplication, chunking, snapshotting, or projection shows up
// as a diff.
package harness

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/gtaf/internal/atom"
)

// Scenario defines a conformance scenario: engine thresholds plus an
// ordered list of appends. Entities are referred to by symbolic names
// ("E1", "cart-7"); the harness assigns each name a fixed id in order of
// first use so traces stay readable and stable.
type Scenario struct {
	// Name uniquely identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what the scenario exercises.
	Description string `yaml:"description,omitempty"`

	// ChunkSizeThreshold overrides the temporal seal threshold. Zero
	// keeps the engine default.
	ChunkSizeThreshold int `yaml:"chunk_size_threshold,omitempty"`

	// SnapshotDeltaThreshold overrides the mutable snapshot threshold.
	// Zero keeps the engine default.
	SnapshotDeltaThreshold int `yaml:"snapshot_delta_threshold,omitempty"`

	// Steps is the append sequence.
	Steps []Step `yaml:"steps"`
}

// Step is a single append: which entity, which tag, what value, which
// write discipline.
type Step struct {
	Entity string `yaml:"entity"`
	Tag    string `yaml:"tag"`
	Value  any    `yaml:"value"`
	Class  string `yaml:"class,omitempty"` // canonical (default), temporal, mutable
}

// LoadScenario reads a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return &sc, nil
}

// Validate checks that the scenario is runnable.
func (sc *Scenario) Validate() error {
	if sc.Name == "" {
		return fmt.Errorf("name must be set")
	}
	if len(sc.Steps) == 0 {
		return fmt.Errorf("at least one step is required")
	}
	for i, step := range sc.Steps {
		if step.Entity == "" {
			return fmt.Errorf("step %d: entity must be set", i+1)
		}
		if step.Tag == "" {
			return fmt.Errorf("step %d: tag must be set", i+1)
		}
		if _, err := step.class(); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
		if _, err := step.value(); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

func (s Step) class() (atom.Class, error) {
	switch s.Class {
	case "", "canonical":
		return atom.ClassCanonical, nil
	case "temporal":
		return atom.ClassTemporal, nil
	case "mutable":
		return atom.ClassMutable, nil
	default:
		return 0, fmt.Errorf("unknown class %q", s.Class)
	}
}

// value converts the YAML-decoded step value into an atom value. YAML
// integers arrive as int, floats as float64.
func (s Step) value() (atom.Value, error) {
	switch v := s.Value.(type) {
	case nil:
		return atom.Null{}, nil
	case bool:
		return atom.Bool(v), nil
	case int:
		return atom.Int(int64(v)), nil
	case int64:
		return atom.Int(v), nil
	case uint64:
		return atom.Int(int64(v)), nil
	case float64:
		return atom.Float(v), nil
	case string:
		return atom.String(v), nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", s.Value)
	}
}
