package store

import (
	"time"

	"github.com/roach88/gtaf/internal/atom"
)

// Clock supplies append timestamps. The default is the wall clock; tests
// substitute a deterministic implementation so saved files and golden traces
// are byte-stable.
//
// Timestamps are advisory: ordering inside the store is always by LSN.
type Clock interface {
	Now() atom.Timestamp
}

type systemClock struct{}

func (systemClock) Now() atom.Timestamp {
	return atom.Timestamp(time.Now().UnixMicro())
}

// SystemClock returns the wall-clock implementation used by default.
func SystemClock() Clock {
	return systemClock{}
}
