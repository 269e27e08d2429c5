package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RunWithGolden executes a scenario and compares its rendered trace against
// testdata/<name>.golden. Regenerate golden files with:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, sc *Scenario) *Result {
	t.Helper()

	result, err := Run(sc)
	if err != nil {
		t.Fatalf("run scenario %s: %v", sc.Name, err)
	}

	g := goldie.New(t)
	g.Assert(t, sc.Name, []byte(result.Rendered()))
	return result
}
