package forecast

import (
	"fmt"
	"log"

	"github.com/weatherfordomb/street-condition-simulator/pkg/scenario"
	"github.com/weatherfordomb/street-condition-simulator/pkg/segment"
)

// Loader builds a fresh segment collection for one repetition.
type Loader func() ([]*segment.Segment, error)

// Result is one repetition of a scenario.
type Result struct {
	Iteration  int        `json:"iteration"`
	Conditions []Snapshot `json:"conditions"`
	Summaries  []Summary  `json:"summaries"`
}

// RunIterations repeats a scenario sc.Iterations times, each on a newly
// loaded segment collection.
func RunIterations(sc *scenario.Scenario, load Loader, opts ...Option) ([]Result, error) {
	results := make([]Result, 0, sc.Iterations)
	for i := 0; i < sc.Iterations; i++ {
		segs, err := load()
		if err != nil {
			return results, fmt.Errorf("iteration %d: loading segments: %w", i, err)
		}
		conditions, summaries, err := New(segs, sc, opts...).Run()
		if err != nil {
			return results, fmt.Errorf("iteration %d: %w", i, err)
		}
		results = append(results, Result{Iteration: i, Conditions: conditions, Summaries: summaries})
		log.Printf("completed iteration %d of %d (%s)", i+1, sc.Iterations, sc.Name)
	}
	return results, nil
}
