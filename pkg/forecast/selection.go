package forecast

import (
	"sort"

	"github.com/weatherfordomb/street-condition-simulator/pkg/scenario"
	"github.com/weatherfordomb/street-condition-simulator/pkg/segment"
)

// Selector orders eligible candidates for funding. Implementations reorder
// the slice in place.
type Selector interface {
	Order(candidates []*segment.Segment)
}

// WorstFirst sorts by ascending latest condition, keeping input order on ties.
type WorstFirst struct{}

func (WorstFirst) Order(c []*segment.Segment) {
	sort.SliceStable(c, func(i, j int) bool {
		return c[i].Condition() < c[j].Condition()
	})
}

// Shuffled permutes candidates with the given source.
type Shuffled struct {
	Rand segment.Source
}

func (s Shuffled) Order(c []*segment.Segment) {
	s.Rand.Shuffle(len(c), func(i, j int) {
		c[i], c[j] = c[j], c[i]
	})
}

// SelectorFor returns the strategy for a scenario selection method.
func SelectorFor(m scenario.SelectionMethod, rng segment.Source) Selector {
	if m == scenario.Randomized {
		return Shuffled{Rand: rng}
	}
	return WorstFirst{}
}
